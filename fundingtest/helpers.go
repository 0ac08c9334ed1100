package fundingtest

import (
	"context"
	"encoding/binary"
	"fmt"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
)

// NewCondition returns a test condition with a unique payload. Each call
// returns a different condition, and therefore a different address.
func NewCondition() funding.Condition {
	conditionCounter++
	data := fmt.Sprintf("%08d", conditionCounter)
	return funding.NewCondition("test", "mock", []byte(data))
}

var conditionCounter int

// SequenceID returns an 8 byte binary representation of the given sequence
// value, as produced by the orm sequence counter.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func withValue(ctx funding.Context, key, value interface{}) funding.Context {
	return context.WithValue(ctx, key, value)
}
