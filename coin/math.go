package coin

import (
	"math/bits"

	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// Add64 adds two uint64 numbers. If the result overflows the uint64 range
// ErrOverflow is returned.
func Add64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// Mul64 multiplies two uint64 numbers. If the result overflows the uint64
// range ErrOverflow is returned.
func Mul64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return lo, nil
}

// MulDiv64 returns floor(a*b/div). The intermediate product is computed in
// 128 bits, so the operation succeeds whenever the final quotient fits a
// uint64. Division by zero and a quotient overflow are both rejected with an
// error.
func MulDiv64(a, b, div uint64) (uint64, error) {
	if div == 0 {
		return 0, errors.Wrap(errors.ErrInput, "division by zero")
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d / %d", a, b, div)
	}
	quo, _ := bits.Div64(hi, lo, div)
	return quo, nil
}
