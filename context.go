package funding

import (
	"context"
	"time"

	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// Context is just the request-scoped context.Context. Extensions read block
// information from it and the authenticator implementations store their
// conditions in it.
//
// For every value XYZ of type T that the framework supports there are two
// functions:
//
//	WithXYZ(Context, T) Context
//	GetXYZ(Context) (val T, ok bool)
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyTime
	contextKeyChainID
)

// WithHeight sets the block height for the Context.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height, if set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the block time for the Context. The time of the
// currently processed block is the only reliable "now" a deterministic
// application can use.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t)
}

// BlockTime returns the current block time, if set.
func BlockTime(ctx Context) (time.Time, bool) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	return val, ok
}

// WithChainID sets the chain id for the Context.
func WithChainID(ctx Context, chainID string) Context {
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id, if set.
func GetChainID(ctx Context) (string, bool) {
	val, ok := ctx.Value(contextKeyChainID).(string)
	return val, ok
}

// IsExpired returns true if given time is in the past as compared to the
// "now" of the processed block. Expiration is inclusive, meaning that if
// block time is equal to the expiration time then this function returns
// true.
func IsExpired(ctx Context, t UnixTime) (bool, error) {
	blockNow, ok := BlockTime(ctx)
	if !ok {
		return false, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return t <= AsUnixTime(blockNow), nil
}
