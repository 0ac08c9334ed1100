package fundingtest

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
)

// Auth is a mock implementing the x.Authenticator interface. It authorizes
// a fixed set of conditions, regardless of the context.
//
// Use Signer for a single condition, Signers when more than one is needed.
type Auth struct {
	// Signer is returned if no Signers are set.
	Signer funding.Condition
	// Signers take priority over Signer.
	Signers []funding.Condition
}

func (a *Auth) signers() []funding.Condition {
	if len(a.Signers) > 0 {
		return a.Signers
	}
	if a.Signer != nil {
		return []funding.Condition{a.Signer}
	}
	return nil
}

func (a *Auth) GetConditions(funding.Context) []funding.Condition {
	return a.signers()
}

func (a *Auth) HasAddress(_ funding.Context, addr funding.Address) bool {
	for _, s := range a.signers() {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing the x.Authenticator interface. Unlike Auth
// it reads the conditions from the context, so a single authenticator
// instance can serve many actors in one test.
type CtxAuth struct {
	// Key under which the conditions are stored in the context.
	Key string
}

type ctxAuthKey struct{ key string }

// SetConditions stores the given conditions in the context.
func (a *CtxAuth) SetConditions(ctx funding.Context, perms ...funding.Condition) funding.Context {
	return withValue(ctx, ctxAuthKey{key: a.Key}, perms)
}

func (a *CtxAuth) GetConditions(ctx funding.Context) []funding.Condition {
	val := ctx.Value(ctxAuthKey{key: a.Key})
	if val == nil {
		return nil
	}
	return val.([]funding.Condition)
}

func (a *CtxAuth) HasAddress(ctx funding.Context, addr funding.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
