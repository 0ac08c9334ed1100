package cash

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ funding.Initializer = (*Initializer)(nil)

// FromGenesis initializes the wallets from the "cash" genesis section. The
// expected format is a list of objects with an address and its coins:
//
//	"cash": [
//	  {"address": "cond:sig/ed25519/636f6e646974696f6e64617461", "coins": ["50000 ucosm"]}
//	]
func (Initializer) FromGenesis(opts funding.Options, db funding.KVStore) error {
	accounts := []struct {
		Address funding.Address `json:"address"`
		Coins   []coin.Coin     `json:"coins"`
	}{}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return errors.Wrap(err, "read cash genesis")
	}
	ctrl := NewController(NewBucket())
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d address", i)
		}
		for _, c := range a.Coins {
			if err := ctrl.IssueCoins(db, a.Address, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
