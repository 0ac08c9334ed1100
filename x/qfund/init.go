package qfund

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
	"github.com/JakeHartnell/cw-quadratic-funding/gconf"
)

// Minter can create tokens out of nowhere. Used during the genesis to place
// the matching budget on the round account.
type Minter interface {
	IssueCoins(db funding.KVStore, dest funding.Address, amount coin.Coin) error
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Minter Minter
}

var _ funding.Initializer = (*Initializer)(nil)

// FromGenesis reads the round configuration from the "conf.qfund" genesis
// section and funds the round account with the matching budget.
func (i *Initializer) FromGenesis(opts funding.Options, db funding.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, "qfund", &conf); err != nil {
		return errors.Wrap(err, "init config")
	}
	if conf.Budget != nil && *conf.Budget > 0 {
		budget := coin.NewCoin(*conf.Budget, conf.BudgetDenom)
		if err := i.Minter.IssueCoins(db, RoundAccount(), budget); err != nil {
			return errors.Wrap(err, "fund the round account")
		}
	}
	return nil
}
