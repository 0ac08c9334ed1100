package cash

import (
	"sort"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
	"github.com/JakeHartnell/cw-quadratic-funding/orm"
)

// Wallet is the actual object that we want to pass around in our code. It
// holds the balances of a single address, one entry per denomination, sorted
// by denomination so that the serialized form is deterministic.
type Wallet struct {
	Coins []*coin.Coin
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires that all coins are in a valid denomination and listed
// at most once.
func (w *Wallet) Validate() error {
	seen := make(map[string]struct{}, len(w.Coins))
	for i, c := range w.Coins {
		if c == nil {
			return errors.Wrapf(errors.ErrModel, "nil coin at position %d", i)
		}
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "coin %d", i)
		}
		if _, ok := seen[c.Denom]; ok {
			return errors.Wrapf(errors.ErrModel, "duplicate denomination %q", c.Denom)
		}
		seen[c.Denom] = struct{}{}
	}
	return nil
}

// Balance returns the amount held in the given denomination. A denomination
// that was never received reports a zero balance.
func (w *Wallet) Balance(denom string) coin.Coin {
	for _, c := range w.Coins {
		if c.Denom == denom {
			return *c
		}
	}
	return coin.Coin{Denom: denom}
}

// Add accumulates the given amount in this wallet. The operation fails on an
// amount overflow.
func (w *Wallet) Add(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, have := range w.Coins {
		if have.Denom == c.Denom {
			total, err := have.Add(c)
			if err != nil {
				return err
			}
			*have = total
			return nil
		}
	}
	w.Coins = append(w.Coins, c.Clone())
	sort.Slice(w.Coins, func(i, j int) bool {
		return w.Coins[i].Denom < w.Coins[j].Denom
	})
	return nil
}

// Subtract removes the given amount from this wallet. The operation fails if
// the balance is insufficient.
func (w *Wallet) Subtract(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for i, have := range w.Coins {
		if have.Denom == c.Denom {
			rest, err := have.Subtract(c)
			if err != nil {
				return err
			}
			if rest.IsZero() {
				w.Coins = append(w.Coins[:i], w.Coins[i+1:]...)
			} else {
				*have = rest
			}
			return nil
		}
	}
	return errors.Wrapf(errors.ErrAmount, "no %s in the wallet", c.Denom)
}

// NewBucket returns a bucket for keeping the wallets, keyed by the owner
// address.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("cash"),
	}
}

// Bucket is a type-safe wrapper around the generic orm bucket.
type Bucket struct {
	orm.Bucket
}

// GetWallet returns the wallet of the given address, or nil if the address
// holds no funds.
func (b Bucket) GetWallet(db funding.ReadOnlyKVStore, addr funding.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Save persists the wallet of the given address. Empty wallets are stored as
// well, removing an entry is not worth the special casing.
func (b Bucket) Save(db funding.KVStore, addr funding.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	return b.Put(db, addr, w)
}
