package cash

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// Controller is the functionality needed by other handlers to move tokens
// around. This is implemented here and exposed as an interface on the
// consumer side, so the token logic stays in one place.
type Controller struct {
	bucket Bucket
}

// NewController returns a controller that keeps all wallets in the given
// bucket.
func NewController(bucket Bucket) Controller {
	return Controller{bucket: bucket}
}

// Balance returns the amount the given address holds in the given
// denomination. Unknown addresses hold zero.
func (c Controller) Balance(db funding.ReadOnlyKVStore, addr funding.Address, denom string) (coin.Coin, error) {
	w, err := c.bucket.GetWallet(db, addr)
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "get wallet")
	}
	if w == nil {
		return coin.Coin{Denom: denom}, nil
	}
	return w.Balance(denom), nil
}

// MoveCoins transfers the given amount from the source to the destination
// address. It fails on insufficient funds and leaves the state untouched in
// that case.
func (c Controller) MoveCoins(db funding.KVStore, src, dest funding.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "cannot move a zero amount")
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	sender, err := c.bucket.GetWallet(db, src)
	if err != nil {
		return errors.Wrap(err, "source wallet")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "no wallet for %s", src)
	}
	if err := sender.Subtract(amount); err != nil {
		return errors.Wrapf(err, "wallet of %s", src)
	}

	recipient, err := c.bucket.GetWallet(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination wallet")
	}
	if recipient == nil {
		recipient = &Wallet{}
	}
	if err := recipient.Add(amount); err != nil {
		return errors.Wrapf(err, "wallet of %s", dest)
	}

	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "save source")
	}
	return errors.Wrap(c.bucket.Save(db, dest, recipient), "save destination")
}

// IssueCoins attempts to add the given amount of coins to the destination
// address, minting them out of nowhere. To be used in the genesis setup only.
func (c Controller) IssueCoins(db funding.KVStore, dest funding.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	recipient, err := c.bucket.GetWallet(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination wallet")
	}
	if recipient == nil {
		recipient = &Wallet{}
	}
	if err := recipient.Add(amount); err != nil {
		return errors.Wrapf(err, "wallet of %s", dest)
	}
	return errors.Wrap(c.bucket.Save(db, dest, recipient), "save destination")
}
