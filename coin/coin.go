// Package coin provides a fixed denomination token amount representation.
//
// Amounts are unsigned integers counted in the smallest unit of the
// denomination. There are no fractional units and no floating point anywhere,
// every operation is exact or fails with ErrOverflow.
package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// IsDenom is the RegExp to ensure valid denomination names.
var IsDenom = regexp.MustCompile(`^[a-z]{3,10}$`).MatchString

// Coin is an amount of tokens in the smallest unit of a single denomination.
type Coin struct {
	Amount uint64 `json:"amount"`
	Denom  string `json:"denom"`
}

// NewCoin creates a new coin object.
func NewCoin(amount uint64, denom string) Coin {
	return Coin{
		Amount: amount,
		Denom:  denom,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, denom string) *Coin {
	c := NewCoin(amount, denom)
	return &c
}

// Add combines two coins. Returns an error if they are of different
// denominations, or if the combination would cause an overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	// If any of the coins represents no value and does not have a
	// denomination set then it has no influence on the addition result.
	if c.Denom == "" && c.IsZero() {
		return o, nil
	}
	if o.Denom == "" && o.IsZero() {
		return c, nil
	}

	if !c.SameDenom(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Denom, c.Denom)
	}
	total, err := Add64(c.Amount, o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Amount: total, Denom: c.Denom}, nil
}

// Subtract given amount. Returns an error on a denomination mismatch or if
// the result would drop below zero, as negative amounts cannot be
// represented.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.Denom == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameDenom(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Denom, c.Denom)
	}
	if c.Amount < o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrAmount, "cannot subtract %d from %d", o.Amount, c.Amount)
	}
	return Coin{Amount: c.Amount - o.Amount, Denom: c.Denom}, nil
}

// IsZero returns true if the amount is 0.
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the amount is greater than 0.
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is of the same denomination and at least as large
// as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameDenom(o) && c.Amount >= o.Amount
}

// SameDenom returns true if both coins have the same denomination.
func (c Coin) SameDenom(o Coin) bool {
	return c.Denom == o.Denom
}

// Equals returns true if all fields are identical.
func (c Coin) Equals(o Coin) bool {
	return c.Denom == o.Denom && c.Amount == o.Amount
}

// Clone provides an independent copy of a coin pointer.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	return &Coin{Amount: c.Amount, Denom: c.Denom}
}

// Validate ensures the denomination is a valid name.
func (c Coin) Validate() error {
	if !IsDenom(c.Denom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid denomination: %q", c.Denom)
	}
	return nil
}

// String provides a human readable representation of the coin, for example
// "1200 ucosm".
func (c Coin) String() string {
	if c.Denom == "" {
		return strconv.FormatUint(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Denom)
}

// ParseHumanFormat parses a human readable coin representation. Accepted
// format is "<amount> <denom>".
func ParseHumanFormat(h string) (Coin, error) {
	chunks := strings.Fields(h)
	if len(chunks) != 2 {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format: %q", h)
	}
	amount, err := strconv.ParseUint(chunks[0], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid amount: %s", err)
	}
	c := Coin{Amount: amount, Denom: chunks[1]}
	if err := c.Validate(); err != nil {
		return Coin{}, err
	}
	return c, nil
}

// UnmarshalJSON accepts a coin serialized either as an object or as a human
// readable string, for example "1200 ucosm". The string form is convenient
// in genesis files.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	if len(raw) > 0 && raw[0] == '"' {
		var human string
		if err := json.Unmarshal(raw, &human); err != nil {
			return err
		}
		val, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = val
		return nil
	}
	var obj struct {
		Amount uint64 `json:"amount"`
		Denom  string `json:"denom"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	c.Amount = obj.Amount
	c.Denom = obj.Denom
	return nil
}

// Set updates this coin value to what is provided. This method implements
// the flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
