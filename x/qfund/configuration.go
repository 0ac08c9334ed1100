package qfund

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
	"github.com/JakeHartnell/cw-quadratic-funding/gconf"
)

// Configuration is the round wide setup, stored as a gconf singleton. It is
// written once from the genesis and read by every handler.
type Configuration struct {
	// Admin is the only address allowed to trigger the distribution.
	Admin funding.Address `json:"admin"`

	// LeftoverAddress receives whatever the floor division left of the
	// budget.
	LeftoverAddress funding.Address `json:"leftover_address"`

	// CreateProposalWhitelist restricts who may create proposals. An
	// empty list means anyone can.
	CreateProposalWhitelist []funding.Address `json:"create_proposal_whitelist,omitempty"`

	// VoteWhitelist restricts who may vote. An empty list means anyone
	// can.
	VoteWhitelist []funding.Address `json:"vote_whitelist,omitempty"`

	// ProposalDeadline is the moment proposal creation closes.
	ProposalDeadline funding.UnixTime `json:"proposal_deadline"`

	// VotingDeadline is the moment voting closes. The distribution can
	// only be triggered after it.
	VotingDeadline funding.UnixTime `json:"voting_deadline"`

	// BudgetDenom is the denomination of the round. All votes and the
	// budget are in this token.
	BudgetDenom string `json:"budget_denom"`

	// Budget is the matching capital pool. Nil means unconstrained, the
	// raw scores are distributed verbatim.
	Budget *uint64 `json:"budget,omitempty"`

	// Algorithm selects the matching formula.
	Algorithm Algorithm `json:"algorithm"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := c.LeftoverAddress.Validate(); err != nil {
		return errors.Wrap(err, "leftover address")
	}
	for i, a := range c.CreateProposalWhitelist {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "create proposal whitelist %d", i)
		}
	}
	for i, a := range c.VoteWhitelist {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "vote whitelist %d", i)
		}
	}
	if err := c.ProposalDeadline.Validate(); err != nil {
		return errors.Wrap(err, "proposal deadline")
	}
	if c.ProposalDeadline == 0 {
		return errors.Wrap(errors.ErrModel, "proposal deadline is required")
	}
	if err := c.VotingDeadline.Validate(); err != nil {
		return errors.Wrap(err, "voting deadline")
	}
	if c.VotingDeadline < c.ProposalDeadline {
		return errors.Wrap(errors.ErrModel, "voting deadline before proposal deadline")
	}
	if !coin.IsDenom(c.BudgetDenom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid budget denomination: %q", c.BudgetDenom)
	}
	if err := c.Algorithm.Validate(); err != nil {
		return errors.Wrap(err, "algorithm")
	}
	return nil
}

// mustLoadConf returns the round configuration from the database. The
// configuration is written during the genesis, a missing one is a fatal
// setup error.
func mustLoadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "qfund", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
