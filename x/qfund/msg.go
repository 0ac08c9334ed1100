package qfund

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

const (
	pathCreateProposal = "qfund/create_proposal"
	pathVote           = "qfund/vote"
	pathDistribute     = "qfund/distribute"
)

// CreateProposalMsg registers a new funding target for the round.
type CreateProposalMsg struct {
	Title       string
	Description string
	Metadata    string
	FundAddress funding.Address
}

var _ funding.Msg = (*CreateProposalMsg)(nil)

// Path returns the routing path for this message.
func (CreateProposalMsg) Path() string {
	return pathCreateProposal
}

// Validate ensures the message makes sense on its own, without any state.
func (m *CreateProposalMsg) Validate() error {
	if m.Title == "" {
		return errors.Wrap(errors.ErrMsg, "title is required")
	}
	if m.Description == "" {
		return errors.Wrap(errors.ErrMsg, "description is required")
	}
	if err := m.FundAddress.Validate(); err != nil {
		return errors.Wrap(err, "fund address")
	}
	return nil
}

// VoteMsg contributes funds to a proposal. The funds are moved from the
// voter to the round account and counted towards the proposal's matching
// score.
type VoteMsg struct {
	ProposalID []byte
	Funds      coin.Coin
}

var _ funding.Msg = (*VoteMsg)(nil)

// Path returns the routing path for this message.
func (VoteMsg) Path() string {
	return pathVote
}

// Validate ensures the message makes sense on its own, without any state.
func (m *VoteMsg) Validate() error {
	if len(m.ProposalID) != 8 {
		return errors.Wrap(errors.ErrMsg, "proposal id must be 8 bytes")
	}
	if err := m.Funds.Validate(); err != nil {
		return errors.Wrap(err, "funds")
	}
	if !m.Funds.IsPositive() {
		return errors.Wrap(errors.ErrMsg, "funds must be positive")
	}
	return nil
}

// DistributeMsg triggers the matching distribution. Only the round admin can
// issue it, and only once the voting window is over.
type DistributeMsg struct {
}

var _ funding.Msg = (*DistributeMsg)(nil)

// Path returns the routing path for this message.
func (DistributeMsg) Path() string {
	return pathDistribute
}

// Validate has nothing to check, the message carries no payload.
func (*DistributeMsg) Validate() error {
	return nil
}
