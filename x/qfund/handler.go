package qfund

import (
	"fmt"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
	"github.com/JakeHartnell/cw-quadratic-funding/x"
)

const (
	createProposalCost int64 = 300
	voteCost           int64 = 100
	distributeCost     int64 = 0
)

// CashController allows the handlers to check balances, move tokens and mint
// the matching funds of a round that runs without a budget. It is implemented
// by x/cash.
type CashController interface {
	Balance(db funding.ReadOnlyKVStore, addr funding.Address, denom string) (coin.Coin, error)
	MoveCoins(db funding.KVStore, src, dest funding.Address, amount coin.Coin) error
	IssueCoins(db funding.KVStore, dest funding.Address, amount coin.Coin) error
}

// RoundCondition is the condition controlling the round pool account.
func RoundCondition() funding.Condition {
	return funding.NewCondition("qfund", "round", []byte("pool"))
}

// RoundAccount is the address holding the matching budget and all
// contributed funds until the distribution.
func RoundAccount() funding.Address {
	return RoundCondition().Address()
}

// RegisterRoutes registers handlers for the round message processing.
func RegisterRoutes(r funding.Registry, auth x.Authenticator, ctrl CashController) {
	proposals := NewProposalBucket()
	votes := NewVoteBucket()
	rounds := NewRoundStateBucket()

	r.Handle(pathCreateProposal, &createProposalHandler{
		auth:      auth,
		proposals: proposals,
	})
	r.Handle(pathVote, &voteHandler{
		auth:      auth,
		ctrl:      ctrl,
		proposals: proposals,
		votes:     votes,
	})
	r.Handle(pathDistribute, &distributeHandler{
		auth:      auth,
		ctrl:      ctrl,
		proposals: proposals,
		votes:     votes,
		rounds:    rounds,
	})
}

// RegisterQuery registers the proposal and vote buckets for queries.
func RegisterQuery(qr funding.QueryRouter) {
	NewProposalBucket().Register("proposals", qr)
	NewVoteBucket().Register("votes", qr)
}

// whitelisted returns true if the whitelist is empty or any of the listed
// addresses authorized the transaction.
func whitelisted(ctx funding.Context, auth x.Authenticator, list []funding.Address) bool {
	if len(list) == 0 {
		return true
	}
	for _, a := range list {
		if auth.HasAddress(ctx, a) {
			return true
		}
	}
	return false
}

type createProposalHandler struct {
	auth      x.Authenticator
	proposals *ProposalBucket
}

var _ funding.Handler = (*createProposalHandler)(nil)

func (h *createProposalHandler) Check(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*funding.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &funding.CheckResult{GasAllocated: createProposalCost}, nil
}

func (h *createProposalHandler) Deliver(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*funding.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	proposal := &Proposal{
		Title:       msg.Title,
		Description: msg.Description,
		Metadata:    msg.Metadata,
		FundAddress: msg.FundAddress,
		// Start with an explicit zero in the round denomination so
		// that later additions cannot mix currencies.
		CollectedFunds: coin.NewCoin(0, conf.BudgetDenom),
	}
	id, err := h.proposals.Create(db, proposal)
	if err != nil {
		return nil, errors.Wrap(err, "create proposal")
	}
	return &funding.DeliverResult{Data: id}, nil
}

func (h *createProposalHandler) validate(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*CreateProposalMsg, *Configuration, error) {
	var msg CreateProposalMsg
	if err := funding.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := mustLoadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !whitelisted(ctx, h.auth, conf.CreateProposalWhitelist) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "sender not in the create proposal whitelist")
	}
	expired, err := funding.IsExpired(ctx, conf.ProposalDeadline)
	if err != nil {
		return nil, nil, err
	}
	if expired {
		return nil, nil, errors.Wrap(errors.ErrExpired, "proposal deadline passed")
	}
	return &msg, conf, nil
}

type voteHandler struct {
	auth      x.Authenticator
	ctrl      CashController
	proposals *ProposalBucket
	votes     *VoteBucket
}

var _ funding.Handler = (*voteHandler)(nil)

func (h *voteHandler) Check(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*funding.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &funding.CheckResult{GasAllocated: voteCost}, nil
}

func (h *voteHandler) Deliver(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*funding.DeliverResult, error) {
	msg, proposal, voter, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.ctrl.MoveCoins(db, voter, RoundAccount(), msg.Funds); err != nil {
		return nil, errors.Wrap(err, "collect contribution")
	}

	collected, err := proposal.CollectedFunds.Add(msg.Funds)
	if err != nil {
		return nil, errors.Wrap(err, "update collected funds")
	}
	proposal.CollectedFunds = collected
	if err := h.proposals.Update(db, msg.ProposalID, proposal); err != nil {
		return nil, errors.Wrap(err, "update proposal")
	}

	vote := &Vote{Voter: voter, Funds: msg.Funds}
	if err := h.votes.Save(db, msg.ProposalID, vote); err != nil {
		return nil, errors.Wrap(err, "save vote")
	}
	return &funding.DeliverResult{Data: msg.ProposalID}, nil
}

func (h *voteHandler) validate(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*VoteMsg, *Proposal, funding.Address, error) {
	var msg VoteMsg
	if err := funding.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := mustLoadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if !whitelisted(ctx, h.auth, conf.VoteWhitelist) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "sender not in the vote whitelist")
	}
	expired, err := funding.IsExpired(ctx, conf.VotingDeadline)
	if err != nil {
		return nil, nil, nil, err
	}
	if expired {
		return nil, nil, nil, errors.Wrap(errors.ErrExpired, "voting deadline passed")
	}
	if msg.Funds.Denom != conf.BudgetDenom {
		return nil, nil, nil, errors.Wrapf(errors.ErrCurrency, "round accepts only %q", conf.BudgetDenom)
	}

	proposal, err := h.proposals.GetProposal(db, msg.ProposalID)
	if err != nil {
		return nil, nil, nil, err
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	voter := signer.Address()

	voted, err := h.votes.Has(db, msg.ProposalID, voter)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "check vote")
	}
	if voted {
		return nil, nil, nil, errors.Wrap(errors.ErrDuplicate, "already voted on this proposal")
	}
	return &msg, proposal, voter, nil
}

type distributeHandler struct {
	auth      x.Authenticator
	ctrl      CashController
	proposals *ProposalBucket
	votes     *VoteBucket
	rounds    *RoundStateBucket
}

var _ funding.Handler = (*distributeHandler)(nil)

func (h *distributeHandler) Check(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*funding.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &funding.CheckResult{GasAllocated: distributeCost}, nil
}

// Deliver computes the matching distribution and pays out every proposal.
// The engine runs to completion before the first transfer, so an overflow or
// a misconfigured algorithm emits nothing.
func (h *distributeHandler) Deliver(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*funding.DeliverResult, error) {
	conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	ids, grants, err := h.assembleGrants(db)
	if err != nil {
		return nil, err
	}

	matches, leftover, err := conf.Algorithm.Distribute(grants, conf.Budget)
	if err != nil {
		return nil, errors.Wrap(err, "distribute")
	}

	pool := RoundAccount()

	// Every payout amount is computed before the first transfer. A round
	// without a budget has no prefunded matching capital, so its matched
	// total is minted into the pool first. The pool then holds exactly
	// the payouts plus the leftover and no transfer below can fail.
	payouts := make([]uint64, len(matches))
	var matchedTotal uint64
	for i, m := range matches {
		payout, err := coin.Add64(m.MatchedAmount, m.CollectedTotal)
		if err != nil {
			return nil, errors.Wrapf(err, "payout of proposal %x", ids[i])
		}
		payouts[i] = payout
		if matchedTotal, err = coin.Add64(matchedTotal, m.MatchedAmount); err != nil {
			return nil, errors.Wrap(err, "matched total")
		}
	}
	if conf.Budget == nil && matchedTotal > 0 {
		amount := coin.NewCoin(matchedTotal, conf.BudgetDenom)
		if err := h.ctrl.IssueCoins(db, pool, amount); err != nil {
			return nil, errors.Wrap(err, "mint matched funds")
		}
	}

	var tags []funding.KVPair
	for i, m := range matches {
		if payouts[i] == 0 {
			continue
		}
		amount := coin.NewCoin(payouts[i], conf.BudgetDenom)
		if err := h.ctrl.MoveCoins(db, pool, m.Address, amount); err != nil {
			return nil, errors.Wrapf(err, "payout of proposal %x", ids[i])
		}
		tags = append(tags, funding.KVPair{
			Key:   ids[i],
			Value: []byte(amount.String()),
		})
	}
	if leftover > 0 {
		amount := coin.NewCoin(leftover, conf.BudgetDenom)
		if err := h.ctrl.MoveCoins(db, pool, conf.LeftoverAddress, amount); err != nil {
			return nil, errors.Wrap(err, "return leftover")
		}
	}

	now, ok := funding.BlockTime(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	state := &RoundState{
		Distributed:   true,
		DistributedAt: funding.AsUnixTime(now),
	}
	if err := h.rounds.SaveState(db, state); err != nil {
		return nil, errors.Wrap(err, "save round state")
	}

	return &funding.DeliverResult{
		Log:  fmt.Sprintf("distributed to %d proposals, leftover %d", len(matches), leftover),
		Tags: tags,
	}, nil
}

func (h *distributeHandler) validate(ctx funding.Context, db funding.KVStore, tx funding.Tx) (*Configuration, error) {
	var msg DistributeMsg
	if err := funding.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := mustLoadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the admin can distribute")
	}
	expired, err := funding.IsExpired(ctx, conf.VotingDeadline)
	if err != nil {
		return nil, err
	}
	if !expired {
		return nil, errors.Wrap(errors.ErrState, "voting is still open")
	}
	state, err := h.rounds.GetState(db)
	if err != nil {
		return nil, errors.Wrap(err, "round state")
	}
	if state.Distributed {
		return nil, errors.Wrap(errors.ErrState, "round already distributed")
	}
	return conf, nil
}

// assembleGrants builds one RawGrant per proposal, walking the proposals in
// creation order and each proposal's votes in voter address order.
func (h *distributeHandler) assembleGrants(db funding.ReadOnlyKVStore) ([][]byte, []RawGrant, error) {
	it, err := h.proposals.Iterator(db)
	if err != nil {
		return nil, nil, errors.Wrap(err, "iterate proposals")
	}
	defer it.Release()

	var (
		ids    [][]byte
		grants []RawGrant
	)
	for {
		key, raw, err := it.Next()
		switch {
		case err == nil:
		case errors.ErrIteratorDone.Is(err):
			return ids, grants, nil
		default:
			return nil, nil, errors.Wrap(err, "iterate proposals")
		}

		var proposal Proposal
		if err := proposal.Unmarshal(raw); err != nil {
			return nil, nil, errors.Wrap(err, "unmarshal proposal")
		}
		id := append([]byte(nil), key...)

		votes, err := h.votes.ProposalVotes(db, id)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "votes of proposal %x", id)
		}
		contributions := make([]uint64, len(votes))
		for i, v := range votes {
			contributions[i] = v.Funds.Amount
		}

		ids = append(ids, id)
		grants = append(grants, RawGrant{
			Address:        proposal.FundAddress,
			Contributions:  contributions,
			CollectedTotal: proposal.CollectedFunds.Amount,
		})
	}
}
