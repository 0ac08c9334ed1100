package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/app"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
	"github.com/JakeHartnell/cw-quadratic-funding/gconf"
	"github.com/JakeHartnell/cw-quadratic-funding/store"
	"github.com/JakeHartnell/cw-quadratic-funding/x/cash"
	"github.com/JakeHartnell/cw-quadratic-funding/x/qfund"
)

// action is one step of the simulated round. Exactly one of the operation
// fields must be set.
type action struct {
	// Time is the block time this action is delivered at.
	Time funding.UnixTime `json:"time"`
	// Signer authorizes the action.
	Signer funding.Condition `json:"signer"`

	CreateProposal *createProposal `json:"create_proposal,omitempty"`
	Vote           *vote           `json:"vote,omitempty"`
	Distribute     *struct{}       `json:"distribute,omitempty"`
}

type createProposal struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Metadata    string          `json:"metadata,omitempty"`
	FundAddress funding.Address `json:"fund_address"`
}

type vote struct {
	ProposalID uint64    `json:"proposal_id"`
	Funds      coin.Coin `json:"funds"`
}

func (a *action) msg() (funding.Msg, error) {
	switch {
	case a.CreateProposal != nil:
		return &qfund.CreateProposalMsg{
			Title:       a.CreateProposal.Title,
			Description: a.CreateProposal.Description,
			Metadata:    a.CreateProposal.Metadata,
			FundAddress: a.CreateProposal.FundAddress,
		}, nil
	case a.Vote != nil:
		id := make([]byte, 8)
		binary.BigEndian.PutUint64(id, a.Vote.ProposalID)
		return &qfund.VoteMsg{
			ProposalID: id,
			Funds:      a.Vote.Funds,
		}, nil
	case a.Distribute != nil:
		return &qfund.DistributeMsg{}, nil
	default:
		return nil, errors.Wrap(errors.ErrInput, "action without an operation")
	}
}

// runRound executes the round described by the given JSON document and
// returns a human readable report of the final balances.
func runRound(logger *slog.Logger, raw []byte) (string, error) {
	var opts funding.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return "", errors.Wrap(err, "parse round description")
	}

	db := store.MemStore()
	ctrl := cash.NewController(cash.NewBucket())

	inits := []funding.Initializer{
		cash.Initializer{},
		&qfund.Initializer{Minter: ctrl},
	}
	for _, ini := range inits {
		if err := ini.FromGenesis(opts, db); err != nil {
			return "", errors.Wrap(err, "genesis")
		}
	}

	auth := signerAuth{}
	router := app.NewRouter()
	qfund.RegisterRoutes(router, auth, ctrl)

	var actions []action
	if err := opts.ReadOptions("round", &actions); err != nil {
		return "", errors.Wrap(err, "read round actions")
	}

	var height int64
	for i, a := range actions {
		msg, err := a.msg()
		if err != nil {
			return "", errors.Wrapf(err, "action %d", i)
		}
		height++
		ctx := funding.WithBlockTime(context.Background(), a.Time.Time())
		ctx = funding.WithHeight(ctx, height)
		ctx = withSigner(ctx, a.Signer)

		res, err := router.Deliver(ctx, db, &msgTx{msg: msg})
		if err != nil {
			return "", errors.Wrapf(err, "action %d (%s)", i, msg.Path())
		}
		logger.Debug("delivered",
			"action", i,
			"path", msg.Path(),
			"data", fmt.Sprintf("%x", res.Data),
			"log", res.Log,
		)
	}

	return report(db, ctrl)
}

// report lists the final balance of every proposal beneficiary, the leftover
// address and the round pool.
func report(db funding.KVStore, ctrl cash.Controller) (string, error) {
	var conf qfund.Configuration
	if err := loadConf(db, &conf); err != nil {
		return "", err
	}

	var b strings.Builder
	line := func(label string, addr funding.Address) error {
		balance, err := ctrl.Balance(db, addr, conf.BudgetDenom)
		if err != nil {
			return errors.Wrapf(err, "balance of %s", addr)
		}
		fmt.Fprintf(&b, "%-12s %s  %s\n", label, addr, balance)
		return nil
	}

	it, err := qfund.NewProposalBucket().Iterator(db)
	if err != nil {
		return "", errors.Wrap(err, "iterate proposals")
	}
	defer it.Release()
	for {
		key, raw, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "iterate proposals")
		}
		var proposal qfund.Proposal
		if err := proposal.Unmarshal(raw); err != nil {
			return "", errors.Wrap(err, "unmarshal proposal")
		}
		label := fmt.Sprintf("proposal %d", binary.BigEndian.Uint64(key))
		if err := line(label, proposal.FundAddress); err != nil {
			return "", err
		}
	}

	if err := line("leftover", conf.LeftoverAddress); err != nil {
		return "", err
	}
	if err := line("round pool", qfund.RoundAccount()); err != nil {
		return "", err
	}
	return b.String(), nil
}

func loadConf(db funding.ReadOnlyKVStore, conf *qfund.Configuration) error {
	return errors.Wrap(gconf.Load(db, "qfund", conf), "load configuration")
}

type signerKey struct{}

func withSigner(ctx funding.Context, signer funding.Condition) funding.Context {
	return context.WithValue(ctx, signerKey{}, signer)
}

// signerAuth authenticates whatever condition the current action declared.
// The simulator has no cryptography, declaring a signer is signing.
type signerAuth struct{}

func (signerAuth) GetConditions(ctx funding.Context) []funding.Condition {
	val, ok := ctx.Value(signerKey{}).(funding.Condition)
	if !ok || val == nil {
		return nil
	}
	return []funding.Condition{val}
}

func (a signerAuth) HasAddress(ctx funding.Context, addr funding.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// msgTx wraps a single message into a transaction.
type msgTx struct {
	msg funding.Msg
}

var _ funding.Tx = (*msgTx)(nil)

func (tx *msgTx) GetMsg() (funding.Msg, error) {
	return tx.msg, nil
}

func (tx *msgTx) Marshal() ([]byte, error) {
	return tx.msg.Marshal()
}

func (tx *msgTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "simulator transactions are never deserialized")
}
