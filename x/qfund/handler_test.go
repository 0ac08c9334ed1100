package qfund

import (
	"context"
	"testing"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/app"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
	"github.com/JakeHartnell/cw-quadratic-funding/fundingtest"
	"github.com/JakeHartnell/cw-quadratic-funding/fundingtest/assert"
	"github.com/JakeHartnell/cw-quadratic-funding/gconf"
	"github.com/JakeHartnell/cw-quadratic-funding/store"
	"github.com/JakeHartnell/cw-quadratic-funding/x/cash"
)

const testDenom = "ucosm"

// roundFixture wires a complete round for handler tests.
type roundFixture struct {
	db     funding.KVStore
	router *app.Router
	auth   *fundingtest.CtxAuth
	ctrl   cash.Controller
	conf   Configuration

	admin    funding.Condition
	leftover funding.Condition
}

func newRoundFixture(t *testing.T, mutate func(*Configuration)) *roundFixture {
	t.Helper()

	f := &roundFixture{
		db:       store.MemStore(),
		router:   app.NewRouter(),
		auth:     &fundingtest.CtxAuth{Key: "auth"},
		ctrl:     cash.NewController(cash.NewBucket()),
		admin:    fundingtest.NewCondition(),
		leftover: fundingtest.NewCondition(),
	}
	f.conf = Configuration{
		Admin:            f.admin.Address(),
		LeftoverAddress:  f.leftover.Address(),
		ProposalDeadline: 1000,
		VotingDeadline:   2000,
		BudgetDenom:      testDenom,
		Algorithm: Algorithm{
			CapitalConstrainedLiberalRadicalism: &CapitalConstrainedLiberalRadicalism{},
		},
	}
	if mutate != nil {
		mutate(&f.conf)
	}
	if err := gconf.Save(f.db, "qfund", &f.conf); err != nil {
		t.Fatalf("save configuration: %+v", err)
	}
	if f.conf.Budget != nil {
		budget := coin.NewCoin(*f.conf.Budget, f.conf.BudgetDenom)
		if err := f.ctrl.IssueCoins(f.db, RoundAccount(), budget); err != nil {
			t.Fatalf("fund round account: %+v", err)
		}
	}
	RegisterRoutes(f.router, f.auth, f.ctrl)
	return f
}

// ctxAt returns a context authenticated as the given actors, with the block
// time set to the given unix time.
func (f *roundFixture) ctxAt(now funding.UnixTime, actors ...funding.Condition) funding.Context {
	ctx := funding.WithBlockTime(context.Background(), now.Time())
	ctx = funding.WithHeight(ctx, int64(now))
	return f.auth.SetConditions(ctx, actors...)
}

func (f *roundFixture) deliver(ctx funding.Context, msg funding.Msg) (*funding.DeliverResult, error) {
	return f.router.Deliver(ctx, f.db, &fundingtest.Tx{Msg: msg})
}

func (f *roundFixture) fundVoter(t *testing.T, voter funding.Condition, amount uint64) {
	t.Helper()
	if err := f.ctrl.IssueCoins(f.db, voter.Address(), coin.NewCoin(amount, testDenom)); err != nil {
		t.Fatalf("fund voter: %+v", err)
	}
}

func (f *roundFixture) balance(t *testing.T, addr funding.Address) uint64 {
	t.Helper()
	c, err := f.ctrl.Balance(f.db, addr, testDenom)
	if err != nil {
		t.Fatalf("balance: %+v", err)
	}
	return c.Amount
}

func uint64p(v uint64) *uint64 {
	return &v
}

func TestCreateProposal(t *testing.T) {
	f := newRoundFixture(t, nil)
	author := fundingtest.NewCondition()
	beneficiary := fundingtest.NewCondition()

	msg := &CreateProposalMsg{
		Title:       "community rollup",
		Description: "an optimistic rollup for the community",
		FundAddress: beneficiary.Address(),
	}
	res, err := f.deliver(f.ctxAt(500, author), msg)
	assert.Nil(t, err)
	assert.Equal(t, fundingtest.SequenceID(1), res.Data)

	proposal, err := NewProposalBucket().GetProposal(f.db, res.Data)
	assert.Nil(t, err)
	assert.Equal(t, "community rollup", proposal.Title)
	assert.Equal(t, coin.NewCoin(0, testDenom), proposal.CollectedFunds)

	// A second proposal gets the next sequence value.
	res, err = f.deliver(f.ctxAt(500, author), msg)
	assert.Nil(t, err)
	assert.Equal(t, fundingtest.SequenceID(2), res.Data)
}

func TestCreateProposalWhitelist(t *testing.T) {
	insider := fundingtest.NewCondition()
	outsider := fundingtest.NewCondition()
	f := newRoundFixture(t, func(c *Configuration) {
		c.CreateProposalWhitelist = []funding.Address{insider.Address()}
	})

	msg := &CreateProposalMsg{
		Title:       "a title",
		Description: "a description",
		FundAddress: fundingtest.NewCondition().Address(),
	}
	if _, err := f.deliver(f.ctxAt(500, outsider), msg); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want an unauthorized error, got %+v", err)
	}
	_, err := f.deliver(f.ctxAt(500, insider), msg)
	assert.Nil(t, err)
}

func TestCreateProposalAfterDeadline(t *testing.T) {
	f := newRoundFixture(t, nil)
	msg := &CreateProposalMsg{
		Title:       "a title",
		Description: "a description",
		FundAddress: fundingtest.NewCondition().Address(),
	}
	// Expiration is inclusive.
	if _, err := f.deliver(f.ctxAt(1000, fundingtest.NewCondition()), msg); !errors.ErrExpired.Is(err) {
		t.Fatalf("want an expired error, got %+v", err)
	}
}

func TestVote(t *testing.T) {
	f := newRoundFixture(t, nil)
	beneficiary := fundingtest.NewCondition()
	voter := fundingtest.NewCondition()
	f.fundVoter(t, voter, 5000)

	res, err := f.deliver(f.ctxAt(500, voter), &CreateProposalMsg{
		Title:       "a title",
		Description: "a description",
		FundAddress: beneficiary.Address(),
	})
	assert.Nil(t, err)
	proposalID := res.Data

	_, err = f.deliver(f.ctxAt(1500, voter), &VoteMsg{
		ProposalID: proposalID,
		Funds:      coin.NewCoin(1200, testDenom),
	})
	assert.Nil(t, err)

	assert.Equal(t, uint64(3800), f.balance(t, voter.Address()))
	assert.Equal(t, uint64(1200), f.balance(t, RoundAccount()))

	proposal, err := NewProposalBucket().GetProposal(f.db, proposalID)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(1200, testDenom), proposal.CollectedFunds)

	votes, err := NewVoteBucket().ProposalVotes(f.db, proposalID)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(votes))
	assert.Equal(t, coin.NewCoin(1200, testDenom), votes[0].Funds)
}

func TestVoteFailures(t *testing.T) {
	insider := fundingtest.NewCondition()
	f := newRoundFixture(t, func(c *Configuration) {
		c.VoteWhitelist = []funding.Address{insider.Address()}
	})
	f.fundVoter(t, insider, 5000)

	res, err := f.deliver(f.ctxAt(500, insider), &CreateProposalMsg{
		Title:       "a title",
		Description: "a description",
		FundAddress: fundingtest.NewCondition().Address(),
	})
	assert.Nil(t, err)
	proposalID := res.Data

	vote := func(ctx funding.Context, msg *VoteMsg) error {
		_, err := f.deliver(ctx, msg)
		return err
	}

	outsider := fundingtest.NewCondition()
	if err := vote(f.ctxAt(1500, outsider), &VoteMsg{ProposalID: proposalID, Funds: coin.NewCoin(10, testDenom)}); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("outsider vote: want an unauthorized error, got %+v", err)
	}
	if err := vote(f.ctxAt(2000, insider), &VoteMsg{ProposalID: proposalID, Funds: coin.NewCoin(10, testDenom)}); !errors.ErrExpired.Is(err) {
		t.Fatalf("late vote: want an expired error, got %+v", err)
	}
	if err := vote(f.ctxAt(1500, insider), &VoteMsg{ProposalID: proposalID, Funds: coin.NewCoin(10, "uatom")}); !errors.ErrCurrency.Is(err) {
		t.Fatalf("wrong denom: want a currency error, got %+v", err)
	}
	if err := vote(f.ctxAt(1500, insider), &VoteMsg{ProposalID: fundingtest.SequenceID(99), Funds: coin.NewCoin(10, testDenom)}); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unknown proposal: want a not found error, got %+v", err)
	}

	assert.Nil(t, vote(f.ctxAt(1500, insider), &VoteMsg{ProposalID: proposalID, Funds: coin.NewCoin(10, testDenom)}))
	if err := vote(f.ctxAt(1500, insider), &VoteMsg{ProposalID: proposalID, Funds: coin.NewCoin(10, testDenom)}); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("second vote: want a duplicate error, got %+v", err)
	}
}

func TestVoteWithoutFunds(t *testing.T) {
	f := newRoundFixture(t, nil)
	voter := fundingtest.NewCondition()

	res, err := f.deliver(f.ctxAt(500, voter), &CreateProposalMsg{
		Title:       "a title",
		Description: "a description",
		FundAddress: fundingtest.NewCondition().Address(),
	})
	assert.Nil(t, err)

	_, err = f.deliver(f.ctxAt(1500, voter), &VoteMsg{
		ProposalID: res.Data,
		Funds:      coin.NewCoin(10, testDenom),
	})
	if err == nil {
		t.Fatal("voting without funds must fail")
	}
}

func TestDistributeGuards(t *testing.T) {
	f := newRoundFixture(t, func(c *Configuration) {
		c.Budget = uint64p(1000)
	})

	intruder := fundingtest.NewCondition()
	if _, err := f.deliver(f.ctxAt(2500, intruder), &DistributeMsg{}); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("intruder: want an unauthorized error, got %+v", err)
	}
	if _, err := f.deliver(f.ctxAt(1500, f.admin), &DistributeMsg{}); !errors.ErrState.Is(err) {
		t.Fatalf("voting open: want a state error, got %+v", err)
	}

	_, err := f.deliver(f.ctxAt(2500, f.admin), &DistributeMsg{})
	assert.Nil(t, err)

	if _, err := f.deliver(f.ctxAt(2600, f.admin), &DistributeMsg{}); !errors.ErrState.Is(err) {
		t.Fatalf("second distribution: want a state error, got %+v", err)
	}

	state, err := NewRoundStateBucket().GetState(f.db)
	assert.Nil(t, err)
	assert.Equal(t, true, state.Distributed)
	assert.Equal(t, funding.UnixTime(2500), state.DistributedAt)

	// No proposals at all, the whole budget goes to the leftover address.
	assert.Equal(t, uint64(1000), f.balance(t, f.leftover.Address()))
	assert.Equal(t, uint64(0), f.balance(t, RoundAccount()))
}

func TestDistributeRound(t *testing.T) {
	f := newRoundFixture(t, func(c *Configuration) {
		c.Budget = uint64p(550000)
	})

	beneficiaries := make([]funding.Condition, 4)
	for i := range beneficiaries {
		beneficiaries[i] = fundingtest.NewCondition()
	}

	var proposalIDs [][]byte
	for i, b := range beneficiaries {
		res, err := f.deliver(f.ctxAt(500, b), &CreateProposalMsg{
			Title:       "proposal",
			Description: "a grant proposal",
			Metadata:    string(rune('a' + i)),
			FundAddress: b.Address(),
		})
		assert.Nil(t, err)
		proposalIDs = append(proposalIDs, res.Data)
	}

	contributions := [][]uint64{
		{1200, 44999, 33},
		{30000, 58999},
		{230000, 100},
		{100000, 5},
	}
	for i, amounts := range contributions {
		for _, amount := range amounts {
			voter := fundingtest.NewCondition()
			f.fundVoter(t, voter, amount)
			_, err := f.deliver(f.ctxAt(1500, voter), &VoteMsg{
				ProposalID: proposalIDs[i],
				Funds:      coin.NewCoin(amount, testDenom),
			})
			assert.Nil(t, err)
		}
	}

	res, err := f.deliver(f.ctxAt(2500, f.admin), &DistributeMsg{})
	assert.Nil(t, err)
	assert.Equal(t, 4, len(res.Tags))

	// Matched amounts plus the returned contributions.
	wantPayouts := []uint64{
		60212 + 46232,
		164602 + 88999,
		228537 + 230100,
		96648 + 100005,
	}
	for i, b := range beneficiaries {
		assert.Equal(t, wantPayouts[i], f.balance(t, b.Address()))
	}
	assert.Equal(t, uint64(1), f.balance(t, f.leftover.Address()))

	// The pool is fully drained, not a single token lost or minted.
	assert.Equal(t, uint64(0), f.balance(t, RoundAccount()))
}

func TestDistributeUnconstrainedRound(t *testing.T) {
	// No budget configured. Every proposal is matched with its raw score
	// and the matching funds are minted during the distribution.
	f := newRoundFixture(t, nil)

	small := fundingtest.NewCondition()
	large := fundingtest.NewCondition()

	var proposalIDs [][]byte
	for _, b := range []funding.Condition{small, large} {
		res, err := f.deliver(f.ctxAt(500, b), &CreateProposalMsg{
			Title:       "proposal",
			Description: "a grant proposal",
			FundAddress: b.Address(),
		})
		assert.Nil(t, err)
		proposalIDs = append(proposalIDs, res.Data)
	}

	for i, amount := range []uint64{4, 400} {
		voter := fundingtest.NewCondition()
		f.fundVoter(t, voter, amount)
		_, err := f.deliver(f.ctxAt(1500, voter), &VoteMsg{
			ProposalID: proposalIDs[i],
			Funds:      coin.NewCoin(amount, testDenom),
		})
		assert.Nil(t, err)
	}

	res, err := f.deliver(f.ctxAt(2500, f.admin), &DistributeMsg{})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res.Tags))

	// Raw scores 4 and 400 are paid on top of the contributions.
	assert.Equal(t, uint64(8), f.balance(t, small.Address()))
	assert.Equal(t, uint64(800), f.balance(t, large.Address()))
	assert.Equal(t, uint64(0), f.balance(t, f.leftover.Address()))
	assert.Equal(t, uint64(0), f.balance(t, RoundAccount()))

	state, err := NewRoundStateBucket().GetState(f.db)
	assert.Nil(t, err)
	assert.Equal(t, true, state.Distributed)
}

func TestDistributeRejectsUnknownAlgorithm(t *testing.T) {
	f := newRoundFixture(t, func(c *Configuration) {
		c.Budget = uint64p(1000)
	})

	// The validating save refuses a configuration without an algorithm,
	// overwrite the stored singleton directly to simulate a broken setup.
	broken := f.conf
	broken.Algorithm = Algorithm{}
	raw, err := broken.Marshal()
	assert.Nil(t, err)
	assert.Nil(t, f.db.Set([]byte("_c:qfund"), raw))

	if _, err := f.deliver(f.ctxAt(2500, f.admin), &DistributeMsg{}); !ErrAlgorithm.Is(err) {
		t.Fatalf("want an algorithm error, got %+v", err)
	}
	// Nothing was paid out.
	assert.Equal(t, uint64(1000), f.balance(t, RoundAccount()))
}

func TestRoundQueries(t *testing.T) {
	f := newRoundFixture(t, nil)
	qr := funding.NewQueryRouter()
	RegisterQuery(qr)

	res, err := f.deliver(f.ctxAt(500, fundingtest.NewCondition()), &CreateProposalMsg{
		Title:       "a title",
		Description: "a description",
		FundAddress: fundingtest.NewCondition().Address(),
	})
	assert.Nil(t, err)

	h := qr.Handler("/proposals")
	if h == nil {
		t.Fatal("no handler for /proposals")
	}
	models, err := h.Query(f.db, funding.KeyQueryMod, res.Data)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))

	var proposal Proposal
	assert.Nil(t, proposal.Unmarshal(models[0].Value))
	assert.Equal(t, "a title", proposal.Title)
}
