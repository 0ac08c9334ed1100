package qfund

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
	"github.com/JakeHartnell/cw-quadratic-funding/orm"
)

// Proposal is a funding target of the round. CollectedFunds accumulates all
// contributions this proposal received through votes.
type Proposal struct {
	Title          string
	Description    string
	Metadata       string
	FundAddress    funding.Address
	CollectedFunds coin.Coin
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Validate() error {
	if p.Title == "" {
		return errors.Wrap(errors.ErrModel, "title is required")
	}
	if p.Description == "" {
		return errors.Wrap(errors.ErrModel, "description is required")
	}
	if err := p.FundAddress.Validate(); err != nil {
		return errors.Wrap(err, "fund address")
	}
	if err := p.CollectedFunds.Validate(); err != nil {
		return errors.Wrap(err, "collected funds")
	}
	return nil
}

// Vote records a single contribution of a voter to a proposal. A voter can
// vote at most once per proposal.
type Vote struct {
	Voter funding.Address
	Funds coin.Coin
}

var _ orm.Model = (*Vote)(nil)

func (v *Vote) Validate() error {
	if err := v.Voter.Validate(); err != nil {
		return errors.Wrap(err, "voter")
	}
	if err := v.Funds.Validate(); err != nil {
		return errors.Wrap(err, "funds")
	}
	if !v.Funds.IsPositive() {
		return errors.Wrap(errors.ErrModel, "funds must be positive")
	}
	return nil
}

// RoundState is a singleton marking whether the round was already
// distributed. The distribution handler refuses to run twice.
type RoundState struct {
	Distributed   bool
	DistributedAt funding.UnixTime
}

var _ orm.Model = (*RoundState)(nil)

func (s *RoundState) Validate() error {
	if err := s.DistributedAt.Validate(); err != nil {
		return errors.Wrap(err, "distributed at")
	}
	if s.Distributed && s.DistributedAt == 0 {
		return errors.Wrap(errors.ErrModel, "distributed without a timestamp")
	}
	return nil
}

// ProposalBucket stores the proposals, keyed by an 8 byte big endian
// sequence value. Ascending key iteration therefore walks the proposals in
// creation order, which fixes the distribution order.
type ProposalBucket struct {
	orm.Bucket
	idSeq orm.Sequence
}

// NewProposalBucket returns a bucket for managing the proposals.
func NewProposalBucket() *ProposalBucket {
	return &ProposalBucket{
		Bucket: orm.NewBucket("proposal"),
		idSeq:  orm.NewSequence("proposal", "id"),
	}
}

// Create adds the given proposal to the store and returns the ID assigned to
// it.
func (b *ProposalBucket) Create(db funding.KVStore, p *Proposal) ([]byte, error) {
	key, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "acquire key")
	}
	return key, b.Put(db, key, p)
}

// GetProposal returns the proposal with the given ID, or ErrNotFound.
func (b *ProposalBucket) GetProposal(db funding.ReadOnlyKVStore, id []byte) (*Proposal, error) {
	var p Proposal
	if err := b.One(db, id, &p); err != nil {
		return nil, errors.Wrapf(err, "proposal %x", id)
	}
	return &p, nil
}

// Update overwrites the proposal stored under the given ID.
func (b *ProposalBucket) Update(db funding.KVStore, id []byte, p *Proposal) error {
	return b.Put(db, id, p)
}

// VoteBucket stores the votes, keyed by the proposal ID followed by the
// voter address. Prefix iteration over a proposal ID walks that proposal's
// votes in voter address order.
type VoteBucket struct {
	orm.Bucket
}

// NewVoteBucket returns a bucket for managing the votes.
func NewVoteBucket() *VoteBucket {
	return &VoteBucket{
		Bucket: orm.NewBucket("vote"),
	}
}

// voteKey builds the composite key of a single vote.
func voteKey(proposalID []byte, voter funding.Address) []byte {
	key := make([]byte, 0, len(proposalID)+len(voter))
	key = append(key, proposalID...)
	return append(key, voter...)
}

// Has returns true if the voter already voted on the proposal.
func (b *VoteBucket) Has(db funding.ReadOnlyKVStore, proposalID []byte, voter funding.Address) (bool, error) {
	return b.Bucket.Has(db, voteKey(proposalID, voter))
}

// Save persists a vote.
func (b *VoteBucket) Save(db funding.KVStore, proposalID []byte, v *Vote) error {
	return b.Put(db, voteKey(proposalID, v.Voter), v)
}

// ProposalVotes returns all votes on the given proposal, in voter address
// order.
func (b *VoteBucket) ProposalVotes(db funding.ReadOnlyKVStore, proposalID []byte) ([]Vote, error) {
	it, err := b.PrefixIterator(db, proposalID)
	if err != nil {
		return nil, errors.Wrap(err, "iterate votes")
	}
	defer it.Release()

	var votes []Vote
	for {
		_, raw, err := it.Next()
		switch {
		case err == nil:
			var v Vote
			if err := v.Unmarshal(raw); err != nil {
				return nil, errors.Wrap(err, "unmarshal vote")
			}
			votes = append(votes, v)
		case errors.ErrIteratorDone.Is(err):
			return votes, nil
		default:
			return nil, errors.Wrap(err, "iterate votes")
		}
	}
}

var roundStateKey = []byte("state")

// RoundStateBucket stores the single RoundState record.
type RoundStateBucket struct {
	orm.Bucket
}

// NewRoundStateBucket returns a bucket for managing the round state.
func NewRoundStateBucket() *RoundStateBucket {
	return &RoundStateBucket{
		Bucket: orm.NewBucket("round"),
	}
}

// GetState returns the round state. A round that was never distributed has a
// zero value state.
func (b *RoundStateBucket) GetState(db funding.ReadOnlyKVStore) (*RoundState, error) {
	var s RoundState
	switch err := b.One(db, roundStateKey, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &RoundState{}, nil
	default:
		return nil, err
	}
}

// SaveState persists the round state.
func (b *RoundStateBucket) SaveState(db funding.KVStore, s *RoundState) error {
	return b.Put(db, roundStateKey, s)
}
