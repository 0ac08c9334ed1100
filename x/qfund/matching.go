package qfund

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// RawGrant is the input record of the matching engine, one per proposal. The
// contribution list holds one entry per voter, in the order the caller
// assembled them. CollectedTotal must equal the sum of the contributions.
type RawGrant struct {
	Address        funding.Address
	Contributions  []uint64
	CollectedTotal uint64
}

// GrantMatch is the matching engine output for a single proposal. The
// collected total is passed through unchanged so that the transfer emitter
// can pay out matched and collected funds in one move.
type GrantMatch struct {
	Address        funding.Address
	MatchedAmount  uint64
	CollectedTotal uint64
}

// Algorithm selects the matching formula. It is a union type, at most one
// field may be set. Adding a formula later means adding a field here and a
// branch in Distribute.
type Algorithm struct {
	CapitalConstrainedLiberalRadicalism *CapitalConstrainedLiberalRadicalism `json:"capital_constrained_liberal_radicalism,omitempty"`
}

// CapitalConstrainedLiberalRadicalism is the only formula implemented. The
// parameter is accepted for forward compatibility but does not influence the
// computation.
type CapitalConstrainedLiberalRadicalism struct {
	Parameter string `json:"parameter,omitempty"`
}

// Validate requires that exactly one formula is selected.
func (a Algorithm) Validate() error {
	if a.CapitalConstrainedLiberalRadicalism == nil {
		return errors.Wrap(ErrAlgorithm, "no algorithm selected")
	}
	return nil
}

// Distribute runs the selected matching formula. See CalculateCLR for the
// semantics of the result.
func (a Algorithm) Distribute(grants []RawGrant, budget *uint64) ([]GrantMatch, uint64, error) {
	switch {
	case a.CapitalConstrainedLiberalRadicalism != nil:
		return CalculateCLR(grants, budget)
	default:
		return nil, 0, errors.Wrap(ErrAlgorithm, "no algorithm selected")
	}
}

// CalculateCLR computes the capital constrained liberal radicalism
// distribution. Each grant is scored as the square of the sum of the integer
// square roots of its contributions. With a budget present every grant is
// matched with floor(budget * score / total_score), so that the sum of all
// matched amounts plus the returned leftover equals the budget exactly. A
// nil budget distributes the raw scores verbatim with a zero leftover.
//
// The output preserves the input order. Every grant's CollectedTotal is
// verified against the sum of its contributions and a mismatch fails the
// whole call. Any overflow fails the whole call as well, no partial result
// is ever returned.
func CalculateCLR(grants []RawGrant, budget *uint64) ([]GrantMatch, uint64, error) {
	scores := make([]uint64, len(grants))
	var total uint64
	for i, g := range grants {
		score, err := rawScore(g.Contributions)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "grant %d", i)
		}
		if err := validateCollected(g); err != nil {
			return nil, 0, errors.Wrapf(err, "grant %d", i)
		}
		scores[i] = score
		if total, err = coin.Add64(total, score); err != nil {
			return nil, 0, errors.Wrap(err, "total score")
		}
	}

	matches := make([]GrantMatch, len(grants))
	var spent uint64
	for i, g := range grants {
		var matched uint64
		switch {
		case budget == nil:
			matched = scores[i]
		case total == 0:
			matched = 0
		default:
			var err error
			// score <= total, so the widened division cannot
			// overflow and matched <= budget.
			matched, err = coin.MulDiv64(*budget, scores[i], total)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "grant %d", i)
			}
		}
		matches[i] = GrantMatch{
			Address:        g.Address,
			MatchedAmount:  matched,
			CollectedTotal: g.CollectedTotal,
		}
		spent += matched
	}

	var leftover uint64
	if budget != nil {
		leftover = *budget - spent
	}
	return matches, leftover, nil
}

// rawScore computes (sum of integer square roots of the contributions)
// squared. An empty list scores zero.
func rawScore(contributions []uint64) (uint64, error) {
	var sum uint64
	for _, c := range contributions {
		var err error
		if sum, err = coin.Add64(sum, Isqrt(c)); err != nil {
			return 0, errors.Wrap(err, "sum of square roots")
		}
	}
	score, err := coin.Mul64(sum, sum)
	if err != nil {
		return 0, errors.Wrap(err, "squared score")
	}
	return score, nil
}

// validateCollected ensures the declared collected total matches the
// contribution list.
func validateCollected(g RawGrant) error {
	var sum uint64
	for _, c := range g.Contributions {
		var err error
		if sum, err = coin.Add64(sum, c); err != nil {
			return errors.Wrap(err, "sum of contributions")
		}
	}
	if sum != g.CollectedTotal {
		return errors.Wrapf(errors.ErrInput, "declared collected total %d, contributions sum to %d", g.CollectedTotal, sum)
	}
	return nil
}

// Isqrt returns the largest r such that r*r <= n. It uses the binary digit
// by digit method, all intermediate values stay within uint64.
func Isqrt(n uint64) uint64 {
	var res uint64
	bit := uint64(1) << 62
	for bit > n {
		bit >>= 2
	}
	for bit != 0 {
		if n >= res+bit {
			n -= res + bit
			res = res>>1 + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}
	return res
}
