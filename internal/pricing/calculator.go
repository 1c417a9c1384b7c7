package pricing

import (
	"fmt"

	"villabook/internal/core"
)

// GapPolicy decides what happens when a night of a stay falls outside every
// seasonal rule.
type GapPolicy int

const (
	// GapAsFree prices uncovered nights at zero. This is the shipped
	// behavior: a gap in seasonal coverage silently contributes nothing to
	// the quote. Suspected to undercount revenue, but kept as the default
	// until confirmed otherwise.
	GapAsFree GapPolicy = iota

	// GapAsError rejects the quote with core.ErrUnpricedNight on the first
	// uncovered night. Available for integrators that want every night
	// priced.
	GapAsError
)

// DefaultGapPolicy is what ComputeAmount applies.
const DefaultGapPolicy = GapAsFree

// ComputeAmount sums the nightly rates for the half-open stay
// [r.Start, r.End) against the table. A stay of N nights contributes N
// terms. Zero- or negative-length ranges quote to zero; callers are expected
// to reject those before asking for a quote.
//
// Pure with respect to the table snapshot: same range and same rules always
// give the same amount. O(nights).
func ComputeAmount(r core.DateRange, t *Table) core.Money {
	amount, _ := ComputeAmountPolicy(r, t, DefaultGapPolicy)
	return amount
}

// ComputeAmountPolicy is ComputeAmount with an explicit gap policy. Under
// GapAsFree the error is always nil; under GapAsError the first night not
// covered by any rule fails the whole quote.
func ComputeAmountPolicy(r core.DateRange, t *Table, policy GapPolicy) (core.Money, error) {
	var total core.Money
	if !r.End.After(r.Start) {
		return total, nil
	}
	for night := r.Start; night.Before(r.End); night = night.AddDays(1) {
		if policy == GapAsError && !t.Covers(night) {
			return core.Money{}, fmt.Errorf("night %s: %w",
				night.Format("2006-01-02"), core.ErrUnpricedNight)
		}
		total = total.Add(t.PriceFor(night))
	}
	return total, nil
}
