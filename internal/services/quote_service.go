package services

import (
	"context"

	"villabook/internal/core"
	"villabook/internal/pricing"
)

// Quote is a priced stay proposal. The amount is a suggestion: the operator
// may override it on the booking form before saving.
type Quote struct {
	Range  core.DateRange
	Nights int
	Amount core.Money
}

// QuoteService prices candidate stays against the current seasonal rates.
type QuoteService struct {
	rules *RuleService
}

func NewQuoteService(rules *RuleService) *QuoteService {
	return &QuoteService{rules: rules}
}

// QuoteStay computes the nightly-rate sum for the half-open stay range.
// Fails with core.ErrInvalidRange for degenerate ranges; nights without
// seasonal coverage price to zero under the default gap policy.
func (s *QuoteService) QuoteStay(ctx context.Context, r core.DateRange) (Quote, error) {
	if err := r.Validate(); err != nil {
		return Quote{}, err
	}
	table, err := s.rules.Table(ctx)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Range:  r,
		Nights: r.Nights(),
		Amount: pricing.ComputeAmount(r, table),
	}, nil
}
