package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villabook/internal/core"
)

func flatRule(start, end core.Date, cents int64) core.SeasonalRule {
	var prices [7]core.Money
	for i := range prices {
		prices[i] = core.Money{Cents: cents}
	}
	return core.SeasonalRule{
		Range:         core.NewDateRange(start, end),
		WeekdayPrices: prices,
	}
}

func TestRuleServiceUpsertRejectsOverlap(t *testing.T) {
	store := newFakeStore()
	svc := NewRuleService(store)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, flatRule(core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30), 10000))
	require.NoError(t, err)

	// a second rule sharing even one day must fail before persisting
	_, err = svc.Upsert(ctx, flatRule(core.NewDate(2024, 6, 30), core.NewDate(2024, 7, 31), 14000))
	assert.ErrorIs(t, err, core.ErrRuleOverlap)

	rules, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestRuleServiceUpsertAdjacentSeasons(t *testing.T) {
	store := newFakeStore()
	svc := NewRuleService(store)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, flatRule(core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30), 10000))
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, flatRule(core.NewDate(2024, 7, 1), core.NewDate(2024, 8, 31), 14000))
	require.NoError(t, err)

	rules, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.True(t, rules[0].Range.Start.Before(rules[1].Range.Start))
}

func TestRuleServiceUpsertEditsByID(t *testing.T) {
	store := newFakeStore()
	svc := NewRuleService(store)
	ctx := context.Background()

	id, err := svc.Upsert(ctx, flatRule(core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30), 10000))
	require.NoError(t, err)

	// widening the same rule overlaps only itself, which is allowed
	edited := flatRule(core.NewDate(2024, 6, 1), core.NewDate(2024, 7, 15), 11000)
	edited.ID = id
	gotID, err := svc.Upsert(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	rules, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, core.NewDate(2024, 7, 15), rules[0].Range.End)
	assert.Equal(t, int64(11000), rules[0].WeekdayPrices[0].Cents)
}

func TestRuleServiceUpsertValidation(t *testing.T) {
	svc := NewRuleService(newFakeStore())
	ctx := context.Background()

	inverted := flatRule(core.NewDate(2024, 6, 30), core.NewDate(2024, 6, 1), 10000)
	_, err := svc.Upsert(ctx, inverted)
	assert.ErrorIs(t, err, core.ErrInvalidRange)

	negative := flatRule(core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30), 10000)
	negative.WeekdayPrices[3] = core.Money{Cents: -1}
	_, err = svc.Upsert(ctx, negative)
	assert.ErrorIs(t, err, core.ErrInvalidPrice)
}

func TestRuleServiceConcurrentOverlappingUpserts(t *testing.T) {
	store := newFakeStore()
	svc := NewRuleService(store)
	ctx := context.Background()

	// Both candidates cover July; whichever lands first must make the other
	// fail the overlap check, never both persisting.
	first := flatRule(core.NewDate(2024, 7, 1), core.NewDate(2024, 7, 31), 10000)
	second := flatRule(core.NewDate(2024, 7, 15), core.NewDate(2024, 8, 15), 14000)

	errs := make(chan error, 2)
	for _, rule := range []core.SeasonalRule{first, second} {
		go func(r core.SeasonalRule) {
			_, err := svc.Upsert(ctx, r)
			errs <- err
		}(rule)
	}

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, core.ErrRuleOverlap)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one upsert should lose the race")

	rules, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestRuleServiceRemoveIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewRuleService(store)
	ctx := context.Background()

	id, err := svc.Upsert(ctx, flatRule(core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30), 10000))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, id))
	require.NoError(t, svc.Remove(ctx, id))

	rules, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestQuoteServiceQuoteStay(t *testing.T) {
	store := newFakeStore()
	rules := NewRuleService(store)
	svc := NewQuoteService(rules)
	ctx := context.Background()

	june := core.SeasonalRule{
		Range: core.NewDateRange(core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30)),
		WeekdayPrices: [7]core.Money{
			{Cents: 11000}, // Sunday
			{Cents: 10000},
			{Cents: 10500},
			{Cents: 9500},
			{Cents: 9000},
			{Cents: 12000},
			{Cents: 13000},
		},
	}
	_, err := rules.Upsert(ctx, june)
	require.NoError(t, err)

	// Mon 10th, Tue 11th, Wed 12th priced; Thu 13th is checkout
	q, err := svc.QuoteStay(ctx, core.NewDateRange(core.NewDate(2024, 6, 10), core.NewDate(2024, 6, 13)))
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, int64(30000), q.Amount.Cents)
}

func TestQuoteServiceQuoteStayInvalidRange(t *testing.T) {
	svc := NewQuoteService(NewRuleService(newFakeStore()))
	ctx := context.Background()

	_, err := svc.QuoteStay(ctx, core.NewDateRange(core.NewDate(2024, 6, 10), core.NewDate(2024, 6, 10)))
	assert.ErrorIs(t, err, core.ErrInvalidRange)
}

func TestQuoteServiceUncoveredNightsPriceToZero(t *testing.T) {
	store := newFakeStore()
	rules := NewRuleService(store)
	svc := NewQuoteService(rules)
	ctx := context.Background()

	q, err := svc.QuoteStay(ctx, core.NewDateRange(core.NewDate(2024, 6, 10), core.NewDate(2024, 6, 13)))
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.Amount.Cents)
}
