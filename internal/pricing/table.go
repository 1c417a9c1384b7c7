// Package pricing implements seasonal nightly rates and stay quoting.
//
// A Table holds the full set of seasonal rules for the property. Rules carry
// an inclusive date interval and one rate per weekday; the set is kept
// pairwise non-overlapping, enforced when rules are inserted or edited.
package pricing

import (
	"sort"
	"sync"

	"villabook/internal/core"
)

// Table is an ordered, non-overlapping set of seasonal rules.
//
// Upsert and Remove mutate; PriceFor and Rules read. The mutex serializes
// the two when a table is shared between the HTTP layer and the services;
// single-goroutine use needs no extra discipline.
type Table struct {
	mu    sync.RWMutex
	rules []core.SeasonalRule // ascending by Range.Start
}

// NewTable builds an empty table.
func NewTable() *Table {
	return &Table{}
}

// NewTableFromRules builds a table from a stored snapshot, validating every
// rule and the pairwise non-overlap invariant. Used when loading from the
// repository, where the invariant was already enforced at write time.
func NewTableFromRules(rules []core.SeasonalRule) (*Table, error) {
	t := NewTable()
	for _, r := range rules {
		if err := t.Upsert(r); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Upsert inserts a rule, or replaces the stored rule with the same ID.
//
// Fails with core.ErrInvalidRange or core.ErrInvalidPrice when the rule
// itself is malformed, and with core.ErrRuleOverlap when its inclusive range
// intersects any other stored rule. Nothing is mutated on failure.
func (t *Table) Upsert(rule core.SeasonalRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	replaceAt := -1
	for i, existing := range t.rules {
		if rule.ID != 0 && existing.ID == rule.ID {
			replaceAt = i
			continue
		}
		if rule.Range.IntersectsInclusive(existing.Range) {
			return core.ErrRuleOverlap
		}
	}

	if replaceAt >= 0 {
		t.rules[replaceAt] = rule
	} else {
		t.rules = append(t.rules, rule)
	}
	sort.SliceStable(t.rules, func(i, j int) bool {
		return t.rules[i].Range.Start.Before(t.rules[j].Range.Start)
	})
	return nil
}

// Remove deletes the rule with the given ID. Removing an absent rule is a
// no-op.
func (t *Table) Remove(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rules {
		if r.ID == id {
			t.rules = append(t.rules[:i], t.rules[i+1:]...)
			return
		}
	}
}

// PriceFor returns the weekday rate of the rule covering the given date, or
// zero Money when no rule covers it. Rules are scanned in ascending start
// order and the first containing rule wins; with the overlap invariant
// holding at most one rule can match, so the order only matters as a
// fallback if the invariant was ever violated upstream.
func (t *Table) PriceFor(date core.Date) core.Money {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.rules {
		if r.Range.ContainsDay(date) {
			return r.PriceForWeekday(date.Weekday())
		}
	}
	return core.Money{}
}

// Covers reports whether some rule's inclusive range contains the date.
func (t *Table) Covers(date core.Date) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.rules {
		if r.Range.ContainsDay(date) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the stored rules in ascending start order.
func (t *Table) Rules() []core.SeasonalRule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.SeasonalRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of stored rules.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rules)
}
