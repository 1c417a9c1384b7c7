package services

import (
	"context"
	"fmt"
	"sync"

	"villabook/internal/core"
	"villabook/internal/pricing"
)

// RuleService owns the seasonal rate settings. Every write is checked
// against the full stored rule set through a pricing table first, so the
// pairwise non-overlap invariant is enforced before anything is persisted
// and lookups can rely on it.
type RuleService struct {
	store RuleStore

	// Serializes check-then-persist so two concurrent upserts cannot both
	// pass the overlap check against the same stale snapshot.
	writeMu sync.Mutex
}

func NewRuleService(store RuleStore) *RuleService {
	return &RuleService{store: store}
}

// Upsert creates (ID zero) or edits (ID set) a seasonal rule. Fails with
// core.ErrRuleOverlap, core.ErrInvalidRange or core.ErrInvalidPrice before
// touching storage.
func (s *RuleService) Upsert(ctx context.Context, rule core.SeasonalRule) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	table, err := s.Table(ctx)
	if err != nil {
		return 0, err
	}
	if err := table.Upsert(rule); err != nil {
		return 0, err
	}

	if rule.ID == 0 {
		id, err := s.store.CreateSeasonalRule(ctx, rule)
		if err != nil {
			return 0, fmt.Errorf("save seasonal rule: %w", err)
		}
		return id, nil
	}

	if err := s.store.UpdateSeasonalRule(ctx, rule); err != nil {
		return 0, fmt.Errorf("update seasonal rule: %w", err)
	}
	return rule.ID, nil
}

// Remove deletes a rule; absent IDs are a no-op.
func (s *RuleService) Remove(ctx context.Context, id int64) error {
	if err := s.store.DeleteSeasonalRule(ctx, id); err != nil {
		return fmt.Errorf("delete seasonal rule: %w", err)
	}
	return nil
}

// List returns the stored rules in ascending start order.
func (s *RuleService) List(ctx context.Context) ([]core.SeasonalRule, error) {
	rules, err := s.store.ListSeasonalRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasonal rules: %w", err)
	}
	return rules, nil
}

// Table loads the current rule snapshot into a pricing table. Callers own
// the snapshot's lifecycle: quotes against it are consistent even while
// rules are being edited concurrently.
func (s *RuleService) Table(ctx context.Context) (*pricing.Table, error) {
	rules, err := s.store.ListSeasonalRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasonal rules: %w", err)
	}
	table, err := pricing.NewTableFromRules(rules)
	if err != nil {
		// Stored rules violating the invariant means a bug or manual DB
		// edits; surface it rather than silently dropping rules.
		return nil, fmt.Errorf("load seasonal rules: %w", err)
	}
	return table, nil
}
