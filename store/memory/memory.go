// Package memory provides an in-memory store implementation for tests
// and development.
package memory

import (
	"context"
	"sync"

	"github.com/sigap/mitra-engine/engine"
	"github.com/sigap/mitra-engine/importer"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu            sync.RWMutex
	partners      []engine.Partner
	subActivities []engine.SubActivity
	rateCards     []engine.RateCard
	limitRules    []engine.LimitRule
	tasks         []engine.AssignmentTask
	memberships   []engine.AssignmentMembership
}

var _ importer.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// LoadSnapshot builds a fresh snapshot from the current state.
func (s *Store) LoadSnapshot(_ context.Context) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return engine.NewSnapshot(engine.SnapshotInput{
		Partners:      append([]engine.Partner{}, s.partners...),
		SubActivities: append([]engine.SubActivity{}, s.subActivities...),
		RateCards:     append([]engine.RateCard{}, s.rateCards...),
		LimitRules:    append([]engine.LimitRule{}, s.limitRules...),
		Tasks:         append([]engine.AssignmentTask{}, s.tasks...),
		Memberships:   append([]engine.AssignmentMembership{}, s.memberships...),
	}), nil
}

// =============================================================================
// WRITERS
// =============================================================================

func (s *Store) SavePartner(_ context.Context, p engine.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.partners {
		if existing.ID == p.ID {
			s.partners[i] = p
			return nil
		}
	}
	s.partners = append(s.partners, p)
	return nil
}

func (s *Store) SaveSubActivity(_ context.Context, sa engine.SubActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.subActivities {
		if existing.ID == sa.ID {
			s.subActivities[i] = sa
			return nil
		}
	}
	s.subActivities = append(s.subActivities, sa)
	return nil
}

func (s *Store) SaveRateCard(_ context.Context, rc engine.RateCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.rateCards {
		if existing.SubActivityID == rc.SubActivityID && existing.Position == rc.Position {
			s.rateCards[i] = rc
			return nil
		}
	}
	s.rateCards = append(s.rateCards, rc)
	return nil
}

func (s *Store) SaveLimitRule(_ context.Context, lr engine.LimitRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.limitRules {
		if existing.Year == lr.Year {
			s.limitRules[i] = lr
			return nil
		}
	}
	s.limitRules = append(s.limitRules, lr)
	return nil
}

func (s *Store) SaveTask(_ context.Context, t engine.AssignmentTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.tasks {
		if existing.ID == t.ID {
			s.tasks[i] = t
			return nil
		}
	}
	s.tasks = append(s.tasks, t)
	return nil
}

func (s *Store) AppendMemberships(_ context.Context, ms []engine.AssignmentMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships = append(s.memberships, ms...)
	return nil
}

// Reset clears everything. Dev/test only.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners = nil
	s.subActivities = nil
	s.rateCards = nil
	s.limitRules = nil
	s.tasks = nil
	s.memberships = nil
	return nil
}

// =============================================================================
// TRANSACTIONS - Simulated with a state snapshot + rollback on error
// =============================================================================

func (s *Store) WithTx(ctx context.Context, fn func(importer.Store) error) error {
	s.mu.Lock()
	saved := s.copyStateLocked()
	s.mu.Unlock()

	if err := fn(&txView{parent: s}); err != nil {
		s.mu.Lock()
		s.restoreLocked(saved)
		s.mu.Unlock()
		return err
	}
	return nil
}

type state struct {
	partners      []engine.Partner
	subActivities []engine.SubActivity
	rateCards     []engine.RateCard
	limitRules    []engine.LimitRule
	tasks         []engine.AssignmentTask
	memberships   []engine.AssignmentMembership
}

func (s *Store) copyStateLocked() state {
	return state{
		partners:      append([]engine.Partner{}, s.partners...),
		subActivities: append([]engine.SubActivity{}, s.subActivities...),
		rateCards:     append([]engine.RateCard{}, s.rateCards...),
		limitRules:    append([]engine.LimitRule{}, s.limitRules...),
		tasks:         append([]engine.AssignmentTask{}, s.tasks...),
		memberships:   append([]engine.AssignmentMembership{}, s.memberships...),
	}
}

func (s *Store) restoreLocked(saved state) {
	s.partners = saved.partners
	s.subActivities = saved.subActivities
	s.rateCards = saved.rateCards
	s.limitRules = saved.limitRules
	s.tasks = saved.tasks
	s.memberships = saved.memberships
}

// txView delegates to the parent; rollback is handled by WithTx.
type txView struct {
	parent *Store
}

func (tv *txView) LoadSnapshot(ctx context.Context) (*engine.Snapshot, error) {
	return tv.parent.LoadSnapshot(ctx)
}

func (tv *txView) WithTx(ctx context.Context, fn func(importer.Store) error) error {
	return fn(tv)
}

func (tv *txView) AppendMemberships(ctx context.Context, ms []engine.AssignmentMembership) error {
	return tv.parent.AppendMemberships(ctx, ms)
}
