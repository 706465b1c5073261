package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lanchinho/scheduler/internal/domain"
	"github.com/lanchinho/scheduler/internal/storage"
)

// Store is an in-memory implementation of the storage interface for testing.
type Store struct {
	mu sync.RWMutex

	participants map[string]*domain.Participant // key: id
	assignments  map[string]*domain.Assignment  // key: id
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		participants: make(map[string]*domain.Participant),
		assignments:  make(map[string]*domain.Assignment),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return &Tx{store: s}, nil
}

// Tx is a no-op transaction for in-memory store.
type Tx struct {
	store *Store
}

func (t *Tx) Commit() error   { return nil }
func (t *Tx) Rollback() error { return nil }
func (t *Tx) Close() error    { return nil }
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, domain.ErrInvalidInput
}

// Forward all Tx methods to the underlying store
func (t *Tx) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	return t.store.CreateParticipant(ctx, p)
}
func (t *Tx) ListActiveParticipants(ctx context.Context) ([]string, error) {
	return t.store.ListActiveParticipants(ctx)
}
func (t *Tx) CountActiveParticipants(ctx context.Context) (int, error) {
	return t.store.CountActiveParticipants(ctx)
}
func (t *Tx) HasActiveParticipant(ctx context.Context, name string) (bool, error) {
	return t.store.HasActiveParticipant(ctx, name)
}
func (t *Tx) DeactivateParticipant(ctx context.Context, name string) error {
	return t.store.DeactivateParticipant(ctx, name)
}
func (t *Tx) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	return t.store.InsertAssignment(ctx, a)
}
func (t *Tx) ListAssignments(ctx context.Context, month string, formation domain.Formation, groupSize int) ([]*domain.Assignment, error) {
	return t.store.ListAssignments(ctx, month, formation, groupSize)
}
func (t *Tx) ListAssignmentsByDate(ctx context.Context, date string) ([]*domain.Assignment, error) {
	return t.store.ListAssignmentsByDate(ctx, date)
}
func (t *Tx) DeleteAssignments(ctx context.Context, month string, formation domain.Formation) error {
	return t.store.DeleteAssignments(ctx, month, formation)
}
func (t *Tx) DeleteAllAssignments(ctx context.Context) error {
	return t.store.DeleteAllAssignments(ctx)
}
func (t *Tx) UpdateAssignmentMembers(ctx context.Context, id string, members []string) error {
	return t.store.UpdateAssignmentMembers(ctx, id, members)
}
func (t *Tx) LastGroupOfMonth(ctx context.Context, month string, groupSize int) ([]string, error) {
	return t.store.LastGroupOfMonth(ctx, month, groupSize)
}
func (t *Tx) AvailableDates(ctx context.Context, month string) ([]string, error) {
	return t.store.AvailableDates(ctx, month)
}

// ============================================
// Participants
// ============================================

func (s *Store) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.participants[p.ID] = &cp
	return nil
}

func (s *Store) ListActiveParticipants(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := []string{}
	for _, p := range s.participants {
		if p.Active {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) CountActiveParticipants(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.participants {
		if p.Active {
			count++
		}
	}
	return count, nil
}

func (s *Store) HasActiveParticipant(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.participants {
		if p.Active && p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeactivateParticipant(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.participants {
		if p.Active && p.Name == name {
			p.Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// ============================================
// Week assignments
// ============================================

func (s *Store) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ca := *a
	s.assignments[a.ID] = &ca
	return nil
}

func (s *Store) ListAssignments(ctx context.Context, month string, formation domain.Formation, groupSize int) ([]*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var assignments []*domain.Assignment
	for _, a := range s.assignments {
		if a.Month != month {
			continue
		}
		if formation != "" && a.Formation != formation {
			continue
		}
		if groupSize > 0 && a.GroupSize != groupSize {
			continue
		}
		ca := *a
		assignments = append(assignments, &ca)
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].WeekNumber != assignments[j].WeekNumber {
			return assignments[i].WeekNumber < assignments[j].WeekNumber
		}
		return assignments[i].GroupIndex < assignments[j].GroupIndex
	})
	return assignments, nil
}

func (s *Store) ListAssignmentsByDate(ctx context.Context, date string) ([]*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var assignments []*domain.Assignment
	for _, a := range s.assignments {
		if a.Date != date {
			continue
		}
		ca := *a
		assignments = append(assignments, &ca)
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].GroupIndex < assignments[j].GroupIndex
	})
	return assignments, nil
}

func (s *Store) DeleteAssignments(ctx context.Context, month string, formation domain.Formation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.assignments {
		if a.Month != month {
			continue
		}
		if formation != "" && a.Formation != formation {
			continue
		}
		delete(s.assignments, id)
	}
	return nil
}

func (s *Store) DeleteAllAssignments(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments = make(map[string]*domain.Assignment)
	return nil
}

func (s *Store) UpdateAssignmentMembers(ctx context.Context, id string, members []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Members = domain.EncodeMembers(members)
	return nil
}

func (s *Store) LastGroupOfMonth(ctx context.Context, month string, groupSize int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *domain.Assignment
	for _, a := range s.assignments {
		if a.Month != month || a.GroupSize != groupSize {
			continue
		}
		if last == nil ||
			a.WeekNumber > last.WeekNumber ||
			(a.WeekNumber == last.WeekNumber && a.GroupIndex > last.GroupIndex) {
			last = a
		}
	}
	if last == nil {
		return nil, domain.ErrNotFound
	}
	return domain.DecodeMembers(last.Members), nil
}

func (s *Store) AvailableDates(ctx context.Context, month string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	dates := []string{}
	for _, a := range s.assignments {
		if a.Month != month || seen[a.Date] {
			continue
		}
		seen[a.Date] = true
		dates = append(dates, a.Date)
	}
	sort.Strings(dates)
	return dates, nil
}
