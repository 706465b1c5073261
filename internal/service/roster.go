package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lanchinho/scheduler/internal/domain"
)

// ListParticipants returns the active roster names in alphabetical order.
func (s *ScheduleService) ListParticipants(ctx context.Context) ([]string, error) {
	return s.store.ListActiveParticipants(ctx)
}

// AddParticipant adds a name to the roster and returns the updated
// roster. Stored assignments for every month are discarded in the same
// transaction: they were built for the old roster. Fails with
// domain.ErrAlreadyExists, and leaves stored groups untouched, when an
// active participant of that name exists.
func (s *ScheduleService) AddParticipant(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := tx.HasActiveParticipant(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking participant %q: %w", name, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: participant %q", domain.ErrAlreadyExists, name)
	}

	p := &domain.Participant{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := tx.CreateParticipant(ctx, p); err != nil {
		return nil, fmt.Errorf("adding participant %q: %w", name, err)
	}
	if err := tx.DeleteAllAssignments(ctx); err != nil {
		return nil, fmt.Errorf("invalidating stored groups: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.store.ListActiveParticipants(ctx)
}

// RemoveParticipant deactivates a roster name and returns the updated
// roster. The participant row is kept so historical assignments remain
// readable; stored assignments are discarded in the same transaction.
func (s *ScheduleService) RemoveParticipant(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.DeactivateParticipant(ctx, name); err != nil {
		return nil, fmt.Errorf("removing participant %q: %w", name, err)
	}
	if err := tx.DeleteAllAssignments(ctx); err != nil {
		return nil, fmt.Errorf("invalidating stored groups: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.store.ListActiveParticipants(ctx)
}

// SeedParticipants creates the given names when the roster is empty.
// An already-populated roster is left alone.
func (s *ScheduleService) SeedParticipants(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.store.CountActiveParticipants(ctx)
	if err != nil {
		return fmt.Errorf("counting participants: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range names {
		p := &domain.Participant{
			ID:        uuid.New().String(),
			Name:      name,
			Active:    true,
			CreatedAt: time.Now(),
		}
		if err := s.store.CreateParticipant(ctx, p); err != nil {
			return fmt.Errorf("seeding participant %q: %w", name, err)
		}
	}
	log.Printf("Seeded roster with %d participants", len(names))
	return nil
}
