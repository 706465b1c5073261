package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lanchinho/scheduler/internal/calendar"
	"github.com/lanchinho/scheduler/internal/domain"
	"github.com/lanchinho/scheduler/internal/engine"
	"github.com/lanchinho/scheduler/internal/storage"
)

// ScheduleService resolves, generates and edits monthly group schedules.
//
// All mutating operations are serialized behind a single mutex: the
// storage layer is the only shared state and concurrent regenerations
// of the same month would otherwise race (last writer wins).
type ScheduleService struct {
	store storage.Storage

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduleService creates a ScheduleService with a time-seeded
// random source, so repeated regenerations are not predictable.
func NewScheduleService(store storage.Storage) *ScheduleService {
	return NewScheduleServiceWithRand(store, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewScheduleServiceWithRand creates a ScheduleService with the given
// random source. Tests use a fixed seed to assert exact output.
func NewScheduleServiceWithRand(store storage.Storage, rng *rand.Rand) *ScheduleService {
	return &ScheduleService{store: store, rng: rng}
}

// ResolveMonth returns the month's schedule, reusing stored assignments
// when they still match the current roster size and regenerating them
// otherwise.
func (s *ScheduleService) ResolveMonth(ctx context.Context, month string, formation domain.Formation, groupSize int) (*domain.MonthSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.store.ListActiveParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	// Single formation is stored per month regardless of size; multiple
	// formation keys on the specific group size.
	sizeFilter := 0
	if formation == domain.FormationMultiple {
		sizeFilter = groupSize
	}
	stored, err := s.store.ListAssignments(ctx, month, formation, sizeFilter)
	if err != nil {
		return nil, fmt.Errorf("loading stored groups: %w", err)
	}

	if len(stored) > 0 && isStale(stored, formation, len(roster)) {
		if err := s.store.DeleteAssignments(ctx, month, formation); err != nil {
			return nil, fmt.Errorf("discarding stale groups: %w", err)
		}
		stored = nil
	}

	if len(stored) > 0 {
		return &domain.MonthSchedule{
			Month:     month,
			Formation: formation,
			GroupSize: groupSize,
			Weeks:     reshape(stored),
		}, nil
	}

	weeks, err := s.generate(ctx, month, formation, groupSize, roster)
	if err != nil {
		return nil, err
	}
	return &domain.MonthSchedule{
		Month:     month,
		Formation: formation,
		GroupSize: groupSize,
		Weeks:     weeks,
	}, nil
}

// isStale reports whether stored rows no longer match the roster size.
// Only the participant count is compared; a same-size roster with
// different members is not detected.
func isStale(stored []*domain.Assignment, formation domain.Formation, rosterSize int) bool {
	if formation == domain.FormationSingle {
		return len(domain.DecodeMembers(stored[0].Members)) != rosterSize
	}
	distinct := make(map[string]bool)
	for _, row := range stored {
		if row.WeekNumber != 1 {
			continue
		}
		for _, name := range domain.DecodeMembers(row.Members) {
			distinct[name] = true
		}
	}
	return len(distinct) != rosterSize
}

// reshape folds stored rows (ordered by week number, group index) back
// into the week-group structure.
func reshape(stored []*domain.Assignment) []domain.Week {
	var weeks []domain.Week
	for _, row := range stored {
		if len(weeks) == 0 || weeks[len(weeks)-1].WeekNumber != row.WeekNumber {
			weeks = append(weeks, domain.Week{
				Date:       row.Date,
				WeekNumber: row.WeekNumber,
			})
		}
		week := &weeks[len(weeks)-1]
		week.Groups = append(week.Groups, domain.DecodeMembers(row.Members))
	}
	return weeks
}

// generate builds a fresh schedule for every Friday of the month and
// atomically replaces the month's stored rows.
func (s *ScheduleService) generate(ctx context.Context, month string, formation domain.Formation, groupSize int, roster []string) ([]domain.Week, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid month %q", domain.ErrInvalidInput, month)
	}
	fridays, err := calendar.Fridays(start.Year(), int(start.Month()))
	if err != nil {
		return nil, err
	}

	carryOver := s.previousMonthCarryOver(ctx, month, groupSize)

	weeks := make([]domain.Week, 0, len(fridays))
	for i, friday := range fridays {
		var seed []string
		if i == 0 {
			seed = carryOver
		}
		groups := engine.FormWeekGroups(roster, groupSize, formation, weeks, i, seed, s.rng)
		weeks = append(weeks, domain.Week{
			Date:       friday.Format("2006-01-02"),
			WeekNumber: i + 1,
			Groups:     groups,
		})
	}

	if err := s.persist(ctx, month, formation, groupSize, weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

// previousMonthCarryOver looks up the last group generated for the
// previous month with the same size. Best effort: failures degrade to
// no carry-over constraint.
func (s *ScheduleService) previousMonthCarryOver(ctx context.Context, month string, groupSize int) []string {
	prev, err := domain.PreviousMonth(month)
	if err != nil {
		return nil
	}
	group, err := s.store.LastGroupOfMonth(ctx, prev, groupSize)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("Carry-over lookup for %s failed: %v", prev, err)
		}
		return nil
	}
	return group
}

func (s *ScheduleService) persist(ctx context.Context, month string, formation domain.Formation, groupSize int, weeks []domain.Week) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.DeleteAssignments(ctx, month, formation); err != nil {
		return fmt.Errorf("replacing stored groups: %w", err)
	}
	for _, week := range weeks {
		for i, group := range week.Groups {
			a := &domain.Assignment{
				ID:         uuid.New().String(),
				Month:      month,
				GroupSize:  groupSize,
				Formation:  formation,
				WeekNumber: week.WeekNumber,
				Date:       week.Date,
				Members:    domain.EncodeMembers(group),
				GroupIndex: i + 1,
			}
			if err := tx.InsertAssignment(ctx, a); err != nil {
				return fmt.Errorf("storing week %d group %d: %w", week.WeekNumber, i+1, err)
			}
		}
	}
	return tx.Commit()
}

// ResetMonth discards every stored assignment of the month, for all
// formations and sizes. The next resolve regenerates from scratch.
func (s *ScheduleService) ResetMonth(ctx context.Context, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.DeleteAssignments(ctx, month, "")
}

// EditGroup replaces the member list of one group on the given Friday.
// The new members are stored verbatim; a manual edit is authoritative
// and is not re-checked against the roster.
func (s *ScheduleService) EditGroup(ctx context.Context, date string, groupIndex int, members []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.ListAssignmentsByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("loading groups for %s: %w", date, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: no groups for date %s", domain.ErrNotFound, date)
	}
	if groupIndex < 0 || groupIndex >= len(rows) {
		return fmt.Errorf("%w: group index %d out of range", domain.ErrNotFound, groupIndex)
	}
	return s.store.UpdateAssignmentMembers(ctx, rows[groupIndex].ID, members)
}

// AvailableDates returns the Fridays with stored groups for a month.
func (s *ScheduleService) AvailableDates(ctx context.Context, month string) ([]string, error) {
	return s.store.AvailableDates(ctx, month)
}
