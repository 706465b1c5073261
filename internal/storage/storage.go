package storage

import (
	"context"

	"github.com/lanchinho/scheduler/internal/domain"
)

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// Participants
	CreateParticipant(ctx context.Context, p *domain.Participant) error
	ListActiveParticipants(ctx context.Context) ([]string, error)
	CountActiveParticipants(ctx context.Context) (int, error)
	HasActiveParticipant(ctx context.Context, name string) (bool, error)
	DeactivateParticipant(ctx context.Context, name string) error

	// Week assignments
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	// ListAssignments returns the rows for a month ordered by week number
	// then group index. An empty formation matches every formation and a
	// non-positive groupSize matches every size.
	ListAssignments(ctx context.Context, month string, formation domain.Formation, groupSize int) ([]*domain.Assignment, error)
	// ListAssignmentsByDate returns the rows for one Friday ordered by group index.
	ListAssignmentsByDate(ctx context.Context, date string) ([]*domain.Assignment, error)
	// DeleteAssignments removes a month's rows. An empty formation removes
	// the month's rows for every formation.
	DeleteAssignments(ctx context.Context, month string, formation domain.Formation) error
	DeleteAllAssignments(ctx context.Context) error
	UpdateAssignmentMembers(ctx context.Context, id string, members []string) error
	// LastGroupOfMonth returns the member list of the month's last stored
	// group for the given size, by (week number desc, group index desc).
	// Returns domain.ErrNotFound when the month has no rows for that size.
	LastGroupOfMonth(ctx context.Context, month string, groupSize int) ([]string, error)
	// AvailableDates returns the distinct Fridays stored for a month, ascending.
	AvailableDates(ctx context.Context, month string) ([]string, error)

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Storage
	Commit() error
	Rollback() error
}
