package sql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/lanchinho/scheduler/internal/domain"
	"github.com/lanchinho/scheduler/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, driver: s.driver}, nil
}

// Tx wraps a database transaction.
type Tx struct {
	tx     *sqlx.Tx
	driver string
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Close is a no-op for transactions (they should be committed or rolled back).
func (t *Tx) Close() error {
	return nil
}

// BeginTx is not supported within a transaction.
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, fmt.Errorf("nested transactions not supported")
}

// helper to get the correct database interface
type dbInterface interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ============================================
// Participants
// ============================================

func createParticipant(ctx context.Context, db dbInterface, p *domain.Participant) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO participants (id, name, active, created_at)
		 VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Active, p.CreatedAt)
	return err
}

func (s *Store) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	return createParticipant(ctx, s.db, p)
}

func (t *Tx) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	return createParticipant(ctx, t.tx, p)
}

func listActiveParticipants(ctx context.Context, db dbInterface) ([]string, error) {
	names := []string{}
	err := db.SelectContext(ctx, &names,
		`SELECT name FROM participants WHERE active = $1 ORDER BY name`, true)
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) ListActiveParticipants(ctx context.Context) ([]string, error) {
	return listActiveParticipants(ctx, s.db)
}

func (t *Tx) ListActiveParticipants(ctx context.Context) ([]string, error) {
	return listActiveParticipants(ctx, t.tx)
}

func countActiveParticipants(ctx context.Context, db dbInterface) (int, error) {
	var count int
	err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM participants WHERE active = $1`, true)
	return count, err
}

func (s *Store) CountActiveParticipants(ctx context.Context) (int, error) {
	return countActiveParticipants(ctx, s.db)
}

func (t *Tx) CountActiveParticipants(ctx context.Context) (int, error) {
	return countActiveParticipants(ctx, t.tx)
}

func hasActiveParticipant(ctx context.Context, db dbInterface, name string) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM participants WHERE name = $1 AND active = $2`, name, true)
	return count > 0, err
}

func (s *Store) HasActiveParticipant(ctx context.Context, name string) (bool, error) {
	return hasActiveParticipant(ctx, s.db, name)
}

func (t *Tx) HasActiveParticipant(ctx context.Context, name string) (bool, error) {
	return hasActiveParticipant(ctx, t.tx, name)
}

func deactivateParticipant(ctx context.Context, db dbInterface, name string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE participants SET active = $1 WHERE name = $2 AND active = $3`,
		false, name, true)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeactivateParticipant(ctx context.Context, name string) error {
	return deactivateParticipant(ctx, s.db, name)
}

func (t *Tx) DeactivateParticipant(ctx context.Context, name string) error {
	return deactivateParticipant(ctx, t.tx, name)
}

// ============================================
// Week assignments
// ============================================

func insertAssignment(ctx context.Context, db dbInterface, a *domain.Assignment) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO week_assignments (id, month, group_size, formation, week_number, friday, members, group_index)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Month, a.GroupSize, a.Formation, a.WeekNumber, a.Date, a.Members, a.GroupIndex)
	return err
}

func (s *Store) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	return insertAssignment(ctx, s.db, a)
}

func (t *Tx) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	return insertAssignment(ctx, t.tx, a)
}

func listAssignments(ctx context.Context, db dbInterface, month string, formation domain.Formation, groupSize int) ([]*domain.Assignment, error) {
	query := `SELECT id, month, group_size, formation, week_number, friday, members, group_index
		 FROM week_assignments WHERE month = $1`
	args := []any{month}
	if formation != "" {
		args = append(args, formation)
		query += fmt.Sprintf(" AND formation = $%d", len(args))
	}
	if groupSize > 0 {
		args = append(args, groupSize)
		query += fmt.Sprintf(" AND group_size = $%d", len(args))
	}
	query += " ORDER BY week_number, group_index"

	var assignments []*domain.Assignment
	if err := db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *Store) ListAssignments(ctx context.Context, month string, formation domain.Formation, groupSize int) ([]*domain.Assignment, error) {
	return listAssignments(ctx, s.db, month, formation, groupSize)
}

func (t *Tx) ListAssignments(ctx context.Context, month string, formation domain.Formation, groupSize int) ([]*domain.Assignment, error) {
	return listAssignments(ctx, t.tx, month, formation, groupSize)
}

func listAssignmentsByDate(ctx context.Context, db dbInterface, date string) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	err := db.SelectContext(ctx, &assignments,
		`SELECT id, month, group_size, formation, week_number, friday, members, group_index
		 FROM week_assignments WHERE friday = $1 ORDER BY group_index`, date)
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *Store) ListAssignmentsByDate(ctx context.Context, date string) ([]*domain.Assignment, error) {
	return listAssignmentsByDate(ctx, s.db, date)
}

func (t *Tx) ListAssignmentsByDate(ctx context.Context, date string) ([]*domain.Assignment, error) {
	return listAssignmentsByDate(ctx, t.tx, date)
}

func deleteAssignments(ctx context.Context, db dbInterface, month string, formation domain.Formation) error {
	if formation == "" {
		_, err := db.ExecContext(ctx, `DELETE FROM week_assignments WHERE month = $1`, month)
		return err
	}
	_, err := db.ExecContext(ctx,
		`DELETE FROM week_assignments WHERE month = $1 AND formation = $2`, month, formation)
	return err
}

func (s *Store) DeleteAssignments(ctx context.Context, month string, formation domain.Formation) error {
	return deleteAssignments(ctx, s.db, month, formation)
}

func (t *Tx) DeleteAssignments(ctx context.Context, month string, formation domain.Formation) error {
	return deleteAssignments(ctx, t.tx, month, formation)
}

func deleteAllAssignments(ctx context.Context, db dbInterface) error {
	_, err := db.ExecContext(ctx, `DELETE FROM week_assignments`)
	return err
}

func (s *Store) DeleteAllAssignments(ctx context.Context) error {
	return deleteAllAssignments(ctx, s.db)
}

func (t *Tx) DeleteAllAssignments(ctx context.Context) error {
	return deleteAllAssignments(ctx, t.tx)
}

func updateAssignmentMembers(ctx context.Context, db dbInterface, id string, members []string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE week_assignments SET members = $1 WHERE id = $2`,
		domain.EncodeMembers(members), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateAssignmentMembers(ctx context.Context, id string, members []string) error {
	return updateAssignmentMembers(ctx, s.db, id, members)
}

func (t *Tx) UpdateAssignmentMembers(ctx context.Context, id string, members []string) error {
	return updateAssignmentMembers(ctx, t.tx, id, members)
}

func lastGroupOfMonth(ctx context.Context, db dbInterface, month string, groupSize int) ([]string, error) {
	var raw string
	err := db.GetContext(ctx, &raw,
		`SELECT members FROM week_assignments WHERE month = $1 AND group_size = $2
		 ORDER BY week_number DESC, group_index DESC LIMIT 1`, month, groupSize)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return domain.DecodeMembers(raw), nil
}

func (s *Store) LastGroupOfMonth(ctx context.Context, month string, groupSize int) ([]string, error) {
	return lastGroupOfMonth(ctx, s.db, month, groupSize)
}

func (t *Tx) LastGroupOfMonth(ctx context.Context, month string, groupSize int) ([]string, error) {
	return lastGroupOfMonth(ctx, t.tx, month, groupSize)
}

func availableDates(ctx context.Context, db dbInterface, month string) ([]string, error) {
	dates := []string{}
	err := db.SelectContext(ctx, &dates,
		`SELECT DISTINCT friday FROM week_assignments WHERE month = $1 ORDER BY friday`, month)
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func (s *Store) AvailableDates(ctx context.Context, month string) ([]string, error) {
	return availableDates(ctx, s.db, month)
}

func (t *Tx) AvailableDates(ctx context.Context, month string) ([]string, error) {
	return availableDates(ctx, t.tx, month)
}
