// Package postgres provides the record store backed by Postgres via pgx.
//
// Expected schema:
//
//	CREATE TABLE medications (
//	    medication_name text PRIMARY KEY,
//	    dose_amount     integer NOT NULL,
//	    dose_unit       text NOT NULL,
//	    amount_per_day  integer NOT NULL,
//	    time_to_take    text[] NOT NULL
//	);
//
//	CREATE TABLE habits (
//	    id          uuid PRIMARY KEY,
//	    habit_name  text NOT NULL,
//	    description text NOT NULL DEFAULT '',
//	    created_at  timestamptz NOT NULL
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/medication"
	"github.com/cardiaccare/cardiaccare-api/storage"
)

// Compile-time check to ensure Store implements RecordStore
var _ interfaces.RecordStore = (*Store)(nil)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Store issues SQL against a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects a pool to the given DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// ListMedications returns all medication records ordered by name.
func (s *Store) ListMedications(ctx context.Context) ([]medication.MedicationRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT medication_name, dose_amount, dose_unit, amount_per_day, time_to_take
		FROM medications
		ORDER BY medication_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]medication.MedicationRecord, 0)
	for rows.Next() {
		var r medication.MedicationRecord
		if err := rows.Scan(&r.MedicationName, &r.DoseAmount, &r.DoseUnit, &r.AmountPerDay, &r.TimeToTake); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CreateMedication inserts a record; a primary key collision maps to
// storage.ErrDuplicate.
func (s *Store) CreateMedication(ctx context.Context, record medication.MedicationRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO medications (medication_name, dose_amount, dose_unit, amount_per_day, time_to_take)
		VALUES ($1, $2, $3, $4, $5)
	`,
		record.MedicationName,
		record.DoseAmount,
		record.DoseUnit,
		record.AmountPerDay,
		record.TimeToTake,
	)
	if isDuplicate(err) {
		return storage.ErrDuplicate
	}
	return err
}

// DeleteMedication removes a record by name.
func (s *Store) DeleteMedication(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM medications WHERE medication_name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListHabits returns all habits, oldest first.
func (s *Store) ListHabits(ctx context.Context) ([]medication.Habit, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, habit_name, description, created_at
		FROM habits
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := make([]medication.Habit, 0)
	for rows.Next() {
		var h medication.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// CreateHabit inserts a habit.
func (s *Store) CreateHabit(ctx context.Context, habit medication.Habit) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO habits (id, habit_name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		habit.ID,
		habit.Name,
		habit.Description,
		habit.CreatedAt,
	)
	if isDuplicate(err) {
		return storage.ErrDuplicate
	}
	return err
}

// DeleteHabit removes a habit by ID.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
