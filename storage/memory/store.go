// Package memory provides an in-memory record store used in development and
// tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/medication"
	"github.com/cardiaccare/cardiaccare-api/storage"
)

// Compile-time check to ensure Store implements RecordStore
var _ interfaces.RecordStore = (*Store)(nil)

// Store keeps records in mutex-guarded maps.
type Store struct {
	mu          sync.RWMutex
	medications map[string]medication.MedicationRecord
	habits      map[string]medication.Habit
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		medications: make(map[string]medication.MedicationRecord),
		habits:      make(map[string]medication.Habit),
	}
}

// ListMedications returns all medication records ordered by name.
func (s *Store) ListMedications(ctx context.Context) ([]medication.MedicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]medication.MedicationRecord, 0, len(s.medications))
	for _, r := range s.medications {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].MedicationName < records[j].MedicationName
	})
	return records, nil
}

// CreateMedication stores a record, rejecting duplicate names.
func (s *Store) CreateMedication(ctx context.Context, record medication.MedicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.medications[record.MedicationName]; exists {
		return storage.ErrDuplicate
	}
	s.medications[record.MedicationName] = record
	return nil
}

// DeleteMedication removes a record by name.
func (s *Store) DeleteMedication(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.medications[name]; !exists {
		return storage.ErrNotFound
	}
	delete(s.medications, name)
	return nil
}

// ListHabits returns all habits ordered by creation time, oldest first.
func (s *Store) ListHabits(ctx context.Context) ([]medication.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habits := make([]medication.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

// CreateHabit stores a habit, rejecting duplicate IDs.
func (s *Store) CreateHabit(ctx context.Context, habit medication.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.habits[habit.ID]; exists {
		return storage.ErrDuplicate
	}
	s.habits[habit.ID] = habit
	return nil
}

// DeleteHabit removes a habit by ID.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.habits[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.habits, id)
	return nil
}
