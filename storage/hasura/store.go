// Package hasura provides the record store backed by a Hasura GraphQL
// endpoint, the same store the original tracker UI talked to. Records live in
// the medication_table and habit_table tables.
package hasura

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/medication"
	"github.com/cardiaccare/cardiaccare-api/storage"
)

// Compile-time check to ensure Store implements RecordStore
var _ interfaces.RecordStore = (*Store)(nil)

const defaultTimeout = 10 * time.Second

// Store issues GraphQL operations against a Hasura endpoint.
type Store struct {
	url         string
	adminSecret string
	client      *http.Client
}

// NewStore creates a store for the given endpoint. A zero timeout falls back
// to a sensible default.
func NewStore(url, adminSecret string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{
		url:         url,
		adminSecret: adminSecret,
		client:      &http.Client{Timeout: timeout},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// do posts one GraphQL operation and decodes the data payload into out.
func (s *Store) do(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-hasura-admin-secret", s.adminSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read graphql response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded graphqlResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		message := decoded.Errors[0].Message
		// Hasura reports unique key collisions as a uniqueness violation.
		if strings.Contains(strings.ToLower(message), "uniqueness violation") {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("graphql error: %s", message)
	}

	if out == nil || len(decoded.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("failed to decode graphql data: %w", err)
	}
	return nil
}

const getMedicationsQuery = `
	query GetMedications {
	  medication_table {
	    medication_name
	    dose_amount
	    dose_unit
	    amount_per_day
	    time_to_take
	  }
	}
`

// ListMedications returns all persisted medication records.
func (s *Store) ListMedications(ctx context.Context) ([]medication.MedicationRecord, error) {
	var out struct {
		MedicationTable []medication.MedicationRecord `json:"medication_table"`
	}
	if err := s.do(ctx, getMedicationsQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.MedicationTable == nil {
		return []medication.MedicationRecord{}, nil
	}
	return out.MedicationTable, nil
}

const insertMedicationMutation = `
	mutation InsertMedication($object: medication_table_insert_input!) {
	  insert_medication_table_one(object: $object) {
	    medication_name
	  }
	}
`

// CreateMedication persists a new record. Name collisions surface as
// storage.ErrDuplicate.
func (s *Store) CreateMedication(ctx context.Context, record medication.MedicationRecord) error {
	variables := map[string]any{
		"object": map[string]any{
			"medication_name": record.MedicationName,
			"dose_amount":     record.DoseAmount,
			"dose_unit":       record.DoseUnit,
			"amount_per_day":  record.AmountPerDay,
			"time_to_take":    record.TimeToTake,
		},
	}
	return s.do(ctx, insertMedicationMutation, variables, nil)
}

const deleteMedicationMutation = `
	mutation DeleteMedication($name: String!) {
	  delete_medication_table(where: {medication_name: {_eq: $name}}) {
	    affected_rows
	  }
	}
`

// DeleteMedication removes a record by its name key.
func (s *Store) DeleteMedication(ctx context.Context, name string) error {
	var out struct {
		DeleteMedicationTable struct {
			AffectedRows int `json:"affected_rows"`
		} `json:"delete_medication_table"`
	}
	if err := s.do(ctx, deleteMedicationMutation, map[string]any{"name": name}, &out); err != nil {
		return err
	}
	if out.DeleteMedicationTable.AffectedRows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const getHabitsQuery = `
	query GetHabits {
	  habit_table(order_by: {created_at: asc}) {
	    id
	    habit_name
	    description
	    created_at
	  }
	}
`

// ListHabits returns all persisted habits, oldest first.
func (s *Store) ListHabits(ctx context.Context) ([]medication.Habit, error) {
	var out struct {
		HabitTable []medication.Habit `json:"habit_table"`
	}
	if err := s.do(ctx, getHabitsQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.HabitTable == nil {
		return []medication.Habit{}, nil
	}
	return out.HabitTable, nil
}

const insertHabitMutation = `
	mutation InsertHabit($object: habit_table_insert_input!) {
	  insert_habit_table_one(object: $object) {
	    id
	  }
	}
`

// CreateHabit persists a new habit.
func (s *Store) CreateHabit(ctx context.Context, habit medication.Habit) error {
	variables := map[string]any{
		"object": map[string]any{
			"id":          habit.ID,
			"habit_name":  habit.Name,
			"description": habit.Description,
			"created_at":  habit.CreatedAt.Format(time.RFC3339),
		},
	}
	return s.do(ctx, insertHabitMutation, variables, nil)
}

const deleteHabitMutation = `
	mutation DeleteHabit($id: uuid!) {
	  delete_habit_table(where: {id: {_eq: $id}}) {
	    affected_rows
	  }
	}
`

// DeleteHabit removes a habit by ID.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	var out struct {
		DeleteHabitTable struct {
			AffectedRows int `json:"affected_rows"`
		} `json:"delete_habit_table"`
	}
	if err := s.do(ctx, deleteHabitMutation, map[string]any{"id": id}, &out); err != nil {
		return err
	}
	if out.DeleteHabitTable.AffectedRows == 0 {
		return storage.ErrNotFound
	}
	return nil
}
