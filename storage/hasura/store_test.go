package hasura

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cardiaccare/cardiaccare-api/medication"
	"github.com/cardiaccare/cardiaccare-api/storage"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
	Secret    string
}

// newTestStore returns a store pointed at a stub Hasura endpoint that records
// the last request and replies with the given body.
func newTestStore(t *testing.T, reply string, last *capturedRequest) *Store {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(last); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		last.Secret = r.Header.Get("x-hasura-admin-secret")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	return NewStore(server.URL, "test-secret", 2*time.Second)
}

func TestListMedications(t *testing.T) {
	reply := `{"data": {"medication_table": [
		{"medication_name": "Ibuprofen 400 mg film-coated tablet", "dose_amount": 400,
		 "dose_unit": "mg", "amount_per_day": 2, "time_to_take": ["08:00:00", "20:00:00"]}
	]}}`
	var last capturedRequest
	store := newTestStore(t, reply, &last)

	records, err := store.ListMedications(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if last.Secret != "test-secret" {
		t.Errorf("Expected admin secret header, got %q", last.Secret)
	}
	if !strings.Contains(last.Query, "medication_table") {
		t.Errorf("Expected medication_table query, got %q", last.Query)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].DoseAmount != 400 || records[0].DoseUnit != "mg" {
		t.Errorf("Unexpected record: %+v", records[0])
	}
}

func TestListMedicationsEmptyData(t *testing.T) {
	var last capturedRequest
	store := newTestStore(t, `{"data": {"medication_table": null}}`, &last)

	records, err := store.ListMedications(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", records)
	}
}

func TestCreateMedicationSendsObject(t *testing.T) {
	var last capturedRequest
	store := newTestStore(t, `{"data": {"insert_medication_table_one": {"medication_name": "x"}}}`, &last)

	record := medication.MedicationRecord{
		MedicationName: "Paracetamol 500 mg tablet",
		DoseAmount:     500,
		DoseUnit:       "mg",
		AmountPerDay:   1,
		TimeToTake:     []string{"08:00:00"},
	}
	if err := store.CreateMedication(context.Background(), record); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	object, ok := last.Variables["object"].(map[string]any)
	if !ok {
		t.Fatalf("Expected object variable, got %v", last.Variables)
	}
	if object["medication_name"] != "Paracetamol 500 mg tablet" {
		t.Errorf("Unexpected medication_name: %v", object["medication_name"])
	}
	if object["dose_amount"] != float64(500) {
		t.Errorf("Unexpected dose_amount: %v", object["dose_amount"])
	}
}

func TestCreateMedicationDuplicate(t *testing.T) {
	reply := `{"errors": [{"message": "Uniqueness violation. duplicate key value violates unique constraint \"medication_table_pkey\""}]}`
	var last capturedRequest
	store := newTestStore(t, reply, &last)

	err := store.CreateMedication(context.Background(), medication.MedicationRecord{MedicationName: "x"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestDeleteMedicationNotFound(t *testing.T) {
	var last capturedRequest
	store := newTestStore(t, `{"data": {"delete_medication_table": {"affected_rows": 0}}}`, &last)

	err := store.DeleteMedication(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if last.Variables["name"] != "missing" {
		t.Errorf("Expected name variable, got %v", last.Variables)
	}
}

func TestGraphqlErrorSurfaces(t *testing.T) {
	var last capturedRequest
	store := newTestStore(t, `{"errors": [{"message": "field not found"}]}`, &last)

	_, err := store.ListMedications(context.Background())
	if err == nil || !strings.Contains(err.Error(), "field not found") {
		t.Errorf("Expected graphql error message, got %v", err)
	}
}

func TestHTTPErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewStore(server.URL, "secret", time.Second)
	_, err := store.ListMedications(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Expected status error, got %v", err)
	}
}

func TestHabitRoundTrip(t *testing.T) {
	var last capturedRequest
	store := newTestStore(t, `{"data": {"insert_habit_table_one": {"id": "abc"}}}`, &last)

	habit, err := medication.NewHabit("Morning walk", "30 minutes")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := store.CreateHabit(context.Background(), habit); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	object, ok := last.Variables["object"].(map[string]any)
	if !ok {
		t.Fatalf("Expected object variable, got %v", last.Variables)
	}
	if object["habit_name"] != "Morning walk" {
		t.Errorf("Unexpected habit_name: %v", object["habit_name"])
	}
}
