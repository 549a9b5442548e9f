package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/cardiaccare/cardiaccare-api/medication"
	"github.com/cardiaccare/cardiaccare-api/storage"
)

func sampleRecord(name string) medication.MedicationRecord {
	return medication.MedicationRecord{
		MedicationName: name,
		DoseAmount:     500,
		DoseUnit:       "mg",
		AmountPerDay:   2,
		TimeToTake:     []string{"08:00:00", "20:00:00"},
	}
}

func TestMedicationLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.CreateMedication(ctx, sampleRecord("Paracetamol 500 mg tablet")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := store.CreateMedication(ctx, sampleRecord("Aspirin 500 mg tablet")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records, err := store.ListMedications(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	// Ordered by name
	if records[0].MedicationName != "Aspirin 500 mg tablet" {
		t.Errorf("Expected sorted order, got %s first", records[0].MedicationName)
	}

	if err := store.DeleteMedication(ctx, "Aspirin 500 mg tablet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	records, _ = store.ListMedications(ctx)
	if len(records) != 1 {
		t.Errorf("Expected 1 record after delete, got %d", len(records))
	}
}

func TestDuplicateMedicationRejected(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	record := sampleRecord("Paracetamol 500 mg tablet")
	if err := store.CreateMedication(ctx, record); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	err := store.CreateMedication(ctx, record)
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestDeleteMissingMedication(t *testing.T) {
	store := NewStore()

	err := store.DeleteMedication(context.Background(), "nothing here")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestHabitLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first, err := medication.NewHabit("Morning walk", "30 minutes")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := medication.NewHabit("Evening stretch", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := store.CreateHabit(ctx, first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := store.CreateHabit(ctx, second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	habits, err := store.ListHabits(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("Expected 2 habits, got %d", len(habits))
	}

	if err := store.DeleteHabit(ctx, first.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := store.DeleteHabit(ctx, first.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
