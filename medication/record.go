package medication

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MedicationRecord is the only entity that crosses the boundary to the record
// store. Its identity key is MedicationName; TimeToTake always holds exactly
// AmountPerDay entries in HH:MM:SS form.
type MedicationRecord struct {
	MedicationName string   `json:"medication_name"`
	DoseAmount     int      `json:"dose_amount"`
	DoseUnit       string   `json:"dose_unit"`
	AmountPerDay   int      `json:"amount_per_day"`
	TimeToTake     []string `json:"time_to_take"`
}

// Habit is a recurring activity the user tracks alongside medications.
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"habit_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidationError identifies which record field failed a precondition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AssembleRecord combines the parsed dose and per-slot times into a record
// ready for persistence. dose is nil when the label never parsed. All
// preconditions are mandatory; on any failure a *ValidationError naming the
// failing field is returned and nothing is persisted by the caller. Slots are
// normalized to HH:MM:SS on success.
func AssembleRecord(name string, dose *Dose, amountPerDay int, slots []string) (MedicationRecord, error) {
	if strings.TrimSpace(name) == "" {
		return MedicationRecord{}, &ValidationError{Field: "medication_name", Message: "name is required"}
	}
	if dose == nil {
		return MedicationRecord{}, &ValidationError{Field: "dose", Message: "product label did not parse"}
	}
	if dose.Amount <= 0 || dose.Unit == "" {
		return MedicationRecord{}, &ValidationError{Field: "dose", Message: "incomplete dose"}
	}
	if amountPerDay < MinDosesPerDay || amountPerDay > MaxDosesPerDay {
		return MedicationRecord{}, &ValidationError{
			Field:   "amount_per_day",
			Message: fmt.Sprintf("must be between %d and %d", MinDosesPerDay, MaxDosesPerDay),
		}
	}
	if amountPerDay != len(slots) {
		return MedicationRecord{}, &ValidationError{
			Field:   "time_to_take",
			Message: fmt.Sprintf("expected %d time slots, got %d", amountPerDay, len(slots)),
		}
	}

	normalized := make([]string, len(slots))
	for i, slot := range slots {
		if strings.TrimSpace(slot) == "" {
			return MedicationRecord{}, &ValidationError{
				Field:   "time_to_take",
				Message: fmt.Sprintf("slot %d is empty", i+1),
			}
		}
		n, ok := NormalizeSlot(slot)
		if !ok {
			return MedicationRecord{}, &ValidationError{
				Field:   "time_to_take",
				Message: fmt.Sprintf("slot %d is not a valid time: %s", i+1, slot),
			}
		}
		normalized[i] = n
	}

	return MedicationRecord{
		MedicationName: name,
		DoseAmount:     dose.Amount,
		DoseUnit:       dose.Unit,
		AmountPerDay:   amountPerDay,
		TimeToTake:     normalized,
	}, nil
}

// NewHabit validates and builds a habit with a fresh identifier.
func NewHabit(name, description string) (Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Habit{}, &ValidationError{Field: "habit_name", Message: "name is required"}
	}

	return Habit{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}, nil
}
