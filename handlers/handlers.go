// Package handlers provides HTTP request handlers for the tracker API
// endpoints: candidate search, dose parsing, slot derivation, medication and
// habit records, and health checks.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/logging"
	"github.com/cardiaccare/cardiaccare-api/medication"
	"github.com/cardiaccare/cardiaccare-api/scheduler"
	"github.com/cardiaccare/cardiaccare-api/storage"
	"github.com/go-chi/chi/v5"
)

// Maximum accepted JSON body for record endpoints (64KB)
const maxBodySize = 64 * 1024

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error payload
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// SearchCandidates returns up to five catalog candidates for a partial name.
func SearchCandidates(catalogStore interfaces.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := chi.URLParam(r, "query")
		if query == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing search term")
			return
		}

		candidates := catalogStore.GetIndex().Search(query)
		RespondWithJSON(w, http.StatusOK, map[string]any{
			"query":      query,
			"candidates": candidates,
		})
	}
}

// ParseLabel previews the dose extracted from a product label so the UI can
// populate or hide the dose fields while the user types.
func ParseLabel(parser *medication.LabelParser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Label string `json:"label"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		dose, ok := parser.Parse(body.Label)
		if !ok {
			RespondWithError(w, http.StatusUnprocessableEntity, "Label did not match the expected shape")
			return
		}
		RespondWithJSON(w, http.StatusOK, dose)
	}
}

// BuildSlots derives the time-slot list for a requested doses-per-day count,
// preserving slots the user already filled in.
func BuildSlots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AmountPerDay int      `json:"amount_per_day"`
			Slots        []string `json:"slots"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"slots": medication.BuildSlots(body.AmountPerDay, body.Slots),
		})
	}
}

// scheduleRow is the read-only display form of one schedule entry.
type scheduleRow struct {
	Time    string `json:"time"`
	Display string `json:"display"`
	Period  string `json:"period"`
}

// medicationView is a persisted record plus its display schedule.
type medicationView struct {
	medication.MedicationRecord
	Schedule []scheduleRow `json:"schedule"`
}

func viewOf(record medication.MedicationRecord) medicationView {
	rows := make([]scheduleRow, len(record.TimeToTake))
	for i, t := range record.TimeToTake {
		row := scheduleRow{Time: t, Display: medication.FormatClock(t)}
		if period, ok := medication.PeriodFor(t); ok {
			row.Period = string(period)
		}
		rows[i] = row
	}
	return medicationView{MedicationRecord: record, Schedule: rows}
}

// ListMedications returns all persisted records annotated for display.
func ListMedications(store interfaces.RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListMedications(r.Context())
		if err != nil {
			logging.Error("Failed to list medications", "error", err)
			RespondWithError(w, http.StatusBadGateway, "Record store unavailable")
			return
		}

		views := make([]medicationView, len(records))
		for i, record := range records {
			views[i] = viewOf(record)
		}
		RespondWithJSON(w, http.StatusOK, views)
	}
}

// CreateMedication parses the submitted label, assembles and persists the
// record. The dose is always derived server-side from the label, never taken
// from the client.
func CreateMedication(store interfaces.RecordStore, parser *medication.LabelParser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MedicationName string   `json:"medication_name"`
			Label          string   `json:"label"`
			AmountPerDay   int      `json:"amount_per_day"`
			Slots          []string `json:"slots"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		// The selected candidate label doubles as the record key unless the
		// client names the record explicitly.
		name := body.MedicationName
		if name == "" {
			name = body.Label
		}

		var dosePtr *medication.Dose
		if dose, ok := parser.Parse(body.Label); ok {
			dosePtr = &dose
		}

		record, err := medication.AssembleRecord(name, dosePtr, body.AmountPerDay, body.Slots)
		if err != nil {
			var vErr *medication.ValidationError
			if errors.As(err, &vErr) {
				RespondWithJSON(w, http.StatusBadRequest, map[string]string{
					"error": vErr.Message,
					"field": vErr.Field,
				})
				return
			}
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.CreateMedication(r.Context(), record); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				RespondWithError(w, http.StatusConflict, "A medication with this name already exists")
				return
			}
			logging.Error("Failed to create medication", "error", err, "name", record.MedicationName)
			RespondWithError(w, http.StatusBadGateway, "Record store unavailable")
			return
		}

		RespondWithJSON(w, http.StatusCreated, viewOf(record))
	}
}

// DeleteMedication removes a record by its name key.
func DeleteMedication(store interfaces.RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing medication name")
			return
		}

		if err := store.DeleteMedication(r.Context(), name); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				RespondWithError(w, http.StatusNotFound, "Medication not found")
				return
			}
			logging.Error("Failed to delete medication", "error", err, "name", name)
			RespondWithError(w, http.StatusBadGateway, "Record store unavailable")
			return
		}

		RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": name})
	}
}

// ListHabits returns all persisted habits.
func ListHabits(store interfaces.RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		habits, err := store.ListHabits(r.Context())
		if err != nil {
			logging.Error("Failed to list habits", "error", err)
			RespondWithError(w, http.StatusBadGateway, "Record store unavailable")
			return
		}
		RespondWithJSON(w, http.StatusOK, habits)
	}
}

// CreateHabit validates and persists a new habit.
func CreateHabit(store interfaces.RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string `json:"habit_name"`
			Description string `json:"description"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		habit, err := medication.NewHabit(body.Name, body.Description)
		if err != nil {
			var vErr *medication.ValidationError
			if errors.As(err, &vErr) {
				RespondWithJSON(w, http.StatusBadRequest, map[string]string{
					"error": vErr.Message,
					"field": vErr.Field,
				})
				return
			}
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.CreateHabit(r.Context(), habit); err != nil {
			logging.Error("Failed to create habit", "error", err, "habit", habit.Name)
			RespondWithError(w, http.StatusBadGateway, "Record store unavailable")
			return
		}

		RespondWithJSON(w, http.StatusCreated, habit)
	}
}

// DeleteHabit removes a habit by ID.
func DeleteHabit(store interfaces.RecordStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing habit id")
			return
		}

		if err := store.DeleteHabit(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				RespondWithError(w, http.StatusNotFound, "Habit not found")
				return
			}
			logging.Error("Failed to delete habit", "error", err, "id", id)
			RespondWithError(w, http.StatusBadGateway, "Record store unavailable")
			return
		}

		RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	LastUpdate    string         `json:"last_update"`
	DataAgeHours  float64        `json:"data_age_hours"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	UptimeHuman   string         `json:"uptime_human"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// HealthCheck returns server health information. The service is unhealthy
// without a catalog snapshot and degraded when the snapshot is stale.
func HealthCheck(catalogStore interfaces.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		uptime := time.Since(catalogStore.GetServerStartTime())

		products := catalogStore.GetProducts()
		lastUpdate := catalogStore.GetLastUpdated()
		dataAge := time.Since(lastUpdate)

		var healthStatus string
		var httpStatus int
		switch {
		case len(products) == 0:
			healthStatus = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		case dataAge > 24*time.Hour:
			healthStatus = "degraded"
			httpStatus = http.StatusOK
		default:
			healthStatus = "healthy"
			httpStatus = http.StatusOK
		}

		response := HealthResponse{
			Status:        healthStatus,
			LastUpdate:    lastUpdate.Format(time.RFC3339),
			DataAgeHours:  dataAge.Hours(),
			UptimeSeconds: uptime.Seconds(),
			UptimeHuman:   formatUptimeHuman(uptime),
			Data: map[string]any{
				"api_version": "1.0",
				"products":    len(products),
				"is_updating": catalogStore.IsUpdating(),
				"next_update": scheduler.CalculateNextUpdate().Format(time.RFC3339),
			},
			System: map[string]any{
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]any{
					"alloc_mb":       int(m.Alloc / 1024 / 1024),
					"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
					"sys_mb":         int(m.Sys / 1024 / 1024),
					"num_gc":         m.NumGC,
				},
			},
		}

		RespondWithJSON(w, httpStatus, response)
	}
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
