// Package interfaces defines core abstractions for the tracker API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/cardiaccare/cardiaccare-api/catalog"
	"github.com/cardiaccare/cardiaccare-api/medication"
)

// CatalogStore defines the contract for catalog snapshot storage. It provides
// thread-safe access to the product catalog with atomic operations for
// zero-downtime refreshes.
type CatalogStore interface {
	// Snapshot retrieval
	GetProducts() []catalog.Product
	GetIndex() *catalog.Index
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Snapshot update
	UpdateCatalog(products []catalog.Product, index *catalog.Index)
	BeginUpdate() bool
	EndUpdate()
}

// RecordStore defines the contract for the persisted habit and medication
// records. Medication records are keyed by medication name, habits by their
// generated ID. Implementations map duplicate keys to ErrDuplicate and
// missing keys to ErrNotFound from the storage package.
type RecordStore interface {
	ListMedications(ctx context.Context) ([]medication.MedicationRecord, error)
	CreateMedication(ctx context.Context, record medication.MedicationRecord) error
	DeleteMedication(ctx context.Context, name string) error

	ListHabits(ctx context.Context) ([]medication.Habit, error)
	CreateHabit(ctx context.Context, habit medication.Habit) error
	DeleteHabit(ctx context.Context, id string) error
}

// Fetcher defines the contract for retrieving catalog products from the
// upstream source.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated catalog refreshes and staleness checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}
