// Package scheduler provides automated catalog refresh scheduling and
// staleness monitoring. It coordinates refreshes with the data container
// using dependency injection.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/cardiaccare/cardiaccare-api/catalog"
	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/logging"
	"github.com/cardiaccare/cardiaccare-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles catalog refreshes and staleness monitoring using
// dependency injection
type Scheduler struct {
	catalogStore interfaces.CatalogStore
	fetcher      interfaces.Fetcher
	scheduler    *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(catalogStore interfaces.CatalogStore, fetcher interfaces.Fetcher) *Scheduler {
	return &Scheduler{
		catalogStore: catalogStore,
		fetcher:      fetcher,
		scheduler:    gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial catalog load and schedules daily refreshes
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.refreshCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	// Schedule refreshes at 06:00 and 18:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.refreshCatalog(); err != nil {
			logging.Error("Failed to refresh catalog", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule refreshes", "error", err)
		return fmt.Errorf("failed to schedule refreshes: %w", err)
	}

	s.scheduler.StartAsync()

	// Start staleness monitoring
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// refreshCatalog downloads the product feed, rebuilds the search index and
// swaps both into the container atomically
func (s *Scheduler) refreshCatalog() error {
	// Prevent concurrent refreshes
	if !s.catalogStore.BeginUpdate() {
		logging.Info("Catalog refresh already in progress, skipping...")
		return nil
	}
	defer s.catalogStore.EndUpdate()

	logging.Info(fmt.Sprintf("Starting catalog refresh at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	products, err := s.fetcher.FetchProducts(ctx)
	if err != nil {
		logging.Error("Failed to fetch products", "error", err)
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("product feed yielded no entries")
	}

	index := catalog.NewIndex(products)

	// Atomic swap into the injected catalog store
	s.catalogStore.UpdateCatalog(products, index)

	metrics.CatalogProducts.Set(float64(len(products)))
	metrics.CatalogLastRefresh.SetToCurrentTime()

	elapsed := time.Since(start)
	logging.Info("Catalog refresh completed", "duration", elapsed.String(), "product_count", len(products))

	return nil
}

// startStalenessMonitoring warns when the catalog has not refreshed recently
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.catalogStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Catalog hasn't been refreshed in over 25 hours")
			}
		}
	}()
}

// CalculateNextUpdate returns the next scheduled refresh time
func CalculateNextUpdate() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	sixPM := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	if now.Before(sixAM) {
		return sixAM
	}
	if now.Before(sixPM) {
		return sixPM
	}

	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 6, 0, 0, 0, tomorrow.Location())
}
