package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cardiaccare/cardiaccare-api/catalog"
)

// mockCatalogStore for testing scheduler
type mockCatalogStore struct {
	products    []catalog.Product
	index       *catalog.Index
	lastUpdated time.Time
	updating    bool
	updateCount int
}

func (m *mockCatalogStore) GetProducts() []catalog.Product {
	return m.products
}

func (m *mockCatalogStore) GetIndex() *catalog.Index {
	return m.index
}

func (m *mockCatalogStore) GetLastUpdated() time.Time {
	return m.lastUpdated
}

func (m *mockCatalogStore) IsUpdating() bool {
	return m.updating
}

func (m *mockCatalogStore) GetServerStartTime() time.Time {
	return time.Time{}
}

func (m *mockCatalogStore) UpdateCatalog(products []catalog.Product, index *catalog.Index) {
	m.products = products
	m.index = index
	m.lastUpdated = time.Now()
	m.updateCount++
}

func (m *mockCatalogStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *mockCatalogStore) EndUpdate() {
	m.updating = false
}

// mockFetcher for testing scheduler
type mockFetcher struct {
	products   []catalog.Product
	fetchCount int
	shouldFail bool
}

func (m *mockFetcher) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	m.fetchCount++
	if m.shouldFail {
		return nil, errors.New("fetch failed")
	}
	return m.products, nil
}

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{CIS: 60001, Label: "PARACETAMOL TEST 500 mg, comprimé", Form: "comprimé", Routes: []string{"orale"}},
		{CIS: 60002, Label: "IBUPROFENE TEST 400 mg, comprimé", Form: "comprimé", Routes: []string{"orale"}},
	}
}

func TestRefreshCatalogSwapsSnapshot(t *testing.T) {
	store := &mockCatalogStore{}
	fetcher := &mockFetcher{products: sampleProducts()}
	s := NewScheduler(store, fetcher)

	if err := s.refreshCatalog(); err != nil {
		t.Fatalf("refreshCatalog failed: %v", err)
	}

	if fetcher.fetchCount != 1 {
		t.Errorf("Expected 1 fetch, got %d", fetcher.fetchCount)
	}
	if store.updateCount != 1 {
		t.Errorf("Expected 1 snapshot swap, got %d", store.updateCount)
	}
	if len(store.GetProducts()) != 2 {
		t.Errorf("Expected 2 products in store, got %d", len(store.GetProducts()))
	}
	if store.GetIndex() == nil {
		t.Error("Expected search index to be rebuilt")
	} else if store.GetIndex().Size() != 2 {
		t.Errorf("Expected index size 2, got %d", store.GetIndex().Size())
	}
	if store.IsUpdating() {
		t.Error("Update flag should be cleared after refresh")
	}
}

func TestRefreshCatalogFetchFailure(t *testing.T) {
	store := &mockCatalogStore{}
	fetcher := &mockFetcher{shouldFail: true}
	s := NewScheduler(store, fetcher)

	if err := s.refreshCatalog(); err == nil {
		t.Fatal("Expected error when fetch fails")
	}

	if store.updateCount != 0 {
		t.Errorf("Snapshot should not swap on fetch failure, got %d swaps", store.updateCount)
	}
	if store.IsUpdating() {
		t.Error("Update flag should be cleared after a failed refresh")
	}
}

func TestRefreshCatalogRejectsEmptyFeed(t *testing.T) {
	store := &mockCatalogStore{products: sampleProducts(), updateCount: 0}
	fetcher := &mockFetcher{products: []catalog.Product{}}
	s := NewScheduler(store, fetcher)

	if err := s.refreshCatalog(); err == nil {
		t.Fatal("Expected error for an empty product feed")
	}
	if store.updateCount != 0 {
		t.Error("Empty feed must not replace the current snapshot")
	}
}

func TestRefreshCatalogSkipsWhenUpdating(t *testing.T) {
	store := &mockCatalogStore{updating: true}
	fetcher := &mockFetcher{products: sampleProducts()}
	s := NewScheduler(store, fetcher)

	if err := s.refreshCatalog(); err != nil {
		t.Fatalf("Concurrent refresh should be skipped, not fail: %v", err)
	}
	if fetcher.fetchCount != 0 {
		t.Errorf("Expected no fetch while another refresh is running, got %d", fetcher.fetchCount)
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	next := CalculateNextUpdate()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("Next update %v should be in the future", next)
	}
	if next.Sub(now) > 24*time.Hour {
		t.Errorf("Next update %v should be within 24 hours", next)
	}
	if hour := next.Hour(); hour != 6 && hour != 18 {
		t.Errorf("Next update should be at 06:00 or 18:00, got hour %d", hour)
	}
	if next.Minute() != 0 || next.Second() != 0 {
		t.Errorf("Next update should be on the hour, got %v", next)
	}
}
