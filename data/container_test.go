package data

import (
	"sync"
	"testing"
	"time"

	"github.com/cardiaccare/cardiaccare-api/catalog"
)

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{CIS: 1, Label: "PARACETAMOL BIOGARAN 500 mg, comprimé", Form: "comprimé", Routes: []string{"orale"}},
		{CIS: 2, Label: "IBUPROFENE MYLAN 400 mg, comprimé pelliculé", Form: "comprimé pelliculé", Routes: []string{"orale"}},
	}
}

func TestNewContainerIsEmpty(t *testing.T) {
	c := NewContainer()

	if got := c.GetProducts(); len(got) != 0 {
		t.Errorf("Expected empty products, got %d", len(got))
	}
	if got := c.GetIndex(); got.Size() != 0 {
		t.Errorf("Expected empty index, got size %d", got.Size())
	}
	if !c.GetLastUpdated().IsZero() {
		t.Error("Expected zero last updated time")
	}
	if c.IsUpdating() {
		t.Error("Expected no update in progress")
	}
}

func TestUpdateCatalogSwapsSnapshot(t *testing.T) {
	c := NewContainer()
	products := sampleProducts()

	before := time.Now()
	c.UpdateCatalog(products, catalog.NewIndex(products))

	if got := c.GetProducts(); len(got) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(got))
	}
	if got := c.GetIndex(); got.Size() != 2 {
		t.Errorf("Expected index size 2, got %d", got.Size())
	}
	if c.GetLastUpdated().Before(before) {
		t.Error("Expected last updated to advance")
	}
}

func TestBeginUpdateGuardsConcurrentRefreshes(t *testing.T) {
	c := NewContainer()

	if !c.BeginUpdate() {
		t.Fatal("Expected first BeginUpdate to succeed")
	}
	if c.BeginUpdate() {
		t.Error("Expected second BeginUpdate to be rejected")
	}
	if !c.IsUpdating() {
		t.Error("Expected updating flag to be set")
	}

	c.EndUpdate()
	if !c.BeginUpdate() {
		t.Error("Expected BeginUpdate to succeed after EndUpdate")
	}
	c.EndUpdate()
}

func TestConcurrentReadersDuringUpdate(t *testing.T) {
	c := NewContainer()
	products := sampleProducts()
	c.UpdateCatalog(products, catalog.NewIndex(products))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ix := c.GetIndex(); ix.Size() != 2 {
					t.Errorf("Reader saw inconsistent index size %d", ix.Size())
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		c.UpdateCatalog(products, catalog.NewIndex(products))
	}
	wg.Wait()
}

func TestServerStartTime(t *testing.T) {
	c := NewContainer()
	start := time.Now()

	c.SetServerStartTime(start)
	if !c.GetServerStartTime().Equal(start) {
		t.Error("Expected stored server start time back")
	}
}
