// Package data provides thread-safe storage for the catalog snapshot that
// serves candidate searches. It uses atomic pointers so a catalog refresh
// swaps the whole snapshot with zero downtime for in-flight requests.
package data

import (
	"sync/atomic"
	"time"

	"github.com/cardiaccare/cardiaccare-api/catalog"
	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/logging"
)

// Compile-time check to ensure Container implements CatalogStore
var _ interfaces.CatalogStore = (*Container)(nil)

// Container holds the current catalog snapshot with atomic pointers for
// zero-downtime updates.
type Container struct {
	products        atomic.Value // []catalog.Product
	index           atomic.Value // *catalog.Index
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewContainer creates a Container with an empty catalog.
func NewContainer() *Container {
	c := &Container{}
	c.products.Store(make([]catalog.Product, 0))
	c.index.Store(catalog.NewIndex(nil))
	c.lastUpdated.Store(time.Time{})
	c.serverStartTime.Store(time.Time{})
	return c
}

// Thread-safe getters with type check

// GetProducts returns the current catalog products.
func (c *Container) GetProducts() []catalog.Product {
	if v := c.products.Load(); v != nil {
		if products, ok := v.([]catalog.Product); ok {
			return products
		}
	}

	logging.Warn("Product list is empty or invalid")
	return []catalog.Product{}
}

// GetIndex returns the current search index.
func (c *Container) GetIndex() *catalog.Index {
	if v := c.index.Load(); v != nil {
		if index, ok := v.(*catalog.Index); ok {
			return index
		}
	}

	logging.Warn("Catalog index is empty or invalid")
	return catalog.NewIndex(nil)
}

// GetLastUpdated returns the timestamp of the last catalog refresh.
func (c *Container) GetLastUpdated() time.Time {
	if v := c.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a catalog refresh is currently in progress.
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// SetServerStartTime sets the server start time.
func (c *Container) SetServerStartTime(startTime time.Time) {
	c.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time.
func (c *Container) GetServerStartTime() time.Time {
	if v := c.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateCatalog atomically replaces the catalog snapshot.
func (c *Container) UpdateCatalog(products []catalog.Product, index *catalog.Index) {
	// Atomic swap (zero downtime replacement)
	c.products.Store(products)
	c.index.Store(index)
	c.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a catalog refresh.
// Returns true if the refresh can proceed, false if another one is running.
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a catalog refresh.
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}
