package services

import (
	"github.com/danisworo/pos-station/cache"
	"github.com/danisworo/pos-station/models"
	"github.com/danisworo/pos-station/remote"
	"github.com/danisworo/pos-station/utils"
)

// CatalogService is the read-through path over the durable cache. Reads hit
// the cache first; a miss falls back to the backend and repopulates. When
// the backend is unreachable the cache contents, stale or empty, are the
// answer.
type CatalogService struct {
	cache   *cache.Cache
	store   remote.Store
	monitor *remote.Monitor
}

func NewCatalogService(c *cache.Cache, store remote.Store, monitor *remote.Monitor) *CatalogService {
	return &CatalogService{
		cache:   c,
		store:   store,
		monitor: monitor,
	}
}

// LookupBarcode resolves a scanned barcode. Cache miss while online
// triggers one refresh before giving up; offline, the miss is the answer.
func (s *CatalogService) LookupBarcode(barcode string) (*models.Product, error) {
	product, err := s.cache.LookupByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}

	if !s.monitor.IsOnline() {
		return nil, nil
	}
	if err := s.Refresh(); err != nil {
		// Degrade to the cache verdict.
		return nil, nil
	}
	return s.cache.LookupByBarcode(barcode)
}

// List returns the cached catalog, refreshing first when the cache is
// empty and the backend is reachable.
func (s *CatalogService) List() ([]models.Product, error) {
	products, err := s.cache.ListCatalog()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 && s.monitor.IsOnline() {
		if err := s.Refresh(); err == nil {
			return s.cache.ListCatalog()
		}
	}
	return products, nil
}

// Refresh pulls the full catalog from the backend and upserts it into the
// cache.
func (s *CatalogService) Refresh() error {
	entries, err := s.store.FetchCatalog()
	if err != nil {
		utils.InfoLogger.Warnf("catalog refresh skipped, backend unavailable: %v", err)
		return err
	}
	if err := s.cache.ReplaceCatalog(entries); err != nil {
		utils.ErrorLogger.Errorf("catalog refresh failed writing cache: %v", err)
		return err
	}
	utils.InfoLogger.Infof("catalog refreshed, %d entries", len(entries))
	return nil
}
