package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/danisworo/pos-station/models"
	"github.com/danisworo/pos-station/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cache is the station's durable, indexed mirror of catalog and transaction
// data. It is a read-through/write-through copy of the remote store, plus
// the outbox of invoices the backend has not acknowledged yet.
type Cache struct {
	db *gorm.DB
}

var (
	instance *Cache
	initOnce sync.Once
	initErr  error
)

// Initialize opens the shared cache exactly once, over the connection
// stored by utils.InitDB. Concurrent callers all get the same handle (or
// the same open error).
func Initialize() (*Cache, error) {
	initOnce.Do(func() {
		instance, initErr = New(utils.GetDB())
	})
	return instance, initErr
}

// New migrates the two collections and returns a handle. Used directly by
// tests that want an isolated cache.
func New(db *gorm.DB) (*Cache, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: no database handle", ErrStorageUnavailable)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Invoice{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &Cache{db: db}, nil
}

// ReplaceCatalog upserts every entry by id. Entries missing from the list
// are left alone; catalog sync is additive, not a mirror delete. The whole
// batch commits or rolls back on the first error.
func (c *Cache) ReplaceCatalog(entries []models.Product) error {
	if len(entries) == 0 {
		return nil
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&entry)
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
	return wrapWriteError(err)
}

// LookupByBarcode is the scanning path: a point lookup on the unique
// secondary index. Returns nil when no entry matches.
func (c *Cache) LookupByBarcode(barcode string) (*models.Product, error) {
	var product models.Product
	result := c.db.Where("barcode = ?", barcode).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, result.Error)
	}
	return &product, nil
}

// LookupByID is the primary-key lookup. Returns nil when no entry matches.
func (c *Cache) LookupByID(id string) (*models.Product, error) {
	var product models.Product
	result := c.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, result.Error)
	}
	return &product, nil
}

// ListCatalog returns every cached entry. No ordering contract.
func (c *Cache) ListCatalog() ([]models.Product, error) {
	var products []models.Product
	if err := c.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return products, nil
}

// DeleteCatalogEntry removes an entry by id. Deleting an absent id is fine.
func (c *Cache) DeleteCatalogEntry(id string) error {
	return wrapWriteError(c.db.Delete(&models.Product{}, "id = ?", id).Error)
}

// DecrementStock subtracts a sold quantity from an entry's stock count.
// The adjustment is relative and applied in the database, so concurrent
// checkouts of the same entry never lose each other's writes.
func (c *Cache) DecrementStock(id string, quantity int) error {
	return wrapWriteError(c.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity)).Error)
}

// AppendTransaction inserts or overwrites an invoice by id. The caller
// creates records with Synced=false.
func (c *Cache) AppendTransaction(rec *models.Invoice) error {
	result := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(rec)
	return wrapWriteError(result.Error)
}

// ListUnsyncedTransactions returns the outbox: every invoice the remote
// store has not acknowledged. Full scan of the collection, which is bounded
// by one tenant's local retention window.
func (c *Cache) ListUnsyncedTransactions() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := c.db.Where("synced = ?", false).Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return invoices, nil
}

// ListTransactions returns every locally retained invoice.
func (c *Cache) ListTransactions() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := c.db.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return invoices, nil
}

// MarkTransactionSynced flips the synced flag. A missing record is a no-op;
// it may have been evicted by retention.
func (c *Cache) MarkTransactionSynced(id string) error {
	result := c.db.Model(&models.Invoice{}).Where("id = ?", id).Update("synced", true)
	return wrapWriteError(result.Error)
}

func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateError(err) {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// isDuplicateError matches the unique-index failures of both engines.
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
