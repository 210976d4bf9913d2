package controllers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/danisworo/pos-station/cache"
	"github.com/danisworo/pos-station/controllers"
	"github.com/danisworo/pos-station/models"
	"github.com/danisworo/pos-station/remote"
	"github.com/danisworo/pos-station/services"
	"github.com/danisworo/pos-station/session"
	"github.com/danisworo/pos-station/utils"
)

var dbSeq int

type scriptedStore struct {
	reject map[string]bool
}

func (s *scriptedStore) FetchCatalog() ([]models.Product, error) { return nil, errors.New("down") }

func (s *scriptedStore) CreateInvoice(inv *models.Invoice) error {
	if s.reject[inv.ID] {
		return errors.New("rejected")
	}
	return nil
}

func (s *scriptedStore) LookupRole(principalID string) (*models.RoleRecord, error) {
	return nil, errors.New("down")
}

func setupBillingRouter(t *testing.T) (*gin.Engine, *cache.Cache) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	dbSeq++
	dsn := fmt.Sprintf("file:billtest%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	store, err := cache.New(db)
	assert.NoError(t, err)

	assert.NoError(t, store.ReplaceCatalog([]models.Product{
		{ID: "p1", Barcode: "111", Name: "Kopi Susu", Price: 18000, StockQuantity: 10, TaxRate: 0.1},
		{ID: "p2", Barcode: "222", Name: "Teh Manis", Price: 8000, StockQuantity: 5},
	}))

	shared := session.NewMemoryStorage()
	counters := session.NewCounterStore(shared)
	tabs := session.NewTabProvider(session.NewMemoryStorage())
	_, err = counters.SetActiveCounter("tab_a", "C1", "Front Counter")
	assert.NoError(t, err)

	// Station starts offline: checkout must still complete.
	monitor := remote.NewMonitor()
	reconciler := services.NewSyncReconciler(store, &scriptedStore{})

	ctrl := controllers.NewBillingController(store, counters, tabs, reconciler, monitor)

	r := gin.New()
	r.POST("/billing/checkout", ctrl.Checkout)
	r.GET("/billing/outbox", ctrl.ListOutbox)
	r.POST("/billing/sync", ctrl.SyncNow)
	return r, store
}

func TestCheckoutQueuesInvoiceWhileOffline(t *testing.T) {
	r, store := setupBillingRouter(t)

	w := doJSON(t, r, "POST", "/billing/checkout", "tab_a", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "p1", "quantity": 2},
			{"product_id": "p2", "quantity": 1},
		},
		"discount_amount": 1000,
		"customer_name":   "Budi",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})

	// 2*18000 + 8000 = 44000 subtotal, 3600 tax, minus 1000 discount.
	assert.InDelta(t, 46600.0, data["total_amount"].(float64), 0.001)
	assert.InDelta(t, 3600.0, data["tax_amount"].(float64), 0.001)
	assert.Equal(t, false, data["synced"])
	assert.Contains(t, data["bill_number"], "BILL-")

	// The sale landed in the outbox, and stock moved.
	pending, err := store.ListUnsyncedTransactions()
	assert.NoError(t, err)
	assert.Len(t, pending, 1)

	p1, err := store.LookupByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 8, p1.StockQuantity)
}

func TestCheckoutRequiresActiveCounter(t *testing.T) {
	r, _ := setupBillingRouter(t)

	w := doJSON(t, r, "POST", "/billing/checkout", "tab_without_counter", map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": "p1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutRejectsUnknownProduct(t *testing.T) {
	r, _ := setupBillingRouter(t)

	w := doJSON(t, r, "POST", "/billing/checkout", "tab_a", map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": "ghost", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectedCheckoutLeavesStockAlone(t *testing.T) {
	r, store := setupBillingRouter(t)

	// Second item is unknown, so the whole request is refused.
	w := doJSON(t, r, "POST", "/billing/checkout", "tab_a", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "p1", "quantity": 2},
			{"product_id": "ghost", "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	p1, err := store.LookupByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 10, p1.StockQuantity)

	// A bad discount is refused before stock moves too.
	w = doJSON(t, r, "POST", "/billing/checkout", "tab_a", map[string]interface{}{
		"items":           []map[string]interface{}{{"product_id": "p1", "quantity": 1}},
		"discount_amount": 99999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	p1, err = store.LookupByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 10, p1.StockQuantity)

	pending, err := store.ListUnsyncedTransactions()
	assert.NoError(t, err)
	assert.Empty(t, pending)
}

func TestManualSyncDrainsOutbox(t *testing.T) {
	r, store := setupBillingRouter(t)

	w := doJSON(t, r, "POST", "/billing/checkout", "tab_a", map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": "p1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/billing/sync", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["succeeded"], 1)
	assert.Empty(t, data["failed"])

	pending, err := store.ListUnsyncedTransactions()
	assert.NoError(t, err)
	assert.Empty(t, pending)
}
