package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danisworo/pos-station/cache"
	"github.com/danisworo/pos-station/models"
	"github.com/danisworo/pos-station/remote"
	"github.com/danisworo/pos-station/services"
	"github.com/danisworo/pos-station/session"
	"github.com/danisworo/pos-station/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BillingController struct {
	Cache      *cache.Cache
	Counters   *session.CounterStore
	Tabs       *session.TabProvider
	Reconciler *services.SyncReconciler
	Monitor    *remote.Monitor
}

func NewBillingController(c *cache.Cache, counters *session.CounterStore, tabs *session.TabProvider,
	reconciler *services.SyncReconciler, monitor *remote.Monitor) *BillingController {
	return &BillingController{
		Cache:      c,
		Counters:   counters,
		Tabs:       tabs,
		Reconciler: reconciler,
		Monitor:    monitor,
	}
}

type checkoutItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	Items          []checkoutItem `json:"items" binding:"required"`
	DiscountAmount float64        `json:"discount_amount"`
	CustomerName   string         `json:"customer_name"`
	CustomerPhone  string         `json:"customer_phone"`
}

// Checkout creates the invoice locally and queues it for sync. The sale
// completes whether or not the backend is reachable; an unreachable
// backend only means the record waits in the outbox.
func (bc *BillingController) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("at least one item is required"))
		return
	}

	tabID := c.GetHeader("X-Tab-ID")
	if tabID == "" {
		var err error
		if tabID, err = bc.Tabs.GetTabID(); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}
	if !bc.Counters.HasActiveCounter(tabID) {
		utils.RespondError(c, http.StatusConflict, errors.New("select a counter before checkout"))
		return
	}

	var (
		lines    []models.InvoiceItem
		subtotal float64
		tax      float64
	)
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("item quantity must be positive"))
			return
		}
		product, err := bc.Cache.LookupByID(item.ProductID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if product == nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown product %s", item.ProductID))
			return
		}

		lineTotal := product.Price * float64(item.Quantity)
		subtotal += lineTotal
		tax += lineTotal * product.TaxRate

		lines = append(lines, models.InvoiceItem{
			ProductID: product.ID,
			Barcode:   product.Barcode,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
			TaxRate:   product.TaxRate,
		})
	}

	if req.DiscountAmount < 0 || req.DiscountAmount > subtotal {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid discount amount"))
		return
	}

	// Every item validated; only now does stock move.
	for _, line := range lines {
		if err := bc.Cache.DecrementStock(line.ProductID, line.Quantity); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	itemsData, err := json.Marshal(lines)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	invoice := &models.Invoice{
		ID:             uuid.NewString(),
		BillNumber:     newBillNumber(),
		TotalAmount:    subtotal + tax - req.DiscountAmount,
		TaxAmount:      tax,
		DiscountAmount: req.DiscountAmount,
		ItemsData:      string(itemsData),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Synced:         false,
		CreatedAt:      time.Now(),
	}

	if err := bc.Cache.AppendTransaction(invoice); err != nil {
		// Storage failure is the one thing checkout must not swallow.
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if bc.Monitor.IsOnline() {
		go func() {
			if _, err := bc.Reconciler.Reconcile(); err != nil {
				utils.ErrorLogger.Errorf("post-checkout reconcile failed: %v", err)
			}
		}()
	}

	utils.RespondJSON(c, http.StatusCreated, "Checkout complete", invoice)
}

// ListOutbox shows the invoices still waiting for backend acknowledgment.
func (bc *BillingController) ListOutbox(c *gin.Context) {
	pending, err := bc.Cache.ListUnsyncedTransactions()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unsynced transactions", pending)
}

func (bc *BillingController) ListTransactions(c *gin.Context) {
	invoices, err := bc.Cache.ListTransactions()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transactions", invoices)
}

// SyncNow is the manual reconcile trigger.
func (bc *BillingController) SyncNow(c *gin.Context) {
	result, err := bc.Reconciler.Reconcile()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reconcile finished", result)
}

func newBillNumber() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("BILL-%s-%s", time.Now().Format("20060102"), suffix)
}
