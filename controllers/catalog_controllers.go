package controllers

import (
	"errors"
	"net/http"

	"github.com/danisworo/pos-station/cache"
	"github.com/danisworo/pos-station/services"
	"github.com/danisworo/pos-station/utils"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Service *services.CatalogService
	Cache   *cache.Cache
}

func NewCatalogController(service *services.CatalogService, c *cache.Cache) *CatalogController {
	return &CatalogController{Service: service, Cache: c}
}

func (cc *CatalogController) ListProducts(c *gin.Context) {
	products, err := cc.Service.List()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Catalog", products)
}

// LookupBarcode is the scan path on the checkout screen.
func (cc *CatalogController) LookupBarcode(c *gin.Context) {
	barcode := c.Param("barcode")

	product, err := cc.Service.LookupBarcode(barcode)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if product == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no product with that barcode"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product found", product)
}

// RefreshCatalog forces a pull from the backend.
func (cc *CatalogController) RefreshCatalog(c *gin.Context) {
	if err := cc.Service.Refresh(); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Catalog refreshed", nil)
}

func (cc *CatalogController) DeleteProduct(c *gin.Context) {
	id := c.Param("product_id")

	if err := cc.Cache.DeleteCatalogEntry(id); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product removed from cache", nil)
}
