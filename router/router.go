package router

import (
	"github.com/danisworo/pos-station/controllers"
	"github.com/danisworo/pos-station/middlewares"
	"github.com/danisworo/pos-station/tenant"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the station API needs wired in.
type Deps struct {
	Session       *controllers.SessionController
	Catalog       *controllers.CatalogController
	Billing       *controllers.BillingController
	TenantSession *tenant.Session
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", func(c *gin.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	api := r.Group("/api/v1")

	// Unlock stays outside auth; it has to work with no backend session.
	api.POST("/session/unlock", middlewares.NewStrictRateLimiter(), deps.Session.Unlock)

	authed := api.Group("")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.POST("/session/signin", deps.Session.SignIn)
		authed.POST("/session/signout", deps.Session.SignOut)
		authed.GET("/session/tenant", deps.Session.GetTenant)
		authed.POST("/session/tenant/refresh", deps.Session.RefreshRole)

		authed.GET("/session/tab", deps.Session.GetTabID)
		authed.POST("/session/counter", deps.Session.SetActiveCounter)
		authed.GET("/session/counter", deps.Session.GetActiveCounter)
		authed.DELETE("/session/counter", deps.Session.ClearActiveCounter)

		authed.GET("/catalog", deps.Catalog.ListProducts)
		authed.GET("/catalog/barcode/:barcode", deps.Catalog.LookupBarcode)
		authed.POST("/catalog/refresh", deps.Catalog.RefreshCatalog)

		authed.POST("/billing/checkout", deps.Billing.Checkout)
		authed.GET("/billing/outbox", deps.Billing.ListOutbox)
		authed.GET("/billing/transactions", deps.Billing.ListTransactions)
		authed.POST("/billing/sync", deps.Billing.SyncNow)

		admin := authed.Group("")
		admin.Use(middlewares.RequireAdmin(deps.TenantSession))
		{
			admin.DELETE("/catalog/:product_id", deps.Catalog.DeleteProduct)
			admin.POST("/session/lock", deps.Session.SetLockPIN)
		}
	}

	return r
}
