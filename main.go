package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/danisworo/pos-station/cache"
	"github.com/danisworo/pos-station/config"
	"github.com/danisworo/pos-station/controllers"
	"github.com/danisworo/pos-station/middlewares"
	"github.com/danisworo/pos-station/remote"
	"github.com/danisworo/pos-station/router"
	"github.com/danisworo/pos-station/services"
	"github.com/danisworo/pos-station/session"
	"github.com/danisworo/pos-station/tenant"
	"github.com/danisworo/pos-station/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Durable cache
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open durable cache: %v", err)
	}
	utils.InitDB(db)

	store, err := cache.Initialize()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to initialize durable cache: %v", err)
	}

	// Counter sessions and the lock PIN live in shared durable storage; the
	// station's own tab identity is context-scoped and ends with the process.
	stateDir := config.StateDir()
	shared := session.NewFileStorage(filepath.Join(stateDir, "session.json"))
	tabs := session.NewTabProvider(session.NewMemoryStorage())
	counters := session.NewCounterStore(shared)
	lock := session.NewStationLock(shared)

	// Remote store and connectivity
	client := remote.GetClient()
	monitor := remote.NewMonitor()
	feedURL := config.GetEnv("POS_BACKEND_WS_URL", "ws://localhost:8080/api/v1/events")
	feed := remote.NewEventFeed(feedURL, monitor)

	// Tenant resolution
	tenantSession := tenant.NewSession(client)
	tenantSession.Subscribe(func(snap tenant.Snapshot) {
		utils.InfoLogger.Infof("tenant state: %s (tenant=%s role=%s)", snap.State, snap.TenantID, snap.Role)
	})

	// Services
	catalogService := services.NewCatalogService(store, client, monitor)
	reconciler := services.NewSyncReconciler(store, client)

	scheduler := gocron.NewScheduler(time.Local)
	reconciler.Start(monitor, scheduler, 2*time.Minute)
	scheduler.StartAsync()

	monitor.Subscribe(func(online bool) {
		if online {
			utils.InfoLogger.Info("backend reachable, refreshing catalog")
			if err := catalogService.Refresh(); err != nil {
				utils.InfoLogger.Warnf("catalog refresh after reconnect failed: %v", err)
			}
		} else {
			utils.InfoLogger.Warn("backend unreachable, operating from local cache")
		}
	})

	feed.On(remote.EventSessionChanged, func(_ json.RawMessage) {
		tenantSession.RefreshRole()
	})
	feed.On(remote.EventCatalogChanged, func(_ json.RawMessage) {
		if err := catalogService.Refresh(); err != nil {
			utils.InfoLogger.Warnf("catalog refresh after change event failed: %v", err)
		}
	})
	feed.Start()

	// Metrics + API
	middlewares.InitMetrics()
	r := router.SetupRouter(router.Deps{
		Session:       controllers.NewSessionController(tabs, counters, lock, tenantSession, client),
		Catalog:       controllers.NewCatalogController(catalogService, store),
		Billing:       controllers.NewBillingController(store, counters, tabs, reconciler, monitor),
		TenantSession: tenantSession,
	})

	port := config.GetEnv("PORT", "7070")
	utils.InfoLogger.Infof("pos-station listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		feed.Stop()
		utils.ErrorLogger.Fatalf("Server stopped: %v", err)
	}
}
