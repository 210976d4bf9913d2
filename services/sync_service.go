package services

import (
	"sync"
	"time"

	"github.com/danisworo/pos-station/cache"
	"github.com/danisworo/pos-station/middlewares"
	"github.com/danisworo/pos-station/remote"
	"github.com/danisworo/pos-station/utils"
	"github.com/go-co-op/gocron"
)

// SyncResult reports one reconciliation run.
type SyncResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

// SyncReconciler drains the outbox against the backend. Runs are
// serialized; each run works on the snapshot of unsynced records taken at
// invocation time, so records appended mid-run wait for the next one.
type SyncReconciler struct {
	cache *cache.Cache
	store remote.Store
	mu    sync.Mutex
}

func NewSyncReconciler(c *cache.Cache, store remote.Store) *SyncReconciler {
	return &SyncReconciler{
		cache: c,
		store: store,
	}
}

// Reconcile replays every unsynced invoice. Records are independent
// business transactions, so one rejection never aborts the rest.
func (r *SyncReconciler) Reconcile() (*SyncResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := &SyncResult{
		Succeeded: make([]string, 0),
		Failed:    make([]string, 0),
	}

	pending, err := r.cache.ListUnsyncedTransactions()
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return result, nil
	}

	utils.InfoLogger.Infof("reconciling %d unsynced transactions", len(pending))

	for i := range pending {
		rec := pending[i]
		if err := r.store.CreateInvoice(&rec); err != nil {
			utils.InfoLogger.Warnf("invoice %s not accepted, left queued: %v", rec.ID, err)
			middlewares.SyncResultsTotal.WithLabelValues("failed").Inc()
			result.Failed = append(result.Failed, rec.ID)
			continue
		}
		if err := r.cache.MarkTransactionSynced(rec.ID); err != nil {
			// Accepted remotely but the flag write failed; the backend
			// dedupes on id, so the retry on the next run is harmless.
			utils.ErrorLogger.Errorf("invoice %s accepted but not marked synced: %v", rec.ID, err)
			result.Failed = append(result.Failed, rec.ID)
			continue
		}
		middlewares.SyncResultsTotal.WithLabelValues("succeeded").Inc()
		result.Succeeded = append(result.Succeeded, rec.ID)
	}

	utils.InfoLogger.Infof("reconcile done: %d synced, %d still queued",
		len(result.Succeeded), len(result.Failed))
	return result, nil
}

// Start wires the two automatic triggers: the offline->online transition
// and a periodic schedule.
func (r *SyncReconciler) Start(monitor *remote.Monitor, scheduler *gocron.Scheduler, interval time.Duration) {
	monitor.Subscribe(func(online bool) {
		if !online {
			return
		}
		go func() {
			if _, err := r.Reconcile(); err != nil {
				utils.ErrorLogger.Errorf("reconcile after reconnect failed: %v", err)
			}
		}()
	})

	if scheduler != nil {
		scheduler.Every(interval).Do(func() {
			if !monitor.IsOnline() {
				return
			}
			if _, err := r.Reconcile(); err != nil {
				utils.ErrorLogger.Errorf("scheduled reconcile failed: %v", err)
			}
		})
	}
}
