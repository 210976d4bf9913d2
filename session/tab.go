package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tabIDKey is the single fixed key the tab identity lives under. The id
// itself is NOT stored under a derived key, so there is no chicken-and-egg
// between identity and the keys derived from it.
const tabIDKey = "pos_tab_id"

// TabProvider hands out the identity of one execution context. The first
// call generates and persists it; every later call returns the same value.
type TabProvider struct {
	storage Storage
}

func NewTabProvider(storage Storage) *TabProvider {
	return &TabProvider{storage: storage}
}

func (p *TabProvider) GetTabID() (string, error) {
	if id, err := p.storage.Get(tabIDKey); err == nil && id != "" {
		return id, nil
	}

	id := newTabID()
	if err := p.storage.Set(tabIDKey, id); err != nil {
		return "", fmt.Errorf("persist tab id: %w", err)
	}
	return id, nil
}

// ClearTabID drops the context's identity, ending its session scope.
func (p *TabProvider) ClearTabID() error {
	return p.storage.Delete(tabIDKey)
}

func newTabID() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("tab_%d_%s", time.Now().UnixNano(), suffix)
}
