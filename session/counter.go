package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danisworo/pos-station/models"
	"github.com/google/uuid"
)

// CounterStore holds the active checkout counter per tab. Every operation
// is scoped by a key derived from the tab id, so tabs sharing the same
// underlying storage never touch each other's session.
type CounterStore struct {
	storage Storage
}

func NewCounterStore(storage Storage) *CounterStore {
	return &CounterStore{storage: storage}
}

// DeriveKey maps a tab identity onto its counter session storage key.
func DeriveKey(tabID string) string {
	return "pos_active_counter_" + tabID
}

// SetActiveCounter replaces the tab's session whole. SessionID is fresh on
// every call, so reselecting the same counter still starts a new session.
func (s *CounterStore) SetActiveCounter(tabID, counterID, counterName string) (*models.CounterSession, error) {
	sess := &models.CounterSession{
		CounterID:   counterID,
		CounterName: counterName,
		SessionID:   uuid.NewString(),
		TabID:       tabID,
		Timestamp:   time.Now().UnixMilli(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Set(DeriveKey(tabID), string(data)); err != nil {
		return nil, fmt.Errorf("persist counter session: %w", err)
	}
	return sess, nil
}

// GetActiveCounter returns the tab's session, or nil when there is none.
// A payload that fails to parse counts as none.
func (s *CounterStore) GetActiveCounter(tabID string) *models.CounterSession {
	data, err := s.storage.Get(DeriveKey(tabID))
	if err != nil {
		return nil
	}

	var sess models.CounterSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil
	}
	return &sess
}

func (s *CounterStore) ClearActiveCounter(tabID string) error {
	return s.storage.Delete(DeriveKey(tabID))
}

func (s *CounterStore) HasActiveCounter(tabID string) bool {
	return s.GetActiveCounter(tabID) != nil
}
