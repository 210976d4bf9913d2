package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetActiveCounter(t *testing.T) {
	store := NewCounterStore(NewMemoryStorage())

	created, err := store.SetActiveCounter("tab_1", "C1", "Front Counter")
	assert.NoError(t, err)
	assert.Equal(t, "C1", created.CounterID)
	assert.Equal(t, "Front Counter", created.CounterName)
	assert.Equal(t, "tab_1", created.TabID)
	assert.NotEmpty(t, created.SessionID)
	assert.NotZero(t, created.Timestamp)

	got := store.GetActiveCounter("tab_1")
	assert.NotNil(t, got)
	assert.Equal(t, created.SessionID, got.SessionID)
	assert.Equal(t, "C1", got.CounterID)
}

func TestReselectingCounterGetsFreshSessionID(t *testing.T) {
	store := NewCounterStore(NewMemoryStorage())

	first, err := store.SetActiveCounter("tab_1", "C1", "Front Counter")
	assert.NoError(t, err)
	second, err := store.SetActiveCounter("tab_1", "C1", "Front Counter")
	assert.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	// The stored session is the replacement, whole.
	assert.Equal(t, second.SessionID, store.GetActiveCounter("tab_1").SessionID)
}

func TestTabsNeverObserveEachOther(t *testing.T) {
	// Both tabs share the same underlying storage, as browser tabs share
	// localStorage. Key derivation is the only isolation.
	shared := NewMemoryStorage()
	store := NewCounterStore(shared)

	a, err := store.SetActiveCounter("tab_a", "C1", "Front")
	assert.NoError(t, err)
	_, err = store.SetActiveCounter("tab_b", "C2", "Back")
	assert.NoError(t, err)

	gotA := store.GetActiveCounter("tab_a")
	assert.NotNil(t, gotA)
	assert.Equal(t, "C1", gotA.CounterID)
	assert.Equal(t, a.SessionID, gotA.SessionID)

	assert.NoError(t, store.ClearActiveCounter("tab_b"))
	assert.True(t, store.HasActiveCounter("tab_a"))
	assert.False(t, store.HasActiveCounter("tab_b"))
}

func TestMalformedSessionIsAbsent(t *testing.T) {
	shared := NewMemoryStorage()
	store := NewCounterStore(shared)

	assert.NoError(t, shared.Set(DeriveKey("tab_x"), "{not json"))

	assert.Nil(t, store.GetActiveCounter("tab_x"))
	assert.False(t, store.HasActiveCounter("tab_x"))
}

func TestClearActiveCounter(t *testing.T) {
	store := NewCounterStore(NewMemoryStorage())

	_, err := store.SetActiveCounter("tab_1", "C1", "Front")
	assert.NoError(t, err)
	assert.NoError(t, store.ClearActiveCounter("tab_1"))
	assert.Nil(t, store.GetActiveCounter("tab_1"))

	// Clearing again is harmless.
	assert.NoError(t, store.ClearActiveCounter("tab_1"))
}
