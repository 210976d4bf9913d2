package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTabIDStableWithinContext(t *testing.T) {
	provider := NewTabProvider(NewMemoryStorage())

	first, err := provider.GetTabID()
	assert.NoError(t, err)
	assert.NotEmpty(t, first)

	for i := 0; i < 50; i++ {
		again, err := provider.GetTabID()
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTabIDSurvivesNewProviderOnSameStorage(t *testing.T) {
	storage := NewMemoryStorage()

	first, err := NewTabProvider(storage).GetTabID()
	assert.NoError(t, err)

	second, err := NewTabProvider(storage).GetTabID()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTabIDDistinctAcrossContexts(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 10000; i++ {
		id, err := NewTabProvider(NewMemoryStorage()).GetTabID()
		assert.NoError(t, err)
		assert.False(t, seen[id], "duplicate tab id %s", id)
		seen[id] = true
	}
}

func TestClearTabIDStartsFresh(t *testing.T) {
	provider := NewTabProvider(NewMemoryStorage())

	first, err := provider.GetTabID()
	assert.NoError(t, err)
	assert.NoError(t, provider.ClearTabID())

	second, err := provider.GetTabID()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}
