package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStationLock(t *testing.T) {
	lock := NewStationLock(NewMemoryStorage())

	assert.False(t, lock.HasPIN())
	assert.ErrorIs(t, lock.VerifyPIN("1234"), ErrNoPIN)

	assert.NoError(t, lock.SetPIN("1234"))
	assert.True(t, lock.HasPIN())
	assert.NoError(t, lock.VerifyPIN("1234"))
	assert.Error(t, lock.VerifyPIN("9999"))
}
