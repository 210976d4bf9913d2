package tenant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danisworo/pos-station/models"
	"github.com/danisworo/pos-station/utils"
)

type fakeLookup struct {
	record *models.RoleRecord
	err    error
	calls  int
}

func (f *fakeLookup) LookupRole(principalID string) (*models.RoleRecord, error) {
	f.calls++
	return f.record, f.err
}

func TestStaffResolvesToParentTenant(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{record: &models.RoleRecord{Role: models.RoleStaff, ParentOwnerID: "OWNER1"}}
	sess := NewSession(lookup)

	snap := sess.SignIn(models.Principal{ID: "S1", Email: "staff@toko.id"})

	assert.Equal(t, StateResolved, snap.State)
	assert.Equal(t, models.RoleStaff, snap.Role)
	assert.Equal(t, "OWNER1", snap.TenantID)
}

func TestAdminResolvesToOwnTenant(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{record: &models.RoleRecord{Role: models.RoleAdmin}}
	sess := NewSession(lookup)

	snap := sess.SignIn(models.Principal{ID: "P1"})

	assert.Equal(t, StateResolved, snap.State)
	assert.Equal(t, models.RoleAdmin, snap.Role)
	assert.Equal(t, "P1", snap.TenantID)
}

func TestLookupFailureFallsBackToAdminScope(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{err: errors.New("backend down")}
	sess := NewSession(lookup)

	snap := sess.SignIn(models.Principal{ID: "P1"})

	assert.Equal(t, StateResolved, snap.State)
	assert.Equal(t, models.RoleAdmin, snap.Role)
	assert.Equal(t, "P1", snap.TenantID)
}

func TestMissingRecordFallsBackToAdminScope(t *testing.T) {
	utils.InitLogger()
	sess := NewSession(&fakeLookup{})

	snap := sess.SignIn(models.Principal{ID: "NEW1"})

	assert.Equal(t, models.RoleAdmin, snap.Role)
	assert.Equal(t, "NEW1", snap.TenantID)
}

func TestWaiterWithoutParentResolvesToOwnID(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{record: &models.RoleRecord{Role: models.RoleWaiter}}
	sess := NewSession(lookup)

	snap := sess.SignIn(models.Principal{ID: "W1"})

	assert.Equal(t, models.RoleWaiter, snap.Role)
	assert.Equal(t, "W1", snap.TenantID)
}

func TestSignOutDropsState(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{record: &models.RoleRecord{Role: models.RoleAdmin}}
	sess := NewSession(lookup)

	sess.SignIn(models.Principal{ID: "P1"})
	sess.SignOut()

	snap := sess.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Principal)
	assert.Empty(t, snap.TenantID)
}

func TestRefreshRoleNoopWhenUnauthenticated(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{record: &models.RoleRecord{Role: models.RoleAdmin}}
	sess := NewSession(lookup)

	snap := sess.RefreshRole()

	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Zero(t, lookup.calls)
}

func TestRefreshRolePicksUpNewRecord(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{record: &models.RoleRecord{Role: models.RoleAdmin}}
	sess := NewSession(lookup)

	sess.SignIn(models.Principal{ID: "P1"})

	lookup.record = &models.RoleRecord{Role: models.RoleStaff, ParentOwnerID: "OWNER9"}
	snap := sess.RefreshRole()

	assert.Equal(t, models.RoleStaff, snap.Role)
	assert.Equal(t, "OWNER9", snap.TenantID)
	assert.Equal(t, 2, lookup.calls)
}

func TestSubscribersSeeTransitions(t *testing.T) {
	utils.InitLogger()
	lookup := &fakeLookup{record: &models.RoleRecord{Role: models.RoleAdmin}}
	sess := NewSession(lookup)

	var states []string
	sess.Subscribe(func(snap Snapshot) {
		states = append(states, snap.State)
	})

	sess.SignIn(models.Principal{ID: "P1"})
	sess.SignOut()

	assert.Equal(t, []string{StateResolving, StateResolved, StateUnauthenticated}, states)
}
