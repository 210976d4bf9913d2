package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danisworo/pos-station/models"
	"github.com/danisworo/pos-station/session"
	"github.com/danisworo/pos-station/tenant"
	"github.com/danisworo/pos-station/utils"
	"github.com/gin-gonic/gin"
)

// TokenSink receives the operator's bearer token so outbound backend
// requests carry the operator's credentials, not the station's bootstrap
// token.
type TokenSink interface {
	SetToken(token string)
}

type SessionController struct {
	Tabs     *session.TabProvider
	Counters *session.CounterStore
	Lock     *session.StationLock
	Tenant   *tenant.Session
	Remote   TokenSink
}

func NewSessionController(tabs *session.TabProvider, counters *session.CounterStore,
	lock *session.StationLock, tenantSession *tenant.Session, remoteSink TokenSink) *SessionController {
	return &SessionController{
		Tabs:     tabs,
		Counters: counters,
		Lock:     lock,
		Tenant:   tenantSession,
		Remote:   remoteSink,
	}
}

// tabID prefers the caller's X-Tab-ID header (one per UI tab) and falls
// back to the station's own identity for single-station setups.
func (sc *SessionController) tabID(c *gin.Context) (string, error) {
	if id := c.GetHeader("X-Tab-ID"); id != "" {
		return id, nil
	}
	return sc.Tabs.GetTabID()
}

// GetTabID hands a UI client its execution-context identity.
func (sc *SessionController) GetTabID(c *gin.Context) {
	id, err := sc.tabID(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tab identity", gin.H{"tab_id": id})
}

type counterRequest struct {
	CounterID   string `json:"counter_id" binding:"required"`
	CounterName string `json:"counter_name" binding:"required"`
}

// SetActiveCounter replaces this tab's counter session.
func (sc *SessionController) SetActiveCounter(c *gin.Context) {
	var req counterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("counter_id and counter_name are required"))
		return
	}

	tabID, err := sc.tabID(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sess, err := sc.Counters.SetActiveCounter(tabID, req.CounterID, req.CounterName)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active counter set", sess)
}

// GetActiveCounter returns this tab's counter session, if any.
func (sc *SessionController) GetActiveCounter(c *gin.Context) {
	tabID, err := sc.tabID(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sess := sc.Counters.GetActiveCounter(tabID)
	if sess == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no active counter for this tab"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active counter", sess)
}

func (sc *SessionController) ClearActiveCounter(c *gin.Context) {
	tabID, err := sc.tabID(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := sc.Counters.ClearActiveCounter(tabID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active counter cleared", nil)
}

// SignIn resolves the tenant scope for the authenticated principal. The
// auth middleware has already validated the token.
func (sc *SessionController) SignIn(c *gin.Context) {
	principalID := c.GetString("principalID")
	email := c.GetString("email")

	// The role lookup triggered below must go out with the operator's own
	// token.
	if sc.Remote != nil {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			sc.Remote.SetToken(strings.TrimPrefix(auth, "Bearer "))
		}
	}

	snap := sc.Tenant.SignIn(models.Principal{ID: principalID, Email: email})
	utils.RespondJSON(c, http.StatusOK, "Signed in", snap)
}

func (sc *SessionController) SignOut(c *gin.Context) {
	sc.Tenant.SignOut()
	utils.RespondJSON(c, http.StatusOK, "Signed out", nil)
}

// GetTenant exposes the resolver state to the UI.
func (sc *SessionController) GetTenant(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Tenant state", sc.Tenant.Snapshot())
}

func (sc *SessionController) RefreshRole(c *gin.Context) {
	snap := sc.Tenant.RefreshRole()
	utils.RespondJSON(c, http.StatusOK, "Role refreshed", snap)
}

type pinRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// SetLockPIN stores the offline unlock PIN for this station.
func (sc *SessionController) SetLockPIN(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("pin is required"))
		return
	}
	if len(req.PIN) < 4 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("pin must be at least 4 digits"))
		return
	}

	if err := sc.Lock.SetPIN(req.PIN); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Station lock PIN set", nil)
}

// Unlock verifies the PIN; works with or without connectivity.
func (sc *SessionController) Unlock(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("pin is required"))
		return
	}

	if err := sc.Lock.VerifyPIN(req.PIN); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("wrong pin"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Station unlocked", nil)
}
