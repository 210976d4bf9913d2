package middlewares

import (
	"fmt"
	"net/http"

	"github.com/danisworo/pos-station/models"
	"github.com/danisworo/pos-station/tenant"
	"github.com/danisworo/pos-station/utils"
	"github.com/gin-gonic/gin"
)

// RequireAdmin limits an endpoint to the tenant owner. Staff and waiter
// accounts operate under the owner's tenant but cannot manage the station.
func RequireAdmin(session *tenant.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := session.Snapshot()

		if snap.State != tenant.StateResolved {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("tenant not resolved"))
			c.Abort()
			return
		}

		if snap.Role != models.RoleAdmin {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
