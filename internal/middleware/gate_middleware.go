package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/gate"
)

// Gate resolves the caller for a page request and redirects (302) according
// to gate.Decide. Failed resolution counts as anonymous.
func (m *AuthMiddleware) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		identity, token := m.resolve(c)
		if identity != nil {
			setIdentity(c, identity, token)
		}

		decision := gate.Decide(c.Request.URL.Path, identity)
		if decision == gate.Allow {
			c.Next()
			return
		}

		fields := map[string]interface{}{
			"path":     c.Request.URL.Path,
			"decision": decision.String(),
		}
		if identity != nil {
			fields["user_id"] = identity.UserID
		}
		log.Debug("Gate redirect", fields)

		c.Redirect(http.StatusFound, decision.Location())
		c.Abort()
	}
}
