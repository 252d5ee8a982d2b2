package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tripmatch/internal/core/domain"
)

const (
	actorIDKey   = "actor_id"
	actorRoleKey = "actor_role"

	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// ActorMiddleware reads the authenticated actor from the headers set by the
// upstream identity gateway. Authentication itself happens there; this layer
// only carries the identity into handlers, which do their own ownership
// checks.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader(headerUserID), 10, 64); err == nil && id > 0 {
			c.Set(actorIDKey, id)
		}
		if role := domain.Role(c.GetHeader(headerUserRole)); domain.ValidRole(role) {
			c.Set(actorRoleKey, role)
		}
		c.Next()
	}
}

// GetActor returns the actor's id and role; ok is false when the request
// carried no usable identity.
func GetActor(c *gin.Context) (uint64, domain.Role, bool) {
	rawID, exists := c.Get(actorIDKey)
	if !exists {
		return 0, "", false
	}
	id, ok := rawID.(uint64)
	if !ok || id == 0 {
		return 0, "", false
	}

	role := domain.Role("")
	if rawRole, exists := c.Get(actorRoleKey); exists {
		if r, ok := rawRole.(domain.Role); ok {
			role = r
		}
	}
	return id, role, true
}
