package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

const (
	sessionKey = "session"
	tokenKey   = "token"
)

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*services.Session, error)
}

// BearerToken reads the Authorization header, falling back to ?token= for websockets.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("token")
}

// AuthMiddleware requires a valid session and stores it on the context.
func AuthMiddleware(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		sess, err := auth.CurrentSession(c.Request.Context(), token)
		if err != nil {
			code := http.StatusUnauthorized
			if !errors.Is(err, services.ErrUnauthenticated) {
				code = http.StatusServiceUnavailable
			}
			utils.RespondError(c, code, err)
			c.Abort()
			return
		}
		c.Set(sessionKey, sess)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// OptionalAuth attaches a session when a valid token is present.
func OptionalAuth(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c); token != "" {
			if sess, err := auth.CurrentSession(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, sess)
				c.Set(tokenKey, token)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the session set by the auth middlewares, or nil.
func CurrentSession(c *gin.Context) *services.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*services.Session)
	return sess
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// RoleCheck allows only the given roles through.
func RoleCheck(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			utils.RespondError(c, http.StatusUnauthorized, services.ErrUnauthenticated)
			c.Abort()
			return
		}
		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, services.ErrForbidden)
		c.Abort()
	}
}
