package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/enrollment-service/internal/auth"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/services"
	"github.com/campuskit/enrollment-service/internal/utils"
)

// JWTAuthMiddleware authenticates requests from the Authorization header.
type JWTAuthMiddleware struct {
	auth   *auth.Manager
	logger utils.Logger
}

func NewJWTAuthMiddleware(authMgr *auth.Manager, logger utils.Logger) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{auth: authMgr, logger: logger}
}

// AuthMiddleware rejects requests without a valid bearer token and sets
// user_id and user_role in the context.
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.claimsFromHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the principal when a valid token is present
// but lets unauthenticated requests through. Signup is open, yet granting
// the admin role still needs an admin credential, so the endpoint must see
// the principal when one exists.
func (m *JWTAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.claimsFromHeader(c); ok {
			c.Set("user_id", claims.UserID)
			c.Set("user_role", claims.Role)
		}
		c.Next()
	}
}

// RequireRoleMiddleware allows only the given roles past. It assumes
// AuthMiddleware already ran.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		userRole, ok := role.(models.UserRole)
		if ok {
			for _, allowed := range roles {
				if userRole == allowed {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
		})
	}
}

func (m *JWTAuthMiddleware) claimsFromHeader(c *gin.Context) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, false
	}

	claims, err := m.auth.ValidateToken(token)
	if err != nil {
		m.logger.Debug("token validation failed", "error", err)
		return nil, false
	}
	return claims, true
}

// principalFromContext builds the service-layer principal from whatever
// the auth middleware stored. A zero principal means no credential.
func principalFromContext(c *gin.Context) services.Principal {
	p := services.Principal{}
	if id, exists := c.Get("user_id"); exists {
		if s, ok := id.(string); ok {
			p.ID = s
		}
	}
	if role, exists := c.Get("user_role"); exists {
		if r, ok := role.(models.UserRole); ok {
			p.Role = r
		}
	}
	return p
}
