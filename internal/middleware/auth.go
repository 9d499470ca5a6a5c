package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/utils"
)

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(config *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: config,
	}
}

func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError("Authorization header is required"))
			return
		}
		if !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth lets anonymous storefront requests through but still
// rejects a token that is present and invalid.
func (m *AuthMiddleware) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, authHeader string) bool {
	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError("Invalid authorization header format"))
		return false
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(bearerToken[1], &claims, func(token *jwt.Token) (any, error) {
		return []byte(m.config.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError("Invalid or expired token"))
		return false
	}

	// The tenant claim stays inside the claims: the request tenant comes from the host.
	c.Set(string(utils.ClaimsKey), claims)
	c.Set(string(utils.UserIDKey), utils.ClaimString(claims, "user_id"))
	c.Set(string(utils.RoleKey), utils.ClaimString(claims, "role"))
	return true
}

// RequireRole middleware checks if the user has one of the allowed roles
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(string(utils.ClaimsKey)); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError("No authentication found"))
			return
		}

		if !domain.HasAnyRole(c.GetString(string(utils.RoleKey)), roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewError("Insufficient permissions"))
			return
		}

		c.Next()
	}
}

// RequireTenantMatch keeps authenticated users inside their own restaurant.
// Platform operators may act on any tenant.
func (m *AuthMiddleware) RequireTenantMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsOf(c)
		if !ok {
			c.Next()
			return
		}
		if utils.ClaimString(claims, "role") == string(domain.RoleSuperAdmin) {
			c.Next()
			return
		}

		resolved := c.GetString(string(utils.TenantIDKey))
		if resolved == "" || utils.ClaimString(claims, "tenant_id") != resolved {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewError("Access to this tenant is not allowed"))
			return
		}
		c.Next()
	}
}

// RequireTenantAccess guards routes that name a tenant in the path.
func (m *AuthMiddleware) RequireTenantAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsOf(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewError("No authentication found"))
			return
		}
		if utils.ClaimString(claims, "role") != string(domain.RoleSuperAdmin) &&
			utils.ClaimString(claims, "tenant_id") != c.Param(param) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewError("Access to this tenant is not allowed"))
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) GenerateToken(userID, tenantID string, role domain.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Duration(m.config.JWTExpirationHours) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	if tenantID != "" {
		claims["tenant_id"] = tenantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.JWTSecretKey))
}

func claimsOf(c *gin.Context) (jwt.MapClaims, bool) {
	value, exists := c.Get(string(utils.ClaimsKey))
	if !exists {
		return nil, false
	}
	claims, ok := value.(jwt.MapClaims)
	return claims, ok
}
