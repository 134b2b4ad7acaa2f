package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/interfaces/http/response"
	"nft-gate.backend/pkg/jwt"
	"nft-gate.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// OperatorKey is the context key for the authenticated operator
	OperatorKey = "operator"
	// OperatorRoleKey is the context key for the operator role
	OperatorRoleKey = "operatorRole"
)

// AuthMiddleware validates the bearer token of admin requests
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			response.Error(c, domainerrors.Unauthorized("Authorization header is required"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Error(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(c.Request.Context(), "Admin token rejected",
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Token has expired"
			}
			response.Error(c, domainerrors.Unauthorized(msg))
			c.Abort()
			return
		}

		c.Set(OperatorKey, claims.Operator)
		c.Set(OperatorRoleKey, claims.Role)

		c.Next()
	}
}

// GetOperator gets the authenticated operator from context
func GetOperator(c *gin.Context) (string, bool) {
	v, exists := c.Get(OperatorKey)
	if !exists {
		return "", false
	}
	op, ok := v.(string)
	return op, ok
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(OperatorRoleKey)
		role, _ := v.(string)
		if !exists {
			response.Error(c, domainerrors.Unauthorized("Operator role not found"))
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Error(c, domainerrors.Forbidden("Insufficient permissions"))
		c.Abort()
	}
}

// RequireAdmin creates a middleware that requires the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin)
}
