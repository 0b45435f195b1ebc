package middleware

import (
	"errors"
	"os"
	"strings"

	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys populated by RequireAuth.
const (
	ContextUsername = "username"
	ContextRoles    = "roles"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperr.Unauthorized("authorization header is missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", apperr.Unauthorized("invalid authorization format, expected 'Bearer <token>'")
	}
	return parts[1], nil
}

func parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired("access token has expired")
		}
		return nil, apperr.AuthFailed("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.AuthFailed("invalid token claims")
	}
	return claims, nil
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["authorities"].([]interface{})
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}

// RequireAuth validates the bearer JWT and resolves the actor identity
// (username + role set) into the gin context for handlers to thread
// through explicit service call parameters.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			response.Abort(c, err)
			return
		}

		claims, err := parseClaims(tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}

		username, _ := claims["sub"].(string)
		if username == "" {
			response.Abort(c, apperr.AuthFailed("token subject is missing"))
			return
		}

		c.Set(ContextUsername, username)
		c.Set(ContextRoles, rolesFromClaims(claims))
		c.Next()
	}
}

// RequireRole validates the bearer JWT and additionally checks that the
// actor holds at least one of the allowed roles.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			response.Abort(c, err)
			return
		}

		claims, err := parseClaims(tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}

		username, _ := claims["sub"].(string)
		roles := rolesFromClaims(claims)

		allowed := false
		for _, have := range roles {
			for _, want := range allowedRoles {
				if have == want {
					allowed = true
					break
				}
			}
		}
		if !allowed {
			response.Abort(c, apperr.Forbidden("access denied: insufficient permissions"))
			return
		}

		c.Set(ContextUsername, username)
		c.Set(ContextRoles, roles)
		c.Next()
	}
}

// Username returns the authenticated username resolved by RequireAuth.
func Username(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// Roles returns the authenticated role set resolved by RequireAuth.
func Roles(c *gin.Context) []string {
	if v, ok := c.Get(ContextRoles); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}
