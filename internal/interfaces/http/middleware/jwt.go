package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glowstudio/backend/internal/infrastructure/auth"
	"github.com/glowstudio/backend/internal/infrastructure/logger"
	"github.com/glowstudio/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys. JWTUserIDKey matches the key the request logger reads.
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "user_id"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; without it revoked tokens stay valid until expiry
	Blacklist        auth.TokenBlacklist
	SkipPaths        []string
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuth requires a valid access token on every request not skipped
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c)
		if !ok {
			rejectToken(c, log, auth.ErrInvalidToken)
			return
		}
		claims, err := authenticate(c, cfg, log, token)
		if err != nil {
			rejectToken(c, log, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth attaches the caller's claims when a valid token is sent
// and lets anonymous requests through. An invalid token is ignored.
func OptionalJWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := authenticate(c, cfg, log, token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// authenticate validates the token and consults the blacklist. Blacklist
// lookups fail open so a Redis outage does not lock every customer out.
func authenticate(c *gin.Context, cfg JWTConfig, log *zap.Logger, token string) (*auth.Claims, error) {
	claims, err := cfg.JWTService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if cfg.Blacklist == nil {
		return claims, nil
	}
	ctx := c.Request.Context()
	revoked, err := cfg.Blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
	} else if revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		log.Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
	} else if invalidated {
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTRoleKey, claims.Role)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

func rejectToken(c *gin.Context, log *zap.Logger, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	if _, sent := c.Request.Header[AuthHeaderKey]; sent {
		log.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// RequireRole lets through authenticated callers holding one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied")
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetRole returns the authenticated user's role or ""
func GetRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
