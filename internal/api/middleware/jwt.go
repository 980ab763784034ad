package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/ayuda/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type JWTConfig struct {
	Secret   string
	Issuer   string // optional
	Audience string // optional
}

// JWTAuth accepts HS256 bearer tokens signed with cfg.Secret and stores the
// token subject under "subject".
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	unauthorized := func(c *gin.Context, msg string) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{Code: utils.CodeUnauthorized, Message: msg})
	}

	return func(c *gin.Context) {
		if cfg.Secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "AUTH_JWT_SECRET is not set",
			})
			return
		}

		auth := c.GetHeader("Authorization")
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if !strings.HasPrefix(auth, "Bearer ") || raw == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || tok == nil || !tok.Valid {
			unauthorized(c, "invalid token")
			return
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			unauthorized(c, "invalid token issuer")
			return
		}
		if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
			unauthorized(c, "invalid token audience")
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}
