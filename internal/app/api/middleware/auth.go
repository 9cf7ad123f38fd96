package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	cfgpkg "github.com/pcarivbts/vbts-billing/pkg/config"
	"github.com/pcarivbts/vbts-billing/pkg/response"
)

// AdminAuthMiddleware guards the admin API with a bearer JWT signed by
// the operator console (HS256, shared secret). An empty secret disables
// the guard, which only makes sense in tests and local dev.
func AdminAuthMiddleware(cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := cfg.AdminAuth.JWTSecret
		if secret == "" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeForbidden, "missing bearer token"))
			return
		}
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeForbidden, "invalid token"))
			return
		}
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set("admin_subject", sub)
			}
		}
		c.Next()
	}
}
