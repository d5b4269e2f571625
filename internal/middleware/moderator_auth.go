package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// ModeratorClaims are the custom claims carried by a moderator token.
type ModeratorClaims struct {
	ModeratorID string `json:"moderator_id"`
	jwt.RegisteredClaims
}

// ModeratorAuthMiddleware guards moderation routes. Moderator actions come
// from an external review tool holding an HMAC-signed service token; regular
// user ID tokens are not accepted here.
func ModeratorAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims := &ModeratorClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if claims.ModeratorID == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Token carries no moderator identity")
			}

			c.Set("moderatorID", claims.ModeratorID)

			return next(c)
		}
	}
}
