package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole memeriksa apakah role pada klaim JWT termasuk salah satu role yang diizinkan.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaims(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  false,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"status":  false,
				"message": "Anda tidak memiliki hak akses",
				"data":    nil,
			})
		}
	}
}
