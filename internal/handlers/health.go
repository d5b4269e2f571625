package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports service liveness
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// currentUID returns the authenticated user's uid stored by the auth middleware.
func currentUID(c echo.Context) string {
	uid, _ := c.Get("firebaseUID").(string)
	return uid
}
