package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSession extracts the session claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both fields present
// proves the middleware ran and the token carried a usable identity.
func ctxSession(c echo.Context) (username, role string, err error) {
	username, _ = c.Get("username").(string)
	role, _ = c.Get("role").(string)
	if username == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, role, nil
}
