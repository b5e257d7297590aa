package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canvasphere/print_orders/internal/auth"
	"github.com/canvasphere/print_orders/internal/logging"
)

// HeaderAdminAuth carries the shared admin secret on every admin request.
const HeaderAdminAuth = "x-admin-auth"

type AdminAuth struct {
	Verifier auth.Verifier
}

func NewAdminAuth(v auth.Verifier) *AdminAuth {
	return &AdminAuth{Verifier: v}
}

// RequireAdmin rejects the request before the handler runs unless the
// x-admin-auth header verifies, so an unauthorized call has no side effects.
func (m *AdminAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		presented := c.Request().Header.Get(HeaderAdminAuth)
		if !m.Verifier.Verify(presented) {
			logging.FromContext(c.Request().Context()).
				Warn("admin_auth_rejected", "path", c.Path())
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return next(c)
	}
}
