package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/canvasphere/print_orders/internal/middleware"
	"github.com/canvasphere/print_orders/internal/service"
)

type Deps struct {
	OrderHandler *OrderHTTP
	AdminHandler *AdminHTTP
	AdminAuth    *middleware.AdminAuth
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = errorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	e.POST("/submit", d.OrderHandler.Submit)
	e.GET("/track", d.OrderHandler.Track)

	admin := e.Group("/admin")
	admin.POST("/login", d.AdminHandler.Login)

	gated := admin.Group("", d.AdminAuth.RequireAdmin)
	gated.GET("/orders", d.AdminHandler.Orders)
	gated.POST("/status", d.AdminHandler.UpdateStatus)
	gated.DELETE("/orders/:order_id", d.AdminHandler.DeleteOrder)
	gated.DELETE("/orders", d.AdminHandler.DeleteAllOrders)
}

// errorHandler renders every failure in the canonical {ok:false, error} shape.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}

	if writeErr := c.JSON(code, echo.Map{"ok": false, "error": msg}); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

// serviceError maps the service sentinels onto the HTTP error taxonomy. The
// sentinel prefix is stripped so callers see only the human message; upstream
// bodies embedded in the message travel through verbatim.
func serviceError(c echo.Context, l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, stripSentinel(err, service.ErrValidation))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, stripSentinel(err, service.ErrUpstream))
	}
}

func stripSentinel(err error, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

func noStore(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
}
