package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/canvasphere/print_orders/internal/auth"
	"github.com/canvasphere/print_orders/internal/logging"
	"github.com/canvasphere/print_orders/internal/service"
	"github.com/canvasphere/print_orders/internal/transport"
)

type AdminHTTP struct {
	Svc   *service.OrderService
	Creds *auth.CredentialVerifier
}

func (h *AdminHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if !h.Creds.VerifyPair(req.Username, req.Password) {
		l.Warn("login_rejected", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid login")
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Orders serves both the full listing and, with ?order_id=, a single order
// plus a signed receipt URL for viewing without storage credentials.
func (h *AdminHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	orderID := strings.TrimSpace(c.QueryParam("order_id"))
	if orderID == "" {
		orders, err := h.Svc.ListOrders(ctx)
		if err != nil {
			return serviceError(c, l, "orders_error", err)
		}
		noStore(c)
		return c.JSON(http.StatusOK, echo.Map{
			"ok":     true,
			"orders": orders,
		})
	}

	order, receiptURL, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		return serviceError(c, l, "orders_error", err)
	}

	noStore(c)
	return c.JSON(http.StatusOK, echo.Map{
		"ok":          true,
		"order":       order,
		"receipt_url": receiptURL,
	})
}

func (h *AdminHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.status")

	var req transport.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, req.OrderID, req.Status)
	if err != nil {
		return serviceError(c, l, "status_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ok":    true,
		"order": order,
	})
}

func (h *AdminHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete")

	if err := h.Svc.DeleteOrder(ctx, c.Param("order_id")); err != nil {
		return serviceError(c, l, "delete_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *AdminHTTP) DeleteAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.clear")

	if err := h.Svc.DeleteAllOrders(ctx); err != nil {
		return serviceError(c, l, "clear_error", err)
	}

	l.Info("orders_cleared")
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
