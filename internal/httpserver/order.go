package httpserver

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/canvasphere/print_orders/internal/logging"
	"github.com/canvasphere/print_orders/internal/multipart"
	"github.com/canvasphere/print_orders/internal/service"
	"github.com/canvasphere/print_orders/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// Submit handles the public order intake: buffer the multipart body, decode it
// with the in-house decoder, and hand the fields to the submission saga.
func (h *OrderHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.submit")

	boundary, err := boundaryFrom(c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		l.Warn("submit_error", "status", 400, "reason", "no multipart boundary", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart/form-data body")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		l.Warn("submit_error", "status", 400, "reason", "body read failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not read request body")
	}

	form, err := multipart.Decode(body, boundary)
	if err != nil {
		l.Warn("submit_error", "status", 400, "reason", "multipart decode failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "malformed multipart body")
	}

	req := transport.SubmitRequest{
		Name:     form.Fields["name"],
		Email:    form.Fields["email"],
		GcashRef: form.Fields["ref"],
		Qty:      form.Fields["qty"],
		Total:    form.Fields["total"],
	}
	if form.File != nil {
		req.File = &transport.ReceiptFile{
			Filename:    form.File.Filename,
			ContentType: form.File.ContentType,
			Data:        form.File.Data,
		}
	}

	order, err := h.Svc.Submit(ctx, req)
	if err != nil {
		return serviceError(c, l, "submit_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ok":       true,
		"order_id": order.OrderID,
	})
}

// Track is the public status lookup; it exposes only the reduced projection.
func (h *OrderHTTP) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.track")

	orderID := strings.TrimSpace(c.QueryParam("order_id"))
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id required")
	}

	resp, err := h.Svc.TrackOrder(ctx, orderID)
	if err != nil {
		return serviceError(c, l, "track_error", err)
	}

	noStore(c)
	return c.JSON(http.StatusOK, echo.Map{
		"ok":    true,
		"order": resp,
	})
}

func boundaryFrom(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", errors.New("not a multipart content type")
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", errors.New("missing boundary parameter")
	}
	return boundary, nil
}
