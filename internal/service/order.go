package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/canvasphere/print_orders/internal/logging"
	"github.com/canvasphere/print_orders/internal/models"
	"github.com/canvasphere/print_orders/internal/orderid"
	"github.com/canvasphere/print_orders/internal/repo"
	"github.com/canvasphere/print_orders/internal/storage"
	"github.com/canvasphere/print_orders/internal/transport"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrUpstream   = errors.New("upstream")   // 500
)

const signedURLTTL = time.Hour

type OrderService struct {
	Repo  *repo.GormRepo
	Store storage.ReceiptStore
}

// Submit runs the intake saga: validate, generate the id, upload the receipt,
// then insert the row. The upload always happens first so a row can never
// point at a missing file; a failed insert after a successful upload leaves
// the object orphaned, which is accepted and logged.
func (svc *OrderService) Submit(ctx context.Context, req transport.SubmitRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.submit")

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	ref := strings.TrimSpace(req.GcashRef)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if ref == "" {
		missing = append(missing, "ref")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields (%s)", ErrValidation, strings.Join(missing, "/"))
	}

	qty, err := strconv.Atoi(strings.TrimSpace(req.Qty))
	if err != nil || qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be a positive number", ErrValidation)
	}
	total, err := strconv.ParseInt(strings.TrimSpace(req.Total), 10, 64)
	if err != nil || total <= 0 {
		return nil, fmt.Errorf("%w: total must be a positive number", ErrValidation)
	}

	if req.File == nil || len(req.File.Data) == 0 {
		return nil, fmt.Errorf("%w: receipt file missing (field name must be 'receipt')", ErrValidation)
	}

	id := orderid.New()
	receiptPath := receiptPathFor(id, req.File.Filename)

	if err := svc.Store.Upload(ctx, receiptPath, req.File.ContentType, req.File.Data); err != nil {
		l.Error("submit_upload_failed", "order_id", id, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}

	order := &models.Order{
		OrderID:     id,
		Name:        name,
		Email:       email,
		GcashRef:    ref,
		Qty:         qty,
		Total:       total,
		ReceiptPath: receiptPath,
		Status:      models.StatusPending,
	}

	created, err := svc.Repo.CreateOrder(ctx, order)
	if err != nil {
		// The uploaded object is now orphaned. Not rolled back; leave a trail
		// for an operator sweep.
		l.Warn("submit_insert_failed_orphaned_receipt", "order_id", id, "receipt_path", receiptPath, "error", err)
		return nil, fmt.Errorf("%w: db insert failed: %s", ErrUpstream, err)
	}

	l.Info("submit_success", "order_id", id)
	return created, nil
}

// receiptPathFor keys the object under the order id so receipts for distinct
// orders can never collide.
func receiptPathFor(orderID, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = "bin"
	}
	return orderID + "/receipt." + ext
}

func (svc *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := svc.Repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	return orders, nil
}

// GetOrder fetches one order and, when it has a stored receipt, a short-lived
// signed URL for viewing it. A signing failure degrades to a nil URL.
func (svc *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, *string, error) {
	order, err := svc.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}

	if order.ReceiptPath == "" {
		return order, nil, nil
	}

	u, err := svc.Store.SignURL(ctx, order.ReceiptPath, signedURLTTL)
	if err != nil {
		logging.FromContext(ctx).Warn("receipt_sign_failed",
			"svc", "order.get", "order_id", orderID, "error", err)
		return order, nil, nil
	}
	return order, &u, nil
}

func (svc *OrderService) TrackOrder(ctx context.Context, orderID string) (*transport.TrackResponse, error) {
	order, err := svc.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	resp := transport.NewTrackResponse(order)
	return &resp, nil
}

func (svc *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status")

	orderID = strings.TrimSpace(orderID)
	status = strings.TrimSpace(status)
	if orderID == "" || status == "" {
		return nil, fmt.Errorf("%w: missing order_id or status", ErrValidation)
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	order, err := svc.Repo.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}

	l.Info("status_updated", "order_id", orderID, "status", status)
	return order, nil
}

func (svc *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return fmt.Errorf("%w: missing order_id", ErrValidation)
	}

	err := svc.Repo.DeleteOrder(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	return nil
}

func (svc *OrderService) DeleteAllOrders(ctx context.Context) error {
	if err := svc.Repo.DeleteAllOrders(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	return nil
}
