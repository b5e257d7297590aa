package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/canvasphere/print_orders/internal/models"
	"github.com/canvasphere/print_orders/internal/repo"
	"github.com/canvasphere/print_orders/internal/transport"
)

// fakeStore records calls so tests can assert ordering and arguments.
type fakeStore struct {
	uploads   []uploadCall
	signs     []string
	uploadErr error
	signErr   error
	signedURL string
}

type uploadCall struct {
	path        string
	contentType string
	data        []byte
}

func (f *fakeStore) Upload(_ context.Context, path, contentType string, data []byte) error {
	f.uploads = append(f.uploads, uploadCall{path: path, contentType: contentType, data: data})
	return f.uploadErr
}

func (f *fakeStore) SignURL(_ context.Context, path string, _ time.Duration) (string, error) {
	f.signs = append(f.signs, path)
	if f.signErr != nil {
		return "", f.signErr
	}
	return f.signedURL, nil
}

func newTestService(t *testing.T) (*OrderService, *fakeStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))

	store := &fakeStore{signedURL: "https://store.example/signed"}
	svc := &OrderService{
		Repo:  &repo.GormRepo{DB: db},
		Store: store,
	}
	return svc, store, db
}

func validSubmit() transport.SubmitRequest {
	return transport.SubmitRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		GcashRef: "REF123",
		Qty:      "2",
		Total:    "500",
		File: &transport.ReceiptFile{
			Filename:    "Receipt.PNG",
			ContentType: "image/png",
			Data:        []byte("PNG"),
		},
	}
}

func TestSubmit_Success(t *testing.T) {
	svc, store, db := newTestService(t)

	order, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "Alice", order.Name)
	assert.Equal(t, 2, order.Qty)
	assert.Equal(t, int64(500), order.Total)
	assert.Nil(t, order.StatusUpdatedAt)

	// Extension is lower-cased and the object is keyed under the order id.
	assert.Equal(t, order.OrderID+"/receipt.png", order.ReceiptPath)

	require.Len(t, store.uploads, 1)
	assert.Equal(t, order.ReceiptPath, store.uploads[0].path)
	assert.Equal(t, "image/png", store.uploads[0].contentType)
	assert.Equal(t, []byte("PNG"), store.uploads[0].data)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmit_DefaultExtension(t *testing.T) {
	svc, store, _ := newTestService(t)

	req := validSubmit()
	req.File.Filename = "receipt"

	order, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID+"/receipt.bin", order.ReceiptPath)
	require.Len(t, store.uploads, 1)
}

func TestSubmit_ValidationFailuresSkipOutboundCalls(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*transport.SubmitRequest)
		want   string
	}{
		{"missing name", func(r *transport.SubmitRequest) { r.Name = "   " }, "name"},
		{"missing email", func(r *transport.SubmitRequest) { r.Email = "" }, "email"},
		{"missing ref", func(r *transport.SubmitRequest) { r.GcashRef = "" }, "ref"},
		{"zero qty", func(r *transport.SubmitRequest) { r.Qty = "0" }, "qty"},
		{"bad qty", func(r *transport.SubmitRequest) { r.Qty = "abc" }, "qty"},
		{"negative total", func(r *transport.SubmitRequest) { r.Total = "-5" }, "total"},
		{"no file", func(r *transport.SubmitRequest) { r.File = nil }, "receipt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, db := newTestService(t)

			req := validSubmit()
			tc.mutate(&req)

			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tc.want)

			assert.Empty(t, store.uploads, "no upload on validation failure")
			var count int64
			require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
			assert.Zero(t, count, "no insert on validation failure")
		})
	}
}

func TestSubmit_UploadFailureLeavesNoRow(t *testing.T) {
	svc, store, db := newTestService(t)
	store.uploadErr = errors.New("storage upload failed: bucket not found")

	_, err := svc.Submit(context.Background(), validSubmit())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "bucket not found")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmit_TwoSubmissionsAreDistinctOrders(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	b, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	assert.NotEqual(t, a.OrderID, b.OrderID)
}

func seedOrder(t *testing.T, db *gorm.DB, orderID, receiptPath string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderID:     orderID,
		Name:        "Alice",
		Email:       "alice@example.com",
		GcashRef:    "REF123",
		Qty:         1,
		Total:       100,
		ReceiptPath: receiptPath,
		Status:      models.StatusPending,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestListOrders_NewestFirst(t *testing.T) {
	svc, _, db := newTestService(t)

	old := seedOrder(t, db, "CANDO-OLD-AAAAA", "CANDO-OLD-AAAAA/receipt.png")
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-time.Hour)).Error)
	seedOrder(t, db, "CANDO-NEW-BBBBB", "CANDO-NEW-BBBBB/receipt.png")

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "CANDO-NEW-BBBBB", orders[0].OrderID)
	assert.Equal(t, "CANDO-OLD-AAAAA", orders[1].OrderID)
}

func TestGetOrder_SignsReceiptURL(t *testing.T) {
	svc, store, db := newTestService(t)
	seedOrder(t, db, "CANDO-1-AAAAA", "CANDO-1-AAAAA/receipt.png")

	order, url, err := svc.GetOrder(context.Background(), "CANDO-1-AAAAA")
	require.NoError(t, err)
	require.NotNil(t, order)
	require.NotNil(t, url)
	assert.Equal(t, "https://store.example/signed", *url)
	require.Len(t, store.signs, 1)
	assert.Equal(t, "CANDO-1-AAAAA/receipt.png", store.signs[0])
}

func TestGetOrder_NoReceiptPathSkipsSigning(t *testing.T) {
	svc, store, db := newTestService(t)
	seedOrder(t, db, "CANDO-2-BBBBB", "")

	order, url, err := svc.GetOrder(context.Background(), "CANDO-2-BBBBB")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Nil(t, url)
	assert.Empty(t, store.signs, "signing must not be attempted")
}

func TestGetOrder_SignFailureDegradesToNilURL(t *testing.T) {
	svc, store, db := newTestService(t)
	store.signErr = errors.New("sign failed")
	seedOrder(t, db, "CANDO-3-CCCCC", "CANDO-3-CCCCC/receipt.png")

	order, url, err := svc.GetOrder(context.Background(), "CANDO-3-CCCCC")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Nil(t, url)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.GetOrder(context.Background(), "CANDO-NOPE-XXXXX")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrackOrder_ReducedProjection(t *testing.T) {
	svc, _, db := newTestService(t)
	seedOrder(t, db, "CANDO-4-DDDDD", "CANDO-4-DDDDD/receipt.png")

	resp, err := svc.TrackOrder(context.Background(), "CANDO-4-DDDDD")
	require.NoError(t, err)
	assert.Equal(t, "CANDO-4-DDDDD", resp.OrderID)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, "alice@example.com", resp.Email)
}

func TestUpdateStatus_Success(t *testing.T) {
	svc, _, db := newTestService(t)
	seedOrder(t, db, "CANDO-5-EEEEE", "CANDO-5-EEEEE/receipt.png")

	order, err := svc.UpdateStatus(context.Background(), "CANDO-5-EEEEE", models.StatusVerified)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, order.Status)
	require.NotNil(t, order.StatusUpdatedAt)
	assert.WithinDuration(t, time.Now().UTC(), *order.StatusUpdatedAt, time.Minute)
}

func TestUpdateStatus_InvalidStatusNeverReachesStore(t *testing.T) {
	svc, _, db := newTestService(t)
	seedOrder(t, db, "CANDO-6-FFFFF", "CANDO-6-FFFFF/receipt.png")

	_, err := svc.UpdateStatus(context.Background(), "CANDO-6-FFFFF", "Shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var order models.Order
	require.NoError(t, db.Where("order_id = ?", "CANDO-6-FFFFF").First(&order).Error)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Nil(t, order.StatusUpdatedAt)
}

func TestUpdateStatus_UnknownOrderIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), "CANDO-NOPE-XXXXX", models.StatusVerified)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	svc, _, db := newTestService(t)
	seedOrder(t, db, "CANDO-7-GGGGG", "CANDO-7-GGGGG/receipt.png")

	require.NoError(t, svc.DeleteOrder(context.Background(), "CANDO-7-GGGGG"))

	err := svc.DeleteOrder(context.Background(), "CANDO-7-GGGGG")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAllOrders(t *testing.T) {
	svc, _, db := newTestService(t)
	seedOrder(t, db, "CANDO-8-HHHHH", "a")
	seedOrder(t, db, "CANDO-9-IIIII", "b")

	require.NoError(t, svc.DeleteAllOrders(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
