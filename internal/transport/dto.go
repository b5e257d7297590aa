package transport

import (
	"time"

	"github.com/canvasphere/print_orders/internal/models"
)

// SubmitRequest is the decoded multipart submission. File carries the raw
// receipt bytes; Qty and Total arrive as the raw form strings and are
// validated by the service.
type SubmitRequest struct {
	Name     string
	Email    string
	GcashRef string
	Qty      string
	Total    string
	File     *ReceiptFile
}

type ReceiptFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StatusUpdateRequest struct {
	OrderID string `json:"order_id" form:"order_id"`
	Status  string `json:"status" form:"status"`
}

// TrackResponse is the reduced projection exposed without admin credentials.
type TrackResponse struct {
	OrderID         string     `json:"order_id"`
	Status          string     `json:"status"`
	Email           string     `json:"email"`
	CreatedAt       time.Time  `json:"created_at"`
	StatusUpdatedAt *time.Time `json:"status_updated_at"`
}

func NewTrackResponse(o *models.Order) TrackResponse {
	return TrackResponse{
		OrderID:         o.OrderID,
		Status:          o.Status,
		Email:           o.Email,
		CreatedAt:       o.CreatedAt,
		StatusUpdatedAt: o.StatusUpdatedAt,
	}
}
