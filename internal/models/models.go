package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusVerified   = "Verified"
	StatusRejected   = "Rejected"
)

// ValidStatus reports whether s is one of the fixed lifecycle labels.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusVerified, StatusRejected:
		return true
	}
	return false
}

type Order struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"      json:"id"`
	OrderID         string     `gorm:"uniqueIndex;not null"      json:"order_id"`
	Name            string     `gorm:"not null"                  json:"name"`
	Email           string     `gorm:"not null"                  json:"email"`
	GcashRef        string     `gorm:"not null"                  json:"gcash_ref"`
	Qty             int        `gorm:"not null;check:qty>0"      json:"qty"`
	Total           int64      `gorm:"not null;check:total>0"    json:"total"`
	ReceiptPath     string     `gorm:"not null"                  json:"receipt_path"`
	Status          string     `gorm:"not null;default:Pending"  json:"status"`
	StatusUpdatedAt *time.Time `json:"status_updated_at"`
	CreatedAt       time.Time  `gorm:"not null"                  json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
