package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minexafrica/tradeflow-backend/pkg/enums"
)

// ContactLog records one outbound buyer-contact attempt.
type ContactLog struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       string            `gorm:"column:order_id;not null;index"`
	TransactionID *string           `gorm:"column:transaction_id"`
	Phone         *string           `gorm:"column:phone"`
	Mode          enums.ContactMode `gorm:"column:mode;type:text;not null;default:'voice'"`
	CallSID       *string           `gorm:"column:call_sid"`
	Fallback      bool              `gorm:"column:fallback;not null;default:false"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the mirror table name.
func (ContactLog) TableName() string {
	return "contact_logs"
}
