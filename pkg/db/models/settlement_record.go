package models

import (
	"time"

	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/types"
)

// SettlementRecord is the durable mirror of a transaction's escrow
// position. The in-memory store stays authoritative; this row exists so a
// dashboard restart does not lose the escrow reference.
type SettlementRecord struct {
	TransactionID string             `gorm:"column:transaction_id;primaryKey"`
	OrderID       string             `gorm:"column:order_id;not null;index"`
	EscrowID      string             `gorm:"column:escrow_id;not null"`
	Status        enums.EscrowStatus `gorm:"column:status;type:text;not null;default:'Pending'"`
	AmountMinor   int64              `gorm:"column:amount_minor;not null;default:0"`
	Currency      enums.Currency     `gorm:"column:currency;type:text;not null;default:'USD'"`
	Fallback      bool               `gorm:"column:fallback;not null;default:false"`
	Metadata      types.JSONMap      `gorm:"column:metadata;serializer:json"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the mirror table name.
func (SettlementRecord) TableName() string {
	return "settlement_records"
}
