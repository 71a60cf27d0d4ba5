// Package mirror persists a best-effort durable copy of escrow positions
// and contact attempts. The in-memory store stays authoritative; a write
// failure here is logged and never blocks the workflow.
package mirror

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minexafrica/tradeflow-backend/pkg/db/models"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

// Mirror writes settlement and contact rows. A nil connection makes every
// write a no-op, which is how the service runs without persistence.
type Mirror struct {
	conn *gorm.DB
	logg *logger.Logger
}

// New builds the mirror. conn may be nil.
func New(conn *gorm.DB, logg *logger.Logger) *Mirror {
	return &Mirror{conn: conn, logg: logg}
}

// Enabled reports whether writes reach a database.
func (m *Mirror) Enabled() bool {
	return m != nil && m.conn != nil
}

// UpsertSettlement saves the transaction's current escrow position,
// replacing any earlier row for the same transaction.
func (m *Mirror) UpsertSettlement(ctx context.Context, rec models.SettlementRecord) {
	if !m.Enabled() {
		return
	}
	scoped := m.logg.WithTransactionID(ctx, rec.TransactionID)
	if err := m.conn.WithContext(ctx).Save(&rec).Error; err != nil {
		m.logg.Error(scoped, "settlement mirror write failed", err)
		return
	}
	m.logg.Info(scoped, "settlement mirrored")
}

// RecordContact appends one contact attempt.
func (m *Mirror) RecordContact(ctx context.Context, rec models.ContactLog) {
	if !m.Enabled() {
		return
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	scoped := m.logg.WithOrderID(ctx, rec.OrderID)
	if err := m.conn.WithContext(ctx).Create(&rec).Error; err != nil {
		m.logg.Error(scoped, "contact mirror write failed", err)
		return
	}
	m.logg.Info(scoped, "contact mirrored")
}

// SettlementsForOrder lists the mirrored escrow positions for an order,
// newest first. Read failures surface as an empty slice.
func (m *Mirror) SettlementsForOrder(ctx context.Context, orderID string) []models.SettlementRecord {
	if !m.Enabled() {
		return nil
	}
	var rows []models.SettlementRecord
	err := m.conn.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		m.logg.Error(ctx, "settlement mirror read failed", err)
		return nil
	}
	return rows
}

// ContactCount reports how many contact attempts were mirrored for an
// order.
func (m *Mirror) ContactCount(ctx context.Context, orderID string) int64 {
	if !m.Enabled() {
		return 0
	}
	var n int64
	err := m.conn.WithContext(ctx).
		Model(&models.ContactLog{}).
		Where("order_id = ?", orderID).
		Count(&n).Error
	if err != nil {
		m.logg.Error(ctx, "contact mirror read failed", err)
		return 0
	}
	return n
}
