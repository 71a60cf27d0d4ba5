package mirror

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minexafrica/tradeflow-backend/pkg/db/models"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

func newTestMirror(t *testing.T) *Mirror {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.SettlementRecord{}, &models.ContactLog{}))
	return New(conn, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func TestUpsertSettlementReplacesRow(t *testing.T) {
	m := newTestMirror(t)
	ctx := context.Background()

	m.UpsertSettlement(ctx, models.SettlementRecord{
		TransactionID: "TX-1",
		OrderID:       "S-ORD-1",
		EscrowID:      "escrow_S-ORD-1_1767225600",
		Status:        enums.EscrowStatusReserved,
		AmountMinor:   8420000,
		Currency:      enums.CurrencyUSD,
		Fallback:      true,
	})
	m.UpsertSettlement(ctx, models.SettlementRecord{
		TransactionID: "TX-1",
		OrderID:       "S-ORD-1",
		EscrowID:      "escrow_S-ORD-1_1767225600",
		Status:        enums.EscrowStatusPendingRelease,
		AmountMinor:   8420000,
		Currency:      enums.CurrencyUSD,
		Fallback:      true,
	})

	rows := m.SettlementsForOrder(ctx, "S-ORD-1")
	require.Len(t, rows, 1)
	require.Equal(t, enums.EscrowStatusPendingRelease, rows[0].Status)
	require.True(t, rows[0].Fallback)
}

func TestRecordContactAppendsAndAssignsID(t *testing.T) {
	m := newTestMirror(t)
	ctx := context.Background()

	phone := "+27101234567"
	m.RecordContact(ctx, models.ContactLog{OrderID: "B-ORD-1", Phone: &phone, Mode: enums.ContactModeVoice})
	m.RecordContact(ctx, models.ContactLog{OrderID: "B-ORD-1", Mode: enums.ContactModeSMS, Fallback: true})

	require.EqualValues(t, 2, m.ContactCount(ctx, "B-ORD-1"))
	require.EqualValues(t, 0, m.ContactCount(ctx, "S-ORD-1"))

	var rows []models.ContactLog
	require.NoError(t, m.conn.Find(&rows).Error)
	for _, row := range rows {
		require.NotEmpty(t, row.ID)
	}
}

func TestDisabledMirrorIsNoOp(t *testing.T) {
	m := New(nil, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	ctx := context.Background()

	require.False(t, m.Enabled())
	m.UpsertSettlement(ctx, models.SettlementRecord{TransactionID: "TX-1"})
	m.RecordContact(ctx, models.ContactLog{OrderID: "B-ORD-1"})
	require.Nil(t, m.SettlementsForOrder(ctx, "S-ORD-1"))
	require.EqualValues(t, 0, m.ContactCount(ctx, "B-ORD-1"))
}
