// Package financial exposes the two legacy stage endpoints consumed by
// the dashboard. Unlike the rest of the API they answer in a flat
// {"success": ...} shape, which existing clients depend on.
package financial

import (
	"net/http"

	"github.com/minexafrica/tradeflow-backend/api/responses"
	"github.com/minexafrica/tradeflow-backend/api/validators"
	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/mirror"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/db/models"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/money"
	"github.com/minexafrica/tradeflow-backend/pkg/types"
)

type reserveEscrowRequest struct {
	TransactionID string       `json:"transactionId"`
	OrderID       string       `json:"orderId"`
	Amount        money.Amount `json:"amount"`
	Currency      string       `json:"currency"`
}

// ReserveEscrow places an escrow hold for the order and records the
// resulting reference. Provider failure degrades to a synthesized
// reference; only a missing orderId fails the request.
func ReserveEscrow(st *store.Store, reg *providers.Registry, mir *mirror.Mirror, aud *audit.Log, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req reserveEscrowRequest
		if err := validators.DecodeJSONBodyLax(r, &req); err != nil {
			responses.WriteFlatError(ctx, logg, w, http.StatusBadRequest, "invalid request body", err)
			return
		}
		if req.OrderID == "" {
			responses.WriteFlatError(ctx, logg, w, http.StatusBadRequest, "orderId required", nil)
			return
		}

		ctx = logg.WithOrderID(ctx, req.OrderID)
		currency := enums.NormalizeCurrency(req.Currency)

		reserved := reg.Escrow.Reserve(ctx, req.OrderID, req.Amount.MinorUnits(), currency)

		if order, ok := st.GetOrder(req.OrderID); ok {
			order.EscrowStatus = enums.EscrowStatusReserved
			st.UpdateOrder(order)
		}
		if req.TransactionID != "" {
			if tx, ok := st.GetTransaction(req.TransactionID); ok {
				escrowID := reserved.Reference
				tx.EscrowID = &escrowID
				st.UpdateTransaction(tx)
			}
			mir.UpsertSettlement(ctx, models.SettlementRecord{
				TransactionID: req.TransactionID,
				OrderID:       req.OrderID,
				EscrowID:      reserved.Reference,
				Status:        enums.EscrowStatusReserved,
				AmountMinor:   req.Amount.MinorUnits(),
				Currency:      currency,
				Fallback:      reserved.Fallback,
				Metadata:      types.JSONMap{"source": "legacy-endpoint"},
			})
		}
		aud.Append(req.OrderID, audit.Entry{
			Type:   audit.EntryTypeEscrow,
			Label:  "Escrow reserved",
			Detail: reserved.Reference,
		})

		responses.WriteFlat(w, http.StatusOK, map[string]any{
			"success":  true,
			"escrowId": reserved.Reference,
		})
	}
}
