package financial

import (
	"net/http"

	"github.com/minexafrica/tradeflow-backend/api/responses"
	"github.com/minexafrica/tradeflow-backend/api/validators"
	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/mirror"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/pkg/db/models"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

type callBuyerRequest struct {
	TransactionID string `json:"transactionId"`
	OrderID       string `json:"orderId"`
	Action        string `json:"action"`
	Phone         string `json:"phone"`
}

// CallBuyer reaches the counterparty over voice or SMS and records the
// attempt. Without a telephony provider the contact is logged only.
func CallBuyer(reg *providers.Registry, mir *mirror.Mirror, aud *audit.Log, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req callBuyerRequest
		if err := validators.DecodeJSONBodyLax(r, &req); err != nil {
			responses.WriteFlatError(ctx, logg, w, http.StatusBadRequest, "invalid request body", err)
			return
		}
		if req.OrderID == "" {
			responses.WriteFlatError(ctx, logg, w, http.StatusBadRequest, "orderId required", nil)
			return
		}

		ctx = logg.WithOrderID(ctx, req.OrderID)
		mode, err := enums.ParseContactMode(req.Action)
		if err != nil {
			mode = enums.ContactModeVoice
		}

		contacted := reg.Telephony.Contact(ctx, req.OrderID, req.Phone, mode)

		aud.Append(req.OrderID, audit.Entry{
			Type:    audit.EntryTypeContact,
			Label:   "Buyer contacted",
			Channel: string(mode),
			Detail:  contacted.Reference,
		})
		rec := models.ContactLog{
			OrderID:  req.OrderID,
			Mode:     mode,
			Fallback: contacted.Fallback,
		}
		if req.TransactionID != "" {
			txID := req.TransactionID
			rec.TransactionID = &txID
		}
		if req.Phone != "" {
			phone := req.Phone
			rec.Phone = &phone
		}
		if contacted.Reference != "" {
			sid := contacted.Reference
			rec.CallSID = &sid
		}
		mir.RecordContact(ctx, rec)

		payload := map[string]any{"success": true}
		if contacted.Reference != "" {
			payload["callSid"] = contacted.Reference
		}
		responses.WriteFlat(w, http.StatusOK, payload)
	}
}
