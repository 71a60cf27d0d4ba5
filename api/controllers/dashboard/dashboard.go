// Package dashboard serves the read-side views: transaction rows, summary
// metrics, order detail, payout batches, and enquiries.
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minexafrica/tradeflow-backend/api/responses"
	"github.com/minexafrica/tradeflow-backend/api/validators"
	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/insights"
	"github.com/minexafrica/tradeflow-backend/internal/rows"
	"github.com/minexafrica/tradeflow-backend/internal/steps"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/minexafrica/tradeflow-backend/pkg/errors"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

// ListTransactions returns the denormalized transaction rows.
func ListTransactions(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, rows.Build(st.Snapshot()))
	}
}

// Metrics returns the aggregated dashboard figures.
func Metrics(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, insights.Summarize(st.Snapshot()))
	}
}

type orderDetail struct {
	Order       store.Order             `json:"order"`
	DisplayStep int                     `json:"displayStep"`
	Logistics   *store.LogisticsDetails `json:"logistics,omitempty"`
	SentToUser  []audit.Entry           `json:"sentToUser"`
}

// GetOrder returns one order with its logistics record and audit trail.
func GetOrder(st *store.Store, aud *audit.Log, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderId")

		order, ok := st.GetOrder(orderID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		detail := orderDetail{
			Order:       order,
			DisplayStep: steps.DisplayStep(order.Type, order.CurrentStep),
			SentToUser:  aud.ForOrder(orderID),
		}
		if logistics, ok := st.GetLogistics(orderID); ok {
			detail.Logistics = &logistics
		}
		responses.WriteSuccess(w, detail)
	}
}

// ListPayouts returns the settlement batches, newest first as stored.
func ListPayouts(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payouts := st.Snapshot().Payouts
		if len(payouts) > limit {
			payouts = payouts[:limit]
		}
		responses.WriteSuccess(w, payouts)
	}
}

// ListEnquiries returns the support tickets.
func ListEnquiries(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, st.Snapshot().Enquiries)
	}
}

type enquiryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateEnquiryStatus moves a support ticket between statuses.
func UpdateEnquiryStatus(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		enquiryID := chi.URLParam(r, "enquiryId")

		var req enquiryStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseEnquiryStatus(req.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		if !st.SetEnquiryStatus(enquiryID, status) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": enquiryID, "status": string(status)})
	}
}
