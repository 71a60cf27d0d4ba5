// Package workflow exposes the stage triggers for the settlement pipeline
// and the per-order step pipelines.
package workflow

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minexafrica/tradeflow-backend/api/responses"
	"github.com/minexafrica/tradeflow-backend/api/validators"
	"github.com/minexafrica/tradeflow-backend/internal/flow"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/minexafrica/tradeflow-backend/pkg/errors"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/money"
)

type stageRequest struct {
	Amount               money.Amount `json:"amount"`
	Currency             string       `json:"currency"`
	Phone                string       `json:"phone"`
	Mode                 string       `json:"mode"`
	TestingLab           string       `json:"testingLab"`
	TestingResultSummary *string      `json:"testingResultSummary"`
}

// RunTransactionStage drives one settlement stage for a transaction.
func RunTransactionStage(ctl *flow.Controller, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		transactionID := chi.URLParam(r, "transactionId")
		stage, err := enums.ParseFlowStage(chi.URLParam(r, "stage"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stage"))
			return
		}

		var req stageRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		mode, err := enums.ParseContactMode(req.Mode)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mode"))
			return
		}

		result, err := ctl.Run(ctx, transactionID, stage, flow.StageInput{
			Amount:               req.Amount,
			Currency:             enums.Currency(req.Currency),
			Phone:                req.Phone,
			Mode:                 mode,
			TestingLab:           req.TestingLab,
			TestingResultSummary: req.TestingResultSummary,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
