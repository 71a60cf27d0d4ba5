package workflow

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minexafrica/tradeflow-backend/api/responses"
	"github.com/minexafrica/tradeflow-backend/api/validators"
	"github.com/minexafrica/tradeflow-backend/internal/steps"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/minexafrica/tradeflow-backend/pkg/errors"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

type stepRequest struct {
	Phone                string  `json:"phone"`
	Mode                 string  `json:"mode"`
	TestingLab           string  `json:"testingLab"`
	TestingResultSummary *string `json:"testingResultSummary"`
}

// CompleteOrderStep marks one stage of the order's own pipeline done and
// advances its step counter.
func CompleteOrderStep(ctl *steps.Controller, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID := chi.URLParam(r, "orderId")
		stage, err := enums.ParseFlowStage(chi.URLParam(r, "stage"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stage"))
			return
		}

		var req stepRequest
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

		progress, err := ctl.Complete(ctx, orderID, stage, steps.StageInput{
			Phone:                req.Phone,
			Mode:                 mode,
			TestingLab:           req.TestingLab,
			TestingResultSummary: req.TestingResultSummary,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, progress)
	}
}
