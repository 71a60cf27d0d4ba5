package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/minexafrica/tradeflow-backend/api/responses"
	pkgerrors "github.com/minexafrica/tradeflow-backend/pkg/errors"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", err)
					}
					// The legacy financial endpoints answer failures in
					// their flat {"success":false,"error":msg} shape.
					if strings.HasPrefix(r.URL.Path, "/api/financial/") {
						responses.WriteFlatError(ctx, logg, w, http.StatusInternalServerError, "internal server error", err)
						return
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
