package providers

import (
	"context"
	"fmt"

	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

const capabilityTestingLab = "testing_lab"

// TestingLab books assay slots with partner laboratories. Bookings are
// confirmed out of band; the facade records the assignment and returns a
// local booking reference.
type TestingLab struct {
	logg    *logger.Logger
	metrics *metrics.ProviderMetrics
}

// NewTestingLab builds the assay booking facade.
func NewTestingLab(logg *logger.Logger, pm *metrics.ProviderMetrics) *TestingLab {
	return &TestingLab{logg: logg, metrics: pm}
}

// Assign books the named lab for the order's assay.
func (t *TestingLab) Assign(ctx context.Context, orderID, lab string) Result {
	ref := fmt.Sprintf("assay_%s", orderID)
	t.metrics.IncSuccess(capabilityTestingLab)
	t.logg.Info(t.logg.WithOrderID(ctx, orderID), fmt.Sprintf("assay booked with %s: %s", lab, ref))
	return delivered(ref)
}
