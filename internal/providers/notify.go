package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"

	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

const capabilityNotify = "notify"

// Notification is one workflow event fanned out to interested consumers.
type Notification struct {
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Event         string    `json:"event"`
	Detail        string    `json:"detail,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// notifyPublisher is the publish surface the facade needs from Pub/Sub.
type notifyPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Notifier fans workflow events out over Pub/Sub. Without a client events
// are logged and dropped.
type Notifier struct {
	publisher notifyPublisher
	timeout   time.Duration
	logg      *logger.Logger
	metrics   *metrics.ProviderMetrics
}

// NewNotifier builds the notification facade. client may be nil for
// log-only operation.
func NewNotifier(client *pubsub.Client, cfg config.PubSubConfig, provider config.ProviderConfig, logg *logger.Logger, pm *metrics.ProviderMetrics) *Notifier {
	n := &Notifier{
		timeout: provider.Timeout,
		logg:    logg,
		metrics: pm,
	}
	if client != nil {
		n.publisher = client.Publisher(cfg.NotificationTopic)
	}
	return n
}

// Publish emits one event. Delivery failures degrade to log-only.
func (n *Notifier) Publish(ctx context.Context, event Notification) Result {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.metrics.IncFallback(capabilityNotify)
		n.logg.Error(ctx, "notification payload not serializable", err)
		return degraded("")
	}

	if n.publisher == nil {
		n.metrics.IncFallback(capabilityNotify)
		n.logg.Info(n.logg.WithOrderID(ctx, event.OrderID), fmt.Sprintf("notification (log only): %s", event.Event))
		return degraded("")
	}

	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	res := n.publisher.Publish(callCtx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event":    event.Event,
			"order_id": event.OrderID,
		},
	})
	id, err := res.Get(callCtx)
	if err != nil {
		n.metrics.IncFallback(capabilityNotify)
		n.logg.Warn(n.logg.WithOrderID(ctx, event.OrderID), fmt.Sprintf("notification publish failed, logged only: %v", err))
		return degraded("")
	}

	n.metrics.IncSuccess(capabilityNotify)
	return delivered(id)
}
