package revalidate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/pkg/logger"
	"github.com/ryanolv/doctor-agenda/pkg/messaging"
	"github.com/ryanolv/doctor-agenda/pkg/metrics"
)

// Channel is the pub/sub channel every API instance listens on.
const Channel = "revalidate"

const publishTimeout = 2 * time.Second

type Message struct {
	Path     string    `json:"path"`
	ClinicID uuid.UUID `json:"clinic_id"`
}

// Notifier tells the presentation layer that a clinic's views are stale.
// Revalidate never fails the caller; delivery problems are logged and counted.
type Notifier interface {
	Revalidate(ctx context.Context, clinicID uuid.UUID, paths ...string)
}

type notifier struct {
	broker  messaging.Broker
	cache   *ViewCache
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewNotifier(broker messaging.Broker, viewCache *ViewCache, log *logger.Logger, m *metrics.Metrics) Notifier {
	return &notifier{
		broker:  broker,
		cache:   viewCache,
		logger:  log,
		metrics: m,
	}
}

func (n *notifier) Revalidate(ctx context.Context, clinicID uuid.UUID, paths ...string) {
	for _, path := range paths {
		n.cache.Evict(clinicID, path)
	}

	// The request context ends with the response; publishing must outlive it.
	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		for _, path := range paths {
			err := n.broker.Publish(pubCtx, Channel, Message{Path: path, ClinicID: clinicID})
			n.metrics.Revalidated(path, err)
			if err != nil {
				n.logger.Error(err, "failed to publish revalidation",
					"path", path,
					"clinic_id", clinicID.String(),
				)
			}
		}
	}()
}

// Listener evicts local view cache entries for revalidations published by any instance.
type Listener struct {
	broker messaging.Broker
	cache  *ViewCache
	logger *logger.Logger
}

func NewListener(broker messaging.Broker, viewCache *ViewCache, log *logger.Logger) *Listener {
	return &Listener{broker: broker, cache: viewCache, logger: log}
}

// Run blocks until ctx is cancelled or the subscription ends.
func (l *Listener) Run(ctx context.Context) error {
	msgs, err := l.broker.Subscribe(ctx, Channel)
	if err != nil {
		return err
	}

	for payload := range msgs {
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			l.logger.Error(err, "discarding malformed revalidation message")
			continue
		}
		l.cache.Evict(msg.ClinicID, msg.Path)
		l.logger.Debug("view revalidated", "path", msg.Path, "clinic_id", msg.ClinicID.String())
	}
	return ctx.Err()
}
