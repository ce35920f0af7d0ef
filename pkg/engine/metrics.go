package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opd-ai/go-starcruiser/pkg/engine"

// meter returns the global meter; a no-op unless an SDK provider is installed.
func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// entityCounts is written by the game loop and read by the gauge callback.
type entityCounts struct {
	ships     atomic.Int64
	asteroids atomic.Int64
	torpedoes atomic.Int64
	clients   atomic.Int64
}

type metrics struct {
	processed    metric.Int64Counter
	tickDuration metric.Float64Histogram
	destroyed    metric.Int64Counter
	entities     metric.Int64ObservableGauge
	inbox        metric.Int64ObservableGauge

	counts entityCounts

	registration metric.Registration
	unregister   sync.Once
}

func newMetrics(inbox chan Message) (*metrics, error) {
	m := meter()
	mt := &metrics{}

	var err error
	mt.processed, err = m.Int64Counter(
		"game.messages.processed",
		metric.WithDescription("Total messages handled by the game loop"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	mt.tickDuration, err = m.Float64Histogram(
		"game.tick.duration",
		metric.WithDescription("Wall time spent simulating one tick"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick duration histogram: %w", err)
	}

	mt.destroyed, err = m.Int64Counter(
		"game.ships.destroyed",
		metric.WithDescription("Total ships destroyed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}

	mt.entities, err = m.Int64ObservableGauge(
		"game.entities",
		metric.WithDescription("Current number of entities by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entities gauge: %w", err)
	}

	mt.inbox, err = m.Int64ObservableGauge(
		"game.inbox.size",
		metric.WithDescription("Current number of messages waiting for the game loop"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating inbox gauge: %w", err)
	}

	mt.registration, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(mt.entities, mt.counts.ships.Load(), metric.WithAttributes(attribute.String("kind", "ship")))
			o.ObserveInt64(mt.entities, mt.counts.asteroids.Load(), metric.WithAttributes(attribute.String("kind", "asteroid")))
			o.ObserveInt64(mt.entities, mt.counts.torpedoes.Load(), metric.WithAttributes(attribute.String("kind", "torpedo")))
			o.ObserveInt64(mt.entities, mt.counts.clients.Load(), metric.WithAttributes(attribute.String("kind", "client")))
			o.ObserveInt64(mt.inbox, int64(len(inbox)))
			return nil
		},
		mt.entities, mt.inbox,
	)
	if err != nil {
		return nil, fmt.Errorf("registering entity callback: %w", err)
	}

	return mt, nil
}

// close drops the gauge callback from the meter. Later calls do nothing.
func (mt *metrics) close() error {
	var err error
	mt.unregister.Do(func() {
		err = mt.registration.Unregister()
	})
	return err
}

func (mt *metrics) messageHandled(msg Message) {
	mt.processed.Add(context.Background(), 1, metric.WithAttributes(attribute.String("message", msg.name())))
}

func (mt *metrics) tickDone(elapsed time.Duration) {
	mt.tickDuration.Record(context.Background(), elapsed.Seconds())
}

func (mt *metrics) shipDestroyed(faction string) {
	mt.destroyed.Add(context.Background(), 1, metric.WithAttributes(attribute.String("faction", faction)))
}
