package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/internal/engineconfig"
	"github.com/scriptrt/ccjs/pkg/rtlog"
)

// EventHandler processes a GC lifecycle event published on a subject.
type EventHandler func(subject string, data []byte)

// EventBus republishes GC collection-finished events over NATS so that
// multiple engine instances in one deployment can be observed from a
// single subscriber instead of each one being scraped individually. The
// collection-started and phase-changed subjects are declared, but
// nothing in this package publishes on them.
type EventBus struct {
	conn          *nats.Conn
	subscriptions []*nats.Subscription
	log           *rtlog.Logger
	mu            sync.Mutex
}

// Connect dials the NATS server named in cfg.NATSURL. A bus with
// no configured URL is a no-op bus: Publish/Subscribe silently succeed
// so callers don't need to branch on whether events are enabled.
func Connect(cfg engineconfig.EventsConfig, log *rtlog.Logger) (*EventBus, error) {
	if log == nil {
		log = rtlog.Default
	}
	if cfg.NATSURL == "" {
		log.Note("telemetry: no events.nats_url configured, GC events will not be published")
		return &EventBus{log: log}, nil
	}

	nc, err := nats.Connect(cfg.NATSURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("telemetry: NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("telemetry: NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Errorf("telemetry: NATS error: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: NATS connect to %q failed: %w", cfg.NATSURL, err)
	}

	log.Infof("telemetry: NATS connected to %s", cfg.NATSURL)
	return &EventBus{conn: nc, log: log}, nil
}

// Publish sends data under subject. A no-op bus (no configured URL)
// silently discards the event.
func (b *EventBus) Publish(subject string, data []byte) error {
	if b.conn == nil {
		return nil
	}
	if err := b.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("telemetry: publish to %q failed: %w", subject, err)
	}
	return nil
}

// Subscribe registers handler for messages on subject. A no-op bus
// returns nil immediately without registering anything.
func (b *EventBus) Subscribe(subject string, handler EventHandler) error {
	if b.conn == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("telemetry: subscribe to %q failed: %w", subject, err)
	}
	b.subscriptions = append(b.subscriptions, sub)
	b.log.Infof("telemetry: subscribed to %q", subject)
	return nil
}

// Close unsubscribes everything and closes the connection, if any.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			b.log.Warnf("telemetry: unsubscribe failed: %v", err)
		}
	}
	b.subscriptions = nil

	if b.conn != nil {
		b.conn.Close()
		b.log.Info("telemetry: NATS connection closed")
	}
}

// Subjects used for GC lifecycle events.
const (
	SubjectCollectionStarted  = "ccjs.gc.collection_started"
	SubjectCollectionFinished = "ccjs.gc.collection_finished"
	SubjectPhaseChanged       = "ccjs.gc.phase_changed"
)

// collectionFinished is the JSON payload PublishCollectionFinished sends
// on SubjectCollectionFinished.
type collectionFinished struct {
	FreedCount int            `json:"freed_count"`
	FreedKinds map[string]int `json:"freed_kinds"`
}

// PublishCollectionFinished reports one sweep's worth of reclaimed
// objects. It is meant to be registered directly as a core.Heap
// OnCollect callback (see cmd/ccjs/main.go), so every full, minor, and
// incremental sweep republishes over NATS exactly what it already
// reports to internal/core's InternTable and any weak-ref callbacks.
func (b *EventBus) PublishCollectionFinished(freed []core.Obj) {
	if b.conn == nil || len(freed) == 0 {
		return
	}
	kinds := make(map[string]int, 4)
	for _, o := range freed {
		kinds[o.Head().Kind.String()]++
	}
	payload, err := json.Marshal(collectionFinished{FreedCount: len(freed), FreedKinds: kinds})
	if err != nil {
		b.log.Errorf("telemetry: marshaling collection_finished event failed: %v", err)
		return
	}
	if err := b.Publish(SubjectCollectionFinished, payload); err != nil {
		b.log.Warnf("telemetry: %v", err)
	}
}
