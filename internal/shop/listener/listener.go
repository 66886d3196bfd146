package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/events"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Refresher is satisfied by shop.Registry.
type Refresher interface {
	RefreshAll() int
}

// CatalogListener re-fetches every open shop view when the catalog changes.
type CatalogListener struct {
	consumer  MessageReader
	refresher Refresher
	logger    logger.ZapLogger
	backoff   time.Duration
}

func NewCatalogListener(consumer MessageReader, refresher Refresher, logger logger.ZapLogger) *CatalogListener {
	return &CatalogListener{
		consumer:  consumer,
		refresher: refresher,
		logger:    logger,
		backoff:   time.Second,
	}
}

func (l *CatalogListener) Start(ctx context.Context) {
	l.logger.Info("Starting Catalog Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Catalog Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(msg.Value)
		}
	}
}

func (l *CatalogListener) processMessage(value []byte) {
	var event events.CatalogChanged
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	l.Handle(event)
}

// Handle applies one event. It is also the in-process delivery target when
// Kafka is disabled.
func (l *CatalogListener) Handle(event events.CatalogChanged) {
	if !events.IsCatalogEvent(event.EventType) {
		return
	}
	n := l.refresher.RefreshAll()
	l.logger.Info("Catalog changed, refreshing shop views",
		zap.String("event_type", event.EventType),
		zap.String("entity_id", event.EntityID),
		zap.Int("views", n),
	)
}
