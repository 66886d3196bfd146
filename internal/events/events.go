// Package events carries catalog change notifications between the admin
// mutations that cause them and the shop views that must re-fetch.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/frameshop-storefront/pkg/broker"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ProductCreated  = "ProductCreated"
	ProductUpdated  = "ProductUpdated"
	ProductDeleted  = "ProductDeleted"
	CategoryCreated = "CategoryCreated"
	CategoryUpdated = "CategoryUpdated"
	CategoryDeleted = "CategoryDeleted"
)

type CatalogChanged struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCatalogChanged(eventType, entityID string) CatalogChanged {
	return CatalogChanged{
		EventID:   uuid.New().String(),
		EventType: eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// IsCatalogEvent reports whether t is one of the known catalog change types.
func IsCatalogEvent(t string) bool {
	switch t {
	case ProductCreated, ProductUpdated, ProductDeleted, CategoryCreated, CategoryUpdated, CategoryDeleted:
		return true
	}
	return false
}

type Publisher interface {
	Publish(ctx context.Context, e CatalogChanged) error
}

// KafkaPublisher writes events keyed by entity id so changes to one entity
// stay ordered on a partition.
type KafkaPublisher struct {
	producer *broker.KafkaProducer
	logger   logger.ZapLogger
}

func NewKafkaPublisher(producer *broker.KafkaProducer, log logger.ZapLogger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e CatalogChanged) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, e.EntityID, data); err != nil {
		p.logger.Error("failed to publish catalog event", zap.String("event_type", e.EventType), zap.Error(err))
		return err
	}
	return nil
}

// LocalPublisher delivers events in-process. It stands in for Kafka on single
// instance deployments.
type LocalPublisher struct {
	handle func(CatalogChanged)
}

func NewLocalPublisher(handle func(CatalogChanged)) *LocalPublisher {
	return &LocalPublisher{handle: handle}
}

func (p *LocalPublisher) Publish(_ context.Context, e CatalogChanged) error {
	if p.handle != nil {
		p.handle(e)
	}
	return nil
}
