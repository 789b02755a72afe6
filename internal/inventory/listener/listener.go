package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/glowdesk/inventory-service/internal/inventory"
	"github.com/glowdesk/inventory-service/internal/inventory/dto"
	"github.com/glowdesk/inventory-service/pkg/broker"
	"github.com/glowdesk/inventory-service/pkg/logger"
)

type InventoryListener struct {
	consumer *broker.KafkaConsumer
	uc       inventory.UseCase
	logger   logger.Logger
}

func NewInventoryListener(consumer *broker.KafkaConsumer, uc inventory.UseCase, log logger.Logger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting inventory Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inventory Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type ServiceCompletedEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   ServicePayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type ServicePayload struct {
	AppointmentID string               `json:"appointment_id"`
	TenantID      string               `json:"tenant_id"`
	ServiceID     string               `json:"service_id"`
	Items         []ServiceItemPayload `json:"items"`
}

type ServiceItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event ServiceCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "ServiceCompleted" {
		return
	}

	l.logger.Info("Processing ServiceCompleted event",
		zap.String("appointment_id", event.Payload.AppointmentID),
		zap.String("service_id", event.Payload.ServiceID))

	items := make([]dto.DeductItem, 0, len(event.Payload.Items))
	for _, item := range event.Payload.Items {
		items = append(items, dto.DeductItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	input := &dto.DeductForServiceInput{
		TenantID:    event.Payload.TenantID,
		ServiceID:   event.Payload.ServiceID,
		ReferenceID: &event.Payload.AppointmentID,
		Items:       items,
	}

	if res := l.uc.DeductForService(ctx, input); res.IsErr() {
		l.logger.Error("Failed to deduct inventory for completed service",
			zap.String("appointment_id", event.Payload.AppointmentID),
			zap.String("service_id", event.Payload.ServiceID),
			zap.Error(res.Error()),
		)
	}
}
