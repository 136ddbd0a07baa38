package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	"github.com/swiftship/swiftship-backend/pkg/logger"
	"github.com/swiftship/swiftship-backend/pkg/outbox"
	"github.com/swiftship/swiftship-backend/pkg/outbox/idempotency"
	"github.com/swiftship/swiftship-backend/pkg/outbox/payloads"
)

const orderNotificationConsumer = "order-notifications"

type consumerRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type profileDirectory interface {
	FindCourierByID(ctx context.Context, id uuid.UUID) (*models.CourierProfile, error)
	FindMerchantByID(ctx context.Context, id uuid.UUID) (*models.MerchantProfile, error)
}

// Consumer watches order events and turns them into in-app notifications for
// the courier picking up the shipment and the merchant tracking it.
type Consumer struct {
	repo         consumerRepository
	directory    profileDirectory
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer.
func NewConsumer(repo consumerRepository, directory profileDirectory, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if directory == nil {
		return nil, fmt.Errorf("profile directory required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		directory:    directory,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if eventType != string(enums.EventOrderAssigned) && eventType != string(enums.EventOrderStateChanged) {
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handleEvent(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) handleEvent(ctx context.Context, eventType string, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case string(enums.EventOrderAssigned):
		var payload payloads.OrderAssignedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse assigned payload: %w", err)
		}
		return c.notifyCourierAssigned(ctx, payload, logCtx)
	case string(enums.EventOrderStateChanged):
		var payload payloads.OrderStateChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse state payload: %w", err)
		}
		return c.notifyMerchantStateChanged(ctx, payload, logCtx)
	default:
		return nil
	}
}

func (c *Consumer) notifyCourierAssigned(ctx context.Context, payload payloads.OrderAssignedEvent, logCtx context.Context) error {
	if payload.CourierID == uuid.Nil {
		return fmt.Errorf("courier id missing")
	}
	courier, err := c.directory.FindCourierByID(ctx, payload.CourierID)
	if err != nil {
		return fmt.Errorf("resolve courier %s: %w", payload.CourierID, err)
	}

	orderID := payload.OrderID
	notification := &models.Notification{
		TenantID: payload.TenantID,
		UserID:   courier.UserID,
		Type:     enums.NotificationTypeOrderAssigned,
		Title:    "New delivery assigned",
		Message:  fmt.Sprintf("Shipment %s has been assigned to you.", payload.TrackingCode),
		OrderID:  &orderID,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "courier notified of assignment")
	return nil
}

func (c *Consumer) notifyMerchantStateChanged(ctx context.Context, payload payloads.OrderStateChangedEvent, logCtx context.Context) error {
	if payload.MerchantID == uuid.Nil {
		return fmt.Errorf("merchant id missing")
	}
	merchant, err := c.directory.FindMerchantByID(ctx, payload.MerchantID)
	if err != nil {
		return fmt.Errorf("resolve merchant %s: %w", payload.MerchantID, err)
	}

	orderID := payload.OrderID
	notification := &models.Notification{
		TenantID: payload.TenantID,
		UserID:   merchant.UserID,
		Type:     enums.NotificationTypeOrderStatusChange,
		Title:    "Shipment status updated",
		Message:  fmt.Sprintf("Shipment %s moved from %s to %s.", payload.TrackingCode, payload.FromStatus, payload.ToStatus),
		OrderID:  &orderID,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "merchant notified of status change")
	return nil
}
