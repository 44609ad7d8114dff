package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/velora-health/medstock-backend/internal/mail"
	"github.com/velora-health/medstock-backend/pkg/db/models"
	"github.com/velora-health/medstock-backend/pkg/enums"
	"github.com/velora-health/medstock-backend/pkg/logger"
	"github.com/velora-health/medstock-backend/pkg/outbox"
	"github.com/velora-health/medstock-backend/pkg/outbox/idempotency"
	"github.com/velora-health/medstock-backend/pkg/outbox/payloads"
	"github.com/velora-health/medstock-backend/pkg/outbox/registry"
)

const lowStockConsumer = "low-stock-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches alert events and turns them into facility notifications.
// Email delivery is best effort: the in-app notification is the durable
// record, so a failed send never blocks the ack.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	mailer       mail.Sender
	decoders     *registry.DecoderRegistry
	logg         *logger.Logger
}

// NewConsumer builds a low-stock notification consumer. The mailer is
// optional; pass nil when SMTP is not configured.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, mailer mail.Sender, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("alert subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		mailer:       mailer,
		decoders:     newAlertDecoders(),
		logg:         logg,
	}, nil
}

func newAlertDecoders() *registry.DecoderRegistry {
	decoders := registry.NewDecoderRegistry()
	decoders.Register(enums.EventLowStockAlertRaised, 1, func(payload json.RawMessage) (interface{}, error) {
		var event payloads.LowStockAlertRaisedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return &event, nil
	})
	return decoders
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

	if eventType != string(enums.EventLowStockAlertRaised) {
		c.logg.Info(logCtx, "skipping non-alert event")
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

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, lowStockConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	decoded, err := c.decoders.Decode(enums.EventLowStockAlertRaised, envelope.Version, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, lowStockConsumer, eventID)
		return processResult{nack: true}
	}
	payload, ok := decoded.(*payloads.LowStockAlertRaisedEvent)
	if !ok {
		c.logg.Error(logCtx, "unexpected payload type", fmt.Errorf("%T", decoded))
		_ = c.idempotency.Delete(ctx, lowStockConsumer, eventID)
		return processResult{nack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"alert_id":    payload.AlertID.String(),
		"facility_id": payload.FacilityID.String(),
		"item_id":     payload.InventoryItemID.String(),
	})

	if err := c.handleAlert(ctx, *payload, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, lowStockConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) handleAlert(ctx context.Context, payload payloads.LowStockAlertRaisedEvent, logCtx context.Context) error {
	if payload.FacilityID == uuid.Nil {
		return fmt.Errorf("facility id missing")
	}

	link := fmt.Sprintf("/facilities/%s/inventory/%s", payload.FacilityID, payload.InventoryItemID)
	notification := &models.Notification{
		FacilityID: payload.FacilityID,
		Type:       enums.NotificationTypeLowStock,
		Title:      notificationTitle(payload),
		Message:    notificationMessage(payload),
		Link:       stringPtr(link),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "facility notified of low stock")

	c.sendEmail(ctx, payload, logCtx)
	return nil
}

func (c *Consumer) sendEmail(ctx context.Context, payload payloads.LowStockAlertRaisedEvent, logCtx context.Context) {
	if c.mailer == nil || payload.Recipient == "" {
		return
	}
	err := c.mailer.Send(ctx, payload.Recipient, notificationTitle(payload), notificationMessage(payload))
	if err != nil {
		c.logg.Error(logCtx, "alert email failed", err)
		return
	}
	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{"recipient": payload.Recipient}), "alert email sent")
}

func notificationTitle(payload payloads.LowStockAlertRaisedEvent) string {
	return fmt.Sprintf("Low stock: %s", payload.MedicationName)
}

func notificationMessage(payload payloads.LowStockAlertRaisedEvent) string {
	return fmt.Sprintf("%s at %s is down to %d units (reorder point %d).",
		payload.MedicationName, payload.FacilityName, payload.CurrentStock, payload.ReorderPoint)
}

func stringPtr(value string) *string {
	return &value
}
