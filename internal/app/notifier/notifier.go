package notifier

import (
	"context"
	"encoding/json"

	"pos-system/internal/common/logger"
	"pos-system/internal/common/mq"
	"pos-system/internal/domain"
)

// Run consumes completed-order events and logs them for the front-of-house
// display. It acks after handling; undecodable payloads are dropped to the
// log rather than requeued.
func Run(ctx context.Context, client *mq.Client, log *logger.Logger) error {
	deliveries, err := client.Consume(mq.NotificationsQueue, "pos-notifier", 1)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var evt domain.OrderCompletedEvent
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				log.Error("notification_decode_failed", err, map[string]any{"message_id": d.MessageId})
				_ = d.Nack(false, false)
				continue
			}
			log.Info("order_completed", map[string]any{
				"order_id":      evt.OrderID,
				"customer_id":   evt.CustomerID,
				"subtotal":      evt.Subtotal.String(),
				"points_earned": evt.PointsEarned,
				"items":         len(evt.Lines),
			})
			_ = d.Ack(false)
		}
	}
}
