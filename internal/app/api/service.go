package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"pos-system/internal/common/logger"
	"pos-system/internal/common/mq"
	"pos-system/internal/domain"
	"pos-system/internal/metrics"
)

type Publisher interface {
	PublishPersistent(ctx context.Context, exchange, key, messageID string, body []byte) error
}

// OrderPlacer is the fulfillment orchestrator's entry point.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, cart domain.Cart) (domain.OrderReceipt, error)
}

// OrderService fronts the fulfillment orchestrator for the HTTP layer:
// it records metrics per outcome and announces committed orders on the
// message bus.
type OrderService struct {
	orch OrderPlacer
	pub  Publisher
	met  *metrics.Fulfillment
	log  *logger.Logger
}

func NewOrderService(orch OrderPlacer, pub Publisher, met *metrics.Fulfillment, log *logger.Logger) *OrderService {
	return &OrderService{orch: orch, pub: pub, met: met, log: log}
}

func (s *OrderService) Submit(ctx context.Context, cart domain.Cart) (domain.OrderReceipt, error) {
	start := time.Now()
	receipt, err := s.orch.PlaceOrder(ctx, cart)
	s.observe(err, time.Since(start))
	if err != nil {
		return domain.OrderReceipt{}, err
	}
	s.announce(ctx, cart, receipt)
	return receipt, nil
}

func (s *OrderService) observe(err error, elapsed time.Duration) {
	if s.met == nil {
		return
	}
	s.met.LatencyMS.Observe(float64(elapsed.Milliseconds()))
	switch e := err.(type) {
	case nil:
		s.met.Orders.WithLabelValues("fulfilled").Inc()
	case *domain.ValidationError:
		s.met.Orders.WithLabelValues("invalid").Inc()
	case *domain.InsufficientStockError:
		s.met.Orders.WithLabelValues("out_of_stock").Inc()
		s.met.StockRejects.WithLabelValues(e.ItemName).Inc()
	default:
		s.met.Orders.WithLabelValues("error").Inc()
	}
}

// announce publishes the completed-order event. The order is already
// committed, so a publish failure is logged and swallowed.
func (s *OrderService) announce(ctx context.Context, cart domain.Cart, receipt domain.OrderReceipt) {
	if s.pub == nil {
		return
	}
	evt := domain.OrderCompletedEvent{
		OrderID:       receipt.OrderID,
		CustomerID:    cart.CustomerID,
		CashierID:     cart.CashierID,
		PaymentMethod: cart.PaymentMethod,
		Subtotal:      receipt.Subtotal,
		PointsEarned:  receipt.PointsEarned,
	}
	for _, ln := range cart.Lines {
		evt.Lines = append(evt.Lines, domain.OrderLineMsg{
			MenuItemID: ln.MenuItemID,
			ItemName:   ln.ItemName,
			Quantity:   int(ln.Quantity),
		})
	}
	body, err := json.Marshal(evt)
	if err != nil {
		s.log.Error("order_event_marshal_failed", err, map[string]any{"order_id": receipt.OrderID})
		return
	}

	// The order is durable even if the client has gone away; publish on a
	// fresh context so a cancelled request cannot suppress the event.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.pub.PublishPersistent(pubCtx, mq.OrdersExchange, "order.completed", uuid.NewString(), body); err != nil {
		s.log.Error("order_event_publish_failed", err, map[string]any{"order_id": receipt.OrderID})
	}
}
