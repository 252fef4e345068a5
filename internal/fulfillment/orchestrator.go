package fulfillment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"pos-system/internal/common/logger"
	"pos-system/internal/domain"
)

type Policy struct {
	// PointsRate converts order subtotal into earned loyalty points
	// (floored once per order).
	PointsRate decimal.Decimal
	Defaults   domain.Defaults
}

// Orchestrator turns a submitted cart into a durable order. It validates
// the cart, checks every line's stock, allocates the order id, writes the
// line ledger, deducts inventory and credits loyalty inside one transaction
// the Runner owns.
type Orchestrator struct {
	runner Runner
	policy Policy
	log    *logger.Logger
}

func NewOrchestrator(runner Runner, policy Policy, log *logger.Logger) *Orchestrator {
	return &Orchestrator{runner: runner, policy: policy, log: log}
}

// PlaceOrder fulfills the cart and returns the allocated order id.
// Failure modes: *domain.ValidationError before any transaction work,
// *domain.InsufficientStockError after an in-transaction check but before
// any write became visible, *domain.TransactionError for everything else.
// All in-transaction failures leave the store untouched.
func (o *Orchestrator) PlaceOrder(ctx context.Context, cart domain.Cart) (domain.OrderReceipt, error) {
	vc, err := domain.ValidateCart(cart, o.policy.Defaults)
	if err != nil {
		return domain.OrderReceipt{}, err
	}

	var receipt domain.OrderReceipt
	err = o.runner.InTx(ctx, func(ctx context.Context, s Store) error {
		// Every line is checked before the first write, so one exhausted
		// ingredient cannot leave a partially fulfilled order behind.
		for _, ln := range vc.Lines {
			ok, err := CheckAvailability(ctx, s, ln.MenuItemID, ln.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.InsufficientStockError{ItemName: ln.ItemName}
			}
		}

		orderID, err := s.NextOrderID(ctx)
		if err != nil {
			return err
		}
		if err := s.InsertOrderLines(ctx, orderID, vc); err != nil {
			return err
		}

		deductions, err := DeductForLines(ctx, s, vc.Lines)
		if err != nil {
			return err
		}

		receipt = domain.OrderReceipt{
			OrderID:    orderID,
			Subtotal:   vc.Subtotal,
			Deductions: deductions,
		}

		if vc.CustomerID != domain.AnonymousCustomer {
			earned := vc.Subtotal.Mul(o.policy.PointsRate).Floor().IntPart()
			upd := LoyaltyUpdate{
				CustomerID:     vc.CustomerID,
				PointsEarned:   earned,
				PointsRedeemed: vc.PointsToRedeem,
				Subtotal:       vc.Subtotal,
			}
			if err := s.ApplyLoyalty(ctx, upd); err != nil {
				switch {
				case errors.Is(err, ErrInsufficientPoints):
					return &domain.ValidationError{Reason: "points_to_redeem exceeds balance"}
				case errors.Is(err, ErrUnknownCustomer):
					return &domain.ValidationError{Reason: "unknown customer"}
				}
				return err
			}
			receipt.PointsEarned = earned
		}
		return nil
	})
	if err != nil {
		return domain.OrderReceipt{}, o.classify(err)
	}

	o.log.Info("order_fulfilled", map[string]any{
		"order_id": receipt.OrderID,
		"lines":    len(vc.Lines),
		"subtotal": receipt.Subtotal.String(),
	})
	return receipt, nil
}

// classify passes client-correctable failures through and wraps everything
// else as a storage fault. Internal detail is logged, not exposed.
func (o *Orchestrator) classify(err error) error {
	var ve *domain.ValidationError
	var ise *domain.InsufficientStockError
	if errors.As(err, &ve) || errors.As(err, &ise) {
		return err
	}
	o.log.Error("order_transaction_failed", err, nil)
	return &domain.TransactionError{Err: err}
}
