package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"pos-system/internal/domain"
	"pos-system/internal/fulfillment"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx alike, so store queries
// run against whatever handle the caller scopes them to.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txStore implements fulfillment.Store over one open transaction.
type txStore struct {
	db DBTX
}

func (s *txStore) Recipe(ctx context.Context, menuItemID int64) ([]fulfillment.RecipeLine, error) {
	rows, err := s.db.Query(ctx, `
		SELECT inventory_item_id, quantity_per_unit::text
		FROM menu_item_ingredients
		WHERE menu_item_id = $1
	`, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve recipe for item %d: %w", menuItemID, err)
	}
	defer rows.Close()

	var recipe []fulfillment.RecipeLine
	for rows.Next() {
		var rl fulfillment.RecipeLine
		var qpu string
		if err := rows.Scan(&rl.IngredientID, &qpu); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		if rl.QuantityPerUnit, err = decimal.NewFromString(qpu); err != nil {
			return nil, fmt.Errorf("parse quantity_per_unit: %w", err)
		}
		recipe = append(recipe, rl)
	}
	return recipe, rows.Err()
}

func (s *txStore) Supplies(ctx context.Context, ingredientIDs []int64) (map[int64]decimal.Decimal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, supply::text FROM inventory WHERE id = ANY($1)
	`, ingredientIDs)
	if err != nil {
		return nil, fmt.Errorf("read supplies: %w", err)
	}
	defer rows.Close()

	supplies := make(map[int64]decimal.Decimal, len(ingredientIDs))
	for rows.Next() {
		var id int64
		var supply string
		if err := rows.Scan(&id, &supply); err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		d, err := decimal.NewFromString(supply)
		if err != nil {
			return nil, fmt.Errorf("parse supply: %w", err)
		}
		supplies[id] = d
	}
	return supplies, rows.Err()
}

func (s *txStore) NextOrderID(ctx context.Context) (int64, error) {
	var id int64
	if err := s.db.QueryRow(ctx, `SELECT nextval('pos_order_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate order id: %w", err)
	}
	return id, nil
}

func (s *txStore) InsertOrderLines(ctx context.Context, orderID int64, cart domain.ValidatedCart) error {
	n := len(cart.Lines)
	itemIDs := make([]int64, n)
	names := make([]string, n)
	quantities := make([]int32, n)
	prices := make([]string, n)
	totals := make([]string, n)
	customizations := make([]string, n)
	for i, ln := range cart.Lines {
		itemIDs[i] = ln.MenuItemID
		names[i] = ln.ItemName
		quantities[i] = int32(ln.Quantity)
		prices[i] = ln.UnitPrice.String()
		totals[i] = ln.LineTotal.String()
		customizations[i] = string(ln.Customization)
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO orders
			(id, customer_id, cashier_id, payment_method,
			 menu_item_id, item_name, quantity, unit_price, line_total, customization)
		SELECT $1, $2, $3, $4,
			t.menu_item_id, t.item_name, t.quantity, t.unit_price, t.line_total,
			NULLIF(t.customization, '')::jsonb
		FROM unnest($5::bigint[], $6::text[], $7::int[], $8::numeric[], $9::numeric[], $10::text[])
			AS t(menu_item_id, item_name, quantity, unit_price, line_total, customization)
	`, orderID, cart.CustomerID, cart.CashierID, cart.PaymentMethod,
		itemIDs, names, quantities, prices, totals, customizations)
	if err != nil {
		return fmt.Errorf("insert order %d lines: %w", orderID, err)
	}
	return nil
}

func (s *txStore) DeductSupplies(ctx context.Context, deltas []domain.Deduction) error {
	ids := make([]int64, len(deltas))
	amounts := make([]string, len(deltas))
	for i, d := range deltas {
		ids[i] = d.IngredientID
		amounts[i] = d.Amount.String()
	}

	rows, err := s.db.Query(ctx, `
		UPDATE inventory AS i
		SET supply = i.supply - d.amount
		FROM (SELECT unnest($1::bigint[]) AS id, unnest($2::numeric[]) AS amount) AS d
		WHERE i.id = d.id AND i.supply >= d.amount
		RETURNING i.id
	`, ids, amounts)
	if err != nil {
		return fmt.Errorf("deduct supplies: %w", err)
	}
	defer rows.Close()

	updated := make(map[int64]bool, len(deltas))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan deducted id: %w", err)
		}
		updated[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("deduct supplies: %w", err)
	}

	if len(updated) < len(deltas) {
		var missing []int64
		for _, d := range deltas {
			if !updated[d.IngredientID] {
				missing = append(missing, d.IngredientID)
			}
		}
		return &fulfillment.SupplyConflictError{IngredientIDs: missing}
	}
	return nil
}

func (s *txStore) ApplyLoyalty(ctx context.Context, upd fulfillment.LoyaltyUpdate) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE customers
		SET points = points + $2 - $3, total_spent = total_spent + $4
		WHERE id = $1 AND points >= $3
	`, upd.CustomerID, upd.PointsEarned, upd.PointsRedeemed, upd.Subtotal.String())
	if err != nil {
		return fmt.Errorf("apply loyalty for customer %d: %w", upd.CustomerID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, upd.CustomerID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check customer %d: %w", upd.CustomerID, err)
	}
	if !exists {
		return fulfillment.ErrUnknownCustomer
	}
	return fulfillment.ErrInsufficientPoints
}
