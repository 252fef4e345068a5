package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pos-system/internal/domain"
)

// Catalog reads the sellable menu and known loyalty customers outside any
// order transaction. The load generator samples carts from it.
type Catalog struct {
	db DBTX
}

func NewCatalog(db DBTX) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) SellableItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := c.db.Query(ctx, `SELECT id, name, price::text FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var it domain.MenuItem
		var price string
		if err := rows.Scan(&it.ID, &it.Name, &price); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (c *Catalog) LoyaltyCustomers(ctx context.Context) ([]int64, error) {
	rows, err := c.db.Query(ctx, `SELECT id FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read customers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan customer id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
