package loadgen

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"pos-system/internal/common/logger"
	"pos-system/internal/domain"
)

// Catalog supplies the sellable menu and known loyalty customers the
// generator samples carts from.
type Catalog interface {
	SellableItems(ctx context.Context) ([]domain.MenuItem, error)
	LoyaltyCustomers(ctx context.Context) ([]int64, error)
}

// Placer is the fulfillment orchestrator's entry point.
type Placer interface {
	PlaceOrder(ctx context.Context, cart domain.Cart) (domain.OrderReceipt, error)
}

type Config struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	// MaxLines bounds cart size; MaxQuantity bounds per-line quantity.
	MaxLines    int
	MaxQuantity int
	// CustomerRatio is the fraction of generated orders attributed to a
	// known customer, exercising the loyalty path.
	CustomerRatio float64
}

func (c *Config) applyDefaults() {
	if c.MinInterval <= 0 {
		c.MinInterval = 2 * time.Second
	}
	if c.MaxInterval < c.MinInterval {
		c.MaxInterval = c.MinInterval
	}
	if c.MaxLines <= 0 {
		c.MaxLines = 4
	}
	if c.MaxQuantity <= 0 {
		c.MaxQuantity = 3
	}
	if c.CustomerRatio <= 0 {
		c.CustomerRatio = 0.3
	}
}

// Generator drives the exact fulfillment pipeline the HTTP layer uses,
// producing realistic demo traffic. It is a second orchestrator caller,
// not a separate code path, so it inherits every atomicity guarantee.
type Generator struct {
	orch    Placer
	catalog Catalog
	cfg     Config
	log     *logger.Logger
	rnd     *rand.Rand
}

func New(orch Placer, catalog Catalog, cfg Config, log *logger.Logger) *Generator {
	cfg.applyDefaults()
	return &Generator{
		orch:    orch,
		catalog: catalog,
		cfg:     cfg,
		log:     log,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *Generator) Run(ctx context.Context) error {
	g.log.Info("generator_started", map[string]any{
		"min_interval": g.cfg.MinInterval.String(),
		"max_interval": g.cfg.MaxInterval.String(),
	})
	timer := time.NewTimer(g.interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			g.placeOne(ctx)
			timer.Reset(g.interval())
		}
	}
}

func (g *Generator) placeOne(ctx context.Context) {
	items, err := g.catalog.SellableItems(ctx)
	if err != nil {
		g.log.Error("generator_menu_read_failed", err, nil)
		return
	}
	if len(items) == 0 {
		g.log.Warn("generator_menu_empty", nil)
		return
	}
	customers, err := g.catalog.LoyaltyCustomers(ctx)
	if err != nil {
		g.log.Error("generator_customers_read_failed", err, nil)
		return
	}

	cart := g.BuildCart(items, customers)
	receipt, err := g.orch.PlaceOrder(ctx, cart)
	if err != nil {
		var ise *domain.InsufficientStockError
		if errors.As(err, &ise) {
			g.log.Info("generator_order_out_of_stock", map[string]any{"item": ise.ItemName})
			return
		}
		g.log.Error("generator_order_failed", err, nil)
		return
	}
	g.log.Info("generator_order_placed", map[string]any{
		"order_id":   receipt.OrderID,
		"lines":      len(cart.Lines),
		"subtotal":   receipt.Subtotal.String(),
		"deductions": len(receipt.Deductions),
	})
}

// BuildCart samples a valid cart: 1..MaxLines distinct menu items with
// integer quantities, occasionally attributed to a known customer.
func (g *Generator) BuildCart(items []domain.MenuItem, customers []int64) domain.Cart {
	lineCount := 1 + g.rnd.Intn(g.cfg.MaxLines)
	if lineCount > len(items) {
		lineCount = len(items)
	}
	picked := g.rnd.Perm(len(items))[:lineCount]

	cart := domain.Cart{PaymentMethod: g.paymentMethod()}
	for _, idx := range picked {
		it := items[idx]
		cart.Lines = append(cart.Lines, domain.CartLine{
			MenuItemID: it.ID,
			ItemName:   it.Name,
			UnitPrice:  it.Price,
			Quantity:   float64(1 + g.rnd.Intn(g.cfg.MaxQuantity)),
		})
	}
	if len(customers) > 0 && g.rnd.Float64() < g.cfg.CustomerRatio {
		cart.CustomerID = customers[g.rnd.Intn(len(customers))]
	}
	return cart
}

func (g *Generator) paymentMethod() string {
	methods := []string{"cash", "card", "mobile"}
	return methods[g.rnd.Intn(len(methods))]
}

func (g *Generator) interval() time.Duration {
	span := g.cfg.MaxInterval - g.cfg.MinInterval
	if span <= 0 {
		return g.cfg.MinInterval
	}
	return g.cfg.MinInterval + time.Duration(g.rnd.Int63n(int64(span)))
}
