package fulfillment_test

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"pos-system/internal/domain"
	"pos-system/internal/fulfillment"
)

// The fakes below mirror the relational store: the runner serializes
// transactions the way row locks would and restores a snapshot on error,
// so rollback completeness is observable from tests.

type memCustomer struct {
	points     int64
	totalSpent decimal.Decimal
}

type memState struct {
	recipes   map[int64][]fulfillment.RecipeLine
	supplies  map[int64]decimal.Decimal
	customers map[int64]*memCustomer
	orders    map[int64]domain.ValidatedCart
	nextID    int64
}

func newMemState() *memState {
	return &memState{
		recipes:   make(map[int64][]fulfillment.RecipeLine),
		supplies:  make(map[int64]decimal.Decimal),
		customers: make(map[int64]*memCustomer),
		orders:    make(map[int64]domain.ValidatedCart),
	}
}

func (st *memState) clone() *memState {
	cp := newMemState()
	cp.nextID = st.nextID
	for k, v := range st.recipes {
		cp.recipes[k] = append([]fulfillment.RecipeLine(nil), v...)
	}
	for k, v := range st.supplies {
		cp.supplies[k] = v
	}
	for k, v := range st.customers {
		c := *v
		cp.customers[k] = &c
	}
	for k, v := range st.orders {
		cp.orders[k] = v
	}
	return cp
}

type memStore struct {
	st     *memState
	failOn string
}

var errInjected = errors.New("injected storage fault")

func (s *memStore) Recipe(_ context.Context, menuItemID int64) ([]fulfillment.RecipeLine, error) {
	if s.failOn == "Recipe" {
		return nil, errInjected
	}
	return s.st.recipes[menuItemID], nil
}

func (s *memStore) Supplies(_ context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	if s.failOn == "Supplies" {
		return nil, errInjected
	}
	out := make(map[int64]decimal.Decimal, len(ids))
	for _, id := range ids {
		if sup, ok := s.st.supplies[id]; ok {
			out[id] = sup
		}
	}
	return out, nil
}

func (s *memStore) NextOrderID(context.Context) (int64, error) {
	if s.failOn == "NextOrderID" {
		return 0, errInjected
	}
	s.st.nextID++
	return s.st.nextID, nil
}

func (s *memStore) InsertOrderLines(_ context.Context, orderID int64, cart domain.ValidatedCart) error {
	if s.failOn == "InsertOrderLines" {
		return errInjected
	}
	s.st.orders[orderID] = cart
	return nil
}

func (s *memStore) DeductSupplies(_ context.Context, deltas []domain.Deduction) error {
	if s.failOn == "DeductSupplies" {
		return errInjected
	}
	var missing []int64
	for _, d := range deltas {
		if s.st.supplies[d.IngredientID].LessThan(d.Amount) {
			missing = append(missing, d.IngredientID)
		}
	}
	if len(missing) > 0 {
		return &fulfillment.SupplyConflictError{IngredientIDs: missing}
	}
	for _, d := range deltas {
		s.st.supplies[d.IngredientID] = s.st.supplies[d.IngredientID].Sub(d.Amount)
	}
	return nil
}

func (s *memStore) ApplyLoyalty(_ context.Context, upd fulfillment.LoyaltyUpdate) error {
	if s.failOn == "ApplyLoyalty" {
		return errInjected
	}
	c, ok := s.st.customers[upd.CustomerID]
	if !ok {
		return fulfillment.ErrUnknownCustomer
	}
	if c.points < upd.PointsRedeemed {
		return fulfillment.ErrInsufficientPoints
	}
	c.points += upd.PointsEarned - upd.PointsRedeemed
	c.totalSpent = c.totalSpent.Add(upd.Subtotal)
	return nil
}

type memRunner struct {
	mu      sync.Mutex
	st      *memState
	failOn  string
	txCount int
}

func newMemRunner(st *memState) *memRunner { return &memRunner{st: st} }

func (r *memRunner) InTx(ctx context.Context, fn func(ctx context.Context, s fulfillment.Store) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txCount++
	snap := r.st.clone()
	if err := fn(ctx, &memStore{st: r.st, failOn: r.failOn}); err != nil {
		*r.st = *snap
		return err
	}
	return nil
}
