package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
	"backoffice/internal/security"
)

// fakeTxRunner snapshots the in-memory stock and restores it when fn fails,
// so tests can assert that a failed unit of work leaves no trace.
type fakeTxRunner struct {
	stock *memoryStock
	repo  *memoryRepository
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	stockSnapshot := f.stock.snapshot()
	repoSnapshot := f.repo.snapshot()
	if err := fn(ctx, nil); err != nil {
		f.stock.levels = stockSnapshot
		f.repo.rows = repoSnapshot
		return err
	}
	return nil
}

type memoryStock struct {
	levels map[int64]int
}

func (m *memoryStock) snapshot() map[int64]int {
	out := make(map[int64]int, len(m.levels))
	for k, v := range m.levels {
		out[k] = v
	}
	return out
}

func (m *memoryStock) AddStock(ctx context.Context, tx *sql.Tx, productID int64, qty int, date string) error {
	m.levels[productID] += qty
	return nil
}

func (m *memoryStock) RemoveStock(ctx context.Context, tx *sql.Tx, productID int64, qty int) error {
	if m.levels[productID] < qty {
		return apperrors.NewInsufficientStockError(productID, qty, m.levels[productID])
	}
	m.levels[productID] -= qty
	return nil
}

type memoryRepository struct {
	rows   map[int64]domain.Purchase
	nextID int64
}

func (m *memoryRepository) snapshot() map[int64]domain.Purchase {
	out := make(map[int64]domain.Purchase, len(m.rows))
	for k, v := range m.rows {
		out[k] = v
	}
	return out
}

func (m *memoryRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Purchase) (int64, error) {
	m.nextID++
	p.ID = m.nextID
	m.rows[p.ID] = p
	return p.ID, nil
}

func (m *memoryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range m.rows {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepository) LockByID(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*domain.Purchase, error) {
	p, ok := m.rows[id]
	if !ok || p.OwnerID != ownerID {
		return nil, apperrors.NewNotFoundError("purchase not found")
	}
	return &p, nil
}

func (m *memoryRepository) Update(ctx context.Context, tx *sql.Tx, p domain.Purchase) error {
	m.rows[p.ID] = p
	return nil
}

func (m *memoryRepository) Delete(ctx context.Context, tx *sql.Tx, id, ownerID int64) error {
	delete(m.rows, id)
	return nil
}

// nameResolver hands out one product id per name; mode new always opens a new id.
type nameResolver struct {
	products map[string]int64
	next     int64
	modes    []domain.ResolveMode
}

func (r *nameResolver) ResolveSupplier(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	return 7, nil
}

func (r *nameResolver) ResolveProduct(ctx context.Context, tx *sql.Tx, res domain.ProductResolution) (int64, error) {
	r.modes = append(r.modes, res.Mode)
	if id, ok := r.products[res.Name]; ok && res.Mode != domain.ResolveNew {
		return id, nil
	}
	r.next++
	r.products[res.Name] = r.next
	return r.next, nil
}

type recordingPublisher struct {
	events []domain.StockEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.StockEvent) {
	p.events = append(p.events, event)
}

type fixture struct {
	svc       *PurchaseService
	stock     *memoryStock
	repo      *memoryRepository
	resolver  *nameResolver
	publisher *recordingPublisher
}

func newFixture() *fixture {
	f := &fixture{
		stock:     &memoryStock{levels: map[int64]int{}},
		repo:      &memoryRepository{rows: map[int64]domain.Purchase{}},
		resolver:  &nameResolver{products: map[string]int64{}},
		publisher: &recordingPublisher{},
	}
	txr := &fakeTxRunner{stock: f.stock, repo: f.repo}
	f.svc = NewPurchaseService(txr, f.repo, f.resolver, f.stock, f.publisher, zap.NewNop())
	return f
}

var buyer = security.Principal{UserID: 1, Role: domain.RoleEmployee, Company: "Acme"}

func purchaseOf(product string, qty int) dto.PurchaseRequest {
	return dto.PurchaseRequest{
		ProductName:  product,
		SupplierName: "Acme Distribuidora",
		Quantity:     qty,
		UnitPrice:    decimal.RequireFromString("4.50"),
		Date:         "2024-03-01",
	}
}

func TestPurchaseService_Create_IncrementsStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 10))
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock.levels[first.ProductID])

	second, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 5))
	require.NoError(t, err)
	assert.Equal(t, first.ProductID, second.ProductID)
	assert.Equal(t, 15, f.stock.levels[first.ProductID])

	assert.Equal(t, []domain.ResolveMode{domain.ResolveStack, domain.ResolveStack}, f.resolver.modes)
	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, domain.StockPurchaseRecorded, f.publisher.events[1].Type)
	assert.Equal(t, 5, f.publisher.events[1].Quantity)
	assert.Equal(t, second.ID, f.publisher.events[1].ReferenceID)
}

func TestPurchaseService_Create_NewModeOpensLot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 10))
	require.NoError(t, err)

	req := purchaseOf("Caneca", 3)
	req.Mode = "new"
	second, err := f.svc.Create(ctx, buyer, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ProductID, second.ProductID)
	assert.Equal(t, 10, f.stock.levels[first.ProductID])
	assert.Equal(t, 3, f.stock.levels[second.ProductID])
}

func TestPurchaseService_Create_InvalidMode(t *testing.T) {
	f := newFixture()
	req := purchaseOf("Caneca", 3)
	req.Mode = "merge"

	_, err := f.svc.Create(context.Background(), buyer, req)

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Empty(t, f.repo.rows)
}

func TestPurchaseService_Update_SameProductDelta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 10))
	require.NoError(t, err)

	require.NoError(t, f.svc.Update(ctx, buyer, p.ID, purchaseOf("Caneca", 4)))
	assert.Equal(t, 4, f.stock.levels[p.ProductID])
	assert.Equal(t, 4, f.repo.rows[p.ID].Quantity)

	require.NoError(t, f.svc.Update(ctx, buyer, p.ID, purchaseOf("Caneca", 12)))
	assert.Equal(t, 12, f.stock.levels[p.ProductID])

	last := f.publisher.events[len(f.publisher.events)-1]
	assert.Equal(t, domain.StockAdjusted, last.Type)
	assert.Equal(t, 8, last.Quantity)
}

func TestPurchaseService_Update_MovesStockBetweenProducts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 10))
	require.NoError(t, err)

	require.NoError(t, f.svc.Update(ctx, buyer, p.ID, purchaseOf("Prato", 6)))

	newProduct := f.resolver.products["Prato"]
	assert.Equal(t, 0, f.stock.levels[p.ProductID])
	assert.Equal(t, 6, f.stock.levels[newProduct])
	assert.Equal(t, newProduct, f.repo.rows[p.ID].ProductID)
}

func TestPurchaseService_Update_ReversalWouldGoNegative(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 10))
	require.NoError(t, err)
	f.stock.levels[p.ProductID] = 2 // eight units sold since

	err = f.svc.Update(ctx, buyer, p.ID, purchaseOf("Caneca", 1))

	_, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 2, f.stock.levels[p.ProductID])
	assert.Equal(t, 10, f.repo.rows[p.ID].Quantity)
}

func TestPurchaseService_Update_NotOwned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 10))
	require.NoError(t, err)

	other := security.Principal{UserID: 2, Role: domain.RoleAdmin, Company: "Acme"}
	err = f.svc.Update(ctx, other, p.ID, purchaseOf("Caneca", 1))

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, 10, f.stock.levels[p.ProductID])
}

func TestPurchaseService_Delete_RemovesStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Create(ctx, buyer, purchaseOf("Caneca", 10))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, buyer, p.ID))

	assert.Equal(t, 0, f.stock.levels[p.ProductID])
	assert.Empty(t, f.repo.rows)
	last := f.publisher.events[len(f.publisher.events)-1]
	assert.Equal(t, domain.StockReverted, last.Type)
	assert.Equal(t, -10, last.Quantity)
}

func TestPurchaseService_Delete_Missing(t *testing.T) {
	f := newFixture()

	err := f.svc.Delete(context.Background(), buyer, 99)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Empty(t, f.publisher.events)
}
