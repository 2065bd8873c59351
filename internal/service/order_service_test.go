package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posguard/internal/capability"
	"posguard/internal/catalog"
	"posguard/internal/config"
	"posguard/internal/dto"
	"posguard/internal/model"
	"posguard/internal/policy"
	"posguard/internal/repository"
	"posguard/internal/seeder"
	"posguard/internal/session"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products    map[string]*model.Product // by barcode
	preselected []model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.Barcode] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	p, ok := r.products[barcode]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) { return nil, nil }

func (r *stubProductRepo) ListPreselected(_ context.Context) ([]model.Product, error) {
	return r.preselected, nil
}

func (r *stubProductRepo) SetPreselected(_ context.Context, _ uuid.UUID, _ bool) error { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubSalespersonRepo struct {
	salespersons map[uuid.UUID]*model.Salesperson
}

func newStubSalespersonRepo(sps ...*model.Salesperson) *stubSalespersonRepo {
	r := &stubSalespersonRepo{salespersons: make(map[uuid.UUID]*model.Salesperson)}
	for _, sp := range sps {
		r.salespersons[sp.ID] = sp
	}
	return r
}

func (r *stubSalespersonRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Salesperson, error) {
	sp, ok := r.salespersons[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return sp, nil
}

func (r *stubSalespersonRepo) ListSelectable(_ context.Context) ([]model.Salesperson, error) {
	return nil, nil
}

func (r *stubSalespersonRepo) Create(_ context.Context, sp *model.Salesperson) error { return nil }

var _ repository.SalespersonRepository = (*stubSalespersonRepo)(nil)

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo(cs ...*model.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range cs {
		r.customers[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error { return nil }

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) { return nil, nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Save(_ context.Context, o *model.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ int) ([]model.Order, error) { return nil, nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

type stubCashierRepo struct {
	cashier *model.Cashier
}

func (r *stubCashierRepo) Create(_ context.Context, _ *model.Cashier) error { return nil }

func (r *stubCashierRepo) FindByUsername(_ context.Context, _ string) (*model.Cashier, error) {
	return r.cashier, nil
}

func (r *stubCashierRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Cashier, error) {
	if r.cashier == nil {
		return nil, errors.New("not found")
	}
	return r.cashier, nil
}

func (r *stubCashierRepo) List(_ context.Context) ([]model.Cashier, error) { return nil, nil }

var _ repository.CashierRepository = (*stubCashierRepo)(nil)

// flakyDispatcher fails the sync handoff until err is cleared.
type flakyDispatcher struct {
	err      error
	enqueued int
}

func (d *flakyDispatcher) EnqueueOrderSync(context.Context, interface{}) error {
	if d.err != nil {
		return d.err
	}
	d.enqueued++
	return nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

func boolPtr(b bool) *bool { return &b }

func fullAccess() capability.Record { return capability.Resolve(model.CapabilitySet{}) }

type fixture struct {
	svc         OrderService
	registry    *session.Registry
	products    *stubProductRepo
	salesRepo   *stubSalespersonRepo
	customers   *stubCustomerRepo
	orders      *stubOrderRepo
	cfg         *config.Config
	cashierID   uuid.UUID
	salesperson *model.Salesperson
	customer    *model.Customer
}

func newFixture(cfg *config.Config) *fixture {
	products := newStubProductRepo()
	sp := &model.Salesperson{ID: uuid.New(), Name: "Dana", Selectable: true, Active: true}
	cust := &model.Customer{ID: uuid.New(), Name: "ACME"}
	orders := newStubOrderRepo()
	cashier := &model.Cashier{ID: uuid.New(), Name: "Sam", Username: "sam"}

	cat := catalog.New(products, nil, 0)
	registry := session.New(seeder.New(cat))

	f := &fixture{
		registry:    registry,
		products:    products,
		salesRepo:   newStubSalespersonRepo(sp),
		customers:   newStubCustomerRepo(cust),
		orders:      orders,
		cfg:         cfg,
		cashierID:   cashier.ID,
		salesperson: sp,
		customer:    cust,
	}
	f.svc = NewOrderService(
		registry, cat,
		f.salesRepo, f.customers, orders, &stubCashierRepo{cashier: cashier},
		nil, cfg,
	)
	return f
}

func (f *fixture) addProduct(barcode, name string, price float64) *model.Product {
	p := &model.Product{
		ID:         uuid.New(),
		Barcode:    barcode,
		Name:       name,
		ListPrice:  decimal.NewFromFloat(price),
		DefaultQty: decimal.NewFromInt(1),
		Active:     true,
	}
	f.products.products[barcode] = p
	return p
}

// createWithLine opens an order and scans one product into it.
func (f *fixture) createWithLine(t *testing.T, barcode string) *dto.OrderResponse {
	t.Helper()
	created, err := f.svc.Create(context.Background(), f.cashierID)
	require.NoError(t, err)
	resp, err := f.svc.AddLine(context.Background(), uuid.MustParse(created.ID), dto.AddLineRequest{Barcode: barcode})
	require.NoError(t, err)
	return resp
}

// ── Creation & seeding ────────────────────────────────────────────────────────

func TestCreateSeedsPreselectedInCatalogOrder(t *testing.T) {
	f := newFixture(&config.Config{})
	bag := f.addProduct("BAG", "carrier bag", 0.10)
	stamp := f.addProduct("STAMP", "loyalty stamp", 0)
	f.products.preselected = []model.Product{*bag, *stamp}

	resp, err := f.svc.Create(context.Background(), f.cashierID)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, bag.ID.String(), resp.Lines[0].ProductID)
	assert.Equal(t, stamp.ID.String(), resp.Lines[1].ProductID)
	assert.True(t, resp.Lines[0].Quantity.GreaterThanOrEqual(decimal.NewFromInt(1)))
}

// ── Guarded mutations ─────────────────────────────────────────────────────────

func TestPriceEditDeniedLeavesOrderUntouched(t *testing.T) {
	f := newFixture(&config.Config{})
	f.addProduct("A", "apple", 1.50)
	order := f.createWithLine(t, "A")

	caps := capability.Resolve(model.CapabilitySet{CanChangePrice: boolPtr(false)})
	orderID := uuid.MustParse(order.ID)
	lineID := uuid.MustParse(order.Lines[0].ID)

	_, err := f.svc.UpdateLine(context.Background(), caps, orderID, lineID, dto.UpdateLineRequest{
		Field: "price",
		Value: decimal.NewFromInt(99),
	})
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, denied.Body, "administrator")

	after, err := f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.True(t, after.Lines[0].UnitPrice.Equal(decimal.NewFromFloat(1.50)), "denied edit must not mutate")
}

func TestBackspaceRemovesWholeLineWhenQuantityDenied(t *testing.T) {
	f := newFixture(&config.Config{})
	f.addProduct("A", "apple", 1.50)
	order := f.createWithLine(t, "A")

	caps := capability.Resolve(model.CapabilitySet{CanChangeQuantity: boolPtr(false)})
	resp, err := f.svc.UpdateLine(
		context.Background(), caps,
		uuid.MustParse(order.ID), uuid.MustParse(order.Lines[0].ID),
		dto.UpdateLineRequest{Field: "quantity", Value: decimal.Zero, Backspace: true},
	)
	require.NoError(t, err)
	assert.Empty(t, resp.Lines, "escape hatch removes the line instead of decrementing")
}

func TestQuantityEditRejectsNegativeValue(t *testing.T) {
	f := newFixture(&config.Config{})
	f.addProduct("A", "apple", 1.50)
	order := f.createWithLine(t, "A")
	orderID := uuid.MustParse(order.ID)

	_, err := f.svc.UpdateLine(
		context.Background(), fullAccess(),
		orderID, uuid.MustParse(order.Lines[0].ID),
		dto.UpdateLineRequest{Field: "quantity", Value: decimal.NewFromInt(-1)},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	// Refund lines are only minted by the refund flow; a rejected edit
	// must not arm the salesperson lock.
	after := f.registry.Get(orderID)
	assert.False(t, after.HasRefundLines())
	assert.True(t, after.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestRemoveLineDeniedOnlyWhenBothDenied(t *testing.T) {
	f := newFixture(&config.Config{})
	f.addProduct("A", "apple", 1.50)
	order := f.createWithLine(t, "A")
	orderID := uuid.MustParse(order.ID)
	lineID := uuid.MustParse(order.Lines[0].ID)

	neither := capability.Resolve(model.CapabilitySet{
		CanChangeQuantity: boolPtr(false),
		CanRemoveLine:     boolPtr(false),
	})
	_, err := f.svc.RemoveLine(context.Background(), neither, orderID, lineID)
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)

	removeOK := capability.Resolve(model.CapabilitySet{CanChangeQuantity: boolPtr(false)})
	resp, err := f.svc.RemoveLine(context.Background(), removeOK, orderID, lineID)
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

// ── Salesperson selection flow ────────────────────────────────────────────────

func TestSelectSalespersonBlockedByRefundLines(t *testing.T) {
	f := newFixture(&config.Config{})
	f.addProduct("A", "apple", 1.50)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.cashierID)
	require.NoError(t, err)
	orderID := uuid.MustParse(created.ID)

	_, err = f.svc.SelectSalesperson(ctx, orderID, f.salesperson.ID)
	require.NoError(t, err)

	// Simulate a routed refund landing in this order.
	open := f.registry.Get(orderID)
	open.Lines = append(open.Lines, model.OrderLine{ID: uuid.New(), Quantity: decimal.NewFromInt(-1)})

	other := &model.Salesperson{ID: uuid.New(), Name: "Riley", Selectable: true}
	f.salesRepo.salespersons[other.ID] = other

	_, err = f.svc.SelectSalesperson(ctx, orderID, other.ID)
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "Can't change salesperson", denied.Title)
	assert.Contains(t, denied.Body, "Dana", "denial names the bound salesperson")

	// Binding unchanged after the refused reassignment.
	assert.Equal(t, "Dana", open.SalespersonName())
}

// ── Refund routing ────────────────────────────────────────────────────────────

func refundSource(f *fixture, product *model.Product, customerID *uuid.UUID, sp *model.Salesperson) *model.Order {
	source := &model.Order{
		ID:         uuid.New(),
		CashierID:  f.cashierID,
		CustomerID: customerID,
		Finalized:  true,
		Lines: []model.OrderLine{{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  decimal.NewFromInt(3),
			UnitPrice: product.ListPrice,
		}},
	}
	source.SetSalesperson(sp)
	f.orders.orders[source.ID] = source
	return source
}

func TestRefundDeniedWithoutCapability(t *testing.T) {
	f := newFixture(&config.Config{})
	p := f.addProduct("A", "apple", 1.50)
	source := refundSource(f, p, nil, nil)

	caps := capability.Resolve(model.CapabilitySet{CanRefund: boolPtr(false)})
	_, err := f.svc.Refund(context.Background(), caps, f.cashierID, source.ID, dto.RefundRequest{
		Lines: []dto.RefundLineRequest{{LineID: source.Lines[0].ID.String(), Quantity: decimal.NewFromInt(1)}},
	})
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)
}

func TestRefundRoutesIntoGenericEmptyOrderAndBindsSalesperson(t *testing.T) {
	f := newFixture(&config.Config{})
	p := f.addProduct("A", "apple", 1.50)
	ctx := context.Background()

	// One open, empty, unpaid, customer-less order is waiting.
	generic, err := f.svc.Create(ctx, f.cashierID)
	require.NoError(t, err)

	source := refundSource(f, p, nil, f.salesperson)

	resp, err := f.svc.Refund(ctx, fullAccess(), f.cashierID, source.ID, dto.RefundRequest{
		Lines: []dto.RefundLineRequest{{LineID: source.Lines[0].ID.String(), Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, generic.ID, resp.ID, "generic empty order is reused, not a fresh one")
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].Quantity.Equal(decimal.NewFromInt(-2)))
	assert.True(t, resp.Lines[0].Refund)
	require.NotNil(t, resp.Salesperson)
	assert.Equal(t, "Dana", resp.Salesperson.Name, "source salesperson fills the gap")
	assert.True(t, resp.HasRefundLines)
}

func TestRefundPrefersProvidedDestinationUnlessPolicyForbids(t *testing.T) {
	ctx := context.Background()
	p := func(f *fixture) *model.Product { return f.addProduct("A", "apple", 1.50) }

	// Mixing allowed: the provided open order takes the refund lines.
	f := newFixture(&config.Config{})
	product := p(f)
	dest := f.createWithLine(t, "A")
	source := refundSource(f, product, nil, nil)

	destID := dest.ID
	resp, err := f.svc.Refund(ctx, fullAccess(), f.cashierID, source.ID, dto.RefundRequest{
		Lines:              []dto.RefundLineRequest{{LineID: source.Lines[0].ID.String(), Quantity: decimal.NewFromInt(1)}},
		DestinationOrderID: &destID,
	})
	require.NoError(t, err)
	assert.Equal(t, dest.ID, resp.ID)
	assert.Len(t, resp.Lines, 2, "sale line plus refund line")

	// Mixing prohibited: a fresh order is created instead.
	f2 := newFixture(&config.Config{NoRefundWithSales: true})
	product2 := p(f2)
	dest2 := f2.createWithLine(t, "A")
	source2 := refundSource(f2, product2, nil, nil)

	dest2ID := dest2.ID
	resp2, err := f2.svc.Refund(ctx, fullAccess(), f2.cashierID, source2.ID, dto.RefundRequest{
		Lines:              []dto.RefundLineRequest{{LineID: source2.Lines[0].ID.String(), Quantity: decimal.NewFromInt(1)}},
		DestinationOrderID: &dest2ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, dest2.ID, resp2.ID)
}

func TestRefundRejectsOversizedQuantity(t *testing.T) {
	f := newFixture(&config.Config{})
	product := f.addProduct("A", "apple", 1.50)
	source := refundSource(f, product, nil, nil)

	_, err := f.svc.Refund(context.Background(), fullAccess(), f.cashierID, source.ID, dto.RefundRequest{
		Lines: []dto.RefundLineRequest{{LineID: source.Lines[0].ID.String(), Quantity: decimal.NewFromInt(5)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sold quantity")
}

// ── Finalization ──────────────────────────────────────────────────────────────

func TestFinalizeRequiresSalespersonWhenMandatory(t *testing.T) {
	f := newFixture(&config.Config{SalespersonMandatory: true})
	f.addProduct("A", "apple", 1.50)
	ctx := context.Background()

	order := f.createWithLine(t, "A")
	orderID := uuid.MustParse(order.ID)
	payments := dto.FinalizeRequest{Payments: []dto.PaymentRequest{{Method: "cash", Amount: decimal.NewFromFloat(1.50)}}}

	_, err := f.svc.Finalize(ctx, orderID, payments)
	var denied *policy.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "Salesperson Not Set", denied.Title)

	_, err = f.svc.SelectSalesperson(ctx, orderID, f.salesperson.ID)
	require.NoError(t, err)

	resp, err := f.svc.Finalize(ctx, orderID, payments)
	require.NoError(t, err)
	assert.True(t, resp.Finalized)
	assert.Nil(t, f.registry.Get(orderID), "finalized orders leave the open set")
}

func TestFinalizeEnqueueFailureKeepsOrderOpen(t *testing.T) {
	f := newFixture(&config.Config{})
	f.addProduct("A", "apple", 1.50)
	dispatcher := &flakyDispatcher{err: errors.New("redis down")}
	f.svc = NewOrderService(
		f.registry, catalog.New(f.products, nil, 0),
		f.salesRepo, f.customers, f.orders, &stubCashierRepo{},
		dispatcher, f.cfg,
	)
	ctx := context.Background()

	order := f.createWithLine(t, "A")
	orderID := uuid.MustParse(order.ID)
	payments := dto.FinalizeRequest{Payments: []dto.PaymentRequest{{Method: "cash", Amount: decimal.NewFromFloat(1.50)}}}

	_, err := f.svc.Finalize(ctx, orderID, payments)
	require.Error(t, err)

	// The failed handoff discards the attempted finalization entirely.
	open := f.registry.Get(orderID)
	require.NotNil(t, open, "order stays in the open set")
	assert.False(t, open.Finalized)
	assert.Empty(t, open.Payments, "payment references are rolled back")

	// Once the sync layer is reachable again the retry goes through.
	dispatcher.err = nil
	resp, err := f.svc.Finalize(ctx, orderID, payments)
	require.NoError(t, err)
	assert.True(t, resp.Finalized)
	assert.Len(t, resp.Payments, 1)
	assert.Equal(t, 1, dispatcher.enqueued)
	assert.Nil(t, f.registry.Get(orderID))
}

func TestFinalizedOrderRejectsMutation(t *testing.T) {
	f := newFixture(&config.Config{})
	f.addProduct("A", "apple", 1.50)
	ctx := context.Background()

	order := f.createWithLine(t, "A")
	orderID := uuid.MustParse(order.ID)
	_, err := f.svc.Finalize(ctx, orderID, dto.FinalizeRequest{
		Payments: []dto.PaymentRequest{{Method: "cash", Amount: decimal.NewFromFloat(1.50)}},
	})
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, orderID, dto.AddLineRequest{Barcode: "A"})
	assert.ErrorIs(t, err, ErrOrderNotFound, "no longer open")
}

// ── Receipt header ────────────────────────────────────────────────────────────

func TestReceiptHeaderSalesperson(t *testing.T) {
	f := newFixture(&config.Config{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.cashierID)
	require.NoError(t, err)
	orderID := uuid.MustParse(created.ID)

	header, err := f.svc.ReceiptHeader(ctx, orderID)
	require.NoError(t, err)
	assert.Nil(t, header.Salesperson, "null when no salesperson bound")
	assert.Equal(t, "Sam", header.Cashier)

	_, err = f.svc.SelectSalesperson(ctx, orderID, f.salesperson.ID)
	require.NoError(t, err)

	header, err = f.svc.ReceiptHeader(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, header.Salesperson)
	assert.Equal(t, "Dana", header.Salesperson.Name)
}
