package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posguard/internal/capability"
	"posguard/internal/catalog"
	"posguard/internal/config"
	"posguard/internal/dto"
	"posguard/internal/matcher"
	"posguard/internal/model"
	"posguard/internal/policy"
	"posguard/internal/repository"
	"posguard/internal/session"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrLineNotFound  = errors.New("line not found")
	ErrFinalized     = errors.New("order is finalized and can no longer be modified")
)

// Dispatcher hands finalized orders to the async sync layer.
type Dispatcher interface {
	EnqueueOrderSync(ctx context.Context, payload interface{}) error
}

type OrderService interface {
	Create(ctx context.Context, cashierID uuid.UUID) (*dto.OrderResponse, error)
	ListOpen(ctx context.Context) (*dto.OrderListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	AddLine(ctx context.Context, orderID uuid.UUID, req dto.AddLineRequest) (*dto.OrderResponse, error)
	UpdateLine(ctx context.Context, caps capability.Record, orderID, lineID uuid.UUID, req dto.UpdateLineRequest) (*dto.OrderResponse, error)
	RemoveLine(ctx context.Context, caps capability.Record, orderID, lineID uuid.UUID) (*dto.OrderResponse, error)
	SetCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*dto.OrderResponse, error)
	SelectSalesperson(ctx context.Context, orderID, salespersonID uuid.UUID) (*dto.OrderResponse, error)
	Refund(ctx context.Context, caps capability.Record, cashierID, sourceOrderID uuid.UUID, req dto.RefundRequest) (*dto.OrderResponse, error)
	Finalize(ctx context.Context, orderID uuid.UUID, req dto.FinalizeRequest) (*dto.OrderResponse, error)
	ReceiptHeader(ctx context.Context, orderID uuid.UUID) (*dto.ReceiptHeaderResponse, error)
}

type orderService struct {
	// mu serializes every order flow: the engine runs on one logical
	// thread of control and the registry relies on it.
	mu sync.Mutex

	registry        *session.Registry
	catalog         *catalog.Service
	salespersonRepo repository.SalespersonRepository
	customerRepo    repository.CustomerRepository
	orderRepo       repository.OrderRepository
	cashierRepo     repository.CashierRepository
	dispatcher      Dispatcher
	cfg             *config.Config
}

func NewOrderService(
	registry *session.Registry,
	cat *catalog.Service,
	salespersonRepo repository.SalespersonRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	cashierRepo repository.CashierRepository,
	dispatcher Dispatcher,
	cfg *config.Config,
) OrderService {
	return &orderService{
		registry:        registry,
		catalog:         cat,
		salespersonRepo: salespersonRepo,
		customerRepo:    customerRepo,
		orderRepo:       orderRepo,
		cashierRepo:     cashierRepo,
		dispatcher:      dispatcher,
		cfg:             cfg,
	}
}

// ── Creation & reads ─────────────────────────────────────────────────────────

func (s *orderService) Create(ctx context.Context, cashierID uuid.UUID) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.registry.NewOrder(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	s.registry.SetCurrent(order)
	return orderToResponse(order), nil
}

func (s *orderService) ListOpen(_ context.Context) (*dto.OrderListResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.registry.Orders()
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *orderToResponse(o))
	}
	return &dto.OrderListResponse{Data: out}, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

// find looks in the open set first, then among persisted finalized orders.
func (s *orderService) find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if order := s.registry.Get(id); order != nil {
		return order, nil
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// open returns a mutable order: it must still be in the open set.
func (s *orderService) open(id uuid.UUID) (*model.Order, error) {
	order := s.registry.Get(id)
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Finalized {
		return nil, ErrFinalized
	}
	return order, nil
}

// ── Line mutations ───────────────────────────────────────────────────────────

func (s *orderService) AddLine(ctx context.Context, orderID uuid.UUID, req dto.AddLineRequest) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.open(orderID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.ByBarcode(ctx, req.Barcode)
	if err != nil {
		return nil, fmt.Errorf("product %s not found", req.Barcode)
	}
	qty := product.DefaultQty
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	order.Lines = append(order.Lines, model.OrderLine{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  qty,
		UnitPrice: product.ListPrice,
		CreatedAt: time.Now(),
	})
	return orderToResponse(order), nil
}

var fieldActions = map[string]policy.Action{
	"quantity": policy.ActionChangeQuantity,
	"discount": policy.ActionChangeDiscount,
	"price":    policy.ActionChangePrice,
}

func (s *orderService) UpdateLine(ctx context.Context, caps capability.Record, orderID, lineID uuid.UUID, req dto.UpdateLineRequest) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.open(orderID)
	if err != nil {
		return nil, err
	}
	line := order.Line(lineID)
	if line == nil {
		return nil, ErrLineNotFound
	}

	action := fieldActions[req.Field]
	decision := policy.Authorize(action, caps, policy.Request{
		DecreaseToRemove: req.Backspace && req.Field == "quantity",
	})
	if err := policy.ErrFrom(decision); err != nil {
		// No partial mutation on denial: the order is untouched.
		return nil, err
	}
	if decision.RemoveWholeLine {
		order.RemoveLine(lineID)
		return orderToResponse(order), nil
	}

	switch req.Field {
	case "quantity":
		// Negative quantities mark refund lines and are only ever minted
		// by the refund flow, which carries its own capability check.
		if req.Value.IsNegative() {
			return nil, errors.New("quantity must not be negative")
		}
		order.Lines[indexOf(order, lineID)].Quantity = req.Value
	case "discount":
		if req.Value.IsNegative() || req.Value.GreaterThan(decimal.NewFromInt(100)) {
			return nil, errors.New("discount must be between 0 and 100")
		}
		order.Lines[indexOf(order, lineID)].DiscountPct = req.Value
	case "price":
		if req.Value.IsNegative() {
			return nil, errors.New("price must not be negative")
		}
		order.Lines[indexOf(order, lineID)].UnitPrice = req.Value
	}
	return orderToResponse(order), nil
}

func indexOf(order *model.Order, lineID uuid.UUID) int {
	for i := range order.Lines {
		if order.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (s *orderService) RemoveLine(_ context.Context, caps capability.Record, orderID, lineID uuid.UUID) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.open(orderID)
	if err != nil {
		return nil, err
	}
	if order.Line(lineID) == nil {
		return nil, ErrLineNotFound
	}
	decision := policy.Authorize(policy.ActionRemoveLine, caps, policy.Request{})
	if err := policy.ErrFrom(decision); err != nil {
		return nil, err
	}
	order.RemoveLine(lineID)
	return orderToResponse(order), nil
}

// ── Customer & salesperson ───────────────────────────────────────────────────

func (s *orderService) SetCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.open(orderID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	order.Customer = customer
	id := customer.ID
	order.CustomerID = &id
	return orderToResponse(order), nil
}

// SelectSalesperson is the selection flow. The refund-line lock lives here,
// not in the binding methods: routing a refund may still bind a salesperson
// onto a fresh destination order through BindSalespersonIfAbsent.
func (s *orderService) SelectSalesperson(ctx context.Context, orderID, salespersonID uuid.UUID) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.open(orderID)
	if err != nil {
		return nil, err
	}

	if current := order.GetSalesperson(); current != nil && order.HasRefundLines() {
		return nil, &policy.DeniedError{
			Title: "Can't change salesperson",
			Body: fmt.Sprintf(
				"This order already has refund lines for %s. We can't change the salesperson associated with it.",
				current.Name,
			),
		}
	}

	sp, err := s.salespersonRepo.FindByID(ctx, salespersonID)
	if err != nil {
		return nil, errors.New("salesperson not found")
	}
	if !sp.Selectable {
		return nil, errors.New("salesperson is not selectable on this register")
	}
	order.SetSalesperson(sp)
	return orderToResponse(order), nil
}

// ── Refund routing ───────────────────────────────────────────────────────────

func (s *orderService) Refund(ctx context.Context, caps capability.Record, cashierID, sourceOrderID uuid.UUID, req dto.RefundRequest) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision := policy.Authorize(policy.ActionRefund, caps, policy.Request{})
	if err := policy.ErrFrom(decision); err != nil {
		return nil, err
	}

	source, err := s.find(ctx, sourceOrderID)
	if err != nil {
		return nil, err
	}

	// Validate every requested line against the source before touching any
	// order: a refund either lands whole or not at all.
	refunds := make([]model.OrderLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		lineID, err := uuid.Parse(lr.LineID)
		if err != nil {
			return nil, fmt.Errorf("invalid line id %q", lr.LineID)
		}
		line := source.Line(lineID)
		if line == nil {
			return nil, fmt.Errorf("line %s does not belong to the source order", lr.LineID)
		}
		qty := lr.Quantity.Abs()
		if qty.GreaterThan(line.Quantity.Abs()) {
			return nil, fmt.Errorf("cannot refund more than the sold quantity of %s", line.Name)
		}
		refID := line.ID
		refunds = append(refunds, model.OrderLine{
			ID:             uuid.New(),
			ProductID:      line.ProductID,
			Name:           line.Name,
			Quantity:       qty.Neg(),
			UnitPrice:      line.UnitPrice,
			DiscountPct:    line.DiscountPct,
			HideOnReceipt:  line.HideOnReceipt,
			RefundedLineID: &refID,
			CreatedAt:      time.Now(),
		})
	}

	dest, err := s.refundDestination(ctx, cashierID, source, req.DestinationOrderID)
	if err != nil {
		return nil, err
	}

	// An existing binding on the destination is never overwritten; the
	// source's salesperson only fills a gap so the refund stays credited.
	dest.BindSalespersonIfAbsent(source.GetSalesperson())
	if dest.CustomerID == nil && source.CustomerID != nil {
		dest.Customer = source.Customer
		id := *source.CustomerID
		dest.CustomerID = &id
	}

	for i := range refunds {
		refunds[i].OrderID = dest.ID
		dest.Lines = append(dest.Lines, refunds[i])
	}
	s.registry.SetCurrent(dest)
	return orderToResponse(dest), nil
}

// refundDestination prefers the caller-supplied open order when the matcher
// policy allows, then falls back to destination matching, then creates.
func (s *orderService) refundDestination(ctx context.Context, cashierID uuid.UUID, source *model.Order, providedID *string) (*model.Order, error) {
	if providedID != nil {
		id, err := uuid.Parse(*providedID)
		if err != nil {
			return nil, fmt.Errorf("invalid destination order id %q", *providedID)
		}
		provided := s.registry.Get(id)
		if provided == nil || provided.Finalized {
			return nil, errors.New("destination order is not open")
		}
		if matcher.PreferProvided(provided, source, s.cfg.DoNotAllowRefundAndSales()) {
			return provided, nil
		}
	}
	if dest := matcher.FindDestination(s.registry.Orders(), source.CustomerID, source.SalespersonID); dest != nil {
		return dest, nil
	}
	return s.registry.NewOrder(ctx, cashierID)
}

// ── Finalization & receipt ───────────────────────────────────────────────────

func (s *orderService) Finalize(ctx context.Context, orderID uuid.UUID, req dto.FinalizeRequest) (*dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.open(orderID)
	if err != nil {
		return nil, err
	}

	if s.cfg.SalespersonMandatory && order.GetSalesperson() == nil {
		return nil, &policy.DeniedError{
			Title: "Salesperson Not Set",
			Body:  "Please select a salesperson before proceeding.",
		}
	}

	priorPayments := len(order.Payments)
	for _, p := range req.Payments {
		order.Payments = append(order.Payments, model.OrderPayment{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Method:    p.Method,
			Amount:    p.Amount,
			CreatedAt: time.Now(),
		})
	}
	order.Finalized = true
	order.UpdatedAt = time.Now()

	// Hand off to the persistence layer; only a successful handoff takes
	// the order out of the open set. A failed enqueue discards the
	// attempted finalization so the order stays open and retryable.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueOrderSync(ctx, order); err != nil {
			order.Payments = order.Payments[:priorPayments]
			order.Finalized = false
			return nil, fmt.Errorf("enqueue order sync: %w", err)
		}
	}
	s.registry.Remove(order.ID)
	return orderToResponse(order), nil
}

func (s *orderService) ReceiptHeader(ctx context.Context, orderID uuid.UUID) (*dto.ReceiptHeaderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	cashierName := ""
	if cashier, err := s.cashierRepo.FindByID(ctx, order.CashierID); err == nil {
		cashierName = cashier.Name
	}

	return &dto.ReceiptHeaderResponse{
		OrderID:     order.ID.String(),
		Cashier:     cashierName,
		Salesperson: salespersonRef(order),
		Date:        time.Now().Format("2006-01-02T15:04:05Z"),
	}, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func salespersonRef(o *model.Order) *dto.SalespersonRef {
	sp := o.GetSalesperson()
	if sp == nil {
		return nil
	}
	return &dto.SalespersonRef{ID: sp.ID.String(), Name: sp.Name}
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	lines := make([]dto.LineResponse, 0, len(o.Lines))
	for i := range o.Lines {
		l := &o.Lines[i]
		lines = append(lines, dto.LineResponse{
			ID:            l.ID.String(),
			ProductID:     l.ProductID.String(),
			Name:          l.Name,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			DiscountPct:   l.DiscountPct,
			HideOnReceipt: l.HideOnReceipt,
			Refund:        l.IsRefund(),
			Subtotal:      l.Subtotal(),
		})
	}
	payments := make([]dto.PaymentResponse, 0, len(o.Payments))
	for i := range o.Payments {
		payments = append(payments, dto.PaymentResponse{
			Method: o.Payments[i].Method,
			Amount: o.Payments[i].Amount,
		})
	}
	var customer *dto.CustomerRef
	if o.Customer != nil {
		customer = &dto.CustomerRef{ID: o.Customer.ID.String(), Name: o.Customer.Name}
	}
	return &dto.OrderResponse{
		ID:             o.ID.String(),
		Customer:       customer,
		Salesperson:    salespersonRef(o),
		CashierID:      o.CashierID.String(),
		Lines:          lines,
		Payments:       payments,
		Finalized:      o.Finalized,
		HasRefundLines: o.HasRefundLines(),
		Total:          o.Total(),
		CreatedAt:      o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
