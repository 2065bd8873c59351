package dto

import "github.com/shopspring/decimal"

type OrderResponse struct {
	ID             string            `json:"id"`
	Customer       *CustomerRef      `json:"customer"`
	Salesperson    *SalespersonRef   `json:"salesperson"`
	CashierID      string            `json:"cashier_id"`
	Lines          []LineResponse    `json:"lines"`
	Payments       []PaymentResponse `json:"payments"`
	Finalized      bool              `json:"finalized"`
	HasRefundLines bool              `json:"has_refund_lines"`
	Total          decimal.Decimal   `json:"total"`
	CreatedAt      string            `json:"created_at"`
}

type OrderListResponse struct {
	Data []OrderResponse `json:"data"`
}

type LineResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountPct   decimal.Decimal `json:"discount_pct"`
	HideOnReceipt bool            `json:"hide_on_receipt"`
	Refund        bool            `json:"refund"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type PaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SalespersonRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AddLineRequest struct {
	Barcode  string           `json:"barcode" validate:"required"`
	Quantity *decimal.Decimal `json:"quantity" validate:"omitempty,gt=0"`
}

// UpdateLineRequest edits one field of one line. Backspace marks the
// delete-key affordance: a quantity decrease that may fall through to whole
// line removal when quantity edits are denied but removal is not.
type UpdateLineRequest struct {
	Field     string          `json:"field" validate:"required,oneof=quantity discount price"`
	Value     decimal.Decimal `json:"value"`
	Backspace bool            `json:"backspace"`
}

type SetCustomerRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
}

type SelectSalespersonRequest struct {
	SalespersonID string `json:"salesperson_id" validate:"required,uuid"`
}

type RefundRequest struct {
	Lines []RefundLineRequest `json:"lines" validate:"required,min=1,dive"`
	// DestinationOrderID optionally names the currently open order the
	// refund should land in; subject to the customer-match and
	// refund-and-sales policy checks.
	DestinationOrderID *string `json:"destination_order_id" validate:"omitempty,uuid"`
}

type RefundLineRequest struct {
	LineID   string          `json:"line_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

type FinalizeRequest struct {
	Payments []PaymentRequest `json:"payments" validate:"required,min=1,dive"`
}

type PaymentRequest struct {
	Method string          `json:"method" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// ReceiptHeaderResponse is the header payload merged into the generic
// receipt data. Salesperson is null when no salesperson is bound.
type ReceiptHeaderResponse struct {
	OrderID     string          `json:"order_id"`
	Cashier     string          `json:"cashier"`
	Salesperson *SalespersonRef `json:"salesperson"`
	Date        string          `json:"date"`
}

// NumpadResponse tells the client which numpad buttons to disable for the
// active cashier. Mirrors the authorize predicates exactly.
type NumpadResponse struct {
	Disabled map[string]bool `json:"disabled"`
}
