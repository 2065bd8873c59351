package dto

import "github.com/shopspring/decimal"

type ProductResponse struct {
	ID          string          `json:"id"`
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	ListPrice   decimal.Decimal `json:"list_price"`
	DefaultQty  decimal.Decimal `json:"default_qty"`
	Preselected bool            `json:"preselected"`
	// Cost and MarginPct are omitted when the active cashier's
	// can_see_cost_margin capability resolves to denied.
	Cost      *decimal.Decimal `json:"cost,omitempty"`
	MarginPct *decimal.Decimal `json:"margin_pct,omitempty"`
}

type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
}

type CreateProductRequest struct {
	Barcode     string          `json:"barcode" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Cost        decimal.Decimal `json:"cost" validate:"min=0"`
	ListPrice   decimal.Decimal `json:"list_price" validate:"min=0"`
	DefaultQty  decimal.Decimal `json:"default_qty" validate:"omitempty,gt=0"`
	Preselected bool            `json:"preselected"`
}

type SetPreselectedRequest struct {
	Preselected *bool `json:"preselected" validate:"required"`
}

type PriceCheckResponse struct {
	Name      string          `json:"name"`
	ListPrice decimal.Decimal `json:"list_price"`
}

type CreateCustomerRequest struct {
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type CustomerResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

type SalespersonResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
