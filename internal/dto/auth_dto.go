package dto

import "posguard/internal/model"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	PIN      string `json:"pin" validate:"required,min=4"`
}

// SwitchRequest re-authenticates as a different cashier on the same
// register. Identical shape to login; kept separate so the contract can
// diverge (e.g. badge scans) without breaking clients.
type SwitchRequest struct {
	Username string `json:"username" validate:"required"`
	PIN      string `json:"pin" validate:"required,min=4"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	Cashier     CashierResponse `json:"cashier"`
}

type CashierResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	// Capabilities echoes the raw tri-state flags; absent fields are
	// omitted and treated as allowed by clients.
	Capabilities model.CapabilitySet `json:"capabilities"`
}
