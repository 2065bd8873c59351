package policy

import "posguard/internal/capability"

// Numpad button identifiers as the client knows them.
const (
	ButtonQuantity  = "quantity"
	ButtonDiscount  = "discount"
	ButtonPrice     = "price"
	ButtonBackspace = "Backspace"
)

// NumpadDisabled returns which numpad buttons must render disabled for the
// given capability record. The predicates mirror Authorize exactly — a button
// is disabled iff pressing it could only ever produce a denial — so the UI
// and the guard cannot diverge.
func NumpadDisabled(caps capability.Record) map[string]bool {
	return map[string]bool{
		ButtonQuantity:  caps.ChangeQuantity == capability.Denied,
		ButtonDiscount:  caps.Discount == capability.Denied,
		ButtonPrice:     caps.ChangePrice == capability.Denied,
		ButtonBackspace: caps.RemoveLine == capability.Denied && caps.ChangeQuantity == capability.Denied,
	}
}
