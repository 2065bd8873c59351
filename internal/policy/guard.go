// Package policy evaluates requested order mutations against the active
// cashier's capability record. Every refusal is a value carrying a stable,
// user-displayable reason; the attempted mutation is discarded and prior
// state preserved (all-or-nothing).
package policy

import (
	"fmt"

	"posguard/internal/capability"
)

// Action identifies a guarded order mutation.
type Action string

const (
	ActionChangePrice    Action = "change_price"
	ActionChangeQuantity Action = "change_quantity"
	ActionChangeDiscount Action = "change_discount"
	ActionRemoveLine     Action = "remove_line"
	ActionRefund         Action = "refund"
)

// Request carries per-attempt context for Authorize.
type Request struct {
	// DecreaseToRemove marks a quantity edit triggered by the delete key
	// on a line (backspace), as opposed to typing a new quantity.
	DecreaseToRemove bool
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	// RemoveWholeLine signals the decrease-to-remove escape hatch: the
	// cashier may not change quantities but may remove lines, so the
	// whole line is removed instead of decremented. Deliberate behavior.
	RemoveWholeLine bool
	Title           string
	Reason          string
}

// User-facing denial copy. Stable strings: clients show them verbatim.
const (
	accessErrorTitle = "Access Error"
	modifyItemBody   = "Please contact your administrator to modify an item."
	refundBody       = "Please contact your administrator to refund an item."
)

func allow() Decision { return Decision{Allowed: true} }

func deny(title, reason string) Decision {
	return Decision{Title: title, Reason: reason}
}

// Authorize evaluates a requested mutation against the resolved capability
// record. Unspecified capabilities allow: only an explicit denial blocks.
func Authorize(action Action, caps capability.Record, req Request) Decision {
	switch action {
	case ActionChangePrice:
		if !caps.ChangePrice.Allows() {
			return deny(accessErrorTitle, modifyItemBody)
		}
	case ActionChangeDiscount:
		if !caps.Discount.Allows() {
			return deny(accessErrorTitle, modifyItemBody)
		}
	case ActionChangeQuantity:
		if caps.ChangeQuantity.Allows() {
			return allow()
		}
		// Quantity edits are blocked, but a backspace that would shrink
		// the line is honored as a removal when removal is permitted.
		if req.DecreaseToRemove && caps.RemoveLine.Allows() {
			return Decision{Allowed: true, RemoveWholeLine: true}
		}
		return deny(accessErrorTitle, modifyItemBody)
	case ActionRemoveLine:
		if !caps.ChangeQuantity.Allows() && !caps.RemoveLine.Allows() {
			return deny(accessErrorTitle, modifyItemBody)
		}
	case ActionRefund:
		if !caps.Refund.Allows() {
			return deny(accessErrorTitle, refundBody)
		}
	default:
		return deny(accessErrorTitle, fmt.Sprintf("Unknown action %q.", action))
	}
	return allow()
}

// DeniedError converts a Decision into an error for service signatures.
type DeniedError struct {
	Title string
	Body  string
}

func (e *DeniedError) Error() string { return e.Body }

// ErrFrom returns a DeniedError for a refused decision, nil otherwise.
func ErrFrom(d Decision) error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Title: d.Title, Body: d.Reason}
}
