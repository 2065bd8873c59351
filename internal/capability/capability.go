// Package capability resolves the tri-state permission flags of a cashier
// into an explicit capability record. A flag that was never configured is
// Unspecified and must behave as allowed: the fail-open default keeps
// single-cashier deployments, which never touch these flags, fully
// functional.
package capability

import "posguard/internal/model"

// State is the resolved value of a single capability flag.
type State int8

const (
	Unspecified State = iota
	Allowed
	Denied
)

func (s State) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unspecified"
	}
}

// Allows is the single point where Unspecified collapses to allowed.
// Consumers must never compare against Unspecified themselves.
func (s State) Allows() bool { return s != Denied }

// Record is the capability set of the active cashier, resolved once at login
// or cashier switch and immutable for the interaction it governs.
type Record struct {
	SeeCostMargin  State
	Refund         State
	ChangePrice    State
	Discount       State
	ChangeQuantity State
	RemoveLine     State
}

// Resolve maps raw tri-state flags to a Record. Pure read, no side effects.
func Resolve(set model.CapabilitySet) Record {
	return Record{
		SeeCostMargin:  fromFlag(set.CanSeeCostMargin),
		Refund:         fromFlag(set.CanRefund),
		ChangePrice:    fromFlag(set.CanChangePrice),
		Discount:       fromFlag(set.CanDiscount),
		ChangeQuantity: fromFlag(set.CanChangeQuantity),
		RemoveLine:     fromFlag(set.CanRemoveLine),
	}
}

func fromFlag(b *bool) State {
	switch {
	case b == nil:
		return Unspecified
	case *b:
		return Allowed
	default:
		return Denied
	}
}
