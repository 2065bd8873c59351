package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"posguard/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestResolveTriState(t *testing.T) {
	rec := Resolve(model.CapabilitySet{
		CanRefund:         boolPtr(false),
		CanChangePrice:    boolPtr(true),
		CanChangeQuantity: nil,
	})

	assert.Equal(t, Denied, rec.Refund)
	assert.Equal(t, Allowed, rec.ChangePrice)
	assert.Equal(t, Unspecified, rec.ChangeQuantity)
	assert.Equal(t, Unspecified, rec.Discount)
	assert.Equal(t, Unspecified, rec.SeeCostMargin)
	assert.Equal(t, Unspecified, rec.RemoveLine)
}

// An absent flag must behave as allowed: single-cashier deployments never
// configure capabilities and must keep full access.
func TestUnspecifiedAllows(t *testing.T) {
	assert.True(t, Unspecified.Allows())
	assert.True(t, Allowed.Allows())
	assert.False(t, Denied.Allows())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unspecified", Unspecified.String())
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "denied", Denied.String())
}
