package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInventory(t *testing.T, onHand, safetyStock int) *Inventory {
	inv, err := NewInventory(uuid.New(), uuid.New(), uuid.New(), onHand, safetyStock)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}

func TestNewInventory(t *testing.T) {
	tenantID := uuid.New()
	variantID := uuid.New()
	outletID := uuid.New()

	inv, err := NewInventory(tenantID, variantID, outletID, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, tenantID, inv.GetTenantID())
	assert.Equal(t, variantID, inv.VariantID)
	assert.Equal(t, outletID, inv.OutletID)
	assert.Equal(t, 10, inv.OnHand)
	assert.Equal(t, 3, inv.SafetyStock)

	_, err = NewInventory(tenantID, uuid.Nil, outletID, 0, 0)
	require.Error(t, err)

	_, err = NewInventory(tenantID, variantID, uuid.Nil, 0, 0)
	require.Error(t, err)

	_, err = NewInventory(tenantID, variantID, outletID, 0, -1)
	require.Error(t, err)
}

func TestInventory_IsLowStock(t *testing.T) {
	assert.False(t, createTestInventory(t, 10, 3).IsLowStock())
	assert.True(t, createTestInventory(t, 3, 3).IsLowStock())
	assert.True(t, createTestInventory(t, 0, 3).IsLowStock())
}

func TestInventory_IsAvailable(t *testing.T) {
	inv := createTestInventory(t, 5, 0)
	assert.True(t, inv.IsAvailable(1))
	assert.True(t, inv.IsAvailable(5))
	assert.False(t, inv.IsAvailable(6))
}

func TestInventory_Decrement(t *testing.T) {
	inv := createTestInventory(t, 5, 0)

	require.NoError(t, inv.Decrement(3, false))
	assert.Equal(t, 2, inv.OnHand)

	// Insufficient stock without the negative-stock policy
	err := inv.Decrement(3, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 2, inv.OnHand)

	// Negative stock allowed by tenant setting
	require.NoError(t, inv.Decrement(3, true))
	assert.Equal(t, -1, inv.OnHand)

	err = inv.Decrement(0, false)
	require.Error(t, err)
	err = inv.Decrement(-2, false)
	require.Error(t, err)
}

func TestInventory_Increment(t *testing.T) {
	inv := createTestInventory(t, 5, 0)

	require.NoError(t, inv.Increment(7))
	assert.Equal(t, 12, inv.OnHand)

	err := inv.Increment(0)
	require.Error(t, err)
	err = inv.Increment(-1)
	require.Error(t, err)
}

func TestInventory_Adjust(t *testing.T) {
	inv := createTestInventory(t, 5, 0)

	require.NoError(t, inv.Adjust(3, false))
	assert.Equal(t, 8, inv.OnHand)

	require.NoError(t, inv.Adjust(-5, false))
	assert.Equal(t, 3, inv.OnHand)

	err := inv.Adjust(-5, false)
	require.Error(t, err)
	assert.Equal(t, 3, inv.OnHand)

	require.NoError(t, inv.Adjust(-5, true))
	assert.Equal(t, -2, inv.OnHand)

	err = inv.Adjust(0, false)
	require.Error(t, err)
}

func TestInventory_SetSafetyStock(t *testing.T) {
	inv := createTestInventory(t, 5, 0)

	require.NoError(t, inv.SetSafetyStock(5))
	assert.True(t, inv.IsLowStock())

	err := inv.SetSafetyStock(-1)
	require.Error(t, err)
}
