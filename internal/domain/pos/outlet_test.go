package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOutlet(t *testing.T) *Outlet {
	outlet, err := NewOutlet(uuid.New(), "MAIN", "Main Store", OutletModePOS)
	require.NoError(t, err)
	require.NotNil(t, outlet)
	return outlet
}

func TestNewOutlet(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		outletName  string
		mode        OutletMode
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid pos outlet",
			code:       "MAIN",
			outletName: "Main Store",
			mode:       OutletModePOS,
			wantErr:    false,
		},
		{
			name:       "valid restaurant outlet",
			code:       "CAFE-1",
			outletName: "Corner Cafe",
			mode:       OutletModeRestaurant,
			wantErr:    false,
		},
		{
			name:       "valid minimarket outlet",
			code:       "MINI_2",
			outletName: "Mini Market 2",
			mode:       OutletModeMinimarket,
			wantErr:    false,
		},
		{
			name:        "empty code",
			code:        "",
			outletName:  "Main Store",
			mode:        OutletModePOS,
			wantErr:     true,
			errContains: "code cannot be empty",
		},
		{
			name:        "code starting with number",
			code:        "1MAIN",
			outletName:  "Main Store",
			mode:        OutletModePOS,
			wantErr:     true,
			errContains: "must start with a letter",
		},
		{
			name:        "empty name",
			code:        "MAIN",
			outletName:  "",
			mode:        OutletModePOS,
			wantErr:     true,
			errContains: "name cannot be empty",
		},
		{
			name:        "invalid mode",
			code:        "MAIN",
			outletName:  "Main Store",
			mode:        OutletMode("warehouse"),
			wantErr:     true,
			errContains: "must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenantID := uuid.New()
			outlet, err := NewOutlet(tenantID, tt.code, tt.outletName, tt.mode)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, outlet)
				assert.Equal(t, tenantID, outlet.GetTenantID())
				assert.NotEqual(t, uuid.Nil, outlet.ID)
				assert.Equal(t, tt.mode, outlet.Mode)
			}
		})
	}
}

func TestNewOutlet_CodeNormalization(t *testing.T) {
	outlet, err := NewOutlet(uuid.New(), "main-st", "Main", OutletModePOS)
	require.NoError(t, err)
	assert.Equal(t, "MAIN-ST", outlet.Code)
}

func TestOutlet_Update(t *testing.T) {
	outlet := createTestOutlet(t)

	err := outlet.Update("Renamed", "Jl. Sudirman 1", OutletModeMinimarket)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", outlet.Name)
	assert.Equal(t, "Jl. Sudirman 1", outlet.Address)
	assert.Equal(t, OutletModeMinimarket, outlet.Mode)

	err = outlet.Update("", "", OutletModePOS)
	require.Error(t, err)

	err = outlet.Update("Name", "", OutletMode("bad"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestOutletMode_IsValid(t *testing.T) {
	assert.True(t, OutletModePOS.IsValid())
	assert.True(t, OutletModeRestaurant.IsValid())
	assert.True(t, OutletModeMinimarket.IsValid())
	assert.False(t, OutletMode("").IsValid())
	assert.False(t, OutletMode("kiosk").IsValid())
}

func TestRegister(t *testing.T) {
	outletID := uuid.New()

	register, err := NewRegister(outletID, "Kasir 1")
	require.NoError(t, err)
	assert.Equal(t, outletID, register.OutletID)
	assert.Nil(t, register.PrinterProfileID)

	_, err = NewRegister(uuid.Nil, "Kasir 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must belong to an outlet")

	_, err = NewRegister(outletID, "")
	require.Error(t, err)

	require.NoError(t, register.Rename("Kasir Utama"))
	assert.Equal(t, "Kasir Utama", register.Name)

	profileID := uuid.New()
	register.SetPrinterProfile(&profileID)
	require.NotNil(t, register.PrinterProfileID)
	assert.Equal(t, profileID, *register.PrinterProfileID)

	register.SetPrinterProfile(nil)
	assert.Nil(t, register.PrinterProfileID)
}
