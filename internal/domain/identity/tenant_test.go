package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTenant(t *testing.T) *Tenant {
	tenant, err := NewTenant("DEMO", "Demo Store")
	require.NoError(t, err)
	require.NotNil(t, tenant)
	return tenant
}

func TestNewTenant(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		tenantName  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid tenant",
			code:       "ACME",
			tenantName: "Acme Retail",
			wantErr:    false,
		},
		{
			name:       "valid code with underscore and hyphen",
			code:       "acme_store-2",
			tenantName: "Acme Store 2",
			wantErr:    false,
		},
		{
			name:        "empty code",
			code:        "",
			tenantName:  "Acme",
			wantErr:     true,
			errContains: "code cannot be empty",
		},
		{
			name:        "code starting with number",
			code:        "1ACME",
			tenantName:  "Acme",
			wantErr:     true,
			errContains: "must start with a letter",
		},
		{
			name:        "code with spaces",
			code:        "AC ME",
			tenantName:  "Acme",
			wantErr:     true,
			errContains: "must start with a letter",
		},
		{
			name:        "empty name",
			code:        "ACME",
			tenantName:  "",
			wantErr:     true,
			errContains: "name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant, err := NewTenant(tt.code, tt.tenantName)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, tenant)
				assert.NotEqual(t, uuid.Nil, tenant.ID)
				assert.Equal(t, "Asia/Jakarta", tenant.Timezone)
				assert.NotNil(t, tenant.Settings)
			}
		})
	}
}

func TestNewTenant_CodeNormalization(t *testing.T) {
	tenant, err := NewTenant("acme_store", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME_STORE", tenant.Code)
}

func TestTenant_Update(t *testing.T) {
	tenant := createTestTenant(t)

	err := tenant.Update("Renamed Store")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Store", tenant.Name)

	err = tenant.Update("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestTenant_SetTimezone(t *testing.T) {
	tenant := createTestTenant(t)

	err := tenant.SetTimezone("Asia/Makassar")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Makassar", tenant.Timezone)

	err = tenant.SetTimezone("Not/AZone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown timezone")
	assert.Equal(t, "Asia/Makassar", tenant.Timezone)
}

func TestTenant_Settings(t *testing.T) {
	tenant := createTestTenant(t)

	// Fallback when unset
	assert.Equal(t, "false", tenant.Setting(SettingAllowNegativeStock, "false"))

	tenant.SetSetting(SettingAllowNegativeStock, "true")
	assert.Equal(t, "true", tenant.Setting(SettingAllowNegativeStock, "false"))

	tenant.SetSetting(SettingCashRoundingUnit, "100")
	assert.Equal(t, "100", tenant.Setting(SettingCashRoundingUnit, "1"))

	// Nil map is lazily initialized
	bare := &Tenant{}
	bare.SetSetting(SettingDefaultTaxRate, "0.11")
	assert.Equal(t, "0.11", bare.Setting(SettingDefaultTaxRate, "0"))
}
