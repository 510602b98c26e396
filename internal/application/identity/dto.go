package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/possuite/backend/internal/domain/identity"
)

// LoginInput carries credentials for authentication
type LoginInput struct {
	Email    string
	Password string
}

// TenantInfo is the outward view of a tenant membership
type TenantInfo struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
}

// UserInfo is the outward view of a user
type UserInfo struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Tenants []TenantInfo `json:"tenants"`
}

// LoginResult contains the token pair and the resolved active tenant
type LoginResult struct {
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time  `json:"refresh_token_expires_at"`
	TokenType             string     `json:"token_type"`
	ActiveTenantID        *uuid.UUID `json:"active_tenant_id,omitempty"`
	User                  UserInfo   `json:"user"`
}

// RefreshTokenInput carries a refresh token
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the rotated token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// CreateTenantInput carries the fields for tenant provisioning
type CreateTenantInput struct {
	Code     string
	Name     string
	Timezone string
}

// UpdateTenantInput carries mutable tenant fields
type UpdateTenantInput struct {
	Name     string
	Timezone string
	Settings map[string]string
}

// CreateUserInput provisions a user inside the active tenant
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	RoleIDs  []uuid.UUID
}

// UpdateUserInput carries mutable user fields
type UpdateUserInput struct {
	Name    string
	RoleIDs []uuid.UUID
}

// CreateRoleInput creates a role in the active tenant's partition
type CreateRoleInput struct {
	Name        string
	Permissions []string
}

// RoleInfo is the outward view of a role
type RoleInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    *uuid.UUID `json:"tenant_id,omitempty"`
	Name        string     `json:"name"`
	Permissions []string   `json:"permissions"`
}

func roleInfo(role *identity.Role) RoleInfo {
	return RoleInfo{
		ID:          role.ID,
		TenantID:    role.TenantID,
		Name:        role.Name,
		Permissions: role.Permissions,
	}
}

func userInfo(user *identity.User, tenantsByID map[uuid.UUID]*identity.Tenant) UserInfo {
	info := UserInfo{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Tenants: make([]TenantInfo, 0, len(user.Memberships)),
	}
	for _, m := range user.Memberships {
		ti := TenantInfo{ID: m.TenantID, IsDefault: m.IsDefault}
		if tenant, ok := tenantsByID[m.TenantID]; ok {
			ti.Code = tenant.Code
			ti.Name = tenant.Name
		}
		info.Tenants = append(info.Tenants, ti)
	}
	return info
}
