package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/possuite/backend/internal/tenancy"
)

// TenantKey namespaces a cache key by tenant. With no tenant (uuid.Nil) the
// key lives in the global namespace, so cached values can never leak across
// tenants through a shared key.
func TenantKey(tenantID uuid.UUID, key string) string {
	if tenantID == uuid.Nil {
		return "global:" + key
	}
	return "tenant:" + tenantID.String() + ":" + key
}

// ContextKey namespaces a cache key by the context's active tenant
func ContextKey(ctx context.Context, key string) string {
	tenantID, _ := tenancy.TenantID(ctx)
	return TenantKey(tenantID, key)
}
