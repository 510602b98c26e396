package tenantscope

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/possuite/backend/internal/tenancy"
)

func TestDB_ForTenant(t *testing.T) {
	gormDB, mock, mockDB := setupScopedDB(t)
	defer mockDB.Close()

	contextTenant := uuid.New()
	pinnedTenant := uuid.New()
	ctx := tenancy.WithTenant(context.Background(), contextTenant)

	mock.ExpectQuery(`SELECT \* FROM "scoped_models" WHERE "scoped_models"\."tenant_id" = \$1`).
		WithArgs(pinnedTenant).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var results []scopedModel
	err := New(gormDB).ForTenant(ctx, pinnedTenant).Find(&results).Error

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_CrossTenant(t *testing.T) {
	gormDB, mock, mockDB := setupScopedDB(t)
	defer mockDB.Close()

	ctx := tenancy.WithTenant(context.Background(), uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "scoped_models"$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var results []scopedModel
	err := New(gormDB).CrossTenant(ctx).Find(&results).Error

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Scoped(t *testing.T) {
	gormDB, mock, mockDB := setupScopedDB(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	ctx := tenancy.WithTenant(context.Background(), tenantID)

	mock.ExpectQuery(`SELECT \* FROM "scoped_models" WHERE "scoped_models"\."tenant_id" = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	var results []scopedModel
	err := New(gormDB).Scoped(ctx).Find(&results).Error

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
