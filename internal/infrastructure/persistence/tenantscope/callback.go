package tenantscope

import (
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/possuite/backend/internal/tenancy"
)

const tenantColumn = "tenant_id"

// Register installs the tenant scoping callbacks on the gorm instance. Must
// run once, after the dialector is set up and before any repository use.
func Register(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenantscope:before_query", addTenantFilter); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenantscope:before_row", addTenantFilter); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenantscope:before_update", addTenantFilter); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenantscope:before_delete", addTenantFilter); err != nil {
		return err
	}
	return db.Callback().Create().Before("gorm:create").Register("tenantscope:before_create", assignTenantOnCreate)
}

// addTenantFilter narrows the statement to the active tenant. It is a no-op
// when the model has no tenant_id column, when no tenant is active, when the
// statement is unscoped or bypassed, or when the caller already filtered on
// tenant_id explicitly.
func addTenantFilter(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Schema == nil || stmt.Unscoped {
		return
	}
	if tenancy.BypassEnabled(stmt.Context) {
		return
	}

	field := stmt.Schema.LookUpField(tenantColumn)
	if field == nil || field.DBName != tenantColumn {
		return
	}

	tenantID, ok := tenancy.TenantID(stmt.Context)
	if !ok {
		return
	}

	if hasTenantCondition(stmt) {
		return
	}

	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: tenantColumn},
			Value:  tenantID,
		},
	}})
}

// assignTenantOnCreate stamps the active tenant onto tenant-owned rows that
// do not carry one yet. Creating such a row with neither an active tenant
// nor a bypass is an isolation violation and fails. Bypassed creates are
// left exactly as the caller built them, including a zero tenant_id for
// rows in the global partition.
func assignTenantOnCreate(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Schema == nil || tenancy.BypassEnabled(stmt.Context) {
		return
	}

	field := stmt.Schema.LookUpField(tenantColumn)
	if field == nil || field.DBName != tenantColumn {
		return
	}

	ctx := stmt.Context
	tenantID, active := tenancy.TenantID(ctx)

	assign := func(rv reflect.Value) {
		_, isZero := field.ValueOf(ctx, rv)
		if !isZero {
			return
		}
		if !active {
			_ = db.AddError(ErrTenantRequired)
			return
		}
		if err := field.Set(ctx, rv, tenantID); err != nil {
			_ = db.AddError(err)
		}
	}

	switch rv := stmt.ReflectValue; rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			assign(rv.Index(i))
		}
	case reflect.Struct:
		assign(rv)
	}
}

// hasTenantCondition reports whether the statement already constrains
// tenant_id, so the filter never doubles up with explicit repository
// predicates.
func hasTenantCondition(stmt *gorm.Statement) bool {
	c, ok := stmt.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, expr := range where.Exprs {
		if exprContainsTenant(expr) {
			return true
		}
	}
	return false
}

func exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return columnIsTenant(e.Column)
	case clause.IN:
		return columnIsTenant(e.Column)
	case clause.Expr:
		return strings.Contains(e.SQL, tenantColumn)
	case clause.AndConditions:
		for _, sub := range e.Exprs {
			if exprContainsTenant(sub) {
				return true
			}
		}
	case clause.OrConditions:
		for _, sub := range e.Exprs {
			if exprContainsTenant(sub) {
				return true
			}
		}
	}
	return false
}

func columnIsTenant(column interface{}) bool {
	switch c := column.(type) {
	case clause.Column:
		return c.Name == tenantColumn
	case string:
		return c == tenantColumn
	}
	return false
}
