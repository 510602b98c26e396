package pos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/policy"
	"github.com/possuite/backend/internal/domain/pos"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/tenancy"
)

// ActorProvider snapshots a user's authority within a tenant for gate
// evaluation
type ActorProvider interface {
	ActorFor(ctx context.Context, userID, tenantID uuid.UUID) (policy.Actor, error)
}

// InventoryService manages per-outlet stock. Mutations pass through the
// policy gates before touching stock records.
type InventoryService struct {
	inventory pos.InventoryRepository
	engine    *policy.Engine
	actors    ActorProvider
	logger    *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	inventory pos.InventoryRepository,
	engine *policy.Engine,
	actors ActorProvider,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		engine:    engine,
		actors:    actors,
		logger:    logger,
	}
}

// AdjustStock applies a manual stock correction. The adjust-stock gate caps
// supervisor adjustments; the negative-stock policy decides whether the
// result may go below zero.
func (s *InventoryService) AdjustStock(ctx context.Context, actorID uuid.UUID, input AdjustStockInput) (*pos.Inventory, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	actor, err := s.actors.ActorFor(ctx, actorID, tenantID)
	if err != nil {
		return nil, err
	}

	if decision := s.engine.AdjustStock(actor, input.Quantity); decision.Denied() {
		s.logger.Warn("stock adjustment denied",
			zap.String("user_id", actorID.String()),
			zap.Int("quantity", input.Quantity),
			zap.String("reason", decision.Reason))
		return nil, denied(decision)
	}

	inv, err := s.stockRecord(ctx, tenantID, input.VariantID, input.OutletID)
	if err != nil {
		return nil, err
	}

	allowNegative := s.engine.AllowNegativeStock(actor).Allowed
	if err := inv.Adjust(input.Quantity, allowNegative); err != nil {
		return nil, err
	}

	if err := s.inventory.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("variant_id", input.VariantID.String()),
		zap.String("outlet_id", input.OutletID.String()),
		zap.Int("quantity", input.Quantity),
		zap.String("reason", input.Reason))

	return inv, nil
}

// SetSafetyStock sets the low-stock threshold for a variant at an outlet
func (s *InventoryService) SetSafetyStock(ctx context.Context, variantID, outletID uuid.UUID, level int) (*pos.Inventory, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	inv, err := s.stockRecord(ctx, tenantID, variantID, outletID)
	if err != nil {
		return nil, err
	}
	if err := inv.SetSafetyStock(level); err != nil {
		return nil, err
	}
	if err := s.inventory.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// StockOf returns the stock record for a variant at an outlet
func (s *InventoryService) StockOf(ctx context.Context, variantID, outletID uuid.UUID) (*pos.Inventory, error) {
	return s.inventory.FindByVariantAndOutlet(ctx, variantID, outletID)
}

// ListByOutlet lists an outlet's stock records
func (s *InventoryService) ListByOutlet(ctx context.Context, outletID uuid.UUID, limit, offset int) ([]*pos.Inventory, error) {
	return s.inventory.FindByOutlet(ctx, outletID, limit, offset)
}

// LowStock lists records at or below their safety level
func (s *InventoryService) LowStock(ctx context.Context, outletID uuid.UUID) ([]*pos.Inventory, error) {
	return s.inventory.FindLowStock(ctx, outletID)
}

// stockRecord loads the stock row for a variant at an outlet, creating a
// zero record on first touch
func (s *InventoryService) stockRecord(ctx context.Context, tenantID, variantID, outletID uuid.UUID) (*pos.Inventory, error) {
	inv, err := s.inventory.FindByVariantAndOutlet(ctx, variantID, outletID)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return pos.NewInventory(tenantID, variantID, outletID, 0, 0)
}
