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

// SalesService runs sale-side operations through the policy gates and keeps
// stock in step with what crossed the counter.
type SalesService struct {
	outlets   pos.OutletRepository
	products  pos.ProductRepository
	inventory pos.InventoryRepository
	engine    *policy.Engine
	actors    ActorProvider
	logger    *zap.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(
	outlets pos.OutletRepository,
	products pos.ProductRepository,
	inventory pos.InventoryRepository,
	engine *policy.Engine,
	actors ActorProvider,
	logger *zap.Logger,
) *SalesService {
	return &SalesService{
		outlets:   outlets,
		products:  products,
		inventory: inventory,
		engine:    engine,
		actors:    actors,
		logger:    logger,
	}
}

// ProcessSale checks the compound sale gate and decrements stock for every
// line. Whether a line may drive stock negative follows the tenant's
// negative-stock rule.
func (s *SalesService) ProcessSale(ctx context.Context, actorID uuid.UUID, input ProcessSaleInput) (*SaleResult, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if decision := s.engine.CanProcessSale(actor, input.Total); decision.Denied() {
		s.logger.Warn("sale denied",
			zap.String("user_id", actorID.String()),
			zap.String("total", input.Total.String()),
			zap.String("reason", decision.Reason))
		return nil, denied(decision)
	}

	if _, err := s.outlets.FindByID(ctx, input.OutletID); err != nil {
		return nil, err
	}

	allowNegative := s.engine.AllowNegativeStock(actor).Allowed
	for _, line := range input.Lines {
		inv, err := s.inventory.FindByVariantAndOutlet(ctx, line.VariantID, input.OutletID)
		if err != nil {
			return nil, err
		}
		if err := inv.Decrement(line.Quantity, allowNegative); err != nil {
			return nil, err
		}
		if err := s.inventory.Save(ctx, inv); err != nil {
			return nil, err
		}
	}

	s.logger.Info("sale processed",
		zap.String("outlet_id", input.OutletID.String()),
		zap.String("total", input.Total.String()),
		zap.Int("lines", len(input.Lines)))

	return &SaleResult{
		OutletID:  input.OutletID,
		Total:     input.Total,
		LineCount: len(input.Lines),
	}, nil
}

// ProcessReturn checks the return gate and restocks every line
func (s *SalesService) ProcessReturn(ctx context.Context, actorID uuid.UUID, input ProcessReturnInput) (*ReturnResult, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if decision := s.engine.CreateReturn(actor, input.Amount); decision.Denied() {
		s.logger.Warn("return denied",
			zap.String("user_id", actorID.String()),
			zap.String("amount", input.Amount.String()),
			zap.String("reason", decision.Reason))
		return nil, denied(decision)
	}

	if _, err := s.outlets.FindByID(ctx, input.OutletID); err != nil {
		return nil, err
	}

	for _, line := range input.Lines {
		if _, err := s.products.FindVariantByID(ctx, line.VariantID); err != nil {
			return nil, err
		}
		inv, err := s.restockRecord(ctx, line.VariantID, input.OutletID)
		if err != nil {
			return nil, err
		}
		if err := inv.Increment(line.Quantity); err != nil {
			return nil, err
		}
		if err := s.inventory.Save(ctx, inv); err != nil {
			return nil, err
		}
	}

	s.logger.Info("return processed",
		zap.String("outlet_id", input.OutletID.String()),
		zap.String("amount", input.Amount.String()),
		zap.Int("lines", len(input.Lines)))

	return &ReturnResult{
		OutletID:  input.OutletID,
		Amount:    input.Amount,
		LineCount: len(input.Lines),
	}, nil
}

// VoidSale checks whether the actor may void a completed sale
func (s *SalesService) VoidSale(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if decision := s.engine.VoidSale(actor); decision.Denied() {
		return denied(decision)
	}
	return nil
}

// ApproveDiscount checks a discount percentage against the actor's cap
func (s *SalesService) ApproveDiscount(ctx context.Context, actorID uuid.UUID, input DiscountInput) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if decision := s.engine.ApproveDiscount(actor, input.Percentage); decision.Denied() {
		return denied(decision)
	}
	return nil
}

// RecordCashVariance checks a drawer variance against the tolerated band
func (s *SalesService) RecordCashVariance(ctx context.Context, actorID uuid.UUID, input CashVarianceInput) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if decision := s.engine.AcceptCashVariance(actor, input.Variance); decision.Denied() {
		s.logger.Warn("cash variance outside tolerance",
			zap.String("user_id", actorID.String()),
			zap.String("variance", input.Variance.String()))
		return denied(decision)
	}
	return nil
}

// OpeningFloatRequired reports whether a float must be recorded when the
// actor opens a shift
func (s *SalesService) OpeningFloatRequired(ctx context.Context, actorID uuid.UUID) (bool, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return false, err
	}
	return s.engine.RequiresOpeningFloat(actor).Allowed, nil
}

func (s *SalesService) actor(ctx context.Context, actorID uuid.UUID) (policy.Actor, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}
	return s.actors.ActorFor(ctx, actorID, tenantID)
}

// restockRecord loads the stock row for a returned line, creating a zero
// record when the variant was never stocked at this outlet
func (s *SalesService) restockRecord(ctx context.Context, variantID, outletID uuid.UUID) (*pos.Inventory, error) {
	inv, err := s.inventory.FindByVariantAndOutlet(ctx, variantID, outletID)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	tenantID, _ := tenancy.TenantID(ctx)
	return pos.NewInventory(tenantID, variantID, outletID, 0, 0)
}
