package pos

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/pos"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/tenancy"
)

// OutletService manages the active tenant's outlets
type OutletService struct {
	outlets pos.OutletRepository
	logger  *zap.Logger
}

// NewOutletService creates a new outlet service
func NewOutletService(outlets pos.OutletRepository, logger *zap.Logger) *OutletService {
	return &OutletService{outlets: outlets, logger: logger}
}

// CreateOutlet opens an outlet in the active tenant
func (s *OutletService) CreateOutlet(ctx context.Context, input CreateOutletInput) (*pos.Outlet, error) {
	tenantID, ok := tenancy.TenantID(ctx)
	if !ok {
		return nil, shared.ErrNoActiveTenant
	}

	if _, err := s.outlets.FindByCode(ctx, input.Code); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	outlet, err := pos.NewOutlet(tenantID, input.Code, input.Name, input.Mode)
	if err != nil {
		return nil, err
	}
	outlet.Address = input.Address

	if err := s.outlets.Save(ctx, outlet); err != nil {
		return nil, err
	}

	s.logger.Info("outlet created",
		zap.String("outlet_id", outlet.ID.String()),
		zap.String("code", outlet.Code))

	return outlet, nil
}

// GetOutlet returns one of the active tenant's outlets
func (s *OutletService) GetOutlet(ctx context.Context, id uuid.UUID) (*pos.Outlet, error) {
	return s.outlets.FindByID(ctx, id)
}

// ListOutlets lists the active tenant's outlets
func (s *OutletService) ListOutlets(ctx context.Context, limit, offset int) ([]*pos.Outlet, error) {
	return s.outlets.FindAll(ctx, limit, offset)
}

// UpdateOutlet changes an outlet's details and settings
func (s *OutletService) UpdateOutlet(ctx context.Context, id uuid.UUID, input UpdateOutletInput) (*pos.Outlet, error) {
	outlet, err := s.outlets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = outlet.Name
	}
	address := input.Address
	if address == "" {
		address = outlet.Address
	}
	mode := input.Mode
	if mode == "" {
		mode = outlet.Mode
	}
	if err := outlet.Update(name, address, mode); err != nil {
		return nil, err
	}
	for key, value := range input.Settings {
		outlet.SetSetting(key, value)
	}

	if err := s.outlets.Save(ctx, outlet); err != nil {
		return nil, err
	}
	return outlet, nil
}

// DeleteOutlet removes an outlet. An outlet that still owns registers
// cannot be deleted.
func (s *OutletService) DeleteOutlet(ctx context.Context, id uuid.UUID) error {
	if _, err := s.outlets.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.outlets.CountRegisters(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrOutletHasRegisters
	}

	return s.outlets.Delete(ctx, id)
}
