package pos

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/pos"
)

// RegisterService manages the tills inside an outlet. Registers have no
// tenant column; every operation first resolves the outlet through the
// scoped outlet repository, which is what keeps foreign tenants out.
type RegisterService struct {
	registers pos.RegisterRepository
	outlets   pos.OutletRepository
	logger    *zap.Logger
}

// NewRegisterService creates a new register service
func NewRegisterService(registers pos.RegisterRepository, outlets pos.OutletRepository, logger *zap.Logger) *RegisterService {
	return &RegisterService{registers: registers, outlets: outlets, logger: logger}
}

// CreateRegister adds a till to an outlet
func (s *RegisterService) CreateRegister(ctx context.Context, input CreateRegisterInput) (*pos.Register, error) {
	if _, err := s.outlets.FindByID(ctx, input.OutletID); err != nil {
		return nil, err
	}

	register, err := pos.NewRegister(input.OutletID, input.Name)
	if err != nil {
		return nil, err
	}
	register.SetPrinterProfile(input.PrinterProfileID)

	if err := s.registers.Save(ctx, register); err != nil {
		return nil, err
	}

	s.logger.Info("register created",
		zap.String("register_id", register.ID.String()),
		zap.String("outlet_id", input.OutletID.String()))

	return register, nil
}

// GetRegister returns a register after verifying its outlet is visible
func (s *RegisterService) GetRegister(ctx context.Context, id uuid.UUID) (*pos.Register, error) {
	register, err := s.registers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.outlets.FindByID(ctx, register.OutletID); err != nil {
		return nil, err
	}
	return register, nil
}

// ListRegisters lists an outlet's registers
func (s *RegisterService) ListRegisters(ctx context.Context, outletID uuid.UUID) ([]*pos.Register, error) {
	if _, err := s.outlets.FindByID(ctx, outletID); err != nil {
		return nil, err
	}
	return s.registers.FindByOutlet(ctx, outletID)
}

// RenameRegister changes a register's name
func (s *RegisterService) RenameRegister(ctx context.Context, id uuid.UUID, name string) (*pos.Register, error) {
	register, err := s.GetRegister(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := register.Rename(name); err != nil {
		return nil, err
	}
	if err := s.registers.Save(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

// DeleteRegister removes a register from its outlet
func (s *RegisterService) DeleteRegister(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRegister(ctx, id); err != nil {
		return err
	}
	return s.registers.Delete(ctx, id)
}
