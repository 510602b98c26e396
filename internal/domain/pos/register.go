package pos

import (
	"strings"

	"github.com/google/uuid"
	"github.com/possuite/backend/internal/domain/shared"
)

// Register is a point-of-sale terminal belonging to one outlet. It carries
// no tenant column: scoping is inherited through the outlet, so register
// queries must be joined or pre-filtered by outlet.
type Register struct {
	shared.BaseEntity
	OutletID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name             string            `gorm:"type:varchar(200);not null"`
	PrinterProfileID *uuid.UUID        `gorm:"type:uuid"`
	Settings         map[string]string `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Register) TableName() string {
	return "registers"
}

// NewRegister creates a new register for an outlet
func NewRegister(outletID uuid.UUID, name string) (*Register, error) {
	if err := validateName(name, "Register"); err != nil {
		return nil, err
	}
	if outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OUTLET", "Register must belong to an outlet")
	}

	return &Register{
		BaseEntity: shared.NewBaseEntity(),
		OutletID:   outletID,
		Name:       strings.TrimSpace(name),
		Settings:   map[string]string{},
	}, nil
}

// Rename updates the register's display name
func (r *Register) Rename(name string) error {
	if err := validateName(name, "Register"); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.Touch()

	return nil
}

// SetPrinterProfile sets or clears the printer profile reference
func (r *Register) SetPrinterProfile(profileID *uuid.UUID) {
	r.PrinterProfileID = profileID
	r.Touch()
}

// SetSetting stores a free-form setting value
func (r *Register) SetSetting(key, value string) {
	if r.Settings == nil {
		r.Settings = map[string]string{}
	}
	r.Settings[key] = value
	r.Touch()
}
