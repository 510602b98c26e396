package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/possuite/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// User represents a user in the system. Users are global (not tenant-owned):
// tenant access is expressed through memberships, and roles are held per
// tenant partition.
type User struct {
	shared.BaseEntity
	Name         string `gorm:"type:varchar(200);not null"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(200);not null"`

	// Memberships are loaded by the repository, ordered default-first.
	Memberships []TenantMembership `gorm:"-"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// TenantMembership is the join entity between users and tenants. At most one
// membership per user is recommended to carry IsDefault, but this is not
// enforced as a hard constraint.
type TenantMembership struct {
	UserID    uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	IsDefault bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (TenantMembership) TableName() string {
	return "user_tenants"
}

// NewUser creates a new user with required fields
func NewUser(name, email, password string) (*User, error) {
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Memberships:  make([]TenantMembership, 0),
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = hash
	u.Touch()

	return nil
}

// Rename changes the user's display name
func (u *User) Rename(name string) error {
	if err := validateUserName(name); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	u.Touch()
	return nil
}

// IsMemberOf reports whether the user holds a membership for the tenant
func (u *User) IsMemberOf(tenantID uuid.UUID) bool {
	for _, m := range u.Memberships {
		if m.TenantID == tenantID {
			return true
		}
	}
	return false
}

// DefaultTenantID returns the user's default tenant, falling back to the
// first membership. The second return is false when the user has none.
func (u *User) DefaultTenantID() (uuid.UUID, bool) {
	for _, m := range u.Memberships {
		if m.IsDefault {
			return m.TenantID, true
		}
	}
	if len(u.Memberships) > 0 {
		return u.Memberships[0].TenantID, true
	}
	return uuid.Nil, false
}

// TenantIDs returns all tenant ids the user is a member of
func (u *User) TenantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(u.Memberships))
	for i, m := range u.Memberships {
		ids[i] = m.TenantID
	}
	return ids
}

// Validation functions

func validateUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_USER_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_USER_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
