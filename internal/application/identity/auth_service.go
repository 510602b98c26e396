package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/possuite/backend/internal/domain/identity"
	"github.com/possuite/backend/internal/domain/shared"
	"github.com/possuite/backend/internal/infrastructure/auth"
	"github.com/possuite/backend/internal/tenancy"
)

// AuthService handles authentication and the login-time tenant handshake
type AuthService struct {
	users   identity.UserRepository
	tenants identity.TenantRepository
	jwt     *auth.JWTService
	manager *tenancy.Manager
	logger  *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	tenants identity.TenantRepository,
	jwt *auth.JWTService,
	manager *tenancy.Manager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tenants: tenants,
		jwt:     jwt,
		manager: manager,
		logger:  logger,
	}
}

// Login authenticates a user, opens a logical session, and resolves their
// active tenant. A user without any membership still logs in; the active
// tenant stays empty until one is granted.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("login attempt for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	sessionID := uuid.NewString()
	tokenPair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: sessionID,
	})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	result := &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  userInfo(user, s.tenantIndex(ctx, user)),
	}

	sessionCtx := tenancy.WithSession(ctx, sessionID)
	if resolved, err := s.manager.Resolve(sessionCtx, user.ID); err == nil {
		if tenantID, ok := tenancy.TenantID(resolved); ok {
			result.ActiveTenantID = &tenantID
		}
	} else if !errors.Is(err, shared.ErrNoActiveTenant) {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return result, nil
}

// RefreshToken rotates a token pair, keeping the session id so the
// persisted tenant choice survives the rotation
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		s.logger.Warn("token refresh for unknown user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	tokenPair, err := s.jwt.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout drops the session's persisted tenant choice. Tokens are stateless
// and expire on their own.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	_, err := s.manager.Clear(tenancy.WithSession(ctx, sessionID))
	if err != nil {
		s.logger.Warn("failed to clear session on logout", zap.Error(err))
		return err
	}
	return nil
}

// GetCurrentUser returns the authenticated user's profile and memberships
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := userInfo(user, s.tenantIndex(ctx, user))
	return &info, nil
}

// tenantIndex loads tenant records for the user's memberships. Lookups that
// fail are skipped; the membership still appears with its id only.
func (s *AuthService) tenantIndex(ctx context.Context, user *identity.User) map[uuid.UUID]*identity.Tenant {
	index := make(map[uuid.UUID]*identity.Tenant, len(user.Memberships))
	for _, m := range user.Memberships {
		tenant, err := s.tenants.FindByID(ctx, m.TenantID)
		if err != nil {
			s.logger.Warn("failed to load membership tenant",
				zap.String("tenant_id", m.TenantID.String()),
				zap.Error(err))
			continue
		}
		index[m.TenantID] = tenant
	}
	return index
}
