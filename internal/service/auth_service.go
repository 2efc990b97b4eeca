package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/config"
	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/repository"
	apperrors "github.com/civnet/issue-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and bootstrap admin seeding.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	bootstrap  config.BootstrapConfig
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		bootstrap:  cfg.Bootstrap,
		logger:     logger,
	}
}

// Register creates a new citizen account. Emails clash case-insensitively:
// the address is normalized before both the lookup and the insert.
func (s *AuthService) Register(ctx context.Context, displayName, email, password string) (*domain.User, string, time.Time, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email and password required", nil)
	}

	normalized := repository.NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		return nil, "", time.Time{}, apperrors.NewDuplicateEmail(normalized)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.NewStoreFailure(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        normalized,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         domain.RoleCitizen,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.NewStoreFailure(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Login authenticates a user of any role and issues a bearer token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewStoreFailure(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// SeedAdmins upserts the bootstrap system admin and default admin from
// environment configuration. The upsert is idempotent; rerunning at every
// startup is safe. Accounts with missing env vars are skipped.
func (s *AuthService) SeedAdmins(ctx context.Context) error {
	seeds := []struct {
		account config.BootstrapAccount
		role    domain.Role
	}{
		{s.bootstrap.SystemAdmin, domain.RoleSystemAdmin},
		{s.bootstrap.DefaultAdmin, domain.RoleAdmin},
	}

	for _, seed := range seeds {
		if !seed.account.Configured() {
			s.logger.Info("bootstrap account skipped", zap.String("role", string(seed.role)))
			continue
		}
		hash, err := auth.HashPassword(seed.account.Password, s.bcryptCost)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		user := &domain.User{
			Email:        repository.NormalizeEmail(seed.account.Email),
			PasswordHash: hash,
			DisplayName:  seed.account.DisplayName,
			Role:         seed.role,
		}
		if err := s.users.Upsert(ctx, user); err != nil {
			return apperrors.NewStoreFailure(err)
		}
		s.logger.Info("bootstrap account ready",
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)))
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
