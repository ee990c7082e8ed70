package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/domain/repositories"
	"escrow-broker.backend/pkg/crypto"
	"escrow-broker.backend/pkg/jwt"
	"escrow-broker.backend/pkg/logger"
	redispkg "escrow-broker.backend/pkg/redis"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore tracks issued refresh tokens by id.
type SessionStore interface {
	Save(ctx context.Context, tokenID string, data *redispkg.RefreshSession, expiration time.Duration) error
	Consume(ctx context.Context, tokenID string) (*redispkg.RefreshSession, error)
	Revoke(ctx context.Context, tokenID string) error
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	uow        repositories.UnitOfWork
	userRepo   repositories.UserRepository
	escrowRepo repositories.EscrowRepository
	jwtService *jwt.JWTService
	sessions   SessionStore
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	uow repositories.UnitOfWork,
	userRepo repositories.UserRepository,
	escrowRepo repositories.EscrowRepository,
	jwtService *jwt.JWTService,
	sessions SessionStore,
) *AuthUsecase {
	return &AuthUsecase{
		uow:        uow,
		userRepo:   userRepo,
		escrowRepo: escrowRepo,
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// Register creates an account. A shadow user created by an escrow invitation
// under the same email is claimed instead of rejected.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	if err := crypto.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var user *entities.User
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		existing, err := u.userRepo.GetByEmail(txCtx, email)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		if existing != nil && !existing.IsShadow {
			return domainerrors.AlreadyExists("email already registered")
		}

		now := time.Now()
		if existing != nil {
			existing.Name = strings.TrimSpace(input.Name)
			existing.PasswordHash = passwordHash
			existing.IsShadow = false
			existing.UpdatedAt = now
			if err := u.userRepo.Update(txCtx, existing); err != nil {
				return err
			}
			if err := u.userRepo.UpdatePassword(txCtx, existing.ID, passwordHash); err != nil {
				return err
			}
			user = existing
		} else {
			user = &entities.User{
				ID:           utils.GenerateUUIDv7(),
				Email:        email,
				Name:         strings.TrimSpace(input.Name),
				PasswordHash: passwordHash,
				Role:         entities.UserRoleClient,
				KYCStatus:    entities.KYCNotSubmitted,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := u.userRepo.Create(txCtx, user); err != nil {
				return err
			}
		}
		return u.escrowRepo.LinkParticipant(txCtx, email, user.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()))
	return u.issue(ctx, user)
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// Shadow users have no password until they register.
	if user.IsShadow || !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issue(ctx, user)
}

// Refresh rotates a refresh token: the presented id is consumed and a new pair issued.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateTyped(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.Unauthorized("invalid refresh token")
	}

	session, err := u.sessions.Consume(ctx, claims.ID)
	if err != nil {
		if redispkg.IsNil(err) {
			logger.Warn(ctx, "Refresh token reuse or revoked token", zap.String("user_id", claims.UserID.String()))
			return nil, domainerrors.Unauthorized("refresh token has been revoked")
		}
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, domainerrors.Unauthorized("invalid refresh token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	return u.issue(ctx, user)
}

// Logout revokes the refresh token. Unknown or invalid tokens are ignored.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateTyped(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil
	}
	return u.sessions.Revoke(ctx, claims.ID)
}

// ChangePassword replaces the password after checking the current one.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}
	if err := crypto.ValidatePasswordStrength(input.NewPassword); err != nil {
		return domainerrors.BadRequest(err.Error())
	}
	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, userID, hash)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func (u *AuthUsecase) issue(ctx context.Context, user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	session := &redispkg.RefreshSession{UserID: user.ID, IssuedAt: time.Now()}
	if err := u.sessions.Save(ctx, pair.RefreshTokenID, session, u.jwtService.RefreshExpiry()); err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		User:             user,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}, nil
}
