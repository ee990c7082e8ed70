package usecases

import (
	"context"
	"strings"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/domain/repositories"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserUsecase handles profile and admin user management
type UserUsecase struct {
	userRepo repositories.UserRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

// GetMe returns the caller's profile.
func (u *UserUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes the caller's display name.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.BadRequest("name is required")
	}
	user.Name = name
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) ListUsers(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error) {
	if filter.Role != "" && filter.Role != entities.UserRoleAdmin && filter.Role != entities.UserRoleClient {
		return nil, 0, domainerrors.BadRequest("unknown role")
	}
	return u.userRepo.List(ctx, filter, page)
}

func (u *UserUsecase) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// SetRole changes a user's role. Admins cannot demote themselves.
func (u *UserUsecase) SetRole(ctx context.Context, admin entities.Actor, id uuid.UUID, role entities.UserRole) (*entities.User, error) {
	if role != entities.UserRoleAdmin && role != entities.UserRoleClient {
		return nil, domainerrors.BadRequest("unknown role")
	}
	if admin.UserID == id && role != entities.UserRoleAdmin {
		return nil, domainerrors.BadRequest("admins cannot remove their own admin role")
	}
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsShadow {
		return nil, domainerrors.BadRequest("user has not registered yet")
	}
	user.Role = role
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Info(ctx, "User role changed",
		zap.String("user_id", id.String()),
		zap.String("role", string(role)),
		zap.String("by", admin.UserID.String()),
	)
	return user, nil
}

// PromoteByEmail grants ADMIN to an existing user. Used by the promote-admin command.
func (u *UserUsecase) PromoteByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user.IsShadow {
		return nil, domainerrors.BadRequest("user has not registered yet")
	}
	if user.Role == entities.UserRoleAdmin {
		return user, nil
	}
	user.Role = entities.UserRoleAdmin
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
