package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/domain/repositories"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// KYCNotifier is told when a user becomes verified.
type KYCNotifier interface {
	KYCVerified(ctx context.Context, user *entities.User)
}

// KYCUsecase handles identity document submission and review
type KYCUsecase struct {
	uow      repositories.UnitOfWork
	kycRepo  repositories.KYCRepository
	userRepo repositories.UserRepository
	notifier KYCNotifier
	now      func() time.Time
}

// NewKYCUsecase creates a new KYC usecase
func NewKYCUsecase(uow repositories.UnitOfWork, kycRepo repositories.KYCRepository, userRepo repositories.UserRepository, notifier KYCNotifier) *KYCUsecase {
	return &KYCUsecase{
		uow:      uow,
		kycRepo:  kycRepo,
		userRepo: userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit stores the caller's document. No document check is performed, so a
// submission is verified immediately. A verified user cannot resubmit.
func (u *KYCUsecase) Submit(ctx context.Context, userID uuid.UUID, input *entities.SubmitKYCInput) (*entities.KYCDocument, error) {
	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		return nil, domainerrors.BadRequest("dateOfBirth must be YYYY-MM-DD")
	}
	now := u.now()
	if !dob.Before(now) {
		return nil, domainerrors.BadRequest("dateOfBirth must be in the past")
	}

	var (
		doc  *entities.KYCDocument
		user *entities.User
	)
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		user, err = u.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user.KYCStatus == entities.KYCVerified {
			return domainerrors.AlreadyExists("identity already verified")
		}

		doc = &entities.KYCDocument{
			ID:             utils.GenerateUUIDv7(),
			UserID:         userID,
			DocumentType:   input.DocumentType,
			DocumentNumber: strings.TrimSpace(input.DocumentNumber),
			FullName:       strings.TrimSpace(input.FullName),
			DateOfBirth:    dob,
			Country:        strings.ToUpper(input.Country),
			Status:         entities.KYCVerified,
			VerifiedAt:     null.TimeFrom(now),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if input.DocumentURL != "" {
			doc.DocumentURL = null.StringFrom(input.DocumentURL)
		}
		if err := u.kycRepo.Upsert(txCtx, doc); err != nil {
			return err
		}

		user.KYCStatus = entities.KYCVerified
		return u.userRepo.Update(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "KYC submitted", zap.String("user_id", userID.String()))
	u.notifier.KYCVerified(ctx, user)
	return doc, nil
}

// GetMine returns the caller's document, or ErrNotFound when none was submitted.
func (u *KYCUsecase) GetMine(ctx context.Context, userID uuid.UUID) (*entities.KYCDocument, error) {
	return u.kycRepo.GetByUserID(ctx, userID)
}

func (u *KYCUsecase) List(ctx context.Context, status entities.KYCStatus, page utils.PaginationParams) ([]*entities.KYCDocument, int64, error) {
	switch status {
	case "", entities.KYCPending, entities.KYCVerified, entities.KYCRejected:
	default:
		return nil, 0, domainerrors.BadRequest("unknown status")
	}
	return u.kycRepo.List(ctx, status, page)
}

// Review records an admin decision and mirrors it onto the user.
func (u *KYCUsecase) Review(ctx context.Context, admin entities.Actor, userID uuid.UUID, input *entities.ReviewKYCInput) (*entities.KYCDocument, error) {
	if input.Status != entities.KYCVerified && input.Status != entities.KYCRejected {
		return nil, domainerrors.BadRequest("status must be VERIFIED or REJECTED")
	}

	var (
		doc  *entities.KYCDocument
		user *entities.User
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = u.kycRepo.GetByUserID(txCtx, userID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("no KYC submission for this user")
			}
			return err
		}
		user, err = u.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}

		now := u.now()
		doc.Status = input.Status
		doc.ReviewNote = null.NewString(input.Note, input.Note != "")
		if input.Status == entities.KYCVerified {
			doc.VerifiedAt = null.TimeFrom(now)
		} else {
			doc.VerifiedAt = null.Time{}
		}
		doc.UpdatedAt = now
		if err := u.kycRepo.Update(txCtx, doc); err != nil {
			return err
		}

		user.KYCStatus = input.Status
		return u.userRepo.Update(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "KYC reviewed",
		zap.String("user_id", userID.String()),
		zap.String("status", string(input.Status)),
		zap.String("by", admin.UserID.String()),
	)
	if input.Status == entities.KYCVerified {
		u.notifier.KYCVerified(ctx, user)
	}
	return doc, nil
}
