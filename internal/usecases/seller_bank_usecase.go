package usecases

import (
	"context"
	"strings"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/domain/repositories"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SellerBankUsecase lets a client manage their saved fiat payout accounts
type SellerBankUsecase struct {
	repo repositories.SellerBankAccountRepository
}

// NewSellerBankUsecase creates a new seller bank usecase
func NewSellerBankUsecase(repo repositories.SellerBankAccountRepository) *SellerBankUsecase {
	return &SellerBankUsecase{repo: repo}
}

func applySellerBankInput(a *entities.SellerBankAccount, input *entities.SellerBankAccountInput) {
	a.BankName = strings.TrimSpace(input.BankName)
	a.AccountName = strings.TrimSpace(input.AccountName)
	a.AccountNumber = strings.TrimSpace(input.AccountNumber)
	a.RoutingNumber = null.NewString(input.RoutingNumber, input.RoutingNumber != "")
	a.SwiftCode = null.NewString(strings.ToUpper(input.SwiftCode), input.SwiftCode != "")
	a.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
}

func (u *SellerBankUsecase) List(ctx context.Context, ownerID uuid.UUID) ([]*entities.SellerBankAccount, error) {
	return u.repo.ListByOwner(ctx, ownerID)
}

func (u *SellerBankUsecase) Create(ctx context.Context, ownerID uuid.UUID, input *entities.SellerBankAccountInput) (*entities.SellerBankAccount, error) {
	now := time.Now()
	account := &entities.SellerBankAccount{
		ID:        utils.GenerateUUIDv7(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applySellerBankInput(account, input)
	if err := u.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (u *SellerBankUsecase) owned(ctx context.Context, ownerID, id uuid.UUID) (*entities.SellerBankAccount, error) {
	account, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Other users' accounts are reported as missing.
	if account.OwnerID != ownerID {
		return nil, domainerrors.NotFound("bank account not found")
	}
	return account, nil
}

func (u *SellerBankUsecase) Update(ctx context.Context, ownerID, id uuid.UUID, input *entities.SellerBankAccountInput) (*entities.SellerBankAccount, error) {
	account, err := u.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	applySellerBankInput(account, input)
	account.UpdatedAt = time.Now()
	if err := u.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (u *SellerBankUsecase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	account, err := u.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if account.EscrowID != nil {
		return domainerrors.Conflict("bank account is bound to an escrow")
	}
	return u.repo.Delete(ctx, id)
}
