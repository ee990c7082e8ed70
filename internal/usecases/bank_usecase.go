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

// BankUsecase manages the platform bank accounts that receive fiat deposits
type BankUsecase struct {
	bankRepo repositories.BankRepository
}

// NewBankUsecase creates a new bank usecase
func NewBankUsecase(bankRepo repositories.BankRepository) *BankUsecase {
	return &BankUsecase{bankRepo: bankRepo}
}

func applyBankInput(b *entities.Bank, input *entities.BankInput) {
	b.Name = strings.TrimSpace(input.Name)
	b.AccountName = strings.TrimSpace(input.AccountName)
	b.AccountNumber = strings.TrimSpace(input.AccountNumber)
	b.RoutingNumber = null.NewString(input.RoutingNumber, input.RoutingNumber != "")
	b.SwiftCode = null.NewString(strings.ToUpper(input.SwiftCode), input.SwiftCode != "")
	b.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if input.IsActive != nil {
		b.IsActive = *input.IsActive
	}
}

func (u *BankUsecase) CreateBank(ctx context.Context, input *entities.BankInput) (*entities.Bank, error) {
	now := time.Now()
	bank := &entities.Bank{
		ID:        utils.GenerateUUIDv7(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyBankInput(bank, input)
	if bank.Currency == "" {
		return nil, domainerrors.BadRequest("currency is required")
	}
	if err := u.bankRepo.Create(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (u *BankUsecase) UpdateBank(ctx context.Context, id uuid.UUID, input *entities.BankInput) (*entities.Bank, error) {
	bank, err := u.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyBankInput(bank, input)
	bank.UpdatedAt = time.Now()
	if err := u.bankRepo.Update(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (u *BankUsecase) DeleteBank(ctx context.Context, id uuid.UUID) error {
	return u.bankRepo.Delete(ctx, id)
}

// ListActive returns banks clients may wire to, optionally for one currency.
func (u *BankUsecase) ListActive(ctx context.Context, currency string) ([]*entities.Bank, error) {
	return u.bankRepo.List(ctx, true, strings.ToUpper(strings.TrimSpace(currency)))
}

// ListAll returns every bank for admins.
func (u *BankUsecase) ListAll(ctx context.Context) ([]*entities.Bank, error) {
	return u.bankRepo.List(ctx, false, "")
}
