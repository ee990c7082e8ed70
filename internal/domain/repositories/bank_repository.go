package repositories

import (
	"context"

	"escrow-broker.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// BankRepository defines platform bank operations
type BankRepository interface {
	Create(ctx context.Context, bank *entities.Bank) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Bank, error)
	Update(ctx context.Context, bank *entities.Bank) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns banks, optionally only active ones and optionally by currency.
	List(ctx context.Context, activeOnly bool, currency string) ([]*entities.Bank, error)
}

// CustodialWalletRepository defines custodial wallet operations
type CustodialWalletRepository interface {
	Create(ctx context.Context, wallet *entities.CustodialWallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CustodialWallet, error)
	Update(ctx context.Context, wallet *entities.CustodialWallet) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, currency string) ([]*entities.CustodialWallet, error)
}
