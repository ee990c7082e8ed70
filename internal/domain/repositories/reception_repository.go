package repositories

import (
	"context"

	"escrow-broker.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// SellerBankAccountRepository defines seller payout account operations
type SellerBankAccountRepository interface {
	Create(ctx context.Context, account *entities.SellerBankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.SellerBankAccount, error)
	GetByEscrow(ctx context.Context, escrowID uuid.UUID) (*entities.SellerBankAccount, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.SellerBankAccount, error)
	Update(ctx context.Context, account *entities.SellerBankAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DetachEscrow clears the escrow binding of any account bound to escrowID.
	DetachEscrow(ctx context.Context, escrowID uuid.UUID) error
}

// PayoutWalletRepository stores the crypto payout address of one side of an escrow.
type PayoutWalletRepository interface {
	// Replace stores wallet as the only payout address of its escrow and owner role.
	Replace(ctx context.Context, role entities.PartyRole, wallet *entities.PayoutWallet) error
	GetByEscrow(ctx context.Context, role entities.PartyRole, escrowID uuid.UUID) (*entities.PayoutWallet, error)
}
