package repositories

import (
	"context"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EscrowRepository defines escrow data operations
type EscrowRepository interface {
	Create(ctx context.Context, escrow *entities.Escrow) error
	// GetByID locks the row when ctx was prepared by UnitOfWork.WithLock.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Escrow, error)
	// Update persists escrow if its version still matches and bumps it.
	// A stale version yields errors.ErrConflict.
	Update(ctx context.Context, escrow *entities.Escrow) error
	List(ctx context.Context, filter entities.EscrowFilter, page utils.PaginationParams) ([]*entities.Escrow, int64, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*entities.Escrow, error)
	// LinkParticipant fills the buyer or seller id on escrows that recorded only the email.
	LinkParticipant(ctx context.Context, email string, userID uuid.UUID) error
}

// EscrowBalanceRepository stores funding records of both channels.
type EscrowBalanceRepository interface {
	CreateBank(ctx context.Context, balance *entities.EscrowBankBalance) error
	CreateCrypto(ctx context.Context, balance *entities.EscrowCryptoWalletBalance) error
	ListBank(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowBankBalance, error)
	ListCrypto(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowCryptoWalletBalance, error)
	SetAdminConfirmed(ctx context.Context, escrowID uuid.UUID, role entities.PartyRole, confirmed bool) error
	UpdateAmounts(ctx context.Context, escrowID uuid.UUID, role entities.PartyRole, amount decimal.Decimal) error
}

// EscrowAuditRepository stores admin actions on escrows.
type EscrowAuditRepository interface {
	Create(ctx context.Context, entry *entities.EscrowAuditLog) error
	ListByEscrow(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowAuditLog, error)
}
