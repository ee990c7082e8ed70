package repositories

import (
	"context"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EscrowBalanceRepository stores bank and crypto funding records
type EscrowBalanceRepository struct {
	db *gorm.DB
}

func NewEscrowBalanceRepository(db *gorm.DB) *EscrowBalanceRepository {
	return &EscrowBalanceRepository{db: db}
}

func (r *EscrowBalanceRepository) CreateBank(ctx context.Context, b *entities.EscrowBankBalance) error {
	m := &models.EscrowBankBalance{
		ID:             b.ID,
		EscrowID:       b.EscrowID,
		PartyRole:      string(b.PartyRole),
		BankID:         b.BankID,
		WireReference:  b.WireReference,
		Amount:         b.Amount,
		Currency:       b.Currency,
		AdminConfirmed: b.AdminConfirmed,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *EscrowBalanceRepository) CreateCrypto(ctx context.Context, b *entities.EscrowCryptoWalletBalance) error {
	m := &models.EscrowCryptoWalletBalance{
		ID:                b.ID,
		EscrowID:          b.EscrowID,
		PartyRole:         string(b.PartyRole),
		CustodialWalletID: b.CustodialWalletID,
		TransactionHash:   b.TransactionHash,
		Amount:            b.Amount,
		Currency:          b.Currency,
		AdminConfirmed:    b.AdminConfirmed,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *EscrowBalanceRepository) ListBank(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowBankBalance, error) {
	var ms []models.EscrowBankBalance
	if err := GetDB(ctx, r.db).Where("escrow_id = ?", escrowID).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.EscrowBankBalance, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.EscrowBankBalance{
			ID:             m.ID,
			EscrowID:       m.EscrowID,
			PartyRole:      entities.PartyRole(m.PartyRole),
			BankID:         m.BankID,
			WireReference:  m.WireReference,
			Amount:         m.Amount,
			Currency:       m.Currency,
			AdminConfirmed: m.AdminConfirmed,
			CreatedAt:      m.CreatedAt,
			UpdatedAt:      m.UpdatedAt,
		})
	}
	return out, nil
}

func (r *EscrowBalanceRepository) ListCrypto(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowCryptoWalletBalance, error) {
	var ms []models.EscrowCryptoWalletBalance
	if err := GetDB(ctx, r.db).Where("escrow_id = ?", escrowID).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.EscrowCryptoWalletBalance, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.EscrowCryptoWalletBalance{
			ID:                m.ID,
			EscrowID:          m.EscrowID,
			PartyRole:         entities.PartyRole(m.PartyRole),
			CustodialWalletID: m.CustodialWalletID,
			TransactionHash:   m.TransactionHash,
			Amount:            m.Amount,
			Currency:          m.Currency,
			AdminConfirmed:    m.AdminConfirmed,
			CreatedAt:         m.CreatedAt,
			UpdatedAt:         m.UpdatedAt,
		})
	}
	return out, nil
}

// SetAdminConfirmed toggles adminConfirmed on every record of one side, in both channels.
func (r *EscrowBalanceRepository) SetAdminConfirmed(ctx context.Context, escrowID uuid.UUID, role entities.PartyRole, confirmed bool) error {
	return r.updateSide(ctx, escrowID, role, map[string]interface{}{
		"admin_confirmed": confirmed,
		"updated_at":      time.Now(),
	})
}

// UpdateAmounts rewrites the amount of every record of one side.
func (r *EscrowBalanceRepository) UpdateAmounts(ctx context.Context, escrowID uuid.UUID, role entities.PartyRole, amount decimal.Decimal) error {
	return r.updateSide(ctx, escrowID, role, map[string]interface{}{
		"amount":     amount,
		"updated_at": time.Now(),
	})
}

func (r *EscrowBalanceRepository) updateSide(ctx context.Context, escrowID uuid.UUID, role entities.PartyRole, updates map[string]interface{}) error {
	db := GetDB(ctx, r.db)
	if err := db.Model(&models.EscrowBankBalance{}).
		Where("escrow_id = ? AND party_role = ?", escrowID, string(role)).
		Updates(updates).Error; err != nil {
		return err
	}
	return db.Model(&models.EscrowCryptoWalletBalance{}).
		Where("escrow_id = ? AND party_role = ?", escrowID, string(role)).
		Updates(updates).Error
}
