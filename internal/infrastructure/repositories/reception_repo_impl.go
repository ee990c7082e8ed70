package repositories

import (
	"context"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// SellerBankAccountRepository implements seller payout account persistence
type SellerBankAccountRepository struct {
	db *gorm.DB
}

func NewSellerBankAccountRepository(db *gorm.DB) *SellerBankAccountRepository {
	return &SellerBankAccountRepository{db: db}
}

func (r *SellerBankAccountRepository) Create(ctx context.Context, a *entities.SellerBankAccount) error {
	return GetDB(ctx, r.db).Create(sellerBankToModel(a)).Error
}

func (r *SellerBankAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SellerBankAccount, error) {
	var m models.SellerBankAccount
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return sellerBankToEntity(&m), nil
}

func (r *SellerBankAccountRepository) GetByEscrow(ctx context.Context, escrowID uuid.UUID) (*entities.SellerBankAccount, error) {
	var m models.SellerBankAccount
	if err := GetDB(ctx, r.db).Where("escrow_id = ?", escrowID).Order("created_at DESC").First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return sellerBankToEntity(&m), nil
}

func (r *SellerBankAccountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.SellerBankAccount, error) {
	var ms []models.SellerBankAccount
	if err := GetDB(ctx, r.db).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.SellerBankAccount, 0, len(ms))
	for i := range ms {
		out = append(out, sellerBankToEntity(&ms[i]))
	}
	return out, nil
}

func (r *SellerBankAccountRepository) Update(ctx context.Context, a *entities.SellerBankAccount) error {
	result := GetDB(ctx, r.db).Model(&models.SellerBankAccount{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"escrow_id":      a.EscrowID,
		"bank_name":      a.BankName,
		"account_name":   a.AccountName,
		"account_number": a.AccountNumber,
		"routing_number": a.RoutingNumber.Ptr(),
		"swift_code":     a.SwiftCode.Ptr(),
		"currency":       a.Currency,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *SellerBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.SellerBankAccount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *SellerBankAccountRepository) DetachEscrow(ctx context.Context, escrowID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&models.SellerBankAccount{}).
		Where("escrow_id = ?", escrowID).
		Update("escrow_id", nil).Error
}

func sellerBankToModel(a *entities.SellerBankAccount) *models.SellerBankAccount {
	return &models.SellerBankAccount{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		EscrowID:      a.EscrowID,
		BankName:      a.BankName,
		AccountName:   a.AccountName,
		AccountNumber: a.AccountNumber,
		RoutingNumber: a.RoutingNumber.Ptr(),
		SwiftCode:     a.SwiftCode.Ptr(),
		Currency:      a.Currency,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func sellerBankToEntity(m *models.SellerBankAccount) *entities.SellerBankAccount {
	return &entities.SellerBankAccount{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		EscrowID:      m.EscrowID,
		BankName:      m.BankName,
		AccountName:   m.AccountName,
		AccountNumber: m.AccountNumber,
		RoutingNumber: null.StringFromPtr(m.RoutingNumber),
		SwiftCode:     null.StringFromPtr(m.SwiftCode),
		Currency:      m.Currency,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// PayoutWalletRepository stores buyer and seller crypto payout addresses.
// The party role selects the table.
type PayoutWalletRepository struct {
	db *gorm.DB
}

func NewPayoutWalletRepository(db *gorm.DB) *PayoutWalletRepository {
	return &PayoutWalletRepository{db: db}
}

func payoutTable(role entities.PartyRole) interface{} {
	if role == entities.PartyBuyer {
		return &models.BuyerCryptoWallet{}
	}
	return &models.SellerCryptoWallet{}
}

func payoutTableName(role entities.PartyRole) string {
	if role == entities.PartyBuyer {
		return "buyer_crypto_wallets"
	}
	return "seller_crypto_wallets"
}

func (r *PayoutWalletRepository) Replace(ctx context.Context, role entities.PartyRole, w *entities.PayoutWallet) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("escrow_id = ?", w.EscrowID).Delete(payoutTable(role)).Error; err != nil {
		return err
	}

	row := models.PayoutWallet{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		EscrowID:  w.EscrowID,
		Currency:  w.Currency,
		Network:   w.Network,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if role == entities.PartyBuyer {
		return db.Create(&models.BuyerCryptoWallet{PayoutWallet: row}).Error
	}
	return db.Create(&models.SellerCryptoWallet{PayoutWallet: row}).Error
}

func (r *PayoutWalletRepository) GetByEscrow(ctx context.Context, role entities.PartyRole, escrowID uuid.UUID) (*entities.PayoutWallet, error) {
	var m models.PayoutWallet
	if err := GetDB(ctx, r.db).Table(payoutTableName(role)).Where("escrow_id = ?", escrowID).Take(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.PayoutWallet{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		EscrowID:  m.EscrowID,
		Currency:  m.Currency,
		Network:   m.Network,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
