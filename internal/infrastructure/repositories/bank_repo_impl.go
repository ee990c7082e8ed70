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

// BankRepository implements platform bank persistence
type BankRepository struct {
	db *gorm.DB
}

func NewBankRepository(db *gorm.DB) *BankRepository {
	return &BankRepository{db: db}
}

func (r *BankRepository) Create(ctx context.Context, b *entities.Bank) error {
	m := &models.Bank{
		ID:            b.ID,
		Name:          b.Name,
		AccountName:   b.AccountName,
		AccountNumber: b.AccountNumber,
		RoutingNumber: b.RoutingNumber.Ptr(),
		SwiftCode:     b.SwiftCode.Ptr(),
		Currency:      b.Currency,
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	// Select all columns so an inactive bank is not replaced by the column default.
	return GetDB(ctx, r.db).Select("*").Create(m).Error
}

func (r *BankRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Bank, error) {
	var m models.Bank
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

func (r *BankRepository) Update(ctx context.Context, b *entities.Bank) error {
	result := GetDB(ctx, r.db).Model(&models.Bank{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":           b.Name,
		"account_name":   b.AccountName,
		"account_number": b.AccountNumber,
		"routing_number": b.RoutingNumber.Ptr(),
		"swift_code":     b.SwiftCode.Ptr(),
		"currency":       b.Currency,
		"is_active":      b.IsActive,
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

func (r *BankRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Bank{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *BankRepository) List(ctx context.Context, activeOnly bool, currency string) ([]*entities.Bank, error) {
	query := GetDB(ctx, r.db).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if currency != "" {
		query = query.Where("currency = ?", currency)
	}

	var ms []models.Bank
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Bank, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

func (r *BankRepository) toEntity(m *models.Bank) *entities.Bank {
	return &entities.Bank{
		ID:            m.ID,
		Name:          m.Name,
		AccountName:   m.AccountName,
		AccountNumber: m.AccountNumber,
		RoutingNumber: null.StringFromPtr(m.RoutingNumber),
		SwiftCode:     null.StringFromPtr(m.SwiftCode),
		Currency:      m.Currency,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// CustodialWalletRepository implements custodial wallet persistence
type CustodialWalletRepository struct {
	db *gorm.DB
}

func NewCustodialWalletRepository(db *gorm.DB) *CustodialWalletRepository {
	return &CustodialWalletRepository{db: db}
}

func (r *CustodialWalletRepository) Create(ctx context.Context, w *entities.CustodialWallet) error {
	m := &models.CustodialWallet{
		ID:        w.ID,
		Label:     w.Label,
		Currency:  w.Currency,
		Network:   w.Network,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	return GetDB(ctx, r.db).Select("*").Create(m).Error
}

func (r *CustodialWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CustodialWallet, error) {
	var m models.CustodialWallet
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

func (r *CustodialWalletRepository) Update(ctx context.Context, w *entities.CustodialWallet) error {
	result := GetDB(ctx, r.db).Model(&models.CustodialWallet{}).Where("id = ?", w.ID).Updates(map[string]interface{}{
		"label":      w.Label,
		"currency":   w.Currency,
		"network":    w.Network,
		"address":    w.Address,
		"is_active":  w.IsActive,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CustodialWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.CustodialWallet{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CustodialWalletRepository) List(ctx context.Context, activeOnly bool, currency string) ([]*entities.CustodialWallet, error) {
	query := GetDB(ctx, r.db).Order("currency ASC, label ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if currency != "" {
		query = query.Where("currency = ?", currency)
	}

	var ms []models.CustodialWallet
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.CustodialWallet, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

func (r *CustodialWalletRepository) toEntity(m *models.CustodialWallet) *entities.CustodialWallet {
	return &entities.CustodialWallet{
		ID:        m.ID,
		Label:     m.Label,
		Currency:  m.Currency,
		Network:   m.Network,
		Address:   m.Address,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
