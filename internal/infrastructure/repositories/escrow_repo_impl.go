package repositories

import (
	"context"
	"strings"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/infrastructure/models"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscrowRepository implements escrow persistence with optimistic versioning
type EscrowRepository struct {
	db *gorm.DB
}

func NewEscrowRepository(db *gorm.DB) *EscrowRepository {
	return &EscrowRepository{db: db}
}

func (r *EscrowRepository) Create(ctx context.Context, e *entities.Escrow) error {
	if e.Version == 0 {
		e.Version = 1
	}
	m := r.toModel(e)
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *EscrowRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Escrow, error) {
	var m models.Escrow
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

func (r *EscrowRepository) Update(ctx context.Context, e *entities.Escrow) error {
	now := time.Now()
	result := GetDB(ctx, r.db).Model(&models.Escrow{}).
		Where("id = ? AND version = ?", e.ID, e.Version).
		Updates(map[string]interface{}{
			"buyer_id":                       e.BuyerID,
			"seller_id":                      e.SellerID,
			"amount":                         e.Amount,
			"price":                          e.Price,
			"description":                    e.Description.Ptr(),
			"status":                         string(e.Status),
			"buyer_confirmed_funding":        e.BuyerConfirmedFunding,
			"seller_confirmed_funding":       e.SellerConfirmedFunding,
			"admin_confirmed_buyer_funding":  e.AdminConfirmedBuyerFunding,
			"admin_confirmed_seller_funding": e.AdminConfirmedSellerFunding,
			"confirmation_deadline":          e.ConfirmationDeadline,
			"released_at":                    e.ReleasedAt.Ptr(),
			"cancelled_at":                   e.CancelledAt.Ptr(),
			"version":                        e.Version + 1,
			"updated_at":                     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).Model(&models.Escrow{}).Where("id = ?", e.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrConflict
	}
	e.Version++
	e.UpdatedAt = now
	return nil
}

func (r *EscrowRepository) List(ctx context.Context, filter entities.EscrowFilter, page utils.PaginationParams) ([]*entities.Escrow, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Escrow{})

	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.ParticipantID != nil || filter.ParticipantEmail != "" {
		email := strings.ToLower(filter.ParticipantEmail)
		id := uuid.Nil
		if filter.ParticipantID != nil {
			id = *filter.ParticipantID
		}
		query = query.Where("(buyer_id = ? OR seller_id = ? OR initiator_id = ? OR buyer_email = ? OR seller_email = ?)",
			id, id, id, email, email)
	}
	if filter.Search != "" {
		term := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		query = query.Where(`(buyer_email LIKE ? ESCAPE '\' OR seller_email LIKE ? ESCAPE '\')`, term, term)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Escrow
	if err := query.Order("created_at DESC").
		Limit(page.Limit).Offset(page.CalculateOffset()).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	escrows := make([]*entities.Escrow, 0, len(ms))
	for i := range ms {
		escrows = append(escrows, r.toEntity(&ms[i]))
	}
	return escrows, total, nil
}

// ListOverdue returns escrows past their deadline that never became completely funded.
func (r *EscrowRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*entities.Escrow, error) {
	var ms []models.Escrow
	if err := GetDB(ctx, r.db).
		Where("status IN ? AND confirmation_deadline < ?",
			[]string{string(entities.EscrowInitialized), string(entities.EscrowOnePartyFunded)}, now).
		Order("confirmation_deadline ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	escrows := make([]*entities.Escrow, 0, len(ms))
	for i := range ms {
		escrows = append(escrows, r.toEntity(&ms[i]))
	}
	return escrows, nil
}

func (r *EscrowRepository) LinkParticipant(ctx context.Context, email string, userID uuid.UUID) error {
	email = strings.ToLower(email)
	db := GetDB(ctx, r.db)
	if err := db.Model(&models.Escrow{}).
		Where("buyer_email = ? AND buyer_id IS NULL", email).
		Update("buyer_id", userID).Error; err != nil {
		return err
	}
	return db.Model(&models.Escrow{}).
		Where("seller_email = ? AND seller_id IS NULL", email).
		Update("seller_id", userID).Error
}

func (r *EscrowRepository) toModel(e *entities.Escrow) *models.Escrow {
	return &models.Escrow{
		ID:                          e.ID,
		TradeType:                   string(e.TradeType),
		InitiatorID:                 e.InitiatorID,
		InitiatorRole:               string(e.InitiatorRole),
		BuyerEmail:                  strings.ToLower(e.BuyerEmail),
		BuyerID:                     e.BuyerID,
		SellerEmail:                 strings.ToLower(e.SellerEmail),
		SellerID:                    e.SellerID,
		FromCurrency:                e.FromCurrency,
		ToCurrency:                  e.ToCurrency,
		Amount:                      e.Amount,
		Price:                       e.Price,
		Description:                 e.Description.Ptr(),
		Status:                      string(e.Status),
		BuyerConfirmedFunding:       e.BuyerConfirmedFunding,
		SellerConfirmedFunding:      e.SellerConfirmedFunding,
		AdminConfirmedBuyerFunding:  e.AdminConfirmedBuyerFunding,
		AdminConfirmedSellerFunding: e.AdminConfirmedSellerFunding,
		ConfirmationDeadline:        e.ConfirmationDeadline,
		ReleasedAt:                  e.ReleasedAt.Ptr(),
		CancelledAt:                 e.CancelledAt.Ptr(),
		Version:                     e.Version,
		CreatedAt:                   e.CreatedAt,
		UpdatedAt:                   e.UpdatedAt,
	}
}

func (r *EscrowRepository) toEntity(m *models.Escrow) *entities.Escrow {
	return &entities.Escrow{
		ID:                          m.ID,
		TradeType:                   entities.TradeType(m.TradeType),
		InitiatorID:                 m.InitiatorID,
		InitiatorRole:               entities.PartyRole(m.InitiatorRole),
		BuyerEmail:                  m.BuyerEmail,
		BuyerID:                     m.BuyerID,
		SellerEmail:                 m.SellerEmail,
		SellerID:                    m.SellerID,
		FromCurrency:                m.FromCurrency,
		ToCurrency:                  m.ToCurrency,
		Amount:                      m.Amount,
		Price:                       m.Price,
		Description:                 null.StringFromPtr(m.Description),
		Status:                      entities.EscrowStatus(m.Status),
		BuyerConfirmedFunding:       m.BuyerConfirmedFunding,
		SellerConfirmedFunding:      m.SellerConfirmedFunding,
		AdminConfirmedBuyerFunding:  m.AdminConfirmedBuyerFunding,
		AdminConfirmedSellerFunding: m.AdminConfirmedSellerFunding,
		ConfirmationDeadline:        m.ConfirmationDeadline,
		ReleasedAt:                  null.TimeFromPtr(m.ReleasedAt),
		CancelledAt:                 null.TimeFromPtr(m.CancelledAt),
		Version:                     m.Version,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
}
