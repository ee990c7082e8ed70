package repositories

import (
	"context"
	"errors"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/infrastructure/models"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// KYCRepository implements KYC document persistence
type KYCRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) *KYCRepository {
	return &KYCRepository{db: db}
}

// Upsert keeps one row per user: a resubmission overwrites the existing row and its id is kept.
func (r *KYCRepository) Upsert(ctx context.Context, doc *entities.KYCDocument) error {
	db := GetDB(ctx, r.db)

	var existing models.KYCDocument
	err := db.Where("user_id = ?", doc.UserID).First(&existing).Error
	switch {
	case err == nil:
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
		m := r.toModel(doc)
		m.UpdatedAt = time.Now()
		return db.Save(m).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(r.toModel(doc)).Error
	default:
		return err
	}
}

func (r *KYCRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.KYCDocument, error) {
	var m models.KYCDocument
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

func (r *KYCRepository) Update(ctx context.Context, doc *entities.KYCDocument) error {
	result := GetDB(ctx, r.db).Model(&models.KYCDocument{}).Where("id = ?", doc.ID).Updates(map[string]interface{}{
		"status":      string(doc.Status),
		"review_note": doc.ReviewNote.Ptr(),
		"verified_at": doc.VerifiedAt.Ptr(),
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *KYCRepository) List(ctx context.Context, status entities.KYCStatus, page utils.PaginationParams) ([]*entities.KYCDocument, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.KYCDocument{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.KYCDocument
	if err := query.Order("updated_at DESC").
		Limit(page.Limit).Offset(page.CalculateOffset()).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.KYCDocument, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, total, nil
}

func (r *KYCRepository) toModel(d *entities.KYCDocument) *models.KYCDocument {
	return &models.KYCDocument{
		ID:             d.ID,
		UserID:         d.UserID,
		DocumentType:   string(d.DocumentType),
		DocumentNumber: d.DocumentNumber,
		FullName:       d.FullName,
		DateOfBirth:    d.DateOfBirth,
		Country:        d.Country,
		DocumentURL:    d.DocumentURL.Ptr(),
		Status:         string(d.Status),
		ReviewNote:     d.ReviewNote.Ptr(),
		VerifiedAt:     d.VerifiedAt.Ptr(),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *KYCRepository) toEntity(m *models.KYCDocument) *entities.KYCDocument {
	return &entities.KYCDocument{
		ID:             m.ID,
		UserID:         m.UserID,
		DocumentType:   entities.KYCDocumentType(m.DocumentType),
		DocumentNumber: m.DocumentNumber,
		FullName:       m.FullName,
		DateOfBirth:    m.DateOfBirth,
		Country:        m.Country,
		DocumentURL:    null.StringFromPtr(m.DocumentURL),
		Status:         entities.KYCStatus(m.Status),
		ReviewNote:     null.StringFromPtr(m.ReviewNote),
		VerifiedAt:     null.TimeFromPtr(m.VerifiedAt),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
