package repositories

import (
	"context"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
)

// KYCRepository defines KYC document operations
type KYCRepository interface {
	// Upsert creates or replaces the single document of doc.UserID.
	Upsert(ctx context.Context, doc *entities.KYCDocument) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.KYCDocument, error)
	Update(ctx context.Context, doc *entities.KYCDocument) error
	List(ctx context.Context, status entities.KYCStatus, page utils.PaginationParams) ([]*entities.KYCDocument, int64, error)
}
