package repositories

import (
	"context"
	"encoding/json"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EscrowAuditRepository persists admin actions on escrows
type EscrowAuditRepository struct {
	db *gorm.DB
}

func NewEscrowAuditRepository(db *gorm.DB) *EscrowAuditRepository {
	return &EscrowAuditRepository{db: db}
}

func (r *EscrowAuditRepository) Create(ctx context.Context, entry *entities.EscrowAuditLog) error {
	m := &models.EscrowAuditLog{
		ID:        entry.ID,
		EscrowID:  entry.EscrowID,
		ActorID:   entry.ActorID,
		Action:    string(entry.Action),
		Before:    string(entry.Before),
		After:     string(entry.After),
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *EscrowAuditRepository) ListByEscrow(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowAuditLog, error) {
	var ms []models.EscrowAuditLog
	if err := GetDB(ctx, r.db).Where("escrow_id = ?", escrowID).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.EscrowAuditLog, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.EscrowAuditLog{
			ID:        m.ID,
			EscrowID:  m.EscrowID,
			ActorID:   m.ActorID,
			Action:    entities.EscrowAuditAction(m.Action),
			Before:    rawJSON(m.Before),
			After:     rawJSON(m.After),
			Note:      m.Note,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
