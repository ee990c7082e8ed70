package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	PasswordHash string    `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(20);not null;default:'CLIENT'"`
	KYCStatus    string    `gorm:"column:kyc_status;type:varchar(20);not null;default:'NOT_SUBMITTED'"`
	IsShadow     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

type KYCDocument struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DocumentType   string    `gorm:"type:varchar(32);not null"`
	DocumentNumber string    `gorm:"type:varchar(64);not null"`
	FullName       string    `gorm:"type:varchar(255);not null"`
	DateOfBirth    time.Time `gorm:"type:date;not null"`
	Country        string    `gorm:"type:varchar(2);not null"`
	DocumentURL    *string   `gorm:"column:document_url;type:text"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	ReviewNote     *string   `gorm:"type:text"`
	VerifiedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (KYCDocument) TableName() string {
	return "kyc_documents"
}
