package models

import (
	"time"

	"github.com/google/uuid"
)

type Bank struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(255);not null"`
	AccountName   string    `gorm:"type:varchar(255);not null"`
	AccountNumber string    `gorm:"type:varchar(64);not null"`
	RoutingNumber *string   `gorm:"type:varchar(64)"`
	SwiftCode     *string   `gorm:"type:varchar(16)"`
	Currency      string    `gorm:"type:varchar(16);not null;index"`
	IsActive      bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CustodialWallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Label     string    `gorm:"type:varchar(100);not null"`
	Currency  string    `gorm:"type:varchar(16);not null;index"`
	Network   string    `gorm:"type:varchar(32);not null"`
	Address   string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
