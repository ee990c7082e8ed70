package models

import (
	"time"

	"github.com/google/uuid"
)

type SellerBankAccount struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	EscrowID      *uuid.UUID `gorm:"type:uuid;index"`
	BankName      string     `gorm:"type:varchar(255);not null"`
	AccountName   string     `gorm:"type:varchar(255);not null"`
	AccountNumber string     `gorm:"type:varchar(64);not null"`
	RoutingNumber *string    `gorm:"type:varchar(64)"`
	SwiftCode     *string    `gorm:"type:varchar(16)"`
	Currency      string     `gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PayoutWallet holds the columns shared by the buyer and seller payout wallet tables.
type PayoutWallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EscrowID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Currency  string    `gorm:"type:varchar(16);not null"`
	Network   string    `gorm:"type:varchar(32);not null"`
	Address   string    `gorm:"type:varchar(128);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SellerCryptoWallet struct {
	PayoutWallet
}

type BuyerCryptoWallet struct {
	PayoutWallet
}
