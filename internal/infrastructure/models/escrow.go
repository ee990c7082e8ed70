package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Escrow struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TradeType     string          `gorm:"type:varchar(32);not null"`
	InitiatorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	InitiatorRole string          `gorm:"type:varchar(10);not null"`
	BuyerEmail    string          `gorm:"type:varchar(255);not null;index"`
	BuyerID       *uuid.UUID      `gorm:"type:uuid;index"`
	SellerEmail   string          `gorm:"type:varchar(255);not null;index"`
	SellerID      *uuid.UUID      `gorm:"type:uuid;index"`
	FromCurrency  string          `gorm:"type:varchar(16);not null"`
	ToCurrency    string          `gorm:"type:varchar(16);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(36,18);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(36,18);not null"`
	Description   *string         `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(32);not null;index"`

	BuyerConfirmedFunding       bool `gorm:"not null;default:false"`
	SellerConfirmedFunding      bool `gorm:"not null;default:false"`
	AdminConfirmedBuyerFunding  bool `gorm:"not null;default:false"`
	AdminConfirmedSellerFunding bool `gorm:"not null;default:false"`

	ConfirmationDeadline time.Time `gorm:"not null;index"`
	ReleasedAt           *time.Time
	CancelledAt          *time.Time
	Version              int `gorm:"not null;default:1"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type EscrowBankBalance struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EscrowID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartyRole      string          `gorm:"type:varchar(10);not null"`
	BankID         uuid.UUID       `gorm:"type:uuid;not null"`
	WireReference  string          `gorm:"type:varchar(255);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(36,18);not null"`
	Currency       string          `gorm:"type:varchar(16);not null"`
	AdminConfirmed bool            `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (EscrowBankBalance) TableName() string {
	return "escrow_bank_balances"
}

type EscrowCryptoWalletBalance struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EscrowID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartyRole         string          `gorm:"type:varchar(10);not null"`
	CustodialWalletID uuid.UUID       `gorm:"type:uuid;not null"`
	TransactionHash   string          `gorm:"type:varchar(128);not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(36,18);not null"`
	Currency          string          `gorm:"type:varchar(16);not null"`
	AdminConfirmed    bool            `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (EscrowCryptoWalletBalance) TableName() string {
	return "escrow_crypto_wallet_balances"
}

type EscrowAuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EscrowID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	Action    string     `gorm:"type:varchar(32);not null"`
	Before    string     `gorm:"type:text"`
	After     string     `gorm:"type:text"`
	Note      string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"index"`
}
