package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SellerBankAccount holds a seller's fiat payout details.
type SellerBankAccount struct {
	ID            uuid.UUID   `json:"id"`
	OwnerID       uuid.UUID   `json:"ownerId"`
	EscrowID      *uuid.UUID  `json:"escrowId,omitempty"`
	BankName      string      `json:"bankName"`
	AccountName   string      `json:"accountName"`
	AccountNumber string      `json:"accountNumber"`
	RoutingNumber null.String `json:"routingNumber,omitempty"`
	SwiftCode     null.String `json:"swiftCode,omitempty"`
	Currency      string      `json:"currency"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// PayoutWallet is a counterparty crypto address bound to one escrow.
type PayoutWallet struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	EscrowID  uuid.UUID `json:"escrowId"`
	Currency  string    `json:"currency"`
	Network   string    `json:"network"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SellerCryptoWallet is where a seller of a crypto-to-crypto trade is paid.
type SellerCryptoWallet struct {
	PayoutWallet
}

// BuyerCryptoWallet is where the buyer receives the seller's crypto.
type BuyerCryptoWallet struct {
	PayoutWallet
}

// ReceptionDetailsInput is the payout destination a participant supplies.
// Crypto payouts use Address and Network; fiat payouts use the bank fields.
type ReceptionDetailsInput struct {
	Address       string `json:"address,omitempty" binding:"max=128"`
	Network       string `json:"network,omitempty" binding:"max=32"`
	BankName      string `json:"bankName,omitempty" binding:"max=255"`
	AccountName   string `json:"accountName,omitempty" binding:"max=255"`
	AccountNumber string `json:"accountNumber,omitempty" binding:"max=64"`
	RoutingNumber string `json:"routingNumber,omitempty" binding:"max=64"`
	SwiftCode     string `json:"swiftCode,omitempty" binding:"max=16"`
	// SellerBankAccountID reuses a saved payout account instead of the inline bank fields.
	SellerBankAccountID *uuid.UUID `json:"sellerBankAccountId,omitempty"`
}

// SellerBankAccountInput creates or replaces a saved payout account.
type SellerBankAccountInput struct {
	BankName      string `json:"bankName" binding:"required,max=255"`
	AccountName   string `json:"accountName" binding:"required,max=255"`
	AccountNumber string `json:"accountNumber" binding:"required,max=64"`
	RoutingNumber string `json:"routingNumber,omitempty" binding:"max=64"`
	SwiftCode     string `json:"swiftCode,omitempty" binding:"max=16"`
	Currency      string `json:"currency" binding:"required,max=16"`
}
