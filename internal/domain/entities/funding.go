package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundingChannel identifies how a side was deposited.
type FundingChannel string

const (
	ChannelBank   FundingChannel = "BANK"
	ChannelCrypto FundingChannel = "CRYPTO"
)

// EscrowBankBalance records a fiat deposit wired to a platform bank account.
type EscrowBankBalance struct {
	ID             uuid.UUID       `json:"id"`
	EscrowID       uuid.UUID       `json:"escrowId"`
	PartyRole      PartyRole       `json:"partyRole"`
	BankID         uuid.UUID       `json:"bankId"`
	WireReference  string          `json:"wireReference"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	AdminConfirmed bool            `json:"adminConfirmed"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// EscrowCryptoWalletBalance records a crypto deposit sent to a custodial wallet.
type EscrowCryptoWalletBalance struct {
	ID                uuid.UUID       `json:"id"`
	EscrowID          uuid.UUID       `json:"escrowId"`
	PartyRole         PartyRole       `json:"partyRole"`
	CustodialWalletID uuid.UUID       `json:"custodialWalletId"`
	TransactionHash   string          `json:"transactionHash"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	AdminConfirmed    bool            `json:"adminConfirmed"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
