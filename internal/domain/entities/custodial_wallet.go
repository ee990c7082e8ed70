package entities

import (
	"time"

	"github.com/google/uuid"
)

// CustodialWallet is a platform crypto address receiving deposits.
type CustodialWallet struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Currency  string    `json:"currency"`
	Network   string    `json:"network"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustodialWalletInput represents input for creating or updating a custodial wallet
type CustodialWalletInput struct {
	Label    string `json:"label" binding:"required,max=100"`
	Currency string `json:"currency" binding:"required,max=16"`
	Network  string `json:"network" binding:"required,max=32"`
	Address  string `json:"address" binding:"required,max=128"`
	IsActive *bool  `json:"isActive,omitempty"`
}
