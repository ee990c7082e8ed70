package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Bank is a platform receiving bank account for fiat deposits.
type Bank struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	AccountName   string      `json:"accountName"`
	AccountNumber string      `json:"accountNumber"`
	RoutingNumber null.String `json:"routingNumber,omitempty"`
	SwiftCode     null.String `json:"swiftCode,omitempty"`
	Currency      string      `json:"currency"`
	IsActive      bool        `json:"isActive"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// BankInput represents input for creating or updating a bank
type BankInput struct {
	Name          string `json:"name" binding:"required,max=255"`
	AccountName   string `json:"accountName" binding:"required,max=255"`
	AccountNumber string `json:"accountNumber" binding:"required,max=64"`
	RoutingNumber string `json:"routingNumber,omitempty" binding:"max=64"`
	SwiftCode     string `json:"swiftCode,omitempty" binding:"max=16"`
	Currency      string `json:"currency" binding:"required,max=16"`
	IsActive      *bool  `json:"isActive,omitempty"`
}
