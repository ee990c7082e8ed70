package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// KYCDocumentType enumerates accepted identity documents.
type KYCDocumentType string

const (
	DocumentPassport       KYCDocumentType = "PASSPORT"
	DocumentNationalID     KYCDocumentType = "NATIONAL_ID"
	DocumentDriversLicense KYCDocumentType = "DRIVERS_LICENSE"
)

// KYCDocument stores identity document metadata, one per user.
type KYCDocument struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	DocumentType   KYCDocumentType `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
	FullName       string          `json:"fullName"`
	DateOfBirth    time.Time       `json:"dateOfBirth"`
	Country        string          `json:"country"`
	DocumentURL    null.String     `json:"documentUrl,omitempty"`
	Status         KYCStatus       `json:"status"`
	ReviewNote     null.String     `json:"reviewNote,omitempty"`
	VerifiedAt     null.Time       `json:"verifiedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// SubmitKYCInput represents a KYC submission
type SubmitKYCInput struct {
	DocumentType   KYCDocumentType `json:"documentType" binding:"required,oneof=PASSPORT NATIONAL_ID DRIVERS_LICENSE"`
	DocumentNumber string          `json:"documentNumber" binding:"required,max=64"`
	FullName       string          `json:"fullName" binding:"required,max=255"`
	DateOfBirth    string          `json:"dateOfBirth" binding:"required"` // YYYY-MM-DD
	Country        string          `json:"country" binding:"required,len=2"`
	DocumentURL    string          `json:"documentUrl,omitempty" binding:"omitempty,url"`
}

// ReviewKYCInput is the admin decision on a submission.
type ReviewKYCInput struct {
	Status KYCStatus `json:"status" binding:"required,oneof=VERIFIED REJECTED"`
	Note   string    `json:"note,omitempty" binding:"max=500"`
}
