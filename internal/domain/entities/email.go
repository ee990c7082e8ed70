package entities

// EmailKind labels a notification for metrics and logs.
type EmailKind string

const (
	EmailEscrowInvitation EmailKind = "escrow_invitation"
	EmailFundingReported  EmailKind = "funding_reported"
	EmailEscrowReleased   EmailKind = "escrow_released"
	EmailEscrowCancelled  EmailKind = "escrow_cancelled"
	EmailKYCVerified      EmailKind = "kyc_verified"
)

// EmailMessage is a plain-text notification waiting for delivery.
type EmailMessage struct {
	Kind    EmailKind `json:"kind"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
}
