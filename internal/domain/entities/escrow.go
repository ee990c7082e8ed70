package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TradeType distinguishes what the buyer deposits.
type TradeType string

const (
	TradeCryptoToCrypto TradeType = "CRYPTO_TO_CRYPTO"
	TradeCryptoToFiat   TradeType = "CRYPTO_TO_FIAT"
)

// Valid reports whether t is a known trade type.
func (t TradeType) Valid() bool {
	return t == TradeCryptoToCrypto || t == TradeCryptoToFiat
}

// PartyRole is the side of an escrow a participant is on.
type PartyRole string

const (
	PartyBuyer  PartyRole = "BUYER"
	PartySeller PartyRole = "SELLER"
)

// Valid reports whether r is BUYER or SELLER.
func (r PartyRole) Valid() bool {
	return r == PartyBuyer || r == PartySeller
}

// Counterparty returns the opposite role.
func (r PartyRole) Counterparty() PartyRole {
	if r == PartyBuyer {
		return PartySeller
	}
	return PartyBuyer
}

// EscrowStatus represents the escrow lifecycle state
type EscrowStatus string

const (
	EscrowInitialized      EscrowStatus = "INITIALIZED"
	EscrowOnePartyFunded   EscrowStatus = "ONE_PARTY_FUNDED"
	EscrowCompletelyFunded EscrowStatus = "COMPLETELY_FUNDED"
	EscrowReleased         EscrowStatus = "RELEASED"
	EscrowCancelled        EscrowStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible.
func (s EscrowStatus) IsTerminal() bool {
	return s == EscrowReleased || s == EscrowCancelled
}

// Valid reports whether s is a known status.
func (s EscrowStatus) Valid() bool {
	switch s {
	case EscrowInitialized, EscrowOnePartyFunded, EscrowCompletelyFunded, EscrowReleased, EscrowCancelled:
		return true
	}
	return false
}

var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowInitialized:      {EscrowOnePartyFunded, EscrowCompletelyFunded, EscrowCancelled},
	EscrowOnePartyFunded:   {EscrowCompletelyFunded, EscrowCancelled},
	EscrowCompletelyFunded: {EscrowReleased, EscrowCancelled},
}

// CanTransitionTo reports whether moving from s to next is a forward edge of the lifecycle.
func (s EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	for _, allowed := range escrowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	FiatScale   int32 = 2
	CryptoScale int32 = 8
)

// Escrow represents a brokered two-party exchange
type Escrow struct {
	ID            uuid.UUID  `json:"id"`
	TradeType     TradeType  `json:"tradeType"`
	InitiatorID   uuid.UUID  `json:"initiatorId"`
	InitiatorRole PartyRole  `json:"initiatorRole"`
	BuyerEmail    string     `json:"buyerEmail"`
	BuyerID       *uuid.UUID `json:"buyerId,omitempty"`
	SellerEmail   string     `json:"sellerEmail"`
	SellerID      *uuid.UUID `json:"sellerId,omitempty"`
	// FromCurrency is deposited by the seller and received by the buyer.
	FromCurrency string `json:"fromCurrency"`
	// ToCurrency is deposited by the buyer and received by the seller.
	ToCurrency  string          `json:"toCurrency"`
	Amount      decimal.Decimal `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	Description null.String     `json:"description,omitempty"`
	Status      EscrowStatus    `json:"status"`

	BuyerConfirmedFunding       bool `json:"buyerConfirmedFunding"`
	SellerConfirmedFunding      bool `json:"sellerConfirmedFunding"`
	AdminConfirmedBuyerFunding  bool `json:"adminConfirmedBuyerFunding"`
	AdminConfirmedSellerFunding bool `json:"adminConfirmedSellerFunding"`

	ConfirmationDeadline time.Time `json:"confirmationDeadline"`
	ReleasedAt           null.Time `json:"releasedAt,omitempty"`
	CancelledAt          null.Time `json:"cancelledAt,omitempty"`
	Version              int       `json:"version"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// BuyerAmount is amount × price rounded to the scale of ToCurrency.
func (e *Escrow) BuyerAmount() decimal.Decimal {
	scale := CryptoScale
	if e.TradeType == TradeCryptoToFiat {
		scale = FiatScale
	}
	return e.Amount.Mul(e.Price).Round(scale)
}

// SideAmount is what the given party deposits.
func (e *Escrow) SideAmount(role PartyRole) decimal.Decimal {
	if role == PartyBuyer {
		return e.BuyerAmount()
	}
	return e.Amount
}

// DepositCurrency is the currency the given party deposits.
func (e *Escrow) DepositCurrency(role PartyRole) string {
	if role == PartyBuyer {
		return e.ToCurrency
	}
	return e.FromCurrency
}

// PayoutCurrency is the currency the given party receives.
func (e *Escrow) PayoutCurrency(role PartyRole) string {
	return e.DepositCurrency(role.Counterparty())
}

// DepositIsFiat reports whether the given party funds through a bank wire.
func (e *Escrow) DepositIsFiat(role PartyRole) bool {
	return e.TradeType == TradeCryptoToFiat && role == PartyBuyer
}

// PayoutIsFiat reports whether the given party is paid out to a bank account.
func (e *Escrow) PayoutIsFiat(role PartyRole) bool {
	return e.TradeType == TradeCryptoToFiat && role == PartySeller
}

// PartyFunded reports the self-reported funding flag of a side.
func (e *Escrow) PartyFunded(role PartyRole) bool {
	if role == PartyBuyer {
		return e.BuyerConfirmedFunding
	}
	return e.SellerConfirmedFunding
}

// SetPartyFunded sets the self-reported funding flag of a side.
func (e *Escrow) SetPartyFunded(role PartyRole) {
	if role == PartyBuyer {
		e.BuyerConfirmedFunding = true
		return
	}
	e.SellerConfirmedFunding = true
}

// FundedStatus derives the funding stage from the two party flags.
func (e *Escrow) FundedStatus() EscrowStatus {
	switch {
	case e.BuyerConfirmedFunding && e.SellerConfirmedFunding:
		return EscrowCompletelyFunded
	case e.BuyerConfirmedFunding || e.SellerConfirmedFunding:
		return EscrowOnePartyFunded
	}
	return EscrowInitialized
}

// EmailOf returns the email recorded for a side.
func (e *Escrow) EmailOf(role PartyRole) string {
	if role == PartyBuyer {
		return e.BuyerEmail
	}
	return e.SellerEmail
}

// RoleOf resolves which side the user is on, matching by id first and by email
// for participants whose account was claimed after the escrow was created.
func (e *Escrow) RoleOf(userID uuid.UUID, email string) (PartyRole, bool) {
	if e.BuyerID != nil && *e.BuyerID == userID {
		return PartyBuyer, true
	}
	if e.SellerID != nil && *e.SellerID == userID {
		return PartySeller, true
	}
	if email != "" {
		if strings.EqualFold(e.BuyerEmail, email) {
			return PartyBuyer, true
		}
		if strings.EqualFold(e.SellerEmail, email) {
			return PartySeller, true
		}
	}
	return "", false
}

// IsParticipant reports whether the user is the buyer or the seller.
func (e *Escrow) IsParticipant(userID uuid.UUID, email string) bool {
	_, ok := e.RoleOf(userID, email)
	return ok
}

// IsOverdue reports whether the confirmation deadline has passed.
func (e *Escrow) IsOverdue(now time.Time) bool {
	return !e.ConfirmationDeadline.IsZero() && now.After(e.ConfirmationDeadline)
}

// EscrowDetail bundles an escrow with its funding records and payout details.
type EscrowDetail struct {
	*Escrow
	BuyerAmount        decimal.Decimal              `json:"buyerAmount"`
	BankBalances       []*EscrowBankBalance         `json:"bankBalances"`
	CryptoBalances     []*EscrowCryptoWalletBalance `json:"cryptoBalances"`
	SellerBankAccount  *SellerBankAccount           `json:"sellerBankAccount,omitempty"`
	SellerCryptoWallet *SellerCryptoWallet          `json:"sellerCryptoWallet,omitempty"`
	BuyerCryptoWallet  *BuyerCryptoWallet           `json:"buyerCryptoWallet,omitempty"`
}

// InitiateEscrowInput represents input for starting an escrow
type InitiateEscrowInput struct {
	TradeType         TradeType              `json:"tradeType" binding:"required,oneof=CRYPTO_TO_CRYPTO CRYPTO_TO_FIAT"`
	InitiatorRole     PartyRole              `json:"initiatorRole" binding:"required,oneof=BUYER SELLER"`
	CounterpartyEmail string                 `json:"counterpartyEmail" binding:"required,email"`
	FromCurrency      string                 `json:"fromCurrency" binding:"required,max=16"`
	ToCurrency        string                 `json:"toCurrency" binding:"required,max=16"`
	Amount            decimal.Decimal        `json:"amount"`
	Price             decimal.Decimal        `json:"price"`
	Description       string                 `json:"description,omitempty" binding:"max=1000"`
	ConfirmationHours int                    `json:"confirmationHours,omitempty" binding:"omitempty,min=1,max=720"`
	ReceptionDetails  *ReceptionDetailsInput `json:"receptionDetails,omitempty"`
}

// FundEscrowInput is a party's report that it has deposited its side.
type FundEscrowInput struct {
	Role              PartyRole  `json:"role" binding:"required,oneof=BUYER SELLER"`
	TransactionHash   string     `json:"transactionHash,omitempty"`
	CustodialWalletID *uuid.UUID `json:"custodialWalletId,omitempty"`
	WireReference     string     `json:"wireReference,omitempty"`
	BankID            *uuid.UUID `json:"bankId,omitempty"`
}

// AdminUpdateEscrowInput carries admin overrides; nil fields are left untouched.
type AdminUpdateEscrowInput struct {
	AdminConfirmedBuyerFunding  *bool            `json:"adminConfirmedBuyerFunding,omitempty"`
	AdminConfirmedSellerFunding *bool            `json:"adminConfirmedSellerFunding,omitempty"`
	Amount                      *decimal.Decimal `json:"amount,omitempty"`
	Price                       *decimal.Decimal `json:"price,omitempty"`
	Note                        string           `json:"note,omitempty" binding:"max=500"`
}

// IsEmpty reports whether the update changes nothing.
func (in *AdminUpdateEscrowInput) IsEmpty() bool {
	return in.AdminConfirmedBuyerFunding == nil && in.AdminConfirmedSellerFunding == nil &&
		in.Amount == nil && in.Price == nil
}

// CancelEscrowInput optionally explains a cancellation.
type CancelEscrowInput struct {
	Reason string `json:"reason,omitempty" binding:"max=500"`
}

// EscrowFilter narrows escrow listings.
type EscrowFilter struct {
	Status EscrowStatus
	// ParticipantID and ParticipantEmail restrict results to one user's escrows.
	ParticipantID    *uuid.UUID
	ParticipantEmail string
	// Search matches buyer or seller email.
	Search string
}
