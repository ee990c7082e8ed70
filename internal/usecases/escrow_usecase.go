package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/domain/repositories"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/metrics"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

const (
	MinConfirmationHours = 1
	MaxConfirmationHours = 720
	// ExpiryBatchSize bounds how many overdue escrows one sweep cancels.
	ExpiryBatchSize = 100
)

// EscrowSettings holds the business rules taken from configuration.
type EscrowSettings struct {
	RequireKYC             bool
	DefaultConfirmationTTL time.Duration
	FiatCurrencies         []string
	CryptoCurrencies       []string
}

// EscrowNotifier receives best-effort lifecycle notifications.
type EscrowNotifier interface {
	EscrowInvitation(ctx context.Context, e *entities.Escrow, inviterEmail string, counterpartyIsNew bool)
	FundingReported(ctx context.Context, e *entities.Escrow, role entities.PartyRole, reference string)
	EscrowReleased(ctx context.Context, e *entities.Escrow)
	EscrowCancelled(ctx context.Context, e *entities.Escrow, reason string)
}

// EscrowRepos groups the repositories the escrow lifecycle touches.
type EscrowRepos struct {
	Escrows          repositories.EscrowRepository
	Balances         repositories.EscrowBalanceRepository
	Audit            repositories.EscrowAuditRepository
	Users            repositories.UserRepository
	SellerBanks      repositories.SellerBankAccountRepository
	PayoutWallets    repositories.PayoutWalletRepository
	Banks            repositories.BankRepository
	CustodialWallets repositories.CustodialWalletRepository
}

// EscrowUsecase runs the escrow state machine and funding reconciliation.
type EscrowUsecase struct {
	uow      repositories.UnitOfWork
	repos    EscrowRepos
	notifier EscrowNotifier
	settings EscrowSettings
	fiat     map[string]struct{}
	crypto   map[string]struct{}
	now      func() time.Time
}

// NewEscrowUsecase creates a new escrow usecase
func NewEscrowUsecase(uow repositories.UnitOfWork, repos EscrowRepos, notifier EscrowNotifier, settings EscrowSettings) *EscrowUsecase {
	if settings.DefaultConfirmationTTL <= 0 {
		settings.DefaultConfirmationTTL = 72 * time.Hour
	}
	return &EscrowUsecase{
		uow:      uow,
		repos:    repos,
		notifier: notifier,
		settings: settings,
		fiat:     currencySet(settings.FiatCurrencies),
		crypto:   currencySet(settings.CryptoCurrencies),
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (u *EscrowUsecase) SetClock(now func() time.Time) {
	u.now = now
}

func currencySet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, c := range list {
		set[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	return set
}

func (u *EscrowUsecase) isFiat(currency string) bool {
	_, ok := u.fiat[currency]
	return ok
}

func (u *EscrowUsecase) isCrypto(currency string) bool {
	if len(u.crypto) == 0 {
		return currency != "" && !u.isFiat(currency)
	}
	_, ok := u.crypto[currency]
	return ok
}

func (u *EscrowUsecase) validateInitiate(initiator *entities.User, in *entities.InitiateEscrowInput) error {
	if !in.TradeType.Valid() {
		return domainerrors.BadRequest("unknown trade type")
	}
	if !in.InitiatorRole.Valid() {
		return domainerrors.BadRequest("initiator role must be BUYER or SELLER")
	}
	if !in.Amount.IsPositive() {
		return domainerrors.BadRequest("amount must be positive")
	}
	if !in.Price.IsPositive() {
		return domainerrors.BadRequest("price must be positive")
	}
	if strings.EqualFold(strings.TrimSpace(in.CounterpartyEmail), initiator.Email) {
		return domainerrors.BadRequest("counterparty must be a different user")
	}
	if in.ConfirmationHours != 0 && (in.ConfirmationHours < MinConfirmationHours || in.ConfirmationHours > MaxConfirmationHours) {
		return domainerrors.BadRequest("confirmationHours must be between 1 and 720")
	}

	from := strings.ToUpper(strings.TrimSpace(in.FromCurrency))
	to := strings.ToUpper(strings.TrimSpace(in.ToCurrency))
	switch in.TradeType {
	case entities.TradeCryptoToFiat:
		if !u.isCrypto(from) {
			return domainerrors.BadRequest("fromCurrency must be a supported cryptocurrency")
		}
		if !u.isFiat(to) {
			return domainerrors.BadRequest("toCurrency must be a supported fiat currency")
		}
	case entities.TradeCryptoToCrypto:
		if !u.isCrypto(from) || !u.isCrypto(to) {
			return domainerrors.BadRequest("both currencies must be supported cryptocurrencies")
		}
		if from == to {
			return domainerrors.BadRequest("fromCurrency and toCurrency must differ")
		}
	}
	return nil
}

// InitiateEscrow opens an escrow between the initiator and a counterparty
// identified by email, creating a shadow account when the email is unknown.
func (u *EscrowUsecase) InitiateEscrow(ctx context.Context, actor entities.Actor, in *entities.InitiateEscrowInput) (*entities.EscrowDetail, error) {
	initiator, err := u.repos.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := u.validateInitiate(initiator, in); err != nil {
		return nil, err
	}
	if u.settings.RequireKYC && initiator.KYCStatus != entities.KYCVerified {
		return nil, domainerrors.ErrKYCRequired
	}

	now := u.now()
	ttl := u.settings.DefaultConfirmationTTL
	if in.ConfirmationHours > 0 {
		ttl = time.Duration(in.ConfirmationHours) * time.Hour
	}

	escrow := &entities.Escrow{
		ID:                   utils.GenerateUUIDv7(),
		TradeType:            in.TradeType,
		InitiatorID:          initiator.ID,
		InitiatorRole:        in.InitiatorRole,
		FromCurrency:         strings.ToUpper(strings.TrimSpace(in.FromCurrency)),
		ToCurrency:           strings.ToUpper(strings.TrimSpace(in.ToCurrency)),
		Amount:               in.Amount,
		Price:                in.Price,
		Status:               entities.EscrowInitialized,
		ConfirmationDeadline: now.Add(ttl),
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		escrow.Description = null.StringFrom(d)
	}

	counterpartyEmail := strings.ToLower(strings.TrimSpace(in.CounterpartyEmail))
	counterpartyIsNew := false

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		counterparty, created, err := u.resolveCounterparty(txCtx, counterpartyEmail, now)
		if err != nil {
			return err
		}
		counterpartyIsNew = created || counterparty.IsShadow

		initiatorID := initiator.ID
		counterpartyID := counterparty.ID
		if in.InitiatorRole == entities.PartyBuyer {
			escrow.BuyerEmail, escrow.BuyerID = initiator.Email, &initiatorID
			escrow.SellerEmail, escrow.SellerID = counterparty.Email, &counterpartyID
		} else {
			escrow.SellerEmail, escrow.SellerID = initiator.Email, &initiatorID
			escrow.BuyerEmail, escrow.BuyerID = counterparty.Email, &counterpartyID
		}

		if err := u.repos.Escrows.Create(txCtx, escrow); err != nil {
			return err
		}
		if in.ReceptionDetails != nil {
			return u.saveReception(txCtx, escrow, in.InitiatorRole, initiator.ID, in.ReceptionDetails)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition("NONE", string(entities.EscrowInitialized))
	logger.Info(ctx, "Escrow initiated",
		zap.String("escrow_id", escrow.ID.String()),
		zap.String("trade_type", string(escrow.TradeType)),
	)
	u.notifier.EscrowInvitation(ctx, escrow, initiator.Email, counterpartyIsNew)

	return u.detail(ctx, escrow)
}

func (u *EscrowUsecase) resolveCounterparty(ctx context.Context, email string, now time.Time) (*entities.User, bool, error) {
	user, err := u.repos.Users.GetByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, err
	}

	shadow := &entities.User{
		ID:        utils.GenerateUUIDv7(),
		Email:     email,
		Name:      strings.SplitN(email, "@", 2)[0],
		Role:      entities.UserRoleClient,
		KYCStatus: entities.KYCNotSubmitted,
		IsShadow:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.repos.Users.Create(ctx, shadow); err != nil {
		return nil, false, err
	}
	return shadow, true, nil
}

// saveReception records where role is paid out: buyer to a BuyerCryptoWallet,
// crypto-to-fiat seller to a SellerBankAccount, crypto-to-crypto seller to a SellerCryptoWallet.
func (u *EscrowUsecase) saveReception(ctx context.Context, e *entities.Escrow, role entities.PartyRole, ownerID uuid.UUID, in *entities.ReceptionDetailsInput) error {
	now := u.now()
	currency := e.PayoutCurrency(role)

	if e.PayoutIsFiat(role) {
		if in.SellerBankAccountID != nil {
			account, err := u.repos.SellerBanks.GetByID(ctx, *in.SellerBankAccountID)
			if err != nil {
				return err
			}
			if account.OwnerID != ownerID {
				return domainerrors.Forbidden("bank account belongs to another user")
			}
			if !strings.EqualFold(account.Currency, currency) {
				return domainerrors.BadRequest("bank account currency must be " + currency)
			}
			if err := u.repos.SellerBanks.DetachEscrow(ctx, e.ID); err != nil {
				return err
			}
			escrowID := e.ID
			account.EscrowID = &escrowID
			return u.repos.SellerBanks.Update(ctx, account)
		}

		if strings.TrimSpace(in.BankName) == "" || strings.TrimSpace(in.AccountName) == "" || strings.TrimSpace(in.AccountNumber) == "" {
			return domainerrors.BadRequest("bankName, accountName and accountNumber are required for fiat payout")
		}
		if err := u.repos.SellerBanks.DetachEscrow(ctx, e.ID); err != nil {
			return err
		}
		escrowID := e.ID
		account := &entities.SellerBankAccount{
			ID:            utils.GenerateUUIDv7(),
			OwnerID:       ownerID,
			EscrowID:      &escrowID,
			BankName:      strings.TrimSpace(in.BankName),
			AccountName:   strings.TrimSpace(in.AccountName),
			AccountNumber: strings.TrimSpace(in.AccountNumber),
			Currency:      currency,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if in.RoutingNumber != "" {
			account.RoutingNumber = null.StringFrom(in.RoutingNumber)
		}
		if in.SwiftCode != "" {
			account.SwiftCode = null.StringFrom(strings.ToUpper(in.SwiftCode))
		}
		return u.repos.SellerBanks.Create(ctx, account)
	}

	network := strings.ToLower(strings.TrimSpace(in.Network))
	if network == "" || strings.TrimSpace(in.Address) == "" {
		return domainerrors.BadRequest("address and network are required for crypto payout")
	}
	if !ValidAddress(network, in.Address) {
		return domainerrors.BadRequest("invalid wallet address for network " + network)
	}
	return u.repos.PayoutWallets.Replace(ctx, role, &entities.PayoutWallet{
		ID:        utils.GenerateUUIDv7(),
		OwnerID:   ownerID,
		EscrowID:  e.ID,
		Currency:  currency,
		Network:   network,
		Address:   ChecksumAddress(network, in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// AddReceptionDetails stores or replaces the caller's payout details on an escrow.
func (u *EscrowUsecase) AddReceptionDetails(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, in *entities.ReceptionDetailsInput) (*entities.EscrowDetail, error) {
	var escrow *entities.Escrow
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		e, err := u.repos.Escrows.GetByID(u.uow.WithLock(txCtx), escrowID)
		if err != nil {
			return err
		}
		role, ok := e.RoleOf(actor.UserID, actor.Email)
		if !ok {
			return domainerrors.Forbidden("not a participant of this escrow")
		}
		if e.Status.IsTerminal() {
			return domainerrors.InvalidTransition("escrow is " + string(e.Status))
		}
		escrow = e
		return u.saveReception(txCtx, e, role, actor.UserID, in)
	})
	if err != nil {
		return nil, err
	}
	return u.detail(ctx, escrow)
}

// MarkAsFunded records a party's deposit report and advances the state derived
// from the two funding flags.
func (u *EscrowUsecase) MarkAsFunded(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, in *entities.FundEscrowInput) (*entities.Escrow, error) {
	if !in.Role.Valid() {
		return nil, domainerrors.BadRequest("role must be BUYER or SELLER")
	}

	var (
		escrow    *entities.Escrow
		previous  entities.EscrowStatus
		channel   entities.FundingChannel
		reference string
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		e, err := u.repos.Escrows.GetByID(u.uow.WithLock(txCtx), escrowID)
		if err != nil {
			return err
		}
		role, ok := e.RoleOf(actor.UserID, actor.Email)
		if !ok || role != in.Role {
			return domainerrors.Forbidden("you are not the " + strings.ToLower(string(in.Role)) + " of this escrow")
		}
		if e.Status.IsTerminal() {
			return domainerrors.InvalidTransition("escrow is " + string(e.Status))
		}
		now := u.now()
		if e.IsOverdue(now) {
			return domainerrors.ErrDeadlinePassed
		}
		if e.PartyFunded(role) {
			return domainerrors.ErrAlreadyFunded
		}

		amount := e.SideAmount(role)
		currency := e.DepositCurrency(role)

		if e.DepositIsFiat(role) {
			channel = entities.ChannelBank
			reference = strings.TrimSpace(in.WireReference)
			if reference == "" || in.BankID == nil {
				return domainerrors.BadRequest("wireReference and bankId are required for fiat funding")
			}
			bank, err := u.repos.Banks.GetByID(txCtx, *in.BankID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return domainerrors.BadRequest("unknown bank")
				}
				return err
			}
			if !bank.IsActive || !strings.EqualFold(bank.Currency, currency) {
				return domainerrors.BadRequest("bank must be active and accept " + currency)
			}
			if err := u.repos.Balances.CreateBank(txCtx, &entities.EscrowBankBalance{
				ID:            utils.GenerateUUIDv7(),
				EscrowID:      e.ID,
				PartyRole:     role,
				BankID:        bank.ID,
				WireReference: reference,
				Amount:        amount,
				Currency:      currency,
				CreatedAt:     now,
				UpdatedAt:     now,
			}); err != nil {
				return err
			}
		} else {
			channel = entities.ChannelCrypto
			reference = strings.TrimSpace(in.TransactionHash)
			if reference == "" || in.CustodialWalletID == nil {
				return domainerrors.BadRequest("transactionHash and custodialWalletId are required for crypto funding")
			}
			wallet, err := u.repos.CustodialWallets.GetByID(txCtx, *in.CustodialWalletID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return domainerrors.BadRequest("unknown custodial wallet")
				}
				return err
			}
			if !wallet.IsActive || !strings.EqualFold(wallet.Currency, currency) {
				return domainerrors.BadRequest("custodial wallet must be active and hold " + currency)
			}
			if !ValidTxHash(wallet.Network, reference) {
				return domainerrors.BadRequest("invalid transaction hash for network " + wallet.Network)
			}
			if err := u.repos.Balances.CreateCrypto(txCtx, &entities.EscrowCryptoWalletBalance{
				ID:                utils.GenerateUUIDv7(),
				EscrowID:          e.ID,
				PartyRole:         role,
				CustodialWalletID: wallet.ID,
				TransactionHash:   reference,
				Amount:            amount,
				Currency:          currency,
				CreatedAt:         now,
				UpdatedAt:         now,
			}); err != nil {
				return err
			}
		}

		actorID := actor.UserID
		if role == entities.PartyBuyer && e.BuyerID == nil {
			e.BuyerID = &actorID
		}
		if role == entities.PartySeller && e.SellerID == nil {
			e.SellerID = &actorID
		}

		previous = e.Status
		e.SetPartyFunded(role)
		next := e.FundedStatus()
		if next != previous && !previous.CanTransitionTo(next) {
			return domainerrors.InvalidTransition("cannot move from " + string(previous) + " to " + string(next))
		}
		e.Status = next
		if err := u.repos.Escrows.Update(txCtx, e); err != nil {
			return err
		}
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordFunding(string(in.Role), string(channel))
	metrics.RecordTransition(string(previous), string(escrow.Status))
	logger.Info(ctx, "Escrow funding reported",
		zap.String("escrow_id", escrow.ID.String()),
		zap.String("role", string(in.Role)),
		zap.String("status", string(escrow.Status)),
	)
	u.notifier.FundingReported(ctx, escrow, in.Role, reference)
	return escrow, nil
}

type adminSnapshot struct {
	Status                      entities.EscrowStatus `json:"status"`
	Amount                      decimal.Decimal       `json:"amount"`
	Price                       decimal.Decimal       `json:"price"`
	AdminConfirmedBuyerFunding  bool                  `json:"adminConfirmedBuyerFunding"`
	AdminConfirmedSellerFunding bool                  `json:"adminConfirmedSellerFunding"`
}

func snapshot(e *entities.Escrow) json.RawMessage {
	b, _ := json.Marshal(adminSnapshot{
		Status:                      e.Status,
		Amount:                      e.Amount,
		Price:                       e.Price,
		AdminConfirmedBuyerFunding:  e.AdminConfirmedBuyerFunding,
		AdminConfirmedSellerFunding: e.AdminConfirmedSellerFunding,
	})
	return b
}

func (u *EscrowUsecase) audit(ctx context.Context, e *entities.Escrow, actorID *uuid.UUID, action entities.EscrowAuditAction, before json.RawMessage, note string) error {
	return u.repos.Audit.Create(ctx, &entities.EscrowAuditLog{
		ID:        utils.GenerateUUIDv7(),
		EscrowID:  e.ID,
		ActorID:   actorID,
		Action:    action,
		Before:    before,
		After:     snapshot(e),
		Note:      note,
		CreatedAt: u.now(),
	})
}

// AdminUpdateEscrow applies admin confirmation toggles and amount corrections,
// cascading them into the funding records of the affected side.
func (u *EscrowUsecase) AdminUpdateEscrow(ctx context.Context, admin entities.Actor, escrowID uuid.UUID, in *entities.AdminUpdateEscrowInput) (*entities.EscrowDetail, error) {
	if in.IsEmpty() {
		return nil, domainerrors.BadRequest("nothing to update")
	}
	if in.Amount != nil && !in.Amount.IsPositive() {
		return nil, domainerrors.BadRequest("amount must be positive")
	}
	if in.Price != nil && !in.Price.IsPositive() {
		return nil, domainerrors.BadRequest("price must be positive")
	}

	var escrow *entities.Escrow
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		e, err := u.repos.Escrows.GetByID(u.uow.WithLock(txCtx), escrowID)
		if err != nil {
			return err
		}
		if e.Status.IsTerminal() {
			return domainerrors.InvalidTransition("escrow is " + string(e.Status))
		}
		before := snapshot(e)

		toggles := []struct {
			role  entities.PartyRole
			want  *bool
			state *bool
		}{
			{entities.PartyBuyer, in.AdminConfirmedBuyerFunding, &e.AdminConfirmedBuyerFunding},
			{entities.PartySeller, in.AdminConfirmedSellerFunding, &e.AdminConfirmedSellerFunding},
		}
		for _, t := range toggles {
			if t.want == nil || *t.want == *t.state {
				continue
			}
			// A confirmation must point at a funding record.
			if *t.want && !e.PartyFunded(t.role) {
				return domainerrors.InvalidTransition("the " + strings.ToLower(string(t.role)) + " has not reported funding yet")
			}
			*t.state = *t.want
			if err := u.repos.Balances.SetAdminConfirmed(txCtx, e.ID, t.role, *t.want); err != nil {
				return err
			}
		}

		amountChanged := false
		if in.Amount != nil && !in.Amount.Equal(e.Amount) {
			e.Amount = *in.Amount
			amountChanged = true
		}
		if in.Price != nil && !in.Price.Equal(e.Price) {
			e.Price = *in.Price
			amountChanged = true
		}
		if amountChanged {
			if err := u.repos.Balances.UpdateAmounts(txCtx, e.ID, entities.PartySeller, e.SideAmount(entities.PartySeller)); err != nil {
				return err
			}
			if err := u.repos.Balances.UpdateAmounts(txCtx, e.ID, entities.PartyBuyer, e.SideAmount(entities.PartyBuyer)); err != nil {
				return err
			}
		}

		if err := u.repos.Escrows.Update(txCtx, e); err != nil {
			return err
		}
		adminID := admin.UserID
		escrow = e
		return u.audit(txCtx, e, &adminID, entities.AuditAdminUpdate, before, in.Note)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Escrow updated by admin",
		zap.String("escrow_id", escrow.ID.String()),
		zap.String("admin_id", admin.UserID.String()),
	)
	return u.detail(ctx, escrow)
}

// ReleaseEscrow completes a fully funded escrow once an admin confirmed both deposits.
func (u *EscrowUsecase) ReleaseEscrow(ctx context.Context, admin entities.Actor, escrowID uuid.UUID) (*entities.Escrow, error) {
	var escrow *entities.Escrow
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		e, err := u.repos.Escrows.GetByID(u.uow.WithLock(txCtx), escrowID)
		if err != nil {
			return err
		}
		if !e.Status.CanTransitionTo(entities.EscrowReleased) {
			return domainerrors.InvalidTransition("only a completely funded escrow can be released")
		}
		if !e.AdminConfirmedBuyerFunding || !e.AdminConfirmedSellerFunding {
			return domainerrors.InvalidTransition("both deposits must be confirmed by an admin before release")
		}

		before := snapshot(e)
		e.Status = entities.EscrowReleased
		e.ReleasedAt = null.TimeFrom(u.now())
		if err := u.repos.Escrows.Update(txCtx, e); err != nil {
			return err
		}
		adminID := admin.UserID
		escrow = e
		return u.audit(txCtx, e, &adminID, entities.AuditRelease, before, "")
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(entities.EscrowCompletelyFunded), string(entities.EscrowReleased))
	logger.Info(ctx, "Escrow released", zap.String("escrow_id", escrow.ID.String()))
	u.notifier.EscrowReleased(ctx, escrow)
	return escrow, nil
}

// CancelEscrow cancels a non-terminal escrow. Admins may cancel at any stage;
// the initiator only before anyone has funded.
func (u *EscrowUsecase) CancelEscrow(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, reason string) (*entities.Escrow, error) {
	var (
		escrow   *entities.Escrow
		previous entities.EscrowStatus
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		e, err := u.repos.Escrows.GetByID(u.uow.WithLock(txCtx), escrowID)
		if err != nil {
			return err
		}
		if e.Status.IsTerminal() {
			return domainerrors.InvalidTransition("escrow is " + string(e.Status))
		}
		if !actor.IsAdmin() {
			if e.InitiatorID != actor.UserID {
				return domainerrors.Forbidden("only the initiator or an admin can cancel this escrow")
			}
			if e.Status != entities.EscrowInitialized {
				return domainerrors.InvalidTransition("funded escrows can only be cancelled by an admin")
			}
		}

		previous = e.Status
		before := snapshot(e)
		e.Status = entities.EscrowCancelled
		e.CancelledAt = null.TimeFrom(u.now())
		if err := u.repos.Escrows.Update(txCtx, e); err != nil {
			return err
		}
		escrow = e
		if actor.IsAdmin() {
			adminID := actor.UserID
			return u.audit(txCtx, e, &adminID, entities.AuditCancel, before, reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(previous), string(entities.EscrowCancelled))
	logger.Info(ctx, "Escrow cancelled",
		zap.String("escrow_id", escrow.ID.String()),
		zap.String("by", actor.UserID.String()),
	)
	u.notifier.EscrowCancelled(ctx, escrow, reason)
	return escrow, nil
}

// ExpireOverdue cancels escrows whose confirmation deadline passed before both
// parties funded. It returns how many were cancelled.
func (u *EscrowUsecase) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = ExpiryBatchSize
	}
	now := u.now()
	overdue, err := u.repos.Escrows.ListOverdue(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range overdue {
		var (
			escrow   *entities.Escrow
			previous entities.EscrowStatus
		)
		err := u.uow.Do(ctx, func(txCtx context.Context) error {
			e, err := u.repos.Escrows.GetByID(u.uow.WithLock(txCtx), candidate.ID)
			if err != nil {
				return err
			}
			// Re-checked under the lock: a late funding report may have completed it.
			if e.Status != entities.EscrowInitialized && e.Status != entities.EscrowOnePartyFunded {
				return nil
			}
			if !e.IsOverdue(now) {
				return nil
			}
			previous = e.Status
			before := snapshot(e)
			e.Status = entities.EscrowCancelled
			e.CancelledAt = null.TimeFrom(now)
			if err := u.repos.Escrows.Update(txCtx, e); err != nil {
				return err
			}
			escrow = e
			return u.audit(txCtx, e, nil, entities.AuditExpire, before, "confirmation deadline passed")
		})
		if err != nil {
			logger.Warn(ctx, "Failed to expire escrow",
				zap.String("escrow_id", candidate.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if escrow == nil {
			continue
		}
		expired++
		metrics.RecordTransition(string(previous), string(entities.EscrowCancelled))
		u.notifier.EscrowCancelled(ctx, escrow, "confirmation deadline passed")
	}
	return expired, nil
}

// GetEscrow returns an escrow with its funding records and payout details.
func (u *EscrowUsecase) GetEscrow(ctx context.Context, actor entities.Actor, escrowID uuid.UUID) (*entities.EscrowDetail, error) {
	e, err := u.repos.Escrows.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !e.IsParticipant(actor.UserID, actor.Email) {
		return nil, domainerrors.Forbidden("not a participant of this escrow")
	}
	return u.detail(ctx, e)
}

// ListMyEscrows lists escrows the caller takes part in.
func (u *EscrowUsecase) ListMyEscrows(ctx context.Context, actor entities.Actor, status entities.EscrowStatus, page utils.PaginationParams) ([]*entities.Escrow, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, domainerrors.BadRequest("unknown status")
	}
	userID := actor.UserID
	return u.repos.Escrows.List(ctx, entities.EscrowFilter{
		Status:           status,
		ParticipantID:    &userID,
		ParticipantEmail: actor.Email,
	}, page)
}

// ListEscrows lists every escrow for admins.
func (u *EscrowUsecase) ListEscrows(ctx context.Context, filter entities.EscrowFilter, page utils.PaginationParams) ([]*entities.Escrow, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domainerrors.BadRequest("unknown status")
	}
	return u.repos.Escrows.List(ctx, filter, page)
}

// ListAuditLog returns the admin history of an escrow.
func (u *EscrowUsecase) ListAuditLog(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowAuditLog, error) {
	if _, err := u.repos.Escrows.GetByID(ctx, escrowID); err != nil {
		return nil, err
	}
	return u.repos.Audit.ListByEscrow(ctx, escrowID)
}

func (u *EscrowUsecase) detail(ctx context.Context, e *entities.Escrow) (*entities.EscrowDetail, error) {
	d := &entities.EscrowDetail{Escrow: e, BuyerAmount: e.BuyerAmount()}

	var err error
	if d.BankBalances, err = u.repos.Balances.ListBank(ctx, e.ID); err != nil {
		return nil, err
	}
	if d.CryptoBalances, err = u.repos.Balances.ListCrypto(ctx, e.ID); err != nil {
		return nil, err
	}

	if e.PayoutIsFiat(entities.PartySeller) {
		account, err := u.repos.SellerBanks.GetByEscrow(ctx, e.ID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		d.SellerBankAccount = account
	} else {
		wallet, err := u.repos.PayoutWallets.GetByEscrow(ctx, entities.PartySeller, e.ID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		if wallet != nil {
			d.SellerCryptoWallet = &entities.SellerCryptoWallet{PayoutWallet: *wallet}
		}
	}

	wallet, err := u.repos.PayoutWallets.GetByEscrow(ctx, entities.PartyBuyer, e.ID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if wallet != nil {
		d.BuyerCryptoWallet = &entities.BuyerCryptoWallet{PayoutWallet: *wallet}
	}
	return d, nil
}
