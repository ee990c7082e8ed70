package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestEscrowBalanceRepository_CascadeBySide(t *testing.T) {
	db := newTestDB(t)
	repo := NewEscrowBalanceRepository(db)
	ctx := context.Background()
	escrowID := uuid.New()
	now := time.Now()

	require.NoError(t, repo.CreateBank(ctx, &entities.EscrowBankBalance{
		ID: uuid.New(), EscrowID: escrowID, PartyRole: entities.PartyBuyer, BankID: uuid.New(),
		WireReference: "WIRE-1", Amount: decimal.RequireFromString("30000"), Currency: "USD",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.CreateCrypto(ctx, &entities.EscrowCryptoWalletBalance{
		ID: uuid.New(), EscrowID: escrowID, PartyRole: entities.PartySeller, CustodialWalletID: uuid.New(),
		TransactionHash: "0xabc", Amount: decimal.RequireFromString("0.5"), Currency: "BTC",
		CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, repo.SetAdminConfirmed(ctx, escrowID, entities.PartyBuyer, true))
	require.NoError(t, repo.UpdateAmounts(ctx, escrowID, entities.PartySeller, decimal.RequireFromString("0.75")))

	bank, err := repo.ListBank(ctx, escrowID)
	require.NoError(t, err)
	require.Len(t, bank, 1)
	require.True(t, bank[0].AdminConfirmed)
	require.True(t, bank[0].Amount.Equal(decimal.RequireFromString("30000")))

	crypto, err := repo.ListCrypto(ctx, escrowID)
	require.NoError(t, err)
	require.Len(t, crypto, 1)
	require.False(t, crypto[0].AdminConfirmed)
	require.True(t, crypto[0].Amount.Equal(decimal.RequireFromString("0.75")))

	empty, err := repo.ListBank(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestEscrowAuditRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewEscrowAuditRepository(db)
	ctx := context.Background()
	escrowID := uuid.New()
	admin := uuid.New()

	require.NoError(t, repo.Create(ctx, &entities.EscrowAuditLog{
		ID: uuid.New(), EscrowID: escrowID, ActorID: &admin, Action: entities.AuditAdminUpdate,
		Before: json.RawMessage(`{"amount":"1"}`), After: json.RawMessage(`{"amount":"2"}`),
		Note: "typo", CreatedAt: time.Now(),
	}))
	require.NoError(t, repo.Create(ctx, &entities.EscrowAuditLog{
		ID: uuid.New(), EscrowID: escrowID, Action: entities.AuditExpire, CreatedAt: time.Now().Add(time.Second),
	}))

	items, err := repo.ListByEscrow(ctx, escrowID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, admin, *items[0].ActorID)
	require.JSONEq(t, `{"amount":"2"}`, string(items[0].After))
	require.Nil(t, items[1].ActorID)
	require.Nil(t, items[1].Before)
}

func TestSellerBankAccountRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewSellerBankAccountRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	escrowID := uuid.New()
	now := time.Now()

	acct := &entities.SellerBankAccount{
		ID: uuid.New(), OwnerID: owner, EscrowID: &escrowID, BankName: "Chase", AccountName: "Sam Seller",
		AccountNumber: "000123", RoutingNumber: null.StringFrom("021000021"), Currency: "USD",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, acct))

	got, err := repo.GetByEscrow(ctx, escrowID)
	require.NoError(t, err)
	require.Equal(t, acct.ID, got.ID)
	require.Equal(t, "021000021", got.RoutingNumber.String)
	require.False(t, got.SwiftCode.Valid)

	acct.AccountName = "Samuel Seller"
	require.NoError(t, repo.Update(ctx, acct))
	got, err = repo.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, "Samuel Seller", got.AccountName)

	require.NoError(t, repo.DetachEscrow(ctx, escrowID))
	_, err = repo.GetByEscrow(ctx, escrowID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	list, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].EscrowID)

	require.NoError(t, repo.Delete(ctx, acct.ID))
	require.ErrorIs(t, repo.Delete(ctx, acct.ID), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, acct), domainerrors.ErrNotFound)
}

func TestPayoutWalletRepository_ReplacePerRole(t *testing.T) {
	db := newTestDB(t)
	repo := NewPayoutWalletRepository(db)
	ctx := context.Background()
	escrowID := uuid.New()
	owner := uuid.New()

	wallet := func(addr string) *entities.PayoutWallet {
		return &entities.PayoutWallet{
			ID: uuid.New(), OwnerID: owner, EscrowID: escrowID, Currency: "ETH", Network: "ethereum",
			Address: addr, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
	}

	require.NoError(t, repo.Replace(ctx, entities.PartyBuyer, wallet("0x1111111111111111111111111111111111111111")))
	require.NoError(t, repo.Replace(ctx, entities.PartyBuyer, wallet("0x2222222222222222222222222222222222222222")))

	got, err := repo.GetByEscrow(ctx, entities.PartyBuyer, escrowID)
	require.NoError(t, err)
	require.Equal(t, "0x2222222222222222222222222222222222222222", got.Address)

	var count int64
	require.NoError(t, db.Table("buyer_crypto_wallets").Count(&count).Error)
	require.Equal(t, int64(1), count)

	_, err = repo.GetByEscrow(ctx, entities.PartySeller, escrowID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBankRepository_CRUDAndFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewBankRepository(db)
	ctx := context.Background()
	now := time.Now()

	usd := &entities.Bank{ID: uuid.New(), Name: "Chase", AccountName: "Escrow LLC", AccountNumber: "1", Currency: "USD", IsActive: true, CreatedAt: now, UpdatedAt: now}
	eur := &entities.Bank{ID: uuid.New(), Name: "BNP", AccountName: "Escrow SAS", AccountNumber: "2", Currency: "EUR", IsActive: false, SwiftCode: null.StringFrom("BNPAFRPP"), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, usd))
	require.NoError(t, repo.Create(ctx, eur))

	active, err := repo.List(ctx, true, "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, usd.ID, active[0].ID)

	all, err := repo.List(ctx, false, "EUR")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "BNPAFRPP", all[0].SwiftCode.String)

	eur.IsActive = true
	require.NoError(t, repo.Update(ctx, eur))
	got, err := repo.GetByID(ctx, eur.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)

	require.NoError(t, repo.Delete(ctx, usd.ID))
	_, err = repo.GetByID(ctx, usd.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, usd), domainerrors.ErrNotFound)
}

func TestCustodialWalletRepository_CRUDAndFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustodialWalletRepository(db)
	ctx := context.Background()
	now := time.Now()

	w := &entities.CustodialWallet{ID: uuid.New(), Label: "hot", Currency: "ETH", Network: "ethereum", Address: "0x3333333333333333333333333333333333333333", IsActive: true, CreatedAt: now, UpdatedAt: now}
	off := &entities.CustodialWallet{ID: uuid.New(), Label: "cold", Currency: "BTC", Network: "bitcoin", Address: "bc1qexample", IsActive: false, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Create(ctx, off))

	active, err := repo.List(ctx, true, "")
	require.NoError(t, err)
	require.Len(t, active, 1)

	btc, err := repo.List(ctx, false, "BTC")
	require.NoError(t, err)
	require.Len(t, btc, 1)
	require.False(t, btc[0].IsActive)

	w.Label = "hot-2"
	require.NoError(t, repo.Update(ctx, w))
	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.Equal(t, "hot-2", got.Label)

	require.NoError(t, repo.Delete(ctx, w.ID))
	require.ErrorIs(t, repo.Delete(ctx, w.ID), domainerrors.ErrNotFound)
}

func TestKYCRepository_UpsertReviewList(t *testing.T) {
	db := newTestDB(t)
	repo := NewKYCRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	doc := &entities.KYCDocument{
		ID: uuid.New(), UserID: userID, DocumentType: entities.DocumentPassport, DocumentNumber: "P1",
		FullName: "Ada Trader", DateOfBirth: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), Country: "US",
		Status: entities.KYCRejected, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Upsert(ctx, doc))
	firstID := doc.ID

	resubmit := &entities.KYCDocument{
		ID: uuid.New(), UserID: userID, DocumentType: entities.DocumentNationalID, DocumentNumber: "N2",
		FullName: "Ada Trader", DateOfBirth: doc.DateOfBirth, Country: "US",
		Status: entities.KYCPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Upsert(ctx, resubmit))
	require.Equal(t, firstID, resubmit.ID)

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "N2", got.DocumentNumber)
	require.Equal(t, entities.KYCPending, got.Status)

	got.Status = entities.KYCVerified
	got.VerifiedAt = null.TimeFrom(time.Now())
	got.ReviewNote = null.StringFrom("ok")
	require.NoError(t, repo.Update(ctx, got))

	list, total, err := repo.List(ctx, entities.KYCVerified, paginate(1, 10))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	require.Equal(t, "ok", list[0].ReviewNote.String)
	require.True(t, list[0].VerifiedAt.Valid)

	_, err = repo.GetByUserID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, &entities.KYCDocument{ID: uuid.New()}), domainerrors.ErrNotFound)
}
