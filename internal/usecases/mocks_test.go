package usecases_test

import (
	"context"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

// Mock EscrowRepository
type MockEscrowRepository struct {
	mock.Mock
}

func (m *MockEscrowRepository) Create(ctx context.Context, escrow *entities.Escrow) error {
	return m.Called(ctx, escrow).Error(0)
}

func (m *MockEscrowRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) Update(ctx context.Context, escrow *entities.Escrow) error {
	return m.Called(ctx, escrow).Error(0)
}

func (m *MockEscrowRepository) List(ctx context.Context, filter entities.EscrowFilter, page utils.PaginationParams) ([]*entities.Escrow, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*entities.Escrow), args.Get(1).(int64), args.Error(2)
}

func (m *MockEscrowRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*entities.Escrow, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*entities.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) LinkParticipant(ctx context.Context, email string, userID uuid.UUID) error {
	return m.Called(ctx, email, userID).Error(0)
}

// Mock EscrowBalanceRepository
type MockEscrowBalanceRepository struct {
	mock.Mock
}

func (m *MockEscrowBalanceRepository) CreateBank(ctx context.Context, b *entities.EscrowBankBalance) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockEscrowBalanceRepository) CreateCrypto(ctx context.Context, b *entities.EscrowCryptoWalletBalance) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockEscrowBalanceRepository) ListBank(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowBankBalance, error) {
	args := m.Called(ctx, escrowID)
	return args.Get(0).([]*entities.EscrowBankBalance), args.Error(1)
}

func (m *MockEscrowBalanceRepository) ListCrypto(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowCryptoWalletBalance, error) {
	args := m.Called(ctx, escrowID)
	return args.Get(0).([]*entities.EscrowCryptoWalletBalance), args.Error(1)
}

func (m *MockEscrowBalanceRepository) SetAdminConfirmed(ctx context.Context, escrowID uuid.UUID, role entities.PartyRole, confirmed bool) error {
	return m.Called(ctx, escrowID, role, confirmed).Error(0)
}

func (m *MockEscrowBalanceRepository) UpdateAmounts(ctx context.Context, escrowID uuid.UUID, role entities.PartyRole, amount decimal.Decimal) error {
	return m.Called(ctx, escrowID, role, amount).Error(0)
}

// Mock EscrowAuditRepository
type MockEscrowAuditRepository struct {
	mock.Mock
}

func (m *MockEscrowAuditRepository) Create(ctx context.Context, entry *entities.EscrowAuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEscrowAuditRepository) ListByEscrow(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowAuditLog, error) {
	args := m.Called(ctx, escrowID)
	return args.Get(0).([]*entities.EscrowAuditLog), args.Error(1)
}

// Mock SellerBankAccountRepository
type MockSellerBankAccountRepository struct {
	mock.Mock
}

func (m *MockSellerBankAccountRepository) Create(ctx context.Context, a *entities.SellerBankAccount) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockSellerBankAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SellerBankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SellerBankAccount), args.Error(1)
}

func (m *MockSellerBankAccountRepository) GetByEscrow(ctx context.Context, escrowID uuid.UUID) (*entities.SellerBankAccount, error) {
	args := m.Called(ctx, escrowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SellerBankAccount), args.Error(1)
}

func (m *MockSellerBankAccountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.SellerBankAccount, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*entities.SellerBankAccount), args.Error(1)
}

func (m *MockSellerBankAccountRepository) Update(ctx context.Context, a *entities.SellerBankAccount) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockSellerBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSellerBankAccountRepository) DetachEscrow(ctx context.Context, escrowID uuid.UUID) error {
	return m.Called(ctx, escrowID).Error(0)
}

// Mock PayoutWalletRepository
type MockPayoutWalletRepository struct {
	mock.Mock
}

func (m *MockPayoutWalletRepository) Replace(ctx context.Context, role entities.PartyRole, w *entities.PayoutWallet) error {
	return m.Called(ctx, role, w).Error(0)
}

func (m *MockPayoutWalletRepository) GetByEscrow(ctx context.Context, role entities.PartyRole, escrowID uuid.UUID) (*entities.PayoutWallet, error) {
	args := m.Called(ctx, role, escrowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayoutWallet), args.Error(1)
}

// Mock BankRepository
type MockBankRepository struct {
	mock.Mock
}

func (m *MockBankRepository) Create(ctx context.Context, b *entities.Bank) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBankRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Bank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bank), args.Error(1)
}

func (m *MockBankRepository) Update(ctx context.Context, b *entities.Bank) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBankRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBankRepository) List(ctx context.Context, activeOnly bool, currency string) ([]*entities.Bank, error) {
	args := m.Called(ctx, activeOnly, currency)
	return args.Get(0).([]*entities.Bank), args.Error(1)
}

// Mock CustodialWalletRepository
type MockCustodialWalletRepository struct {
	mock.Mock
}

func (m *MockCustodialWalletRepository) Create(ctx context.Context, w *entities.CustodialWallet) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockCustodialWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CustodialWallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CustodialWallet), args.Error(1)
}

func (m *MockCustodialWalletRepository) Update(ctx context.Context, w *entities.CustodialWallet) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockCustodialWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustodialWalletRepository) List(ctx context.Context, activeOnly bool, currency string) ([]*entities.CustodialWallet, error) {
	args := m.Called(ctx, activeOnly, currency)
	return args.Get(0).([]*entities.CustodialWallet), args.Error(1)
}

// Mock KYCRepository
type MockKYCRepository struct {
	mock.Mock
}

func (m *MockKYCRepository) Upsert(ctx context.Context, doc *entities.KYCDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockKYCRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.KYCDocument, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.KYCDocument), args.Error(1)
}

func (m *MockKYCRepository) Update(ctx context.Context, doc *entities.KYCDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockKYCRepository) List(ctx context.Context, status entities.KYCStatus, page utils.PaginationParams) ([]*entities.KYCDocument, int64, error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).([]*entities.KYCDocument), args.Get(1).(int64), args.Error(2)
}

// Mock notifier covering escrow and KYC notifications
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) EscrowInvitation(ctx context.Context, e *entities.Escrow, inviterEmail string, counterpartyIsNew bool) {
	m.Called(ctx, e, inviterEmail, counterpartyIsNew)
}

func (m *MockNotifier) FundingReported(ctx context.Context, e *entities.Escrow, role entities.PartyRole, reference string) {
	m.Called(ctx, e, role, reference)
}

func (m *MockNotifier) EscrowReleased(ctx context.Context, e *entities.Escrow) {
	m.Called(ctx, e)
}

func (m *MockNotifier) EscrowCancelled(ctx context.Context, e *entities.Escrow, reason string) {
	m.Called(ctx, e, reason)
}

func (m *MockNotifier) KYCVerified(ctx context.Context, user *entities.User) {
	m.Called(ctx, user)
}

// Mock EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg *entities.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}
