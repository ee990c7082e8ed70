package handlers

import (
	"context"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	args := m.Called(ctx, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	args := m.Called(ctx, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	if v := args.Get(0); v != nil {
		return v.(*entities.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	return m.Called(ctx, userID, input).Error(0)
}

func (m *mockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	args := m.Called(ctx, userID, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) SetRole(ctx context.Context, admin entities.Actor, id uuid.UUID, role entities.UserRole) (*entities.User, error) {
	args := m.Called(ctx, admin, id, role)
	if v := args.Get(0); v != nil {
		return v.(*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEscrowService struct{ mock.Mock }

func (m *mockEscrowService) InitiateEscrow(ctx context.Context, actor entities.Actor, in *entities.InitiateEscrowInput) (*entities.EscrowDetail, error) {
	args := m.Called(ctx, actor, in)
	if v := args.Get(0); v != nil {
		return v.(*entities.EscrowDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEscrowService) AddReceptionDetails(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, in *entities.ReceptionDetailsInput) (*entities.EscrowDetail, error) {
	args := m.Called(ctx, actor, escrowID, in)
	if v := args.Get(0); v != nil {
		return v.(*entities.EscrowDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEscrowService) MarkAsFunded(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, in *entities.FundEscrowInput) (*entities.Escrow, error) {
	args := m.Called(ctx, actor, escrowID, in)
	if v := args.Get(0); v != nil {
		return v.(*entities.Escrow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEscrowService) AdminUpdateEscrow(ctx context.Context, admin entities.Actor, escrowID uuid.UUID, in *entities.AdminUpdateEscrowInput) (*entities.EscrowDetail, error) {
	args := m.Called(ctx, admin, escrowID, in)
	if v := args.Get(0); v != nil {
		return v.(*entities.EscrowDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEscrowService) ReleaseEscrow(ctx context.Context, admin entities.Actor, escrowID uuid.UUID) (*entities.Escrow, error) {
	args := m.Called(ctx, admin, escrowID)
	if v := args.Get(0); v != nil {
		return v.(*entities.Escrow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEscrowService) CancelEscrow(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, reason string) (*entities.Escrow, error) {
	args := m.Called(ctx, actor, escrowID, reason)
	if v := args.Get(0); v != nil {
		return v.(*entities.Escrow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEscrowService) GetEscrow(ctx context.Context, actor entities.Actor, escrowID uuid.UUID) (*entities.EscrowDetail, error) {
	args := m.Called(ctx, actor, escrowID)
	if v := args.Get(0); v != nil {
		return v.(*entities.EscrowDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEscrowService) ListMyEscrows(ctx context.Context, actor entities.Actor, status entities.EscrowStatus, page utils.PaginationParams) ([]*entities.Escrow, int64, error) {
	args := m.Called(ctx, actor, status, page)
	return args.Get(0).([]*entities.Escrow), args.Get(1).(int64), args.Error(2)
}

func (m *mockEscrowService) ListEscrows(ctx context.Context, filter entities.EscrowFilter, page utils.PaginationParams) ([]*entities.Escrow, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*entities.Escrow), args.Get(1).(int64), args.Error(2)
}

func (m *mockEscrowService) ListAuditLog(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowAuditLog, error) {
	args := m.Called(ctx, escrowID)
	return args.Get(0).([]*entities.EscrowAuditLog), args.Error(1)
}

type mockKYCService struct{ mock.Mock }

func (m *mockKYCService) Submit(ctx context.Context, userID uuid.UUID, input *entities.SubmitKYCInput) (*entities.KYCDocument, error) {
	args := m.Called(ctx, userID, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.KYCDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKYCService) GetMine(ctx context.Context, userID uuid.UUID) (*entities.KYCDocument, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*entities.KYCDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKYCService) List(ctx context.Context, status entities.KYCStatus, page utils.PaginationParams) ([]*entities.KYCDocument, int64, error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).([]*entities.KYCDocument), args.Get(1).(int64), args.Error(2)
}

func (m *mockKYCService) Review(ctx context.Context, admin entities.Actor, userID uuid.UUID, input *entities.ReviewKYCInput) (*entities.KYCDocument, error) {
	args := m.Called(ctx, admin, userID, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.KYCDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBankService struct{ mock.Mock }

func (m *mockBankService) CreateBank(ctx context.Context, input *entities.BankInput) (*entities.Bank, error) {
	args := m.Called(ctx, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.Bank), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBankService) UpdateBank(ctx context.Context, id uuid.UUID, input *entities.BankInput) (*entities.Bank, error) {
	args := m.Called(ctx, id, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.Bank), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBankService) DeleteBank(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBankService) ListActive(ctx context.Context, currency string) ([]*entities.Bank, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).([]*entities.Bank), args.Error(1)
}

func (m *mockBankService) ListAll(ctx context.Context) ([]*entities.Bank, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Bank), args.Error(1)
}

type mockCustodialWalletService struct{ mock.Mock }

func (m *mockCustodialWalletService) Create(ctx context.Context, actor entities.Actor, input *entities.CustodialWalletInput) (*entities.CustodialWallet, error) {
	args := m.Called(ctx, actor, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.CustodialWallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustodialWalletService) Update(ctx context.Context, actor entities.Actor, id uuid.UUID, input *entities.CustodialWalletInput) (*entities.CustodialWallet, error) {
	args := m.Called(ctx, actor, id, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.CustodialWallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustodialWalletService) Delete(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockCustodialWalletService) ListActive(ctx context.Context, currency string) ([]*entities.CustodialWallet, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).([]*entities.CustodialWallet), args.Error(1)
}

func (m *mockCustodialWalletService) ListAll(ctx context.Context) ([]*entities.CustodialWallet, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.CustodialWallet), args.Error(1)
}

type mockSellerBankService struct{ mock.Mock }

func (m *mockSellerBankService) List(ctx context.Context, ownerID uuid.UUID) ([]*entities.SellerBankAccount, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*entities.SellerBankAccount), args.Error(1)
}

func (m *mockSellerBankService) Create(ctx context.Context, ownerID uuid.UUID, input *entities.SellerBankAccountInput) (*entities.SellerBankAccount, error) {
	args := m.Called(ctx, ownerID, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.SellerBankAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSellerBankService) Update(ctx context.Context, ownerID, id uuid.UUID, input *entities.SellerBankAccountInput) (*entities.SellerBankAccount, error) {
	args := m.Called(ctx, ownerID, id, input)
	if v := args.Get(0); v != nil {
		return v.(*entities.SellerBankAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSellerBankService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}
