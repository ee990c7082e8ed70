package usecases

import (
	"context"
	"strings"
	"time"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/domain/repositories"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustodialWalletUsecase manages the platform deposit addresses
type CustodialWalletUsecase struct {
	walletRepo repositories.CustodialWalletRepository
}

// NewCustodialWalletUsecase creates a new custodial wallet usecase
func NewCustodialWalletUsecase(walletRepo repositories.CustodialWalletRepository) *CustodialWalletUsecase {
	return &CustodialWalletUsecase{walletRepo: walletRepo}
}

func applyWalletInput(w *entities.CustodialWallet, input *entities.CustodialWalletInput) error {
	network := strings.ToLower(strings.TrimSpace(input.Network))
	address := strings.TrimSpace(input.Address)
	if !ValidAddress(network, address) {
		return domainerrors.BadRequest("invalid address for network " + network)
	}
	w.Label = strings.TrimSpace(input.Label)
	w.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	w.Network = network
	w.Address = ChecksumAddress(network, address)
	if input.IsActive != nil {
		w.IsActive = *input.IsActive
	}
	return nil
}

func (u *CustodialWalletUsecase) Create(ctx context.Context, actor entities.Actor, input *entities.CustodialWalletInput) (*entities.CustodialWallet, error) {
	now := time.Now()
	wallet := &entities.CustodialWallet{
		ID:        utils.GenerateUUIDv7(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyWalletInput(wallet, input); err != nil {
		return nil, err
	}
	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Custodial wallet created",
		zap.String("wallet_id", wallet.ID.String()),
		zap.String("by", actor.Email),
	)
	return wallet, nil
}

func (u *CustodialWalletUsecase) Update(ctx context.Context, actor entities.Actor, id uuid.UUID, input *entities.CustodialWalletInput) (*entities.CustodialWallet, error) {
	wallet, err := u.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyWalletInput(wallet, input); err != nil {
		return nil, err
	}
	wallet.UpdatedAt = time.Now()
	if err := u.walletRepo.Update(ctx, wallet); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Custodial wallet updated",
		zap.String("wallet_id", id.String()),
		zap.String("by", actor.Email),
	)
	return wallet, nil
}

func (u *CustodialWalletUsecase) Delete(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	if err := u.walletRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "Custodial wallet deleted",
		zap.String("wallet_id", id.String()),
		zap.String("by", actor.Email),
	)
	return nil
}

func (u *CustodialWalletUsecase) ListActive(ctx context.Context, currency string) ([]*entities.CustodialWallet, error) {
	return u.walletRepo.List(ctx, true, strings.ToUpper(strings.TrimSpace(currency)))
}

func (u *CustodialWalletUsecase) ListAll(ctx context.Context) ([]*entities.CustodialWallet, error) {
	return u.walletRepo.List(ctx, false, "")
}
