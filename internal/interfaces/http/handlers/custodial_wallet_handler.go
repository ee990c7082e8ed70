package handlers

import (
	"context"
	"net/http"
	"strings"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/interfaces/http/response"
	"escrow-broker.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type custodialWalletService interface {
	Create(ctx context.Context, actor entities.Actor, input *entities.CustodialWalletInput) (*entities.CustodialWallet, error)
	Update(ctx context.Context, actor entities.Actor, id uuid.UUID, input *entities.CustodialWalletInput) (*entities.CustodialWallet, error)
	Delete(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	ListActive(ctx context.Context, currency string) ([]*entities.CustodialWallet, error)
	ListAll(ctx context.Context) ([]*entities.CustodialWallet, error)
}

// CustodialWalletHandler handles platform deposit wallet endpoints
type CustodialWalletHandler struct {
	walletUsecase custodialWalletService
}

// NewCustodialWalletHandler creates a new custodial wallet handler
func NewCustodialWalletHandler(walletUsecase *usecases.CustodialWalletUsecase) *CustodialWalletHandler {
	return &CustodialWalletHandler{walletUsecase: walletUsecase}
}

// ListActive GET /api/v1/custodial-wallets?currency=
func (h *CustodialWalletHandler) ListActive(c *gin.Context) {
	wallets, err := h.walletUsecase.ListActive(c.Request.Context(), strings.ToUpper(strings.TrimSpace(c.Query("currency"))))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, wallets)
}

// ListAll GET /api/v1/custodial-wallets/admin
func (h *CustodialWalletHandler) ListAll(c *gin.Context) {
	wallets, err := h.walletUsecase.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, wallets)
}

// Create POST /api/v1/custodial-wallets
func (h *CustodialWalletHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var input entities.CustodialWalletInput
	if !bindJSON(c, &input) {
		return
	}
	wallet, err := h.walletUsecase.Create(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, wallet)
}

// Update PUT /api/v1/custodial-wallets/:id
func (h *CustodialWalletHandler) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "wallet")
	if !ok {
		return
	}
	var input entities.CustodialWalletInput
	if !bindJSON(c, &input) {
		return
	}
	wallet, err := h.walletUsecase.Update(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, wallet)
}

// Delete DELETE /api/v1/custodial-wallets/:id
func (h *CustodialWalletHandler) Delete(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "wallet")
	if !ok {
		return
	}
	if err := h.walletUsecase.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Wallet deleted", nil)
}
