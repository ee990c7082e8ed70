package handlers

import (
	"context"
	"net/http"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/interfaces/http/response"
	"escrow-broker.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type sellerBankService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]*entities.SellerBankAccount, error)
	Create(ctx context.Context, ownerID uuid.UUID, input *entities.SellerBankAccountInput) (*entities.SellerBankAccount, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input *entities.SellerBankAccountInput) (*entities.SellerBankAccount, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// SellerBankHandler lets a client manage saved fiat payout accounts
type SellerBankHandler struct {
	sellerBankUsecase sellerBankService
}

// NewSellerBankHandler creates a new seller bank handler
func NewSellerBankHandler(sellerBankUsecase *usecases.SellerBankUsecase) *SellerBankHandler {
	return &SellerBankHandler{sellerBankUsecase: sellerBankUsecase}
}

// List GET /api/v1/seller-banks
func (h *SellerBankHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	accounts, err := h.sellerBankUsecase.List(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, accounts)
}

// Create POST /api/v1/seller-banks
func (h *SellerBankHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var input entities.SellerBankAccountInput
	if !bindJSON(c, &input) {
		return
	}
	account, err := h.sellerBankUsecase.Create(c.Request.Context(), actor.UserID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, account)
}

// Update PUT /api/v1/seller-banks/:id
func (h *SellerBankHandler) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "bank account")
	if !ok {
		return
	}
	var input entities.SellerBankAccountInput
	if !bindJSON(c, &input) {
		return
	}
	account, err := h.sellerBankUsecase.Update(c.Request.Context(), actor.UserID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, account)
}

// Delete DELETE /api/v1/seller-banks/:id
func (h *SellerBankHandler) Delete(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "bank account")
	if !ok {
		return
	}
	if err := h.sellerBankUsecase.Delete(c.Request.Context(), actor.UserID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Bank account deleted", nil)
}
