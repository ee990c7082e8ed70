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

type bankService interface {
	CreateBank(ctx context.Context, input *entities.BankInput) (*entities.Bank, error)
	UpdateBank(ctx context.Context, id uuid.UUID, input *entities.BankInput) (*entities.Bank, error)
	DeleteBank(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, currency string) ([]*entities.Bank, error)
	ListAll(ctx context.Context) ([]*entities.Bank, error)
}

// BankHandler handles platform receiving bank endpoints
type BankHandler struct {
	bankUsecase bankService
}

// NewBankHandler creates a new bank handler
func NewBankHandler(bankUsecase *usecases.BankUsecase) *BankHandler {
	return &BankHandler{bankUsecase: bankUsecase}
}

// ListActive GET /api/v1/banks?currency=
func (h *BankHandler) ListActive(c *gin.Context) {
	banks, err := h.bankUsecase.ListActive(c.Request.Context(), strings.ToUpper(strings.TrimSpace(c.Query("currency"))))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, banks)
}

// ListAll GET /api/v1/banks/admin
func (h *BankHandler) ListAll(c *gin.Context) {
	banks, err := h.bankUsecase.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, banks)
}

// Create POST /api/v1/banks
func (h *BankHandler) Create(c *gin.Context) {
	var input entities.BankInput
	if !bindJSON(c, &input) {
		return
	}
	bank, err := h.bankUsecase.CreateBank(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, bank)
}

// Update PUT /api/v1/banks/:id
func (h *BankHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "bank")
	if !ok {
		return
	}
	var input entities.BankInput
	if !bindJSON(c, &input) {
		return
	}
	bank, err := h.bankUsecase.UpdateBank(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, bank)
}

// Delete DELETE /api/v1/banks/:id
func (h *BankHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "bank")
	if !ok {
		return
	}
	if err := h.bankUsecase.DeleteBank(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Bank deleted", nil)
}
