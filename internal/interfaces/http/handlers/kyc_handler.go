package handlers

import (
	"context"
	"net/http"
	"strings"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/interfaces/http/response"
	"escrow-broker.backend/internal/usecases"
	"escrow-broker.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type kycService interface {
	Submit(ctx context.Context, userID uuid.UUID, input *entities.SubmitKYCInput) (*entities.KYCDocument, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*entities.KYCDocument, error)
	List(ctx context.Context, status entities.KYCStatus, page utils.PaginationParams) ([]*entities.KYCDocument, int64, error)
	Review(ctx context.Context, admin entities.Actor, userID uuid.UUID, input *entities.ReviewKYCInput) (*entities.KYCDocument, error)
}

// KYCHandler handles identity verification endpoints
type KYCHandler struct {
	kycUsecase kycService
}

// NewKYCHandler creates a new KYC handler
func NewKYCHandler(kycUsecase *usecases.KYCUsecase) *KYCHandler {
	return &KYCHandler{kycUsecase: kycUsecase}
}

// Submit POST /api/v1/kyc
func (h *KYCHandler) Submit(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var input entities.SubmitKYCInput
	if !bindJSON(c, &input) {
		return
	}

	doc, err := h.kycUsecase.Submit(c.Request.Context(), actor.UserID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusCreated, "KYC submitted", doc)
}

// GetMine GET /api/v1/kyc/me
func (h *KYCHandler) GetMine(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	doc, err := h.kycUsecase.GetMine(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// List GET /api/v1/kyc/admin?status=
func (h *KYCHandler) List(c *gin.Context) {
	status := entities.KYCStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	page := pageParams(c)

	docs, total, err := h.kycUsecase.List(c.Request.Context(), status, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, docs, total, page)
}

// Review PUT /api/v1/kyc/admin/:userId/review
func (h *KYCHandler) Review(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userId", "user")
	if !ok {
		return
	}
	var input entities.ReviewKYCInput
	if !bindJSON(c, &input) {
		return
	}

	doc, err := h.kycUsecase.Review(c.Request.Context(), actor, userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}
