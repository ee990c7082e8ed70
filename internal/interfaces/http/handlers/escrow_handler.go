package handlers

import (
	"context"
	"net/http"
	"strings"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/internal/interfaces/http/response"
	"escrow-broker.backend/internal/usecases"
	"escrow-broker.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type escrowService interface {
	InitiateEscrow(ctx context.Context, actor entities.Actor, in *entities.InitiateEscrowInput) (*entities.EscrowDetail, error)
	AddReceptionDetails(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, in *entities.ReceptionDetailsInput) (*entities.EscrowDetail, error)
	MarkAsFunded(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, in *entities.FundEscrowInput) (*entities.Escrow, error)
	AdminUpdateEscrow(ctx context.Context, admin entities.Actor, escrowID uuid.UUID, in *entities.AdminUpdateEscrowInput) (*entities.EscrowDetail, error)
	ReleaseEscrow(ctx context.Context, admin entities.Actor, escrowID uuid.UUID) (*entities.Escrow, error)
	CancelEscrow(ctx context.Context, actor entities.Actor, escrowID uuid.UUID, reason string) (*entities.Escrow, error)
	GetEscrow(ctx context.Context, actor entities.Actor, escrowID uuid.UUID) (*entities.EscrowDetail, error)
	ListMyEscrows(ctx context.Context, actor entities.Actor, status entities.EscrowStatus, page utils.PaginationParams) ([]*entities.Escrow, int64, error)
	ListEscrows(ctx context.Context, filter entities.EscrowFilter, page utils.PaginationParams) ([]*entities.Escrow, int64, error)
	ListAuditLog(ctx context.Context, escrowID uuid.UUID) ([]*entities.EscrowAuditLog, error)
}

// EscrowHandler handles escrow endpoints
type EscrowHandler struct {
	escrowUsecase escrowService
}

// NewEscrowHandler creates a new escrow handler
func NewEscrowHandler(escrowUsecase *usecases.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{escrowUsecase: escrowUsecase}
}

func statusQuery(c *gin.Context) (entities.EscrowStatus, bool) {
	raw := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	if raw == "" {
		return "", true
	}
	status := entities.EscrowStatus(raw)
	if !status.Valid() {
		response.Error(c, domainerrors.BadRequest("Invalid escrow status"))
		return "", false
	}
	return status, true
}

// InitiateEscrow starts an escrow with a counterparty
// POST /api/v1/escrow
func (h *EscrowHandler) InitiateEscrow(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var input entities.InitiateEscrowInput
	if !bindJSON(c, &input) {
		return
	}

	detail, err := h.escrowUsecase.InitiateEscrow(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusCreated, "Escrow initiated", detail)
}

// ListMyEscrows GET /api/v1/escrow?status=&page=&limit=
func (h *EscrowHandler) ListMyEscrows(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	page := pageParams(c)

	items, total, err := h.escrowUsecase.ListMyEscrows(c.Request.Context(), actor, status, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, total, page)
}

// GetEscrow GET /api/v1/escrow/:id
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "escrow")
	if !ok {
		return
	}

	detail, err := h.escrowUsecase.GetEscrow(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// AddReceptionDetails PUT /api/v1/escrow/:id/reception-details
func (h *EscrowHandler) AddReceptionDetails(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "escrow")
	if !ok {
		return
	}
	var input entities.ReceptionDetailsInput
	if !bindJSON(c, &input) {
		return
	}

	detail, err := h.escrowUsecase.AddReceptionDetails(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// MarkAsFunded records a party's deposit report
// POST /api/v1/escrow/:id/fund
func (h *EscrowHandler) MarkAsFunded(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "escrow")
	if !ok {
		return
	}
	var input entities.FundEscrowInput
	if !bindJSON(c, &input) {
		return
	}

	escrow, err := h.escrowUsecase.MarkAsFunded(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Funding recorded", escrow)
}

// CancelEscrow serves both the participant and the admin cancel routes; the
// usecase decides what the actor may cancel.
// POST /api/v1/escrow/:id/cancel, POST /api/v1/escrow/admin/:id/cancel
func (h *EscrowHandler) CancelEscrow(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "escrow")
	if !ok {
		return
	}
	var input entities.CancelEscrowInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	escrow, err := h.escrowUsecase.CancelEscrow(c.Request.Context(), actor, id, strings.TrimSpace(input.Reason))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Escrow cancelled", escrow)
}

// ListAllEscrows GET /api/v1/escrow/admin/all?status=&search=
func (h *EscrowHandler) ListAllEscrows(c *gin.Context) {
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	filter := entities.EscrowFilter{
		Status: status,
		Search: strings.TrimSpace(c.Query("search")),
	}
	page := pageParams(c)

	items, total, err := h.escrowUsecase.ListEscrows(c.Request.Context(), filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, total, page)
}

// AdminUpdateEscrow PATCH /api/v1/escrow/admin/:id
func (h *EscrowHandler) AdminUpdateEscrow(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "escrow")
	if !ok {
		return
	}
	var input entities.AdminUpdateEscrowInput
	if !bindJSON(c, &input) {
		return
	}

	detail, err := h.escrowUsecase.AdminUpdateEscrow(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// ReleaseEscrow POST /api/v1/escrow/admin/:id/release
func (h *EscrowHandler) ReleaseEscrow(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "escrow")
	if !ok {
		return
	}

	escrow, err := h.escrowUsecase.ReleaseEscrow(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Escrow released", escrow)
}

// ListAuditLog GET /api/v1/escrow/admin/:id/audit
func (h *EscrowHandler) ListAuditLog(c *gin.Context) {
	id, ok := uuidParam(c, "id", "escrow")
	if !ok {
		return
	}

	logs, err := h.escrowUsecase.ListAuditLog(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, logs)
}
