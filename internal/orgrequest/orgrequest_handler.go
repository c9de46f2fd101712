package orgrequest

import (
	"net/http"

	orgrequesterrors "github.com/mujabaralno/qr-absence/internal/orgrequest/errors"
	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
	"github.com/mujabaralno/qr-absence/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("orgrequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("orgrequest.handler")
	}
	return &Handler{service: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func requestID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, orgrequesterrors.ErrInvalidRequestID
	}
	return id, nil
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateOrgRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := requestID(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var query ListOrgRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, total, err := h.service.GetAll(c.Request.Context(), query)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, query.Page, query.Limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

// Approve returns the prefilled organization draft without changing state.
func (h *Handler) Approve(c *gin.Context) {
	id, err := requestID(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	draft, err := h.service.ApproveAndPrepare(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft, nil)
}

func (h *Handler) Finalize(c *gin.Context) {
	var req FinalizeApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	id, err := requestID(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.FinalizeApproval(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	id, err := requestID(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		h.logger.Error("reject organization request failed", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
