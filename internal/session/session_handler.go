package session

import (
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/rbac"
	sessionerrors "github.com/mujabaralno/qr-absence/internal/session/errors"
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
	l := zap.L().Named("session.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.handler")
	}
	return &Handler{service: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorIdentity(c *gin.Context) (organizationID, userID uuid.UUID, err error) {
	organizationID, err = uuid.Parse(c.GetString("organization_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.ErrUnauthorized
	}
	userID, err = uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.ErrUnauthorized
	}
	return organizationID, userID, nil
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	organizationID, userID, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), organizationID, userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	organizationID, _, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeServiceError(c, sessionerrors.ErrInvalidSessionID)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), organizationID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	organizationID, _, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	var query ListSessionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, total, err := h.service.GetAll(c.Request.Context(), organizationID, query)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, query.Page, query.Limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	organizationID, userID, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeServiceError(c, sessionerrors.ErrInvalidSessionID)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), organizationID, userID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	organizationID, userID, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeServiceError(c, sessionerrors.ErrInvalidSessionID)
		return
	}

	role := rbac.ParseRole(c.GetString("role"))
	if err := h.service.Delete(c.Request.Context(), organizationID, userID, role, id); err != nil {
		h.logger.Error("delete session failed", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
