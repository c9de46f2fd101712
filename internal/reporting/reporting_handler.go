package reporting

import (
	"net/http"
	"strconv"
	"time"

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
	l := zap.L().Named("reporting.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reporting.handler")
	}
	return &Handler{service: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorOrganization(c *gin.Context) (uuid.UUID, error) {
	organizationID, err := uuid.Parse(c.GetString("organization_id"))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return organizationID, nil
}

func (h *Handler) SessionSummary(c *gin.Context) {
	organizationID, err := actorOrganization(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		writeServiceError(c, apperror.InvalidField("sessionId"))
		return
	}

	summary, err := h.service.SessionSummary(c.Request.Context(), organizationID, sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) OrganizationSummary(c *gin.Context) {
	organizationID, err := actorOrganization(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	summary, err := h.service.OrganizationSummary(c.Request.Context(), organizationID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) MonthlySummary(c *gin.Context) {
	organizationID, err := actorOrganization(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		writeServiceError(c, apperror.InvalidField("year"))
		return
	}

	buckets, err := h.service.MonthlySummary(c.Request.Context(), organizationID, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, buckets, nil)
}

func (h *Handler) WindowSummary(c *gin.Context) {
	organizationID, err := actorOrganization(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	var query windowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	from, err := time.Parse(time.RFC3339, query.From)
	if err != nil {
		writeServiceError(c, apperror.InvalidField("from"))
		return
	}
	to, err := time.Parse(time.RFC3339, query.To)
	if err != nil {
		writeServiceError(c, apperror.InvalidField("to"))
		return
	}

	summary, err := h.service.WindowSummary(c.Request.Context(), organizationID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}
