package attendance

import (
	"net/http"

	attendanceerrors "github.com/mujabaralno/qr-absence/internal/attendance/errors"
	"github.com/mujabaralno/qr-absence/internal/middleware"
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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
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

// Record is the admin write path, manual entry or correction.
func (h *Handler) Record(c *gin.Context) {
	var req RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	organizationID, _, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.Record(c.Request.Context(), organizationID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Scan is the member self check-in path.
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
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

	resp, err := h.service.Scan(c.Request.Context(), organizationID, userID, req)
	if err != nil {
		middleware.ScanCounter.WithLabelValues(middleware.ScanRejected).Inc()
		writeServiceError(c, err)
		return
	}

	middleware.ScanCounter.WithLabelValues(middleware.ScanAccepted).Inc()
	response.Success(c, http.StatusOK, resp, nil)
}

// Roster is the derived per-session view covering every member.
func (h *Handler) Roster(c *gin.Context) {
	organizationID, _, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		writeServiceError(c, attendanceerrors.ErrInvalidRecordID)
		return
	}

	roster, err := h.service.DeriveRoster(c.Request.Context(), organizationID, sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roster, nil)
}

// ListBySession returns only the stored records for a session.
func (h *Handler) ListBySession(c *gin.Context) {
	organizationID, _, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		writeServiceError(c, attendanceerrors.ErrInvalidRecordID)
		return
	}

	records, err := h.service.ListBySession(c.Request.Context(), organizationID, sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, records, nil)
}

// ListByOrganization pages through the tenant's full record history.
func (h *Handler) ListByOrganization(c *gin.Context) {
	var q ListRecordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	organizationID, _, err := actorIdentity(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	records, total, err := h.service.ListByOrganization(c.Request.Context(), organizationID, q)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, q.Page, q.Limit)
	response.Success(c, http.StatusOK, records, &meta)
}
