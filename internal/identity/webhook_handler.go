package identity

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"
	"github.com/mujabaralno/qr-absence/internal/shared/response"
	"github.com/mujabaralno/qr-absence/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// webhookEnvelope is the provider's event wrapper.
type webhookEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type webhookUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PublicMetadata struct {
		OrganizationID string `json:"organization_id"`
		Role           string `json:"role"`
		Approved       bool   `json:"approved"`
	} `json:"public_metadata"`
}

type WebhookHandler struct {
	verifier *WebhookVerifier
	users    user.Service
	provider *ProviderClient
	clock    clock.Clock
	logger   *zap.Logger
}

func NewWebhookHandler(verifier *WebhookVerifier, users user.Service, provider *ProviderClient, clk clock.Clock) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		users:    users,
		provider: provider,
		clock:    clk,
		logger:   zap.L().Named("identity.webhook"),
	}
}

// Handle receives provider lifecycle events. The signature is checked against
// the raw body before anything is decoded; a bad signature is rejected with
// no side effects.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		writeError(c, apperror.ErrInvalidInput)
		return
	}

	err = h.verifier.Verify(
		c.GetHeader("svix-id"),
		c.GetHeader("svix-timestamp"),
		c.GetHeader("svix-signature"),
		body,
		h.clock.Now(),
	)
	if err != nil {
		h.logger.Warn("webhook signature rejected", zap.Error(err))
		writeError(c, apperror.New(apperror.CodeInvalidInput, "Invalid webhook signature", http.StatusBadRequest))
		return
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeError(c, apperror.ErrInvalidInput)
		return
	}

	switch envelope.Type {
	case "user.created":
		h.handleUserCreated(c, envelope.Data)
	case "user.updated":
		h.handleUserUpdated(c, envelope.Data)
	case "user.deleted":
		h.handleUserDeleted(c, envelope.Data)
	default:
		// Unknown event types acknowledge cleanly so the provider does not
		// retry them forever.
		h.logger.Debug("ignoring webhook event", zap.String("type", envelope.Type))
		response.Success(c, http.StatusOK, gin.H{"ignored": envelope.Type}, nil)
	}
}

func (h *WebhookHandler) handleUserCreated(c *gin.Context, data json.RawMessage) {
	var payload webhookUser
	if err := json.Unmarshal(data, &payload); err != nil {
		writeError(c, apperror.ErrInvalidInput)
		return
	}

	email := ""
	if len(payload.EmailAddresses) > 0 {
		email = payload.EmailAddresses[0].EmailAddress
	}

	created, err := h.users.CreateFromProvider(c.Request.Context(), user.CreateFromProviderParams{
		ExternalID:     payload.ID,
		OrganizationID: payload.PublicMetadata.OrganizationID,
		Email:          email,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		PhotoURL:       payload.ImageURL,
		Role:           payload.PublicMetadata.Role,
		Approved:       payload.PublicMetadata.Approved,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	// Push our row id back so session tokens can carry it. Losing this is
	// recoverable, so it never fails the webhook.
	if h.provider != nil {
		err := h.provider.PushUserMetadata(c.Request.Context(), payload.ID, map[string]any{
			"user_id":         created.ID,
			"organization_id": created.OrganizationID,
			"role":            created.Role,
		})
		if err != nil {
			h.logger.Warn("metadata pushback failed",
				zap.String("external_id", payload.ID),
				zap.Error(err),
			)
		}
	}

	response.Success(c, http.StatusOK, created, nil)
}

func (h *WebhookHandler) handleUserUpdated(c *gin.Context, data json.RawMessage) {
	var payload webhookUser
	if err := json.Unmarshal(data, &payload); err != nil {
		writeError(c, apperror.ErrInvalidInput)
		return
	}

	updated, err := h.users.UpdateFromProvider(c.Request.Context(), payload.ID, user.UpdateFromProviderParams{
		FirstName: &payload.FirstName,
		LastName:  &payload.LastName,
		PhotoURL:  &payload.ImageURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated, nil)
}

func (h *WebhookHandler) handleUserDeleted(c *gin.Context, data json.RawMessage) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		writeError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.users.DeleteFromProvider(c.Request.Context(), payload.ID); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": payload.ID}, nil)
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
