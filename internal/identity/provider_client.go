package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"

	"go.uber.org/zap"
)

// ProviderClient talks to the identity provider's management API. Invitations
// and metadata pushback go through here; authentication itself never touches
// this service.
type ProviderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewProviderClient(baseURL, apiKey string) *ProviderClient {
	return &ProviderClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: zap.L().Named("identity.provider"),
	}
}

type InvitationParams struct {
	Email          string
	OrganizationID string
	Role           string
	RedirectURL    string
}

// Invite asks the provider to send a signup invitation carrying the tenant
// and role in its metadata, so the eventual user.created webhook can place
// the member.
func (c *ProviderClient) Invite(ctx context.Context, params InvitationParams) error {
	if params.Email == "" {
		return apperror.RequiredField("email")
	}

	body := map[string]any{
		"email_address": params.Email,
		"public_metadata": map[string]any{
			"organization_id": params.OrganizationID,
			"role":            params.Role,
			"approved":        true,
		},
	}
	if params.RedirectURL != "" {
		body["redirect_url"] = params.RedirectURL
	}

	return c.do(ctx, http.MethodPost, "/v1/invitations", body)
}

// PushUserMetadata writes our identifiers back onto the provider user so
// client sessions carry them in their tokens.
func (c *ProviderClient) PushUserMetadata(ctx context.Context, externalID string, metadata map[string]any) error {
	path := fmt.Sprintf("/v1/users/%s/metadata", externalID)
	return c.do(ctx, http.MethodPatch, path, map[string]any{
		"public_metadata": metadata,
	})
}

func (c *ProviderClient) do(ctx context.Context, method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to encode provider request", http.StatusInternalServerError)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to build provider request", http.StatusInternalServerError)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("provider request failed", zap.String("path", path), zap.Error(err))
		return apperror.Wrap(err, apperror.CodeUpstreamError, "Identity provider unreachable", http.StatusBadGateway)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.logger.Error("provider rejected request",
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.ByteString("body", raw),
		)
		return apperror.New(
			apperror.CodeUpstreamError,
			fmt.Sprintf("Identity provider error: %s", string(raw)),
			http.StatusBadGateway,
		)
	}

	return nil
}
