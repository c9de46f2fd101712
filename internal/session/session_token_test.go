package session

import (
	"strings"
	"testing"
	"time"

	sessionerrors "github.com/mujabaralno/qr-absence/internal/session/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "https://app.example.com")
	sessionID := uuid.New()
	orgID := uuid.New()

	url, err := issuer.Issue(sessionID, orgID, time.Now())
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://app.example.com/scan?token="))

	token := strings.TrimPrefix(url, "https://app.example.com/scan?token=")
	gotSession, gotOrg, err := issuer.Resolve(token)
	assert.NoError(t, err)
	assert.Equal(t, sessionID, gotSession)
	assert.Equal(t, orgID, gotOrg)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenIssuer("secret", "https://app.example.com")
	other := NewTokenIssuer("different", "https://app.example.com")

	url, err := other.Issue(uuid.New(), uuid.New(), time.Now())
	assert.NoError(t, err)
	token := strings.TrimPrefix(url, "https://app.example.com/scan?token=")

	_, _, err = issuer.Resolve(token)
	assert.ErrorIs(t, err, sessionerrors.ErrInvalidCheckInToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", "https://app.example.com")

	_, _, err := issuer.Resolve("not-a-token")
	assert.ErrorIs(t, err, sessionerrors.ErrInvalidCheckInToken)
}
