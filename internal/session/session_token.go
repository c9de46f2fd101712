package session

import (
	"fmt"
	"time"

	sessionerrors "github.com/mujabaralno/qr-absence/internal/session/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer mints and resolves check-in tokens. The token is the payload
// behind the session's QR image: a signed claim over the session and owning
// organization ids, wrapped in the scan URL members are sent to. Signing keys
// are symmetric; only this service issues and verifies.
type TokenIssuer struct {
	secret  []byte
	baseURL string
}

func NewTokenIssuer(secret, baseURL string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), baseURL: baseURL}
}

type checkInClaims struct {
	SessionID      string `json:"sid"`
	OrganizationID string `json:"org"`
	jwt.RegisteredClaims
}

// Issue derives the check-in payload for a session. Tokens deliberately carry
// no expiry: session validity is judged against start/end at scan time, and a
// printed QR poster must not rot while the session is still scheduled.
func (t *TokenIssuer) Issue(sessionID, organizationID uuid.UUID, issuedAt time.Time) (string, error) {
	claims := checkInClaims{
		SessionID:      sessionID.String(),
		OrganizationID: organizationID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "qr-absence",
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/scan?token=%s", t.baseURL, signed), nil
}

// Resolve validates a scanned token and returns the referenced session and
// organization ids.
func (t *TokenIssuer) Resolve(tokenString string) (sessionID, organizationID uuid.UUID, err error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &checkInClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, uuid.Nil, sessionerrors.ErrInvalidCheckInToken
	}

	claims, ok := parsed.Claims.(*checkInClaims)
	if !ok {
		return uuid.Nil, uuid.Nil, sessionerrors.ErrInvalidCheckInToken
	}

	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, sessionerrors.ErrInvalidCheckInToken
	}
	oid, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return uuid.Nil, uuid.Nil, sessionerrors.ErrInvalidCheckInToken
	}

	return sid, oid, nil
}
