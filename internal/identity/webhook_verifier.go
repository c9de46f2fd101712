package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const signatureTolerance = 5 * time.Minute

// WebhookVerifier checks provider webhook signatures. The provider signs
// "{id}.{timestamp}.{body}" with HMAC-SHA256 and sends one or more versioned
// signatures in the signature header; the shared secret is distributed with a
// "whsec_" prefix around its base64 payload.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	raw := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	return &WebhookVerifier{secret: key}, nil
}

// Verify checks the timestamp window and at least one v1 signature. The
// timestamp bound is symmetric to tolerate clock skew in either direction.
func (v *WebhookVerifier) Verify(msgID, timestamp, signatures string, body []byte, now time.Time) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid webhook timestamp")
	}

	sent := time.Unix(ts, 0)
	if sent.Before(now.Add(-signatureTolerance)) || sent.After(now.Add(signatureTolerance)) {
		return fmt.Errorf("webhook timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, sig := range strings.Fields(signatures) {
		version, value, found := strings.Cut(sig, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(value), []byte(expected)) {
			return nil
		}
	}

	return fmt.Errorf("no matching webhook signature")
}
