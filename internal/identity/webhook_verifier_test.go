package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecretKey = "MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte(testSecretKey))
}

func sign(msgID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecretKey))
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier_AcceptsValidSignature(t *testing.T) {
	v, err := NewWebhookVerifier(testSecret())
	assert.NoError(t, err)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`{"type":"user.created"}`)

	err = v.Verify("msg_1", ts, sign("msg_1", ts, body), body, now)
	assert.NoError(t, err)
}

func TestWebhookVerifier_AcceptsOneOfSeveralSignatures(t *testing.T) {
	v, err := NewWebhookVerifier(testSecret())
	assert.NoError(t, err)

	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`{}`)

	sigs := "v1,bm90LXRoaXM= " + sign("msg_2", ts, body)
	assert.NoError(t, v.Verify("msg_2", ts, sigs, body, now))
}

func TestWebhookVerifier_RejectsTamperedBody(t *testing.T) {
	v, err := NewWebhookVerifier(testSecret())
	assert.NoError(t, err)

	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)

	sig := sign("msg_3", ts, []byte(`{"a":1}`))
	err = v.Verify("msg_3", ts, sig, []byte(`{"a":2}`), now)
	assert.Error(t, err)
}

func TestWebhookVerifier_RejectsStaleTimestamp(t *testing.T) {
	v, err := NewWebhookVerifier(testSecret())
	assert.NoError(t, err)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	stale := now.Add(-10 * time.Minute)
	ts := strconv.FormatInt(stale.Unix(), 10)
	body := []byte(`{}`)

	err = v.Verify("msg_4", ts, sign("msg_4", ts, body), body, now)
	assert.Error(t, err)
}

func TestNewWebhookVerifier_RejectsMalformedSecret(t *testing.T) {
	_, err := NewWebhookVerifier("whsec_!!!not-base64!!!")
	assert.Error(t, err)
}
