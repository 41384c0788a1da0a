package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyStripeSignature(t *testing.T) {
	const secret = "whsec_test"
	body := []byte(`{"id": "evt_1", "type": "checkout.session.completed"}`)
	now := time.Now()
	ts := now.Unix()

	t.Run("valid", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s", ts, signBody(secret, ts, body))
		require.NoError(t, VerifyStripeSignature(secret, header, body, now))
	})

	t.Run("extra v1 candidates", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, "0000", signBody(secret, ts, body))
		require.NoError(t, VerifyStripeSignature(secret, header, body, now))
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s", ts, signBody("whsec_other", ts, body))
		assert.Error(t, VerifyStripeSignature(secret, header, body, now))
	})

	t.Run("tampered body", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s", ts, signBody(secret, ts, body))
		assert.Error(t, VerifyStripeSignature(secret, header, []byte(`{}`), now))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		old := ts - int64((signatureTolerance + time.Minute).Seconds())
		header := fmt.Sprintf("t=%d,v1=%s", old, signBody(secret, old, body))
		assert.Error(t, VerifyStripeSignature(secret, header, body, now))
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Error(t, VerifyStripeSignature(secret, "", body, now))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Error(t, VerifyStripeSignature(secret, "v1=abc", body, now))
	})
}
