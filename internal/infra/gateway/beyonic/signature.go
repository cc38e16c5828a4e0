package beyonic

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a webhook delivery's HMAC-SHA256 signature against
// the shared secret. An empty secret disables verification, which is only
// acceptable in development environments.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
