// Package signing implements the HMAC-SHA256 webhook payload signature:
// pure, deterministic, no I/O.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Sign computes the signature over "<timestamp>.<payload>" using secret.
// When ts is zero, the current Unix time is used. Returns the 64-char
// lowercase hex digest and the timestamp actually signed.
func Sign(payload []byte, secret string, ts int64) (signature string, timestamp int64) {
	if ts == 0 {
		ts = time.Now().Unix()
	}
	return signWithTimestamp(payload, secret, ts), ts
}

// Verify recomputes the signature for (payload, secret, timestamp) and
// compares it against sig in constant time.
func Verify(payload []byte, secret, sig string, timestamp int64) bool {
	expected := signWithTimestamp(payload, secret, timestamp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func signWithTimestamp(payload []byte, secret string, ts int64) string {
	message := fmt.Sprintf("%d.%s", ts, payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
