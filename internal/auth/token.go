package auth

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"
)

// NewSessionToken combines a millisecond timestamp component with 32
// bytes of crypto/rand entropy, so tokens cannot collide even if the
// random source somehow repeats within a session's lifetime.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return ts + "." + base64.RawURLEncoding.EncodeToString(buf), nil
}
