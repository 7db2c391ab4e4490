package dispatch

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// nonceLife is how long an issued nonce stays valid. Verification accepts
// the current and the previous tick, so the effective lifetime is between
// one and two ticks.
const nonceLife = 12 * time.Hour

// NonceService issues and verifies the anti-forgery tokens bound to a
// session and an action scope.
type NonceService struct {
	secret []byte
	now    func() time.Time
}

// NewNonceService builds a nonce service keyed with the given secret.
func NewNonceService(secret string) *NonceService {
	return &NonceService{secret: []byte(secret), now: time.Now}
}

// Issue returns the nonce for the caller's session and the given scope.
func (n *NonceService) Issue(sessionID, scope string) string {
	return n.tokenAt(n.tick(0), sessionID, scope)
}

// Verify checks a token against the current and the previous time window.
func (n *NonceService) Verify(token, sessionID, scope string) bool {
	if token == "" {
		return false
	}
	for _, tick := range []int64{n.tick(0), n.tick(-1)} {
		expected := n.tokenAt(tick, sessionID, scope)
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1 {
			return true
		}
	}
	return false
}

func (n *NonceService) tick(offset int64) int64 {
	return n.now().Unix()/int64(nonceLife.Seconds()) + offset
}

func (n *NonceService) tokenAt(tick int64, sessionID, scope string) string {
	mac := hmac.New(sha256.New, n.secret)
	mac.Write([]byte(sessionID))
	mac.Write([]byte{0})
	mac.Write([]byte(scope))
	mac.Write([]byte{0})
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(tick >> (8 * i))
	}
	mac.Write(buf[:])
	return hex.EncodeToString(mac.Sum(nil))[:16]
}
