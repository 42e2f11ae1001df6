package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

const (
	defaultTTL   = 12 * time.Hour
	defaultScope = "admin"
)

var encoding = base64.RawURLEncoding

// HMACStrategy signs tokens of the form base64(scope|subject|expiry).base64(mac).
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	scope  string
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	s := &HMACStrategy{secret: []byte(secret), ttl: opts.TTL, scope: opts.Scope, now: opts.Now}
	if s.ttl <= 0 {
		s.ttl = defaultTTL
	}
	if s.scope == "" {
		s.scope = defaultScope
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Issue generates a signed token for the admin.
func (s *HMACStrategy) Issue(adminID int64) (Token, error) {
	expires := s.now().Add(s.ttl).Truncate(time.Second)
	payload := strings.Join([]string{s.scope, strconv.FormatInt(adminID, 10), strconv.FormatInt(expires.Unix(), 10)}, "|")
	value := encoding.EncodeToString([]byte(payload)) + "." + encoding.EncodeToString(s.sign(payload))
	return Token{Value: value, ExpiresAt: expires}, nil
}

// Parse validates token and returns the admin id it was issued for.
func (s *HMACStrategy) Parse(token string) (int64, error) {
	encodedPayload, encodedSig, ok := strings.Cut(token, ".")
	if !ok {
		return 0, ErrInvalidToken
	}
	rawPayload, err := encoding.DecodeString(encodedPayload)
	if err != nil {
		return 0, ErrInvalidToken
	}
	sig, err := encoding.DecodeString(encodedSig)
	if err != nil {
		return 0, ErrInvalidToken
	}

	payload := string(rawPayload)
	if !hmac.Equal(sig, s.sign(payload)) {
		return 0, ErrInvalidToken
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 || parts[0] != s.scope {
		return 0, ErrInvalidToken
	}

	adminID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	expires, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if !s.now().Before(time.Unix(expires, 0)) {
		return 0, ErrInvalidToken
	}

	return adminID, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
