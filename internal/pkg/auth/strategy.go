package auth

import "time"

// Token is a signed bearer credential.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Strategy issues and verifies admin bearer tokens.
type Strategy interface {
	Issue(adminID int64) (Token, error)
	Parse(token string) (int64, error)
	Name() string
}

// Options tunes a token strategy.
type Options struct {
	TTL   time.Duration
	Scope string
	Now   func() time.Time
}
