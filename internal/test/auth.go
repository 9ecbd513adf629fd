package test

import (
	"context"
	"strings"

	pkgAuth "github.com/polkiloo/ordertrack/internal/pkg/auth"
)

const (
	stubHashPrefix  = "hash:"
	stubTokenPrefix = "token-"
)

var (
	_ pkgAuth.PasswordHasher = HasherStub{}
	_ pkgAuth.Strategy       = StrategyStub{}
)

// HasherStub stores passwords as "hash:<password>" unless overridden.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return stubHashPrefix + password, nil
}

func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if stored, ok := strings.CutPrefix(hash, stubHashPrefix); !ok || stored != password {
		return pkgAuth.ErrPasswordMismatch
	}
	return nil
}

// StrategyStub issues "token-<adminID>" session tokens unless overridden.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

func (s StrategyStub) IssueToken(adminID string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(adminID)
	}
	return stubTokenPrefix + adminID, nil
}

func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	adminID, ok := strings.CutPrefix(token, stubTokenPrefix)
	if !ok || adminID == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return adminID, nil
}

func (s StrategyStub) Name() string {
	if s.NameVal == "" {
		return "stub"
	}
	return s.NameVal
}

// TokenParserStub satisfies the middleware token parser with a fixed outcome.
type TokenParserStub struct {
	ID      string
	Err     error
	ParseFn func(string) (string, error)
}

func (s TokenParserStub) ParseToken(token string) (string, error) {
	switch {
	case s.ParseFn != nil:
		return s.ParseFn(token)
	case s.Err != nil:
		return "", s.Err
	default:
		return s.ID, nil
	}
}

// AuthFacadeStub answers admin login and token checks. By default every
// login succeeds with "token" and every token belongs to admin-1.
type AuthFacadeStub struct {
	LoginFn func(context.Context, string, string) (string, error)
	ParseFn func(string) (string, error)
}

func (s AuthFacadeStub) Login(ctx context.Context, email, password string) (string, error) {
	if s.LoginFn == nil {
		return "token", nil
	}
	return s.LoginFn(ctx, email, password)
}

func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn == nil {
		return "admin-1", nil
	}
	return s.ParseFn(token)
}
