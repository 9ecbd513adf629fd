package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	pkgAuth "github.com/polkiloo/ordertrack/internal/pkg/auth"
)

// AuthUseCase handles admin login and token management.
type AuthUseCase struct {
	admins repository.AdminRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	now    func() time.Time
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(admins repository.AdminRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{admins: admins, hasher: hasher, tokens: strategy, now: time.Now}
}

// Authenticate validates credentials of an active admin and returns a session token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.Admin, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	admin, err := u.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !admin.IsActive {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	if err := u.hasher.Compare(admin.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	u.upgradeHash(ctx, admin, password)

	token, err := u.tokens.IssueToken(admin.ID)
	if err != nil {
		return nil, "", err
	}

	if err := u.admins.TouchLastLogin(ctx, admin.ID, u.now()); err != nil {
		return nil, "", fmt.Errorf("record last login: %w", err)
	}

	return admin, token, nil
}

type rehasher interface {
	NeedsRehash(hash string) bool
}

// upgradeHash re-hashes the password when the stored hash uses an outdated cost.
// Failures keep the old hash; the login itself already succeeded.
func (u *AuthUseCase) upgradeHash(ctx context.Context, admin *model.Admin, password string) {
	r, ok := u.hasher.(rehasher)
	if !ok || !r.NeedsRehash(admin.PasswordHash) {
		return
	}
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return
	}
	if err := u.admins.UpdatePasswordHash(ctx, admin.ID, hash); err == nil {
		admin.PasswordHash = hash
	}
}

// ParseToken extracts the admin ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// EnsureAdmin creates a super admin with the given credentials unless the email is taken.
// It reports whether a new admin was created.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	if _, err := u.admins.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return false, err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	admin := &model.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		Role:         model.AdminRoleSuperAdmin,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    u.now(),
	}
	if err := u.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
