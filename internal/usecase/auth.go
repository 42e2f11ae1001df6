package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	"github.com/polkiloo/studiodesk/internal/domain/repository"
	pkgAuth "github.com/polkiloo/studiodesk/internal/pkg/auth"
)

// AuthUseCase handles admin accounts and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// EnsureAdmin creates the admin account unless one with the same login exists.
// It reports whether a new account was created.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, login, password string) (bool, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return false, fmt.Errorf("%w: admin login and password are required", domainErrors.ErrValidation)
	}

	if _, err := u.users.GetByLogin(ctx, login); err == nil {
		return false, nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return false, err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	if _, err := u.users.Create(ctx, login, hash); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Authenticate validates credentials and returns a signed token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.AdminUser, pkgAuth.Token, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, pkgAuth.Token{}, domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, pkgAuth.Token{}, domainErrors.ErrInvalidCredentials
		}
		return nil, pkgAuth.Token{}, err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, pkgAuth.Token{}, domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(usr.ID)
	if err != nil {
		return nil, pkgAuth.Token{}, err
	}

	return usr, token, nil
}

// ParseToken extracts the admin ID from a token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.Parse(token)
}

// GetByID fetches an admin by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	return u.users.GetByID(ctx, id)
}
