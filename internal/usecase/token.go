package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abylaikhan/upcheck/internal/domain"
	"github.com/abylaikhan/upcheck/internal/repository"
	"github.com/abylaikhan/upcheck/internal/security"
)

// TokenUsecase issues, renews, validates, and revokes bearer tokens.
// Expiry is lazy: an expired token stays in the store and is simply
// rejected on every check.
type TokenUsecase struct {
	store  repository.RecordStore
	hasher *security.Hasher
}

func NewTokenUsecase(store repository.RecordStore, hasher *security.Hasher) *TokenUsecase {
	return &TokenUsecase{store: store, hasher: hasher}
}

type IssueTokenInput struct {
	Phone    string `validate:"required,len=10"`
	Password string `validate:"required"`
}

func (in *IssueTokenInput) normalize() {
	in.Phone = strings.TrimSpace(in.Phone)
	in.Password = strings.TrimSpace(in.Password)
}

// Issue authenticates the user's credentials and stores a fresh token
// expiring one hour from now.
func (u *TokenUsecase) Issue(ctx context.Context, in IssueTokenInput) (*domain.Token, error) {
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return nil, invalidInput(err)
	}

	var user domain.User
	if err := u.store.Read(ctx, repository.CollectionUsers, in.Phone, &user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("read user: %w", err)
	}

	if !u.hasher.Match(in.Password, user.HashedPassword) {
		return nil, domain.ErrPasswordMismatch
	}

	id, err := security.NewRecordID(domain.TokenIDLength)
	if err != nil {
		return nil, fmt.Errorf("generate token id: %w", err)
	}

	token := &domain.Token{
		ID:      id,
		Phone:   in.Phone,
		Expires: time.Now().Add(domain.TokenTTL).UnixMilli(),
	}
	if err := u.store.Create(ctx, repository.CollectionTokens, id, token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Get returns the token record by id.
func (u *TokenUsecase) Get(ctx context.Context, id string) (*domain.Token, error) {
	if len(strings.TrimSpace(id)) != domain.TokenIDLength {
		return nil, invalidInput(errors.New("id must be 20 characters"))
	}

	var token domain.Token
	if err := u.store.Read(ctx, repository.CollectionTokens, id, &token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	return &token, nil
}

// Verify reports whether the token exists, belongs to the given phone, and
// has not expired. It is total: any failure yields false, never an error.
func (u *TokenUsecase) Verify(ctx context.Context, id, phone string) bool {
	if len(id) != domain.TokenIDLength {
		return false
	}

	var token domain.Token
	if err := u.store.Read(ctx, repository.CollectionTokens, id, &token); err != nil {
		return false
	}
	return token.Valid(phone, time.Now())
}

type RenewTokenInput struct {
	ID     string `validate:"required,len=20"`
	Extend bool   `validate:"eq=true"`
}

// Renew pushes the expiry of a still-valid token another hour out. An
// expired token cannot be renewed and must be re-issued.
func (u *TokenUsecase) Renew(ctx context.Context, in RenewTokenInput) error {
	in.ID = strings.TrimSpace(in.ID)
	if err := validate.Struct(&in); err != nil {
		return invalidInput(err)
	}

	var token domain.Token
	if err := u.store.Read(ctx, repository.CollectionTokens, in.ID, &token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return fmt.Errorf("read token: %w", err)
	}

	if token.Expires <= time.Now().UnixMilli() {
		return domain.ErrTokenExpired
	}

	token.Expires = time.Now().Add(domain.TokenTTL).UnixMilli()
	if err := u.store.Update(ctx, repository.CollectionTokens, in.ID, &token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	return nil
}

// Revoke deletes the token record.
func (u *TokenUsecase) Revoke(ctx context.Context, id string) error {
	if len(strings.TrimSpace(id)) != domain.TokenIDLength {
		return invalidInput(errors.New("id must be 20 characters"))
	}

	if err := u.store.Delete(ctx, repository.CollectionTokens, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
