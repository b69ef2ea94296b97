package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abylaikhan/upcheck/internal/domain"
	"github.com/abylaikhan/upcheck/internal/repository"
	"github.com/abylaikhan/upcheck/internal/security"
)

// CheckUsecase owns the check lifecycle: per-user quota on create, the
// back-reference from the owning user's checks list, and ownership checks
// on every read and write.
//
// Create resolves the owner purely from the token record (whichever phone
// the token claims), while Get/Update/Delete verify the token against the
// check's stored owner. The two paths are intentionally distinct.
type CheckUsecase struct {
	store     repository.RecordStore
	tokens    *TokenUsecase
	maxChecks int
}

func NewCheckUsecase(store repository.RecordStore, tokens *TokenUsecase, maxChecks int) *CheckUsecase {
	return &CheckUsecase{store: store, tokens: tokens, maxChecks: maxChecks}
}

type CreateCheckInput struct {
	TokenID string

	Protocol       string `validate:"required,oneof=http https"`
	URL            string `validate:"required"`
	Method         string `validate:"required,oneof=get post put delete"`
	SuccessCodes   []int  `validate:"required,min=1"`
	TimeoutSeconds int    `validate:"required,min=1,max=5"`
}

func (in *CreateCheckInput) normalize() {
	in.Protocol = strings.TrimSpace(in.Protocol)
	in.URL = strings.TrimSpace(in.URL)
	in.Method = strings.TrimSpace(in.Method)
}

func (u *CheckUsecase) Create(ctx context.Context, in CreateCheckInput) (*domain.Check, error) {
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return nil, invalidInput(err)
	}

	token, err := u.tokens.Get(ctx, in.TokenID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if token.Expires <= time.Now().UnixMilli() {
		return nil, domain.ErrUnauthorized
	}

	var user domain.User
	if err := u.store.Read(ctx, repository.CollectionUsers, token.Phone, &user); err != nil {
		return nil, domain.ErrForbidden
	}

	if len(user.Checks) >= u.maxChecks {
		return nil, domain.ErrMaxChecksReached
	}

	id, err := security.NewRecordID(domain.TokenIDLength)
	if err != nil {
		return nil, fmt.Errorf("generate check id: %w", err)
	}

	check := &domain.Check{
		ID:             id,
		UserPhone:      token.Phone,
		Protocol:       in.Protocol,
		URL:            in.URL,
		Method:         in.Method,
		SuccessCodes:   in.SuccessCodes,
		TimeoutSeconds: in.TimeoutSeconds,
	}
	if err := u.store.Create(ctx, repository.CollectionChecks, id, check); err != nil {
		return nil, fmt.Errorf("store check: %w", err)
	}

	// If this write fails the check record above is not rolled back; the
	// orphan stays behind and the error surfaces as-is.
	user.Checks = append(user.Checks, id)
	if err := u.store.Update(ctx, repository.CollectionUsers, token.Phone, &user); err != nil {
		return nil, fmt.Errorf("update user check list: %w", err)
	}

	return check, nil
}

func (u *CheckUsecase) Get(ctx context.Context, id, tokenID string) (*domain.Check, error) {
	id = strings.TrimSpace(id)
	if len(id) != domain.TokenIDLength {
		return nil, invalidInput(errors.New("id must be 20 characters"))
	}

	var check domain.Check
	if err := u.store.Read(ctx, repository.CollectionChecks, id, &check); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrCheckNotFound
		}
		return nil, fmt.Errorf("read check: %w", err)
	}

	if !u.tokens.Verify(ctx, tokenID, check.UserPhone) {
		return nil, domain.ErrForbidden
	}
	return &check, nil
}

// UpdateCheckInput carries the partial check update. Zero-valued optional
// fields are left unchanged; at least one must be supplied.
type UpdateCheckInput struct {
	ID      string `validate:"required,len=20"`
	TokenID string

	Protocol       string `validate:"omitempty,oneof=http https"`
	URL            string
	Method         string `validate:"omitempty,oneof=get post put delete"`
	SuccessCodes   []int  `validate:"omitempty,min=1"`
	TimeoutSeconds int    `validate:"omitempty,min=1,max=5"`
}

func (in *UpdateCheckInput) normalize() {
	in.ID = strings.TrimSpace(in.ID)
	in.Protocol = strings.TrimSpace(in.Protocol)
	in.URL = strings.TrimSpace(in.URL)
	in.Method = strings.TrimSpace(in.Method)
}

func (in *UpdateCheckInput) empty() bool {
	return in.Protocol == "" && in.URL == "" && in.Method == "" &&
		len(in.SuccessCodes) == 0 && in.TimeoutSeconds == 0
}

func (u *CheckUsecase) Update(ctx context.Context, in UpdateCheckInput) error {
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return invalidInput(err)
	}
	if in.empty() {
		return invalidInput(errors.New("missing field to update"))
	}

	var check domain.Check
	if err := u.store.Read(ctx, repository.CollectionChecks, in.ID, &check); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrCheckNotFound
		}
		return fmt.Errorf("read check: %w", err)
	}

	if !u.tokens.Verify(ctx, in.TokenID, check.UserPhone) {
		return domain.ErrForbidden
	}

	if in.Protocol != "" {
		check.Protocol = in.Protocol
	}
	if in.URL != "" {
		check.URL = in.URL
	}
	if in.Method != "" {
		check.Method = in.Method
	}
	if len(in.SuccessCodes) > 0 {
		check.SuccessCodes = in.SuccessCodes
	}
	if in.TimeoutSeconds != 0 {
		check.TimeoutSeconds = in.TimeoutSeconds
	}

	if err := u.store.Update(ctx, repository.CollectionChecks, in.ID, &check); err != nil {
		return fmt.Errorf("update check: %w", err)
	}
	return nil
}

// Delete removes the check and then drops its id from the owner's checks
// list. A failure after the check is gone leaves a dangling reference in
// the user record and surfaces as an internal error.
func (u *CheckUsecase) Delete(ctx context.Context, id, tokenID string) error {
	id = strings.TrimSpace(id)
	if len(id) != domain.TokenIDLength {
		return invalidInput(errors.New("id must be 20 characters"))
	}

	var check domain.Check
	if err := u.store.Read(ctx, repository.CollectionChecks, id, &check); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrCheckNotFound
		}
		return fmt.Errorf("read check: %w", err)
	}

	if !u.tokens.Verify(ctx, tokenID, check.UserPhone) {
		return domain.ErrForbidden
	}

	if err := u.store.Delete(ctx, repository.CollectionChecks, id); err != nil {
		return fmt.Errorf("delete check: %w", err)
	}

	var user domain.User
	if err := u.store.Read(ctx, repository.CollectionUsers, check.UserPhone, &user); err != nil {
		return fmt.Errorf("read check owner: %w", err)
	}

	user.Checks = slices.DeleteFunc(user.Checks, func(checkID string) bool {
		return checkID == id
	})
	if err := u.store.Update(ctx, repository.CollectionUsers, check.UserPhone, &user); err != nil {
		return fmt.Errorf("update user check list: %w", err)
	}
	return nil
}
