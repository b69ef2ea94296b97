package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abylaikhan/upcheck/internal/domain"
	"github.com/abylaikhan/upcheck/internal/notify"
	"github.com/abylaikhan/upcheck/internal/repository"
	"github.com/abylaikhan/upcheck/internal/security"
	"golang.org/x/sync/errgroup"
)

// UserUsecase owns the user lifecycle. Deleting a user cascades to the
// user's checks; the cascade is best-effort and not transactional, so a
// failed check deletion is reported as ErrCascadeIncomplete while the user
// record itself stays deleted.
type UserUsecase struct {
	store    repository.RecordStore
	hasher   *security.Hasher
	tokens   *TokenUsecase
	notifier notify.Sender
	logger   *slog.Logger
}

func NewUserUsecase(store repository.RecordStore, hasher *security.Hasher, tokens *TokenUsecase, notifier notify.Sender, logger *slog.Logger) *UserUsecase {
	return &UserUsecase{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger.With("component", "user_usecase"),
	}
}

type CreateUserInput struct {
	FirstName    string `validate:"required"`
	LastName     string `validate:"required"`
	Phone        string `validate:"required,len=10"`
	Password     string `validate:"required"`
	TOSAgreement bool   `validate:"eq=true"`
}

func (in *CreateUserInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Password = strings.TrimSpace(in.Password)
}

func (u *UserUsecase) Create(ctx context.Context, in CreateUserInput) error {
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return invalidInput(err)
	}

	var existing domain.User
	err := u.store.Read(ctx, repository.CollectionUsers, in.Phone, &existing)
	if err == nil {
		return domain.ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check existing user: %w", err)
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		HashedPassword: hashed,
		TOSAgreement:   true,
	}
	if err := u.store.Create(ctx, repository.CollectionUsers, in.Phone, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("store user: %w", err)
	}

	// Best effort only: a failed welcome SMS never fails the signup.
	msg := fmt.Sprintf("Welcome %s! Your uptime monitoring account is ready.", user.FirstName)
	if err := u.notifier.Send(ctx, user.Phone, msg); err != nil {
		u.logger.WarnContext(ctx, "welcome sms failed", "phone", user.Phone, "error", err)
	}
	return nil
}

// Get returns the user record with the hashed password stripped. The token
// must belong to the requested phone and be unexpired.
func (u *UserUsecase) Get(ctx context.Context, phone, tokenID string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) != 10 {
		return nil, invalidInput(errors.New("phone must be 10 characters"))
	}

	if !u.tokens.Verify(ctx, tokenID, phone) {
		return nil, domain.ErrForbidden
	}

	var user domain.User
	if err := u.store.Read(ctx, repository.CollectionUsers, phone, &user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("read user: %w", err)
	}

	user.HashedPassword = ""
	return &user, nil
}

// UpdateUserInput carries the partial profile update. Empty optional
// fields are left unchanged; at least one must be supplied.
type UpdateUserInput struct {
	Phone   string `validate:"required,len=10"`
	TokenID string

	FirstName string
	LastName  string
	Password  string
}

func (in *UpdateUserInput) normalize() {
	in.Phone = strings.TrimSpace(in.Phone)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Password = strings.TrimSpace(in.Password)
}

func (u *UserUsecase) Update(ctx context.Context, in UpdateUserInput) error {
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return invalidInput(err)
	}
	if in.FirstName == "" && in.LastName == "" && in.Password == "" {
		return invalidInput(errors.New("missing field to update"))
	}

	if !u.tokens.Verify(ctx, in.TokenID, in.Phone) {
		return domain.ErrForbidden
	}

	var user domain.User
	if err := u.store.Read(ctx, repository.CollectionUsers, in.Phone, &user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("read user: %w", err)
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Password != "" {
		hashed, err := u.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := u.store.Update(ctx, repository.CollectionUsers, in.Phone, &user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes the user record and then deletes the user's checks
// concurrently. If any check deletion fails the result is
// ErrCascadeIncomplete: the user is gone but some check records remain.
func (u *UserUsecase) Delete(ctx context.Context, phone, tokenID string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) != 10 {
		return invalidInput(errors.New("phone must be 10 characters"))
	}

	if !u.tokens.Verify(ctx, tokenID, phone) {
		return domain.ErrForbidden
	}

	var user domain.User
	if err := u.store.Read(ctx, repository.CollectionUsers, phone, &user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("read user: %w", err)
	}

	if err := u.store.Delete(ctx, repository.CollectionUsers, phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, checkID := range user.Checks {
		g.Go(func() error {
			return u.store.Delete(gctx, repository.CollectionChecks, checkID)
		})
	}
	if err := g.Wait(); err != nil {
		u.logger.ErrorContext(ctx, "cascade check delete", "phone", phone, "error", err)
		return domain.ErrCascadeIncomplete
	}
	return nil
}
