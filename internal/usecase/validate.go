package usecase

import (
	"fmt"

	"github.com/abylaikhan/upcheck/internal/domain"
	"github.com/go-playground/validator/v10"
)

// validate backs the input-shape checks every operation runs before its
// first store call. Inputs are normalized (trimmed) first, then validated
// as a whole, so a rejected request never leaves partial state behind.
var validate = validator.New(validator.WithRequiredStructEnabled())

func invalidInput(err error) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
}
