package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Nickname string `validate:"max=3"`
}

func TestFormatErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(signup{Email: "nope", Password: "short", Nickname: "toolong"})
	assert.ElementsMatch(t, []string{
		"email is not a valid address",
		"password must be at least 8 characters",
		"nickname must be at most 3",
	}, FormatErrors(err))
}

func TestFormatErrors_NonValidationError(t *testing.T) {
	assert.Equal(t, []string{"unexpected EOF"}, FormatErrors(errors.New("unexpected EOF")))
}
