package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var customMessages = map[string]map[string]string{
	"Email": {
		"required": "email is required",
		"email":    "email is not a valid address",
	},
	"Password": {
		"required": "password is required",
		"min":      "password must be at least 8 characters",
		"max":      "password must be at most 72 bytes",
	},
	"NewPassword": {
		"min":     "new password must be at least 8 characters",
		"nefield": "new password must differ from the current one",
	},
	"Username": {
		"alphanum": "username may only contain letters and digits",
	},
	"Role": {
		"oneof": "role must be one of user, moderator, admin",
	},
	"Rating": {
		"required": "rating is required",
		"min":      "rating must be between 1 and 5",
		"max":      "rating must be between 1 and 5",
	},
	"Tags": {
		"max": "a photo can have at most 5 tags",
	},
}

// CustomMessage returns the field specific messages, if any.
func CustomMessage(field string) map[string]string {
	return customMessages[field]
}

func DefaultMessage(field, tag, param string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// FormatErrors turns binding errors into readable messages. Non-validation errors
// (malformed JSON, wrong types) come back as a single message.
func FormatErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if msgs := CustomMessage(e.Field()); msgs != nil {
			if msg, ok := msgs[e.Tag()]; ok {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, DefaultMessage(e.Field(), e.Tag(), e.Param()))
	}
	return messages
}
