package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	tagColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func InitValidator() {
	if Validate != nil {
		return
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return IsValidUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("tagcolor", func(fl validator.FieldLevel) bool {
		return IsValidTagColor(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("base64image", func(fl validator.FieldLevel) bool {
		_, _, err := DecodeBase64Image(fl.Field().String())
		return err == nil
	})
	Validate = v
}

// IsValidUsername accepts letters, digits and @.+-_ and rejects "me" in any case.
func IsValidUsername(username string) bool {
	if len(username) == 0 || len(username) > 150 {
		return false
	}
	if strings.EqualFold(username, "me") {
		return false
	}
	return usernamePattern.MatchString(username)
}

func IsValidTagColor(color string) bool {
	return tagColorPattern.MatchString(color)
}
