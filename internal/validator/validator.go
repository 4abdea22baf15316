// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"grantledger/internal/models"
)

// structValidator checks `validate` tags on values that do not arrive through
// gin binding, such as user directory entries.
var structValidator = newStructValidator()

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustom(v)
	}
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("user_role", validateUserRole)
	_ = v.RegisterValidation("spj_link", validateSPJLink)
}

func newStructValidator() *validator.Validate {
	v := validator.New()
	registerCustom(v)
	return v
}

// Struct validates s against its `validate` tags, reporting the first
// failing field.
func Struct(s interface{}) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%s %q fails %s", strings.ToLower(fe.Field()), fe.Value(), fe.Tag())
	}
	return err
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// validateSPJLink accepts absolute http(s) URLs with a host. An empty value
// clears a stored link.
func validateSPJLink(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
