package validation

import (
	"errors"
	"fmt"
	"pocketblog/models"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents custom validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation errors: " + strings.Join(e.Errors, ", ")
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", notBlank)
}

// notBlank rejects empty and whitespace-only strings.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateDraft checks the form fields of a new post.
func ValidateDraft(draft models.Draft) error {
	return structErrors(validate.Struct(draft))
}

// ValidatePost checks a post read back from storage.
func ValidatePost(post models.Post) error {
	return structErrors(validate.Struct(post))
}

// ValidateCollection validates every post and names the failing index.
func ValidateCollection(c models.Collection) error {
	var validationErrors []string
	for i, post := range c {
		if err := ValidatePost(post); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				for _, msg := range ve.Errors {
					validationErrors = append(validationErrors, fmt.Sprintf("posts[%d].%s", i, msg))
				}
				continue
			}
			return err
		}
	}
	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}
	return nil
}

func structErrors(err error) error {
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var validationErrors []string
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &ValidationError{Errors: validationErrors}
}
