package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/medbank-platform/question-engine/internal/errors"
	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/medbank-platform/question-engine/internal/tags"
)

// Validator wraps go-playground struct validation with the custom rules the
// engine's request types use.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	v := validator.New()
	registerCustomValidators(v)
	return &Validator{structValidator: v}
}

// ValidateStruct validates struct tags and converts failures into the shared
// ValidationErrors type.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_mode", validateQuestionMode)
	validate.RegisterValidation("tag_category", validateTagCategory)

	// Use json tag names in error messages
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
}

func validateQuestionMode(fl validator.FieldLevel) bool {
	_, ok := models.ParseQuestionMode(fl.Field().String())
	return ok
}

func validateTagCategory(fl validator.FieldLevel) bool {
	value := tags.Category(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	for _, category := range tags.Categories {
		if value == category {
			return true
		}
	}
	return false
}
