// Package validate checks user input before it reaches the store.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pbaille/wellness/internal/domain"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterValidation("mood", validateMood)
		instance.RegisterValidation("plancategory", validatePlanCategory)
		instance.RegisterValidation("notblank", validateNotBlank)
	})
	return instance
}

func validateMood(fl validator.FieldLevel) bool {
	return domain.Mood(fl.Field().String()).Valid()
}

func validatePlanCategory(fl validator.FieldLevel) bool {
	switch domain.PlanCategory(fl.Field().String()) {
	case domain.PlanWarningSigns, domain.PlanCopingStrategies, domain.PlanDistractions,
		domain.PlanSupportPeople, domain.PlanProfessionalHelp:
		return true
	}
	return false
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates v and returns a *domain.ValidationError on failure
func Struct(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &domain.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldName(fe)] = message(fe)
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "value"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		if fe.Field() == "Mood" {
			return "please select a mood first"
		}
		return "is required"
	case "mood":
		return fmt.Sprintf("unknown mood %q", fe.Value())
	case "plancategory":
		return fmt.Sprintf("unknown category %q", fe.Value())
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("needs at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("holds at most %s items", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}
