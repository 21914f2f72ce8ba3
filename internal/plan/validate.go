package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPlan wraps every validation failure.
var ErrInvalidPlan = errors.New("invalid plan")

// ErrTooManyActivities is returned by CheckLimit.
var ErrTooManyActivities = errors.New("too many activities")

var planValidate *validator.Validate

func init() {
	planValidate = validator.New()
	mustRegister(planValidate, "activitytype", validateActivityType)
	mustRegister(planValidate, "teachingmode", validateTeachingMode)
}

// mustRegister panics if a custom rule cannot be registered.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

func validateActivityType(fl validator.FieldLevel) bool {
	v := ActivityType(fl.Field().String())
	for _, t := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

func validateTeachingMode(fl validator.FieldLevel) bool {
	switch TeachingMode(fl.Field().String()) {
	case ModeFree, ModeField:
		return true
	}
	return false
}

// Validate checks field ranges and enumerations. All failures are reported
// together.
func (p *Plan) Validate() error {
	err := planValidate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidPlan, strings.Join(msgs, "; "))
}

// CheckLimit fails when the plan holds more than max activities. A max of
// zero or less disables the check.
func (p *Plan) CheckLimit(max int) error {
	if max > 0 && len(p.Activities) > max {
		return fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyActivities, len(p.Activities), max)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Plan.")
	switch fe.Tag() {
	case "activitytype":
		return fmt.Sprintf("%s: unknown activity type %q", field, fe.Value())
	case "teachingmode":
		return fmt.Sprintf("%s: unknown teaching mode %q", field, fe.Value())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s: must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s: failed %s", field, fe.Tag())
}
