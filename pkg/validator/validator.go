package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
)

// Rules holds the date predicates used by patient and appointment input.
// Now and Location are injectable so "today" is deterministic in tests.
type Rules struct {
	Now      func() time.Time
	Location *time.Location
}

// NewRules returns rules evaluated against the server clock in loc.
func NewRules(loc *time.Location) *Rules {
	if loc == nil {
		loc = time.UTC
	}
	return &Rules{Now: time.Now, Location: loc}
}

// IsWellFormedDate reports whether s is a real calendar date written as DD/MM/YYYY.
func (r *Rules) IsWellFormedDate(s string) bool {
	return IsWellFormedDate(s)
}

// IsNotFuture reports whether the local date s is on or before today's local date.
func (r *Rules) IsNotFuture(s string) bool {
	d, err := time.ParseInLocation(timezone.LocalDateLayout, s, r.Location)
	if err != nil {
		return false
	}
	now := r.Now().In(r.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.Location)
	return !d.After(today)
}

// IsWellFormedDate reports whether s parses as DD/MM/YYYY and formats back unchanged.
func IsWellFormedDate(s string) bool {
	return roundTrips(timezone.LocalDateLayout, s)
}

// IsISODate reports whether s is a real calendar date written as YYYY-MM-DD.
func IsISODate(s string) bool {
	return roundTrips(timezone.DateLayout, s)
}

// IsTimeOfDay reports whether s is a canonical HH:mm:ss time.
func IsTimeOfDay(s string) bool {
	return roundTrips(timezone.TimeLayout, s)
}

func roundTrips(layout, s string) bool {
	t, err := time.Parse(layout, s)
	return err == nil && t.Format(layout) == s
}

// Validator runs tag-based validation and reports every failing field at once.
type Validator struct {
	validate *validator.Validate
	rules    *Rules
}

func New(rules *Rules) *Validator {
	if rules == nil {
		rules = NewRules(time.UTC)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "localdate", func(fl validator.FieldLevel) bool {
		return rules.IsWellFormedDate(fl.Field().String())
	})
	mustRegister(v, "notfuture", func(fl validator.FieldLevel) bool {
		return rules.IsNotFuture(fl.Field().String())
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	})
	mustRegister(v, "timeofday", func(fl validator.FieldLevel) bool {
		return IsTimeOfDay(fl.Field().String())
	})
	mustRegister(v, "timeafter", timeAfter)
	mustRegister(v, "weekdays", weekdays)

	return &Validator{validate: v, rules: rules}
}

func (v *Validator) Rules() *Rules {
	return v.rules
}

// Validate returns nil when obj passes, or an ErrValidation AppError keyed by JSON
// field name. Fields are checked in declaration order and each field stops at its
// first failing rule.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.BadRequest("invalid request", err)
	}

	fields := apperrors.FieldErrors{}
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return apperrors.Validation(fields)
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
	}
}

// timeAfter compares canonical HH:mm:ss strings; lexicographic order equals
// chronological order for same-day times.
func timeAfter(fl validator.FieldLevel) bool {
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	return fl.Field().String() > other.String()
}

func weekdays(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	seen := make(map[int64]bool, field.Len())
	for i := 0; i < field.Len(); i++ {
		item := field.Index(i)
		var day int64
		switch item.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			day = item.Int()
		default:
			return false
		}
		if day < 0 || day > 6 || seen[day] {
			return false
		}
		seen[day] = true
	}
	return true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid id"
	case "localdate":
		return "must be a valid date (DD/MM/YYYY)"
	case "notfuture":
		return "must not be in the future"
	case "isodate":
		return "must be a valid date (YYYY-MM-DD)"
	case "timeofday":
		return "must be a time of day (HH:mm:ss)"
	case "timeafter":
		return "must be later than the start time"
	case "weekdays":
		return "must contain distinct weekdays between 0 and 6"
	default:
		return "is invalid"
	}
}
