// Package validation checks user input before anything is sent to the
// backend. Messages are the Spanish alert texts shown to customers.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("validation failed")

// FieldError is one failed rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every failed rule in field order
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	return e.First()
}

// First returns the message of the first failed field.
func (e *Error) First() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return e.Fields[0].Message
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// New builds a single-field validation error.
func New(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

var (
	validate = newValidator()

	digitsOnly    = regexp.MustCompile(`^\d{10}$`)
	whitespace    = regexp.MustCompile(`\s`)
	imageURLRegex = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|webp)$`)
)

const maxPrice = 999999

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("filled", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return digitsOnly.MatchString(whitespace.ReplaceAllString(fl.Field().String(), ""))
	})
	v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return imageURLRegex.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.IsPositive()
	})
	v.RegisterValidation("maxprice", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.LessThanOrEqual(decimal.NewFromInt(maxPrice))
	})
	v.RegisterValidation("stock", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.IsInteger() && !d.IsNegative()
	})

	return v
}

// Validate checks v against its validate tags and returns *Error on failure.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// Fields returns the field errors carried by err, if any.
func Fields(err error) []FieldError {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Namespace()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required", "filled":
		return fe.Field() + " es requerido"
	case "min":
		return fe.Field() + " es demasiado corto"
	case "max":
		return fe.Field() + " es demasiado largo"
	case "gte":
		return fe.Field() + " debe ser mayor o igual a " + fe.Param()
	case "gt":
		return fe.Field() + " debe ser mayor a " + fe.Param()
	case "lte":
		return fe.Field() + " debe ser menor o igual a " + fe.Param()
	default:
		return fe.Field() + " no es válido"
	}
}
