package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator. It registers the catalog-specific rules:
//
//	bookprice — string parses as a decimal that is positive with at most
//	            two decimal places
//	isbn      — valid ISBN-10 or ISBN-13 (checksum verified)
func NewValidator() *echoValidator {
	v := validator.New()
	// Registration errors only occur for nil funcs or empty tags.
	_ = v.RegisterValidation("bookprice", validBookPrice)
	_ = v.RegisterValidation("isbn", validISBN)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "bookprice":
		return field + " must be a positive amount with at most two decimal places"
	case "isbn":
		return field + " must be a valid ISBN-10 or ISBN-13"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func validBookPrice(fl validator.FieldLevel) bool {
	p, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return domain.ValidPrice(p)
}

// validISBN accepts ISBN-10 and ISBN-13, with or without hyphens or spaces.
func validISBN(fl validator.FieldLevel) bool {
	raw := strings.NewReplacer("-", "", " ", "").Replace(fl.Field().String())
	switch len(raw) {
	case 10:
		return validISBN10(raw)
	case 13:
		return validISBN13(raw)
	}
	return false
}

func validISBN10(s string) bool {
	sum := 0
	for i, r := range s {
		var digit int
		switch {
		case r >= '0' && r <= '9':
			digit = int(r - '0')
		case (r == 'X' || r == 'x') && i == 9:
			digit = 10
		default:
			return false
		}
		sum += digit * (10 - i)
	}
	return sum%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return sum%10 == 0
}
