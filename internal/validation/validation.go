// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package validation checks request structs with struct tags and provides
// the Brazilian document rules used at registration.
package validation

import (
	"errors"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return IsCPF(fl.Field().String())
	})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return IsCNPJ(fl.Field().String())
	})
	return v
}

// tagMessages maps a failed rule to its translation id.
var tagMessages = map[string]string{
	"required": "error_missing_fields",
	"email":    "error_invalid_email",
	"cpf":      "error_invalid_cpf",
	"cnpj":     "error_invalid_cnpj",
}

// Struct validates s and returns a Validation error naming the first
// failed rule.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Wrap(apperr.KindValidation, "error_validation", err)
	}

	first := verrs[0]
	msg, ok := tagMessages[first.Tag()]
	if !ok {
		msg = "error_validation"
	}
	return apperr.Wrap(apperr.KindValidation, msg,
		errors.Join(ErrInvalid, errors.New(first.Field()+" failed "+first.Tag())))
}

// Echo adapts Struct to echo.Validator.
type Echo struct{}

// Validate implements echo.Validator.
func (Echo) Validate(i any) error {
	return Struct(i)
}

// Digits removes every non-digit character.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// IsCPF checks the length and both check digits of a CPF. Punctuation is
// ignored.
func IsCPF(s string) bool {
	d := Digits(s)
	if len(d) != 11 || repeated(d) {
		return false
	}
	return checkDigit(d[:9], 10) == d[9] && checkDigit(d[:10], 11) == d[10]
}

// IsCNPJ checks the length and both check digits of a CNPJ. Punctuation is
// ignored.
func IsCNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 || repeated(d) {
		return false
	}
	return cnpjDigit(d[:12]) == d[12] && cnpjDigit(d[:13]) == d[13]
}

func checkDigit(d string, weight int) byte {
	sum := 0
	for i := range len(d) {
		sum += int(d[i]-'0') * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	return byte('0' + rest)
}

func cnpjDigit(d string) byte {
	sum := 0
	weight := len(d) - 7
	for i := range len(d) {
		sum += int(d[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + 11 - rest)
}

func repeated(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}
