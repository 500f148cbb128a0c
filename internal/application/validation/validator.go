// Package validation traduce las etiquetas `validate:` de los DTOs a
// *domain.ValidationError con códigos de error estables por campo.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/pkg/taxcode"
)

// Códigos de error por campo.
const (
	CodeRequired      = "REQUIRED"
	CodeInvalidEmail  = "INVALID_EMAIL"
	CodeTooShort      = "TOO_SHORT"
	CodeTooLong       = "TOO_LONG"
	CodeTooSmall      = "TOO_SMALL"
	CodeTooLarge      = "TOO_LARGE"
	CodeInvalidURL    = "INVALID_URL"
	CodeInvalidUUID   = "INVALID_UUID"
	CodeInvalidValue  = "INVALID_VALUE"
	CodeWeakPassword  = "WEAK_PASSWORD"
	CodeInvalidLevel  = "INVALID_PACKAGE_LEVEL"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeFileType      = "INVALID_FILE_TYPE"
	CodeFileTooLarge  = "FILE_TOO_LARGE"
	CodeInvalidTaxID  = "INVALID_TAX_CODE"
)

// MaxUploadSize tamaño máximo de logos y licencias (5 MB).
const MaxUploadSize = 5 << 20

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Los errores se reportan con el nombre público del campo (json, query o form).
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "query", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		})
		_ = v.RegisterValidation("packagelevel", func(fl validator.FieldLevel) bool {
			_, ok := entity.ParsePackageLevel(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("taxcode", func(fl validator.FieldLevel) bool {
			return taxcode.Validate(fl.Field().String()) == nil
		})
	})
	return v
}

// Struct valida s según sus etiquetas. Devuelve nil o un *domain.ValidationError.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), codeFor(fe))
	}
	return out
}

// StrongPassword al menos una mayúscula, una minúscula, un dígito y un carácter especial.
// La longitud se valida aparte con min/max.
func StrongPassword(s string) bool {
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func codeFor(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}
	switch fe.Tag() {
	case "required", "required_without", "required_if":
		return CodeRequired
	case "email":
		return CodeInvalidEmail
	case "min", "gte":
		if numeric {
			return CodeTooSmall
		}
		return CodeTooShort
	case "max", "lte":
		if numeric {
			return CodeTooLarge
		}
		return CodeTooLong
	case "url", "http_url":
		return CodeInvalidURL
	case "uuid", "uuid4":
		return CodeInvalidUUID
	case "password":
		return CodeWeakPassword
	case "packagelevel":
		return CodeInvalidLevel
	case "taxcode":
		return CodeInvalidTaxID
	case "oneof":
		return CodeInvalidValue
	}
	return CodeInvalidFormat
}

// CheckUpload agrega a verr los errores del archivo: obligatorio, PDF o imagen, ≤ 5 MB.
func CheckUpload(verr *domain.ValidationError, field string, f *ports.Upload) {
	if f == nil {
		verr.Add(field, CodeRequired)
		return
	}
	if f.ContentType != "application/pdf" && !strings.HasPrefix(f.ContentType, "image/") {
		verr.Add(field, CodeFileType)
		return
	}
	if f.Size > MaxUploadSize {
		verr.Add(field, CodeFileTooLarge)
	}
}
