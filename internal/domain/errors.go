package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrForbidden          = errors.New("acceso denegado")
	ErrAccountLocked      = errors.New("la cuenta está bloqueada")
	ErrCompanyNotApproved = errors.New("la empresa no ha sido aprobada")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrPackageInUse       = errors.New("el paquete tiene pedidos activos")
	ErrOrderFinalized     = errors.New("el pedido ya tiene un estado final")
	ErrPaymentRejected    = errors.New("pago rechazado")
	ErrNoPostCredit       = errors.New("sin publicaciones disponibles")
	ErrInvalidResetToken  = errors.New("token de recuperación inválido o vencido")
	ErrEmailDelivery      = errors.New("no se pudo enviar el email")
)

// FieldError error de validación sobre un campo concreto.
type FieldError struct {
	Field string
	Code  string
}

// ValidationError agrupa errores por campo. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, code string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Code: code}}}
}

// Add agrega un error de campo.
func (e *ValidationError) Add(field, code string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code})
}

// HasErrors informa si hay al menos un campo inválido.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Code)
	}
	return ErrInvalidInput.Error() + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
