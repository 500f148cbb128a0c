package entity

import (
	"strings"
	"time"
)

// CompanyStatus estado de aprobación de una empresa.
type CompanyStatus int

const (
	CompanyPending  CompanyStatus = -1
	CompanyRejected CompanyStatus = 0
	CompanyApproved CompanyStatus = 1
)

// Valid informa si el valor es uno de los tres estados.
func (s CompanyStatus) Valid() bool {
	return s == CompanyPending || s == CompanyRejected || s == CompanyApproved
}

// String etiqueta legible del estado.
func (s CompanyStatus) String() string {
	switch s {
	case CompanyPending:
		return "PENDING"
	case CompanyRejected:
		return "REJECTED"
	case CompanyApproved:
		return "APPROVED"
	}
	return "UNKNOWN"
}

// Company perfil de empresa; pertenece a exactamente una Account (1:1).
type Company struct {
	ID                  string
	AccountID           string
	Email               string
	Name                string
	Description         string
	Address             string
	ProvinceID          string
	Website             string
	Logo                string
	TaxCode             string
	BusinessLicensePath string
	Status              CompanyStatus
	ReasonReject        *string // solo con Status = REJECTED
	ReviewedBy          *string // cuenta admin que revisó
	ReviewedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Province referencia geográfica simple.
type Province struct {
	ID   string
	Name string
}

// CompanyReview resultado de la revisión de un admin sobre una empresa PENDING.
type CompanyReview struct {
	Status       CompanyStatus
	ReasonReject *string
	ReviewedBy   string
	ReviewedAt   time.Time
}

// NewCompanyReview valida la transición solicitada y normaliza el motivo:
// APPROVED siempre deja ReasonReject en nil; REJECTED exige un motivo no vacío.
// Devuelve ok=false con el campo inválido si la revisión no es aceptable.
func NewCompanyReview(status CompanyStatus, reason *string, reviewer string, at time.Time) (CompanyReview, string, bool) {
	switch status {
	case CompanyApproved:
		return CompanyReview{Status: status, ReviewedBy: reviewer, ReviewedAt: at}, "", true
	case CompanyRejected:
		if reason == nil || strings.TrimSpace(*reason) == "" {
			return CompanyReview{}, "reasonReject", false
		}
		r := strings.TrimSpace(*reason)
		return CompanyReview{Status: status, ReasonReject: &r, ReviewedBy: reviewer, ReviewedAt: at}, "", true
	}
	return CompanyReview{}, "status", false
}

// CompanyProfile campos que la empresa aprobada puede modificar por sí misma.
type CompanyProfile struct {
	Description string
	Address     string
	ProvinceID  string
	Website     string
	Logo        string
}
