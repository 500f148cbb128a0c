package dto

import (
	"time"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// ChangeCompanyStatusRequest revisión de un admin: 1 = aprobar, 0 = rechazar.
type ChangeCompanyStatusRequest struct {
	Status       *int    `json:"status" validate:"required"`
	ReasonReject *string `json:"reasonReject"`
}

// UpdateCompanyRequest campos editables por la empresa aprobada (multipart).
// Logo es la URI actual; si llega un archivo nuevo, la reemplaza.
type UpdateCompanyRequest struct {
	Description string `json:"description" form:"description"`
	Address     string `json:"address" form:"address" validate:"required,min=3"`
	ProvinceID  string `json:"provinceId" form:"provinceId" validate:"required"`
	Website     string `json:"website" form:"website" validate:"omitempty,url"`
	Logo        string `json:"logo" form:"logo"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                  string     `json:"id"`
	AccountID           string     `json:"accountId"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Address             string     `json:"address"`
	ProvinceID          string     `json:"provinceId"`
	Website             string     `json:"website"`
	Logo                string     `json:"logo"`
	TaxCode             string     `json:"taxCode"`
	BusinessLicensePath string     `json:"businessLicensePath"`
	Status              int        `json:"status"`
	StatusLabel         string     `json:"statusLabel"`
	ReasonReject        *string    `json:"reasonReject"`
	ReviewedAt          *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// VerificationStatusResponse estado público de verificación de una empresa.
type VerificationStatusResponse struct {
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Status       int     `json:"status"`
	StatusLabel  string  `json:"statusLabel"`
	ReasonReject *string `json:"reasonReject"`
}

// CompanyListQuery filtro del listado de empresas sin aprobar.
type CompanyListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending rejected all"`
	Search string `query:"search"`
}

// PublicCompanyListQuery filtro del directorio público de empresas aprobadas.
type PublicCompanyListQuery struct {
	PageRequest
	Search   string `query:"search"`
	Province string `query:"province"`
}

// PublicCompanyResponse ficha pública: sin licencia ni datos de revisión.
type PublicCompanyResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	ProvinceID  string    `json:"provinceId"`
	Website     string    `json:"website"`
	Logo        string    `json:"logo"`
	TaxCode     string    `json:"taxCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewPublicCompanyResponse convierte la entidad a la ficha pública.
func NewPublicCompanyResponse(c *entity.Company) PublicCompanyResponse {
	return PublicCompanyResponse{
		ID:          c.ID,
		Email:       c.Email,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		ProvinceID:  c.ProvinceID,
		Website:     c.Website,
		Logo:        c.Logo,
		TaxCode:     c.TaxCode,
		CreatedAt:   c.CreatedAt,
	}
}

// NewCompanyResponse convierte la entidad al DTO de salida.
func NewCompanyResponse(c *entity.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:                  c.ID,
		AccountID:           c.AccountID,
		Email:               c.Email,
		Name:                c.Name,
		Description:         c.Description,
		Address:             c.Address,
		ProvinceID:          c.ProvinceID,
		Website:             c.Website,
		Logo:                c.Logo,
		TaxCode:             c.TaxCode,
		BusinessLicensePath: c.BusinessLicensePath,
		Status:              int(c.Status),
		StatusLabel:         c.Status.String(),
		ReasonReject:        c.ReasonReject,
		ReviewedAt:          c.ReviewedAt,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}
