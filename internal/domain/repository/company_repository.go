package repository

import (
	"context"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// CompanyFilter filtro de los listados de empresas.
// Statuses vacío equivale a todos los estados.
type CompanyFilter struct {
	Statuses []entity.CompanyStatus
	Search   string
	// Province coincidencia parcial sobre el nombre de la provincia.
	Province string
	// ActiveAccountOnly excluye empresas cuya cuenta está bloqueada.
	ActiveAccountOnly bool
	Limit             int
	Offset            int
}

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByAccountID(ctx context.Context, accountID string) (*entity.Company, error)
	GetByEmail(ctx context.Context, email string) (*entity.Company, error)
	// GetPendingByID solo encuentra empresas en estado PENDING.
	GetPendingByID(ctx context.Context, id string) (*entity.Company, error)
	// GetApprovedByID solo encuentra empresas en estado APPROVED.
	GetApprovedByID(ctx context.Context, id string) (*entity.Company, error)
	// TransitionStatus aplica la revisión solo si la empresa sigue PENDING.
	// Devuelve false si ninguna fila cumplió la condición.
	TransitionStatus(ctx context.Context, id string, review entity.CompanyReview) (bool, error)
	// UpdateProfile modifica los campos editables solo si la empresa sigue APPROVED.
	UpdateProfile(ctx context.Context, id string, profile entity.CompanyProfile) (bool, error)
	List(ctx context.Context, filter CompanyFilter) ([]*entity.Company, int, error)
	ProvinceExists(ctx context.Context, id string) (bool, error)
}
