package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/application/validation"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// FolderLogos carpeta de logos en el almacenamiento.
const FolderLogos = "logos"

// CompanyUseCase ciclo de vida de empresas: revisión del admin y perfil de la empresa aprobada.
type CompanyUseCase struct {
	repo    repository.CompanyRepository
	storage ports.FileStorage
	clock   ports.Clock
	log     *logger.Logger
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, storage ports.FileStorage, clock ports.Clock, log *logger.Logger) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, storage: storage, clock: clock, log: log.Component("company")}
}

// TransitionStatus aprueba o rechaza una empresa PENDING. Una empresa ya revisada no se
// encuentra (NotFound): la revisión ocurre una sola vez.
func (uc *CompanyUseCase) TransitionStatus(ctx context.Context, actor entity.Actor, companyID string, in dto.ChangeCompanyStatusRequest) (*dto.CompanyResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	company, err := uc.repo.GetPendingByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	review, field, ok := entity.NewCompanyReview(entity.CompanyStatus(*in.Status), in.ReasonReject, actor.AccountID, uc.clock.Now())
	if !ok {
		code := validation.CodeInvalidValue
		if field == "reasonReject" {
			code = validation.CodeRequired
		}
		return nil, domain.NewValidationError(field, code)
	}

	applied, err := uc.repo.TransitionStatus(ctx, companyID, review)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Otro admin la revisó entre la lectura y la escritura.
		return nil, domain.ErrNotFound
	}

	company.Status = review.Status
	company.ReasonReject = review.ReasonReject
	company.ReviewedBy = &review.ReviewedBy
	company.ReviewedAt = &review.ReviewedAt
	uc.log.Info().Str("company_id", companyID).Str("status", review.Status.String()).
		Str("reviewed_by", actor.AccountID).Msg("empresa revisada")
	return dto.NewCompanyResponse(company), nil
}

// UpdateProfile modifica descripción, dirección, provincia, web y logo de la empresa
// aprobada del actor. Si se subió un logo nuevo y la operación falla, se borra.
func (uc *CompanyUseCase) UpdateProfile(ctx context.Context, actor entity.Actor, companyID string, in dto.UpdateCompanyRequest, logo *ports.Upload) (resp *dto.CompanyResponse, err error) {
	company, err := uc.repo.GetApprovedByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil || company.AccountID != actor.AccountID {
		return nil, domain.ErrNotFound
	}

	if logo != nil {
		verr := &domain.ValidationError{}
		validation.CheckUpload(verr, "logo", logo)
		if verr.HasErrors() {
			return nil, verr
		}
		var uri string
		uri, err = uc.storage.Save(ctx, FolderLogos, *logo)
		if err != nil {
			return nil, err
		}
		in.Logo = uri
		defer func() {
			if err == nil {
				return
			}
			if derr := uc.storage.Delete(context.WithoutCancel(ctx), uri); derr != nil {
				uc.log.Warn().Err(derr).Str("uri", uri).Msg("no se pudo borrar el logo subido")
			}
		}()
	}

	if err = uc.validateProfile(ctx, in); err != nil {
		return nil, err
	}

	profile := entity.CompanyProfile{
		Description: in.Description,
		Address:     strings.TrimSpace(in.Address),
		ProvinceID:  in.ProvinceID,
		Website:     in.Website,
		Logo:        strings.TrimSpace(in.Logo),
	}
	applied, err := uc.repo.UpdateProfile(ctx, companyID, profile)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrNotFound
	}

	if logo != nil && company.Logo != "" && company.Logo != profile.Logo {
		if derr := uc.storage.Delete(context.WithoutCancel(ctx), company.Logo); derr != nil {
			uc.log.Warn().Err(derr).Str("uri", company.Logo).Msg("no se pudo borrar el logo anterior")
		}
	}

	company.Description, company.Address, company.ProvinceID = profile.Description, profile.Address, profile.ProvinceID
	company.Website, company.Logo = profile.Website, profile.Logo
	company.UpdatedAt = uc.clock.Now()
	return dto.NewCompanyResponse(company), nil
}

func (uc *CompanyUseCase) validateProfile(ctx context.Context, in dto.UpdateCompanyRequest) error {
	verr := &domain.ValidationError{}
	if err := validation.Struct(in); err != nil {
		var fe *domain.ValidationError
		if !errors.As(err, &fe) {
			return err
		}
		verr.Fields = append(verr.Fields, fe.Fields...)
	}
	if len(strings.TrimSpace(in.Logo)) < 3 {
		verr.Add("logo", validation.CodeRequired)
	}
	if in.ProvinceID != "" {
		ok, err := uc.repo.ProvinceExists(ctx, in.ProvinceID)
		if err != nil {
			return err
		}
		if !ok {
			verr.Add("provinceId", "NOT_FOUND")
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// GetVerificationStatus consulta pública del estado de revisión por email.
func (uc *CompanyUseCase) GetVerificationStatus(ctx context.Context, email string) (*dto.VerificationStatusResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("email", validation.CodeRequired)
	}
	company, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.VerificationStatusResponse{
		Email:        company.Email,
		Name:         company.Name,
		Status:       int(company.Status),
		StatusLabel:  company.Status.String(),
		ReasonReject: company.ReasonReject,
	}, nil
}

// GetByID detalle de una empresa en cualquier estado (admin).
func (uc *CompanyUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.CompanyResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewCompanyResponse(company), nil
}

// ListUnapproved empresas pendientes y/o rechazadas (admin). status: pending | rejected | all.
func (uc *CompanyUseCase) ListUnapproved(ctx context.Context, actor entity.Actor, q dto.CompanyListQuery) (*dto.Page[dto.CompanyResponse], error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	q.DefaultPage()

	statuses := []entity.CompanyStatus{entity.CompanyPending, entity.CompanyRejected}
	switch q.Status {
	case "pending":
		statuses = []entity.CompanyStatus{entity.CompanyPending}
	case "rejected":
		statuses = []entity.CompanyStatus{entity.CompanyRejected}
	}

	list, total, err := uc.repo.List(ctx, repository.CompanyFilter{
		Statuses: statuses,
		Search:   q.Search,
		Limit:    q.Size,
		Offset:   q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.NewCompanyResponse(c))
	}
	return &dto.Page[dto.CompanyResponse]{Items: items, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

// ListPublic directorio público: solo empresas aprobadas con la cuenta activa.
func (uc *CompanyUseCase) ListPublic(ctx context.Context, q dto.PublicCompanyListQuery) (*dto.Page[dto.PublicCompanyResponse], error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.CompanyFilter{
		Statuses:          []entity.CompanyStatus{entity.CompanyApproved},
		Search:            q.Search,
		Province:          q.Province,
		ActiveAccountOnly: true,
		Limit:             q.Size,
		Offset:            q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PublicCompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewPublicCompanyResponse(c))
	}
	return &dto.Page[dto.PublicCompanyResponse]{Items: items, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

// GetPublicByID ficha pública de una empresa aprobada. Pendientes y rechazadas son NotFound.
func (uc *CompanyUseCase) GetPublicByID(ctx context.Context, id string) (*dto.PublicCompanyResponse, error) {
	company, err := uc.repo.GetApprovedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewPublicCompanyResponse(company)
	return &out, nil
}
