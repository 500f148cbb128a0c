package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/usecase"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/testutil"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

var (
	t0    = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	admin = entity.Actor{Role: entity.RoleAdmin, AccountID: "admin-1"}
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func fieldCodes(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, got %v", err)
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Code
	}
	return out
}

func newCompanyUC() (*testutil.Store, *testutil.MemStorage, *usecase.CompanyUseCase) {
	s := testutil.NewStore()
	st := testutil.NewMemStorage()
	return s, st, usecase.NewCompanyUseCase(s.CompanyRepo(), st, testutil.NewFakeClock(t0), logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Revisión (PENDING → APPROVED / REJECTED)
// ──────────────────────────────────────────────────────────────────────────────

func TestTransitionStatus_AprobarLimpiaMotivo(t *testing.T) {
	s, _, uc := newCompanyUC()
	_, c := s.SeedCompany("a@congty.vn", entity.CompanyPending)

	resp, err := uc.TransitionStatus(context.Background(), admin, c.ID,
		dto.ChangeCompanyStatusRequest{Status: intPtr(1), ReasonReject: strPtr("motivo viejo")})
	require.NoError(t, err)

	assert.Equal(t, int(entity.CompanyApproved), resp.Status)
	assert.Nil(t, resp.ReasonReject)
	stored := s.Company(c.ID)
	assert.Equal(t, entity.CompanyApproved, stored.Status)
	assert.Nil(t, stored.ReasonReject)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, "admin-1", *stored.ReviewedBy)
}

func TestTransitionStatus_RechazoSinMotivoNoCambiaEstado(t *testing.T) {
	s, _, uc := newCompanyUC()
	_, c := s.SeedCompany("a@congty.vn", entity.CompanyPending)

	_, err := uc.TransitionStatus(context.Background(), admin, c.ID,
		dto.ChangeCompanyStatusRequest{Status: intPtr(0), ReasonReject: strPtr("  ")})
	assert.Equal(t, "REQUIRED", fieldCodes(t, err)["reasonReject"])
	assert.Equal(t, entity.CompanyPending, s.Company(c.ID).Status)
}

func TestTransitionStatus_RechazoConMotivo(t *testing.T) {
	s, _, uc := newCompanyUC()
	_, c := s.SeedCompany("a@congty.vn", entity.CompanyPending)

	resp, err := uc.TransitionStatus(context.Background(), admin, c.ID,
		dto.ChangeCompanyStatusRequest{Status: intPtr(0), ReasonReject: strPtr("Giấy phép không hợp lệ")})
	require.NoError(t, err)
	require.NotNil(t, resp.ReasonReject)
	assert.Equal(t, "Giấy phép không hợp lệ", *resp.ReasonReject)
}

func TestTransitionStatus_EmpresaYaRevisadaEsNotFound(t *testing.T) {
	s, _, uc := newCompanyUC()
	_, approved := s.SeedCompany("ok@congty.vn", entity.CompanyApproved)
	_, rejected := s.SeedCompany("no@congty.vn", entity.CompanyRejected)

	for _, id := range []string{approved.ID, rejected.ID, "no-existe"} {
		_, err := uc.TransitionStatus(context.Background(), admin, id, dto.ChangeCompanyStatusRequest{Status: intPtr(1)})
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}
	assert.NotNil(t, s.Company(rejected.ID).ReasonReject, "la empresa rechazada conserva su motivo")
}

func TestTransitionStatus_EstadoDesconocido(t *testing.T) {
	s, _, uc := newCompanyUC()
	_, c := s.SeedCompany("a@congty.vn", entity.CompanyPending)

	_, err := uc.TransitionStatus(context.Background(), admin, c.ID, dto.ChangeCompanyStatusRequest{Status: intPtr(-1)})
	assert.Equal(t, "INVALID_VALUE", fieldCodes(t, err)["status"])

	_, err = uc.TransitionStatus(context.Background(), admin, c.ID, dto.ChangeCompanyStatusRequest{})
	assert.Equal(t, "REQUIRED", fieldCodes(t, err)["status"])
}

func TestTransitionStatus_SoloAdmin(t *testing.T) {
	s, _, uc := newCompanyUC()
	acc, c := s.SeedCompany("a@congty.vn", entity.CompanyPending)

	_, err := uc.TransitionStatus(context.Background(), entity.Actor{Role: entity.RoleCompany, AccountID: acc.ID}, c.ID,
		dto.ChangeCompanyStatusRequest{Status: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil de la empresa aprobada
// ──────────────────────────────────────────────────────────────────────────────

func profileReq() dto.UpdateCompanyRequest {
	return dto.UpdateCompanyRequest{
		Description: "Tuyển dụng IT", Address: "34 Nguyễn Huệ", ProvinceID: "01",
		Website: "https://abc.vn", Logo: "mem://logos/seed.png",
	}
}

func TestUpdateProfile_ModificaSoloCamposEditables(t *testing.T) {
	s, _, uc := newCompanyUC()
	acc, c := s.SeedCompany("a@congty.vn", entity.CompanyApproved)
	actor := entity.Actor{Role: entity.RoleCompany, AccountID: acc.ID}

	resp, err := uc.UpdateProfile(context.Background(), actor, c.ID, profileReq(), nil)
	require.NoError(t, err)

	stored := s.Company(c.ID)
	assert.Equal(t, "34 Nguyễn Huệ", stored.Address)
	assert.Equal(t, "https://abc.vn", resp.Website)
	assert.Equal(t, c.Name, stored.Name)
	assert.Equal(t, c.TaxCode, stored.TaxCode)
	assert.Equal(t, entity.CompanyApproved, stored.Status)
}

func TestUpdateProfile_NoAprobadaOAjenaEsNotFound(t *testing.T) {
	s, _, uc := newCompanyUC()
	accP, pending := s.SeedCompany("p@congty.vn", entity.CompanyPending)
	_, other := s.SeedCompany("o@congty.vn", entity.CompanyApproved)

	_, err := uc.UpdateProfile(context.Background(), entity.Actor{Role: entity.RoleCompany, AccountID: accP.ID}, pending.ID, profileReq(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.UpdateProfile(context.Background(), entity.Actor{Role: entity.RoleCompany, AccountID: accP.ID}, other.ID, profileReq(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfile_LogoNuevoSeBorraSiLaValidacionFalla(t *testing.T) {
	s, st, uc := newCompanyUC()
	acc, c := s.SeedCompany("a@congty.vn", entity.CompanyApproved)
	in := profileReq()
	in.Address = "x"

	_, err := uc.UpdateProfile(context.Background(), entity.Actor{Role: entity.RoleCompany, AccountID: acc.ID}, c.ID, in,
		testutil.Upload("nuevo.png", "image/png", []byte("png")))
	assert.Equal(t, "TOO_SHORT", fieldCodes(t, err)["address"])

	assert.Zero(t, st.Count(), "el logo subido no debe quedar huérfano")
	require.Len(t, st.Deleted, 1)
	assert.Contains(t, st.Deleted[0], "nuevo.png")
	assert.Equal(t, c.Logo, s.Company(c.ID).Logo)
}

func TestUpdateProfile_BorradoFallidoSoloSeRegistra(t *testing.T) {
	s, st, uc := newCompanyUC()
	st.DeleteErr = errors.New("cdn caído")
	acc, c := s.SeedCompany("a@congty.vn", entity.CompanyApproved)
	in := profileReq()
	in.ProvinceID = "99"

	_, err := uc.UpdateProfile(context.Background(), entity.Actor{Role: entity.RoleCompany, AccountID: acc.ID}, c.ID, in,
		testutil.Upload("nuevo.png", "image/png", []byte("png")))
	assert.Equal(t, "NOT_FOUND", fieldCodes(t, err)["provinceId"], "se devuelve el error de validación, no el del borrado")
}

func TestUpdateProfile_LogoNuevoReemplazaAlAnterior(t *testing.T) {
	s, st, uc := newCompanyUC()
	acc, c := s.SeedCompany("a@congty.vn", entity.CompanyApproved)

	resp, err := uc.UpdateProfile(context.Background(), entity.Actor{Role: entity.RoleCompany, AccountID: acc.ID}, c.ID, profileReq(),
		testutil.Upload("nuevo.png", "image/png", []byte("png")))
	require.NoError(t, err)

	assert.Contains(t, resp.Logo, "nuevo.png")
	assert.Equal(t, []string{"mem://logos/seed.png"}, st.Deleted, "el logo anterior se elimina")
}

func TestUpdateProfile_SinLogo(t *testing.T) {
	s, _, uc := newCompanyUC()
	acc, c := s.SeedCompany("a@congty.vn", entity.CompanyApproved)
	in := profileReq()
	in.Logo = ""

	_, err := uc.UpdateProfile(context.Background(), entity.Actor{Role: entity.RoleCompany, AccountID: acc.ID}, c.ID, in, nil)
	assert.Equal(t, "REQUIRED", fieldCodes(t, err)["logo"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetVerificationStatus(t *testing.T) {
	s, _, uc := newCompanyUC()
	s.SeedCompany("rej@congty.vn", entity.CompanyRejected)

	resp, err := uc.GetVerificationStatus(context.Background(), "REJ@congty.vn")
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.StatusLabel)
	assert.NotNil(t, resp.ReasonReject)

	_, err = uc.GetVerificationStatus(context.Background(), "nadie@congty.vn")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListUnapproved_FiltraPorEstado(t *testing.T) {
	s, _, uc := newCompanyUC()
	s.SeedCompany("p1@congty.vn", entity.CompanyPending)
	s.SeedCompany("p2@congty.vn", entity.CompanyPending)
	s.SeedCompany("r1@congty.vn", entity.CompanyRejected)
	s.SeedCompany("ok@congty.vn", entity.CompanyApproved)

	all, err := uc.ListUnapproved(context.Background(), admin, dto.CompanyListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Pagination.Total)

	pending, err := uc.ListUnapproved(context.Background(), admin, dto.CompanyListQuery{Status: "pending", PageRequest: dto.PageRequest{Size: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Pagination.Total)
	assert.Equal(t, 2, pending.Pagination.TotalPages)
	assert.Len(t, pending.Items, 1)

	_, err = uc.ListUnapproved(context.Background(), admin, dto.CompanyListQuery{Status: "approved"})
	assert.Equal(t, "INVALID_VALUE", fieldCodes(t, err)["status"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Directorio público
// ──────────────────────────────────────────────────────────────────────────────

func TestListPublic_SoloAprobadasConCuentaActiva(t *testing.T) {
	s, _, uc := newCompanyUC()
	s.Provinces["79"] = "TP. Hồ Chí Minh"
	_, hanoi := s.SeedCompany("hn@congty.vn", entity.CompanyApproved)
	_, hcm := s.SeedCompany("hcm@congty.vn", entity.CompanyApproved)
	s.Companies[hcm.ID].ProvinceID = "79"
	locked, _ := s.SeedCompany("bloqueada@congty.vn", entity.CompanyApproved)
	s.SeedCompany("pendiente@congty.vn", entity.CompanyPending)
	s.SeedCompany("rechazada@congty.vn", entity.CompanyRejected)
	_, err := s.AccountRepo().SetLocked(context.Background(), locked.ID, true)
	require.NoError(t, err)

	page, err := uc.ListPublic(context.Background(), dto.PublicCompanyListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total)

	page, err = uc.ListPublic(context.Background(), dto.PublicCompanyListQuery{Province: "hồ chí"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, hcm.ID, page.Items[0].ID)

	page, err = uc.ListPublic(context.Background(), dto.PublicCompanyListQuery{Search: "HN@"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, hanoi.ID, page.Items[0].ID)
}

func TestGetPublicByID_SoloAprobadas(t *testing.T) {
	s, _, uc := newCompanyUC()
	_, approved := s.SeedCompany("ok@congty.vn", entity.CompanyApproved)
	_, pend := s.SeedCompany("pend@congty.vn", entity.CompanyPending)

	got, err := uc.GetPublicByID(context.Background(), approved.ID)
	require.NoError(t, err)
	assert.Equal(t, "ok@congty.vn", got.Email)

	_, err = uc.GetPublicByID(context.Background(), pend.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetPublicByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
