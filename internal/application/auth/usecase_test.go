package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/application/auth"
	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/testutil"
	pkgjwt "github.com/jhoicas/jobboard-api/pkg/jwt"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

const secret = "test-secret"

type fixture struct {
	store   *testutil.Store
	storage *testutil.MemStorage
	clock   *testutil.FakeClock
	mailer  *testutil.RecordingMailer
	uc      *auth.AuthUseCase
}

func newFixture() *fixture {
	s := testutil.NewStore()
	st := testutil.NewMemStorage()
	clock := testutil.NewFakeClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	mailer := &testutil.RecordingMailer{}
	uc := auth.NewAuthUseCase(s.AccountRepo(), s.CompanyRepo(), s.TxRunner(), st, clock,
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "jobboard-test"},
		mailer, auth.PasswordResetConfig{LinkBaseURL: "https://vieclam.vn/reset-password/"}, logger.Nop())
	return &fixture{store: s, storage: st, clock: clock, mailer: mailer, uc: uc}
}

func registerReq() dto.RegisterCompanyRequest {
	return dto.RegisterCompanyRequest{
		Email: "hr@congty.vn", Password: "Abc@1234", Name: "Công ty ABC",
		Address: "12 Lê Lợi", ProvinceID: "01", Website: "https://congty.vn", TaxCode: "0100109106",
	}
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, got %v", err)
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Code
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterCompany_CreaCuentaYEmpresaPendiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.uc.RegisterCompany(ctx, registerReq(),
		testutil.Upload("logo.png", "image/png", []byte("png")),
		testutil.Upload("gpkd.pdf", "application/pdf", []byte("pdf")))
	require.NoError(t, err)

	assert.Equal(t, int(entity.CompanyPending), resp.Status)
	assert.Nil(t, resp.ReasonReject)
	assert.Equal(t, 2, f.storage.Count())

	acc, _ := f.store.AccountRepo().GetByEmail(ctx, "hr@congty.vn")
	require.NotNil(t, acc)
	assert.Equal(t, entity.RoleCompany, acc.Role)
	assert.NotEqual(t, "Abc@1234", acc.PasswordHash, "la contraseña se guarda hasheada")
	assert.Equal(t, acc.ID, resp.AccountID)
}

func TestRegisterCompany_ErroresDeValidacionAgrupados(t *testing.T) {
	f := newFixture()
	in := registerReq()
	in.Password = "abc"
	in.TaxCode = "12"

	_, err := f.uc.RegisterCompany(context.Background(), in, nil,
		testutil.Upload("gpkd.exe", "application/octet-stream", []byte("x")))
	fields := validationFields(t, err)

	assert.Contains(t, fields, "password")
	assert.Equal(t, "TOO_SHORT", fields["taxCode"])
	assert.Equal(t, "REQUIRED", fields["logo"])
	assert.Equal(t, "INVALID_FILE_TYPE", fields["businessLicense"])
	assert.Zero(t, f.storage.Count(), "no se sube nada si la validación falla")
}

func TestRegisterCompany_EmailDuplicado(t *testing.T) {
	f := newFixture()
	f.store.SeedAccount("hr@congty.vn", entity.RoleUser)

	_, err := f.uc.RegisterCompany(context.Background(), registerReq(),
		testutil.Upload("logo.png", "image/png", []byte("png")),
		testutil.Upload("gpkd.pdf", "application/pdf", []byte("pdf")))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Zero(t, f.storage.Count())
}

func TestRegisterCompany_FalloEnTransaccionBorraArchivos(t *testing.T) {
	f := newFixture()
	f.store.FailCompanyCreate = testutil.ErrBoom

	_, err := f.uc.RegisterCompany(context.Background(), registerReq(),
		testutil.Upload("logo.png", "image/png", []byte("png")),
		testutil.Upload("gpkd.pdf", "application/pdf", []byte("pdf")))
	require.ErrorIs(t, err, testutil.ErrBoom)

	assert.Zero(t, f.storage.Count(), "los archivos subidos deben compensarse")
	assert.Len(t, f.storage.Deleted, 2)
	acc, _ := f.store.AccountRepo().GetByEmail(context.Background(), "hr@congty.vn")
	assert.Nil(t, acc, "la cuenta no debe quedar sin empresa")
}

func TestRegisterCompany_FalloAlBorrarNoSeEscala(t *testing.T) {
	f := newFixture()
	f.store.FailCompanyCreate = testutil.ErrBoom
	f.storage.DeleteErr = errors.New("storage caído")

	_, err := f.uc.RegisterCompany(context.Background(), registerReq(),
		testutil.Upload("logo.png", "image/png", []byte("png")),
		testutil.Upload("gpkd.pdf", "application/pdf", []byte("pdf")))
	assert.ErrorIs(t, err, testutil.ErrBoom, "se devuelve el error original, no el del borrado")
}

func TestRegisterCompany_ProvinciaInexistente(t *testing.T) {
	f := newFixture()
	in := registerReq()
	in.ProvinceID = "99"

	_, err := f.uc.RegisterCompany(context.Background(), in,
		testutil.Upload("logo.png", "image/png", []byte("png")),
		testutil.Upload("gpkd.pdf", "application/pdf", []byte("pdf")))
	assert.Equal(t, "NOT_FOUND", validationFields(t, err)["provinceId"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmpresaAprobadaObtieneToken(t *testing.T) {
	f := newFixture()
	acc, c := f.store.SeedCompany("ok@congty.vn", entity.CompanyApproved)

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ok@congty.vn", Password: testutil.DefaultPassword})
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, claims.AccountID)
	assert.Equal(t, entity.RoleCompany, claims.Role)
	require.NotNil(t, resp.Account.Company)
	assert.Equal(t, c.ID, resp.Account.Company.ID)
}

func TestLogin_EmpresaNoAprobada(t *testing.T) {
	f := newFixture()
	f.store.SeedCompany("pend@congty.vn", entity.CompanyPending)
	f.store.SeedCompany("rej@congty.vn", entity.CompanyRejected)

	for _, email := range []string{"pend@congty.vn", "rej@congty.vn"} {
		_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: email, Password: testutil.DefaultPassword})
		assert.ErrorIs(t, err, domain.ErrCompanyNotApproved, email)
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newFixture()
	f.store.SeedAccount("admin@jobboard.vn", entity.RoleAdmin)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "admin@jobboard.vn", Password: "Otra@1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@jobboard.vn", Password: "Otra@1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_CuentaBloqueada(t *testing.T) {
	f := newFixture()
	a := f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	_, _ = f.store.AccountRepo().SetLocked(context.Background(), a.ID, true)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@jobboard.vn", Password: testutil.DefaultPassword})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

// ──────────────────────────────────────────────────────────────────────────────
// Gestión de cuenta
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword(t *testing.T) {
	f := newFixture()
	a := f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	actor := entity.Actor{Role: a.Role, AccountID: a.ID}

	err := f.uc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{Password: "Mala@1234", NewPassword: "Nueva@1234"})
	assert.Equal(t, "INCORRECT_PASSWORD", validationFields(t, err)["password"])

	require.NoError(t, f.uc.ChangePassword(context.Background(), actor,
		dto.ChangePasswordRequest{Password: testutil.DefaultPassword, NewPassword: "Nueva@1234"}))

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@jobboard.vn", Password: "Nueva@1234"})
	assert.NoError(t, err)
}

func TestSetLocked_SoloAdmin(t *testing.T) {
	f := newFixture()
	admin := f.store.SeedAccount("admin@jobboard.vn", entity.RoleAdmin)
	user := f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	req := dto.LockAccountRequest{AccountID: user.ID}

	err := f.uc.SetLocked(context.Background(), entity.Actor{Role: entity.RoleUser, AccountID: user.ID}, req, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	adminActor := entity.Actor{Role: entity.RoleAdmin, AccountID: admin.ID}
	require.NoError(t, f.uc.SetLocked(context.Background(), adminActor, req, true))
	got, _ := f.store.AccountRepo().GetByID(context.Background(), user.ID)
	assert.True(t, got.IsLocked)

	err = f.uc.SetLocked(context.Background(), adminActor, dto.LockAccountRequest{AccountID: admin.ID}, true)
	assert.Equal(t, "CANNOT_LOCK_SELF", validationFields(t, err)["accountId"])

	err = f.uc.SetLocked(context.Background(), adminActor,
		dto.LockAccountRequest{AccountID: "5b9f1f0e-0000-4000-8000-000000000000"}, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMe_IncluyeEmpresa(t *testing.T) {
	f := newFixture()
	acc, c := f.store.SeedCompany("ok@congty.vn", entity.CompanyApproved)

	me, err := f.uc.Me(context.Background(), entity.Actor{Role: acc.Role, AccountID: acc.ID})
	require.NoError(t, err)
	require.NotNil(t, me.Company)
	assert.Equal(t, c.ID, me.Company.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recuperación de contraseña
// ──────────────────────────────────────────────────────────────────────────────

const resetBase = "https://vieclam.vn/reset-password/"

// forgot pide la recuperación y devuelve el token del enlace enviado.
func (f *fixture) forgot(t *testing.T, email string) string {
	t.Helper()
	_, err := f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: email})
	require.NoError(t, err)
	link := f.mailer.Last().ResetLink
	require.True(t, strings.HasPrefix(link, resetBase), "enlace inesperado: %s", link)
	return strings.TrimPrefix(link, resetBase)
}

func TestForgotPassword_EnviaEnlaceYGuardaSoloElHash(t *testing.T) {
	f := newFixture()
	a := f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)

	out, err := f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: " USER@jobboard.vn "})
	require.NoError(t, err)

	sent := f.mailer.Last()
	assert.Equal(t, "user@jobboard.vn", sent.To)
	token := strings.TrimPrefix(sent.ResetLink, resetBase)
	assert.Len(t, token, 64)

	wantExp := f.clock.Now().Add(auth.DefaultResetTTL)
	assert.Equal(t, wantExp, out.ExpiresAt)
	assert.Equal(t, wantExp, sent.ExpiresAt)

	stored := f.store.Account(a.ID)
	require.NotNil(t, stored.ResetToken)
	assert.NotEqual(t, token, *stored.ResetToken, "en base no se guarda el token en claro")
	assert.Equal(t, wantExp, *stored.ResetTokenExpiresAt)
}

func TestForgotPassword_EmailDesconocido(t *testing.T) {
	f := newFixture()

	_, err := f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "nadie@jobboard.vn"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.mailer.Sent)

	_, err = f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "no-es-email"})
	assert.Equal(t, "INVALID_EMAIL", validationFields(t, err)["email"])
}

func TestForgotPassword_FalloDeEnvio(t *testing.T) {
	f := newFixture()
	f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	f.mailer.Err = errors.New("smtp caído")

	_, err := f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "user@jobboard.vn"})
	assert.ErrorIs(t, err, domain.ErrEmailDelivery)
}

func TestResetPassword_CambiaLaContrasena(t *testing.T) {
	f := newFixture()
	f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	token := f.forgot(t, "user@jobboard.vn")

	check, err := f.uc.CheckResetToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user@jobboard.vn", check.Email)

	require.NoError(t, f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: token, NewPassword: "Nueva@1234"}))

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@jobboard.vn", Password: "Nueva@1234"})
	assert.NoError(t, err)
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@jobboard.vn", Password: testutil.DefaultPassword})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResetPassword_TokenReutilizado(t *testing.T) {
	f := newFixture()
	f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	token := f.forgot(t, "user@jobboard.vn")

	require.NoError(t, f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: token, NewPassword: "Nueva@1234"}))

	err := f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: token, NewPassword: "Otra@12345"})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	_, err = f.uc.CheckResetToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@jobboard.vn", Password: "Nueva@1234"})
	assert.NoError(t, err, "el segundo uso no debe cambiar la contraseña")
}

func TestResetPassword_TokenVencido(t *testing.T) {
	f := newFixture()
	a := f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	token := f.forgot(t, "user@jobboard.vn")

	f.clock.Advance(auth.DefaultResetTTL)
	_, err := f.uc.CheckResetToken(context.Background(), token)
	require.NoError(t, err, "en el instante de vencimiento el token aún vale")

	f.clock.Advance(time.Second)
	_, err = f.uc.CheckResetToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

	err = f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: token, NewPassword: "Nueva@1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	assert.Equal(t, a.PasswordHash, f.store.Account(a.ID).PasswordHash)
}

func TestResetPassword_NuevoTokenInvalidaElAnterior(t *testing.T) {
	f := newFixture()
	f.store.SeedAccount("user@jobboard.vn", entity.RoleUser)
	first := f.forgot(t, "user@jobboard.vn")
	second := f.forgot(t, "user@jobboard.vn")
	require.NotEqual(t, first, second)

	err := f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: first, NewPassword: "Nueva@1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	assert.NoError(t, f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: second, NewPassword: "Nueva@1234"}))
}

func TestResetPassword_Validacion(t *testing.T) {
	f := newFixture()

	err := f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: "", NewPassword: "corta"})
	fields := validationFields(t, err)
	assert.Equal(t, "REQUIRED", fields["token"])
	assert.Contains(t, fields, "newPassword")

	_, err = f.uc.CheckResetToken(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
}
