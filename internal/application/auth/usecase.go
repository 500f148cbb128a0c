package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/application/validation"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
	"github.com/jhoicas/jobboard-api/pkg/jwt"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// Carpetas del almacenamiento para los archivos del registro.
const (
	FolderLogos    = "logos"
	FolderLicenses = "licenses"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// DefaultResetTTL vigencia de un token de recuperación de contraseña.
const DefaultResetTTL = 30 * time.Minute

// PasswordResetConfig enlace que recibe el usuario por email y vigencia del token.
// El token se agrega como último segmento de LinkBaseURL.
type PasswordResetConfig struct {
	LinkBaseURL string
	TTL         time.Duration
}

// RegistrationTxRunner ejecuta fn en una transacción con repos de cuenta y empresa.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		companyRepo repository.CompanyRepository,
	) error) error
}

// AuthUseCase casos de uso de identidad: registro de empresas, login y gestión de cuenta.
type AuthUseCase struct {
	accountRepo repository.AccountRepository
	companyRepo repository.CompanyRepository
	txRunner    RegistrationTxRunner
	storage     ports.FileStorage
	clock       ports.Clock
	jwtCfg      JWTConfig
	mailer      ports.Mailer
	resetCfg    PasswordResetConfig
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	accountRepo repository.AccountRepository,
	companyRepo repository.CompanyRepository,
	txRunner RegistrationTxRunner,
	storage ports.FileStorage,
	clock ports.Clock,
	jwtCfg JWTConfig,
	mailer ports.Mailer,
	resetCfg PasswordResetConfig,
	log *logger.Logger,
) *AuthUseCase {
	if resetCfg.TTL <= 0 {
		resetCfg.TTL = DefaultResetTTL
	}
	return &AuthUseCase{
		accountRepo: accountRepo,
		companyRepo: companyRepo,
		txRunner:    txRunner,
		storage:     storage,
		clock:       clock,
		jwtCfg:      jwtCfg,
		mailer:      mailer,
		resetCfg:    resetCfg,
		log:         log.Component("auth"),
	}
}

// RegisterCompany crea la cuenta COMPANY y su empresa en PENDING dentro de una sola
// transacción. Los archivos se guardan antes; si algo falla después se borran.
func (uc *AuthUseCase) RegisterCompany(ctx context.Context, in dto.RegisterCompanyRequest, logo, license *ports.Upload) (*dto.CompanyResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	verr := &domain.ValidationError{}
	if err := validation.Struct(in); err != nil {
		fe, ok := err.(*domain.ValidationError)
		if !ok {
			return nil, err
		}
		verr.Fields = append(verr.Fields, fe.Fields...)
	}
	validation.CheckUpload(verr, "logo", logo)
	validation.CheckUpload(verr, "businessLicense", license)
	if verr.HasErrors() {
		return nil, verr
	}

	existing, err := uc.accountRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	ok, err := uc.companyRepo.ProvinceExists(ctx, in.ProvinceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewValidationError("provinceId", "NOT_FOUND")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var stored []string
	cleanup := func() {
		for _, uri := range stored {
			if derr := uc.storage.Delete(context.WithoutCancel(ctx), uri); derr != nil {
				uc.log.Warn().Err(derr).Str("uri", uri).Msg("no se pudo borrar archivo huérfano del registro")
			}
		}
	}

	logoURI, err := uc.storage.Save(ctx, FolderLogos, *logo)
	if err != nil {
		return nil, fmt.Errorf("guardar logo: %w", err)
	}
	stored = append(stored, logoURI)
	licenseURI, err := uc.storage.Save(ctx, FolderLicenses, *license)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("guardar licencia: %w", err)
	}
	stored = append(stored, licenseURI)

	now := uc.clock.Now()
	account := &entity.Account{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleCompany,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	company := &entity.Company{
		ID:                  uuid.New().String(),
		AccountID:           account.ID,
		Email:               in.Email,
		Name:                strings.TrimSpace(in.Name),
		Description:         in.Description,
		Address:             strings.TrimSpace(in.Address),
		ProvinceID:          in.ProvinceID,
		Website:             in.Website,
		Logo:                logoURI,
		TaxCode:             strings.TrimSpace(in.TaxCode),
		BusinessLicensePath: licenseURI,
		Status:              entity.CompanyPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = uc.txRunner.RunRegistration(ctx, func(accounts repository.AccountRepository, companies repository.CompanyRepository) error {
		if err := accounts.Create(ctx, account); err != nil {
			return err
		}
		return companies.Create(ctx, company)
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	uc.log.Info().Str("company_id", company.ID).Str("email", company.Email).Msg("empresa registrada, pendiente de revisión")
	return dto.NewCompanyResponse(company), nil
}

// Login verifica credenciales y estado de la cuenta y emite el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	account, err := uc.accountRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if account.IsLocked {
		return nil, domain.ErrAccountLocked
	}

	var company *entity.Company
	if account.Role == entity.RoleCompany {
		company, err = uc.companyRepo.GetByAccountID(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
		if company.Status != entity.CompanyApproved {
			return nil, domain.ErrCompanyNotApproved
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, account.ID, account.Email, account.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		Account:     *toAccountResponse(account, company),
	}, nil
}

// Me devuelve la cuenta del actor (con su empresa si es COMPANY).
func (uc *AuthUseCase) Me(ctx context.Context, actor entity.Actor) (*dto.AccountResponse, error) {
	account, err := uc.accountRepo.GetByID(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	var company *entity.Company
	if account.Role == entity.RoleCompany {
		if company, err = uc.companyRepo.GetByAccountID(ctx, account.ID); err != nil {
			return nil, err
		}
	}
	return toAccountResponse(account, company), nil
}

// ChangePassword exige la contraseña actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, actor entity.Actor, in dto.ChangePasswordRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	account, err := uc.accountRepo.GetByID(ctx, actor.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		return domain.NewValidationError("password", "INCORRECT_PASSWORD")
	}
	if in.Password == in.NewPassword {
		return domain.NewValidationError("newPassword", "SAME_AS_CURRENT")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return uc.accountRepo.UpdatePassword(ctx, account.ID, string(hash))
}

// SetLocked bloquea o desbloquea una cuenta. Solo ADMIN; un admin no puede bloquearse a sí mismo.
func (uc *AuthUseCase) SetLocked(ctx context.Context, actor entity.Actor, in dto.LockAccountRequest, locked bool) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := validation.Struct(in); err != nil {
		return err
	}
	if locked && in.AccountID == actor.AccountID {
		return domain.NewValidationError("accountId", "CANNOT_LOCK_SELF")
	}
	found, err := uc.accountRepo.SetLocked(ctx, in.AccountID, locked)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotFound
	}
	uc.log.Info().Str("account_id", in.AccountID).Bool("locked", locked).Str("by", actor.AccountID).Msg("estado de bloqueo actualizado")
	return nil
}

// ForgotPassword emite un token de recuperación y lo envía por email. Un token nuevo
// reemplaza al anterior; en base solo queda su hash.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	account, err := uc.accountRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}

	token, err := newResetToken()
	if err != nil {
		return nil, err
	}
	expiresAt := uc.clock.Now().Add(uc.resetCfg.TTL)
	if err := uc.accountRepo.SetResetToken(ctx, account.ID, hashResetToken(token), expiresAt); err != nil {
		return nil, err
	}

	mail := ports.PasswordResetMail{
		To:        account.Email,
		ResetLink: strings.TrimRight(uc.resetCfg.LinkBaseURL, "/") + "/" + token,
		ExpiresAt: expiresAt,
	}
	if err := uc.mailer.SendPasswordReset(ctx, mail); err != nil {
		uc.log.Error().Err(err).Str("account_id", account.ID).Msg("no se pudo enviar el email de recuperación")
		return nil, fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}
	uc.log.Info().Str("account_id", account.ID).Time("expires_at", expiresAt).Msg("token de recuperación emitido")
	return &dto.ForgotPasswordResponse{Email: account.Email, ExpiresAt: expiresAt}, nil
}

// CheckResetToken informa si el token sigue vigente, sin consumirlo.
func (uc *AuthUseCase) CheckResetToken(ctx context.Context, token string) (*dto.ResetTokenResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}
	account, err := uc.accountRepo.GetByResetToken(ctx, hashResetToken(token), uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if account == nil || account.ResetTokenExpiresAt == nil {
		return nil, domain.ErrInvalidResetToken
	}
	return &dto.ResetTokenResponse{Email: account.Email, ExpiresAt: *account.ResetTokenExpiresAt}, nil
}

// ResetPassword fija la nueva contraseña y consume el token: un segundo uso falla.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := validation.Struct(in); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	ok, err := uc.accountRepo.ResetPassword(ctx, hashResetToken(in.Token), string(hash), uc.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidResetToken
	}
	uc.log.Info().Msg("contraseña restablecida con token de recuperación")
	return nil
}

// newResetToken 32 bytes aleatorios en hex.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token de recuperación: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func toAccountResponse(a *entity.Account, c *entity.Company) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		IsLocked:  a.IsLocked,
		CreatedAt: a.CreatedAt,
		Company:   dto.NewCompanyResponse(c),
	}
}

