package dto

import "time"

// RegisterCompanyRequest campos de texto del formulario multipart de registro.
// Los archivos (logo, businessLicense) llegan aparte como ports.Upload.
type RegisterCompanyRequest struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required,min=8,max=25,password"`
	Name        string `json:"name" form:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" form:"description"`
	Address     string `json:"address" form:"address" validate:"required,min=3"`
	ProvinceID  string `json:"provinceId" form:"provinceId" validate:"required"`
	Website     string `json:"website" form:"website" validate:"omitempty,url"`
	TaxCode     string `json:"taxCode" form:"taxCode" validate:"required,min=5,taxcode"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de acceso y datos de la cuenta.
type LoginResponse struct {
	AccessToken string          `json:"accessToken"`
	Account     AccountResponse `json:"account"`
}

// AccountResponse cuenta sin credenciales. Company solo para cuentas COMPANY.
type AccountResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	IsLocked  bool             `json:"isLocked"`
	CreatedAt time.Time        `json:"createdAt"`
	Company   *CompanyResponse `json:"company,omitempty"`
}

// ChangePasswordRequest contraseña actual y nueva.
type ChangePasswordRequest struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=25,password"`
}

// LockAccountRequest cuenta a bloquear o desbloquear.
type LockAccountRequest struct {
	AccountID string `json:"accountId" validate:"required,uuid"`
}

// ForgotPasswordRequest email de la cuenta que pide recuperar la contraseña.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse confirmación del envío. El token nunca sale en la respuesta.
type ForgotPasswordResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResetTokenResponse resultado de comprobar un token de recuperación.
type ResetTokenResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResetPasswordRequest token recibido por email y nueva contraseña.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=25,password"`
}
