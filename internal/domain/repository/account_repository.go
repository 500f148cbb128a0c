package repository

import (
	"context"
	"time"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para Account (DIP).
// Las búsquedas sin resultado devuelven (nil, nil).
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetLocked devuelve false si la cuenta no existe.
	SetLocked(ctx context.Context, id string, locked bool) (bool, error)
	// SetResetToken guarda el hash del token de recuperación y su vencimiento.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// GetByResetToken solo encuentra la cuenta si el token sigue vigente en now.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.Account, error)
	// ResetPassword cambia el hash y consume el token en una sola sentencia.
	// Devuelve false si el token no existe, ya se usó o venció.
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error)
}
