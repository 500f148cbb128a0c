package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, email, password_hash, role, is_locked, reset_token, reset_token_expires_at, created_at, updated_at`

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una nueva cuenta. Email duplicado → domain.ErrEmailAlreadyExists.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, role, is_locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.Email, a.PasswordHash, a.Role, a.IsLocked, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByEmail obtiene una cuenta por email (comparación sin distinguir mayúsculas).
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1) LIMIT 1`, email)
}

// UpdatePassword reemplaza el hash y limpia cualquier token de recuperación pendiente.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetLocked bloquea o desbloquea la cuenta.
func (r *AccountRepo) SetLocked(ctx context.Context, id string, locked bool) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE accounts SET is_locked = $2, updated_at = now() WHERE id = $1`, id, locked)
	if err != nil {
		return false, fmt.Errorf("set locked: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetResetToken reemplaza cualquier token anterior.
func (r *AccountRepo) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE accounts
		SET reset_token = $2, reset_token_expires_at = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByResetToken busca por hash de token no vencido.
func (r *AccountRepo) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.Account, error) {
	return r.findOne(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE reset_token = $1 AND reset_token_expires_at >= $2 LIMIT 1`,
		tokenHash, now)
}

// ResetPassword el WHERE sobre el token hace que dos usos concurrentes no puedan ganar ambos.
func (r *AccountRepo) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET password_hash = $3, reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
		WHERE reset_token = $1 AND reset_token_expires_at >= $2`
	tag, err := r.q.Exec(ctx, query, tokenHash, now, passwordHash)
	if err != nil {
		return false, fmt.Errorf("reset password: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AccountRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsLocked,
		&a.ResetToken, &a.ResetTokenExpiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}
