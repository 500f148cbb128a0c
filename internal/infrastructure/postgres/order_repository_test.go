package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// scriptedQuerier responde a QueryRow con las filas de rows, en orden.
type scriptedQuerier struct {
	rows  []pgx.Row
	calls []string
}

func (q *scriptedQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("no usado")
}

func (q *scriptedQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no usado")
}

func (q *scriptedQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.calls = append(q.calls, sql)
	if len(q.rows) == 0 {
		return errRow{pgx.ErrNoRows}
	}
	r := q.rows[0]
	q.rows = q.rows[1:]
	return r
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// orderRow fila de RETURNING de ConsumePostCredit.
type orderRow struct {
	id        string
	remaining int
	endDate   time.Time
}

func (r orderRow) Scan(dest ...any) error {
	*dest[0].(*string) = r.id
	*dest[1].(*string) = "company-1"
	*dest[2].(*string) = "package-1"
	*dest[3].(*time.Time) = r.endDate
	*dest[4].(*int) = r.remaining
	*dest[5].(*string) = string(entity.OrderSuccess)
	*dest[6].(*time.Time) = r.endDate
	*dest[7].(*time.Time) = r.endDate
	return nil
}

func TestConsumePostCredit_EsperaElBloqueoEnLugarDeSaltarlo(t *testing.T) {
	assert.Contains(t, consumePostCreditSQL, "FOR UPDATE OF o")
	assert.NotContains(t, consumePostCreditSQL, "SKIP LOCKED")
}

func TestConsumePostCredit_ReintentaTrasFilaDescartada(t *testing.T) {
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	q := &scriptedQuerier{rows: []pgx.Row{errRow{pgx.ErrNoRows}, orderRow{id: "order-b", remaining: 3, endDate: end}}}

	got, err := NewOrderRepository(q).ConsumePostCredit(context.Background(), "company-1", end.Add(-time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "order-b", got.ID)
	assert.Equal(t, 3, got.RemainingPosts)
	assert.Equal(t, entity.OrderSuccess, got.Status)
	assert.Len(t, q.calls, 2)
}

func TestConsumePostCredit_SinCupoTrasReintento(t *testing.T) {
	q := &scriptedQuerier{}

	got, err := NewOrderRepository(q).ConsumePostCredit(context.Background(), "company-1", time.Now())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Len(t, q.calls, consumeAttempts)
}

func TestConsumePostCredit_ErrorNoSeReintenta(t *testing.T) {
	q := &scriptedQuerier{rows: []pgx.Row{errRow{errors.New("conexión perdida")}}}

	_, err := NewOrderRepository(q).ConsumePostCredit(context.Background(), "company-1", time.Now())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "consume post credit"))
	assert.Len(t, q.calls, 1)
}
