package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
)

func TestGenerate_DevuelvePDF(t *testing.T) {
	slip := ports.PaymentSlip{
		OrderID:         "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		CompanyName:     "Công ty Đại Phát",
		TaxCode:         "0101234567",
		PackageName:     "Gói Vàng",
		NumPost:         10,
		DurationDay:     30,
		Amount:          decimal.NewFromInt(1500000),
		TransferContent: "VIECLAM 0101234567 a1b2c3d4e5f67890abcdef1234567890",
		BankAccount:     "0011001234567",
		BankName:        "Vietcombank",
		Status:          "PENDING",
		CreatedAt:       time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}

	out, err := NewMarotoPDFGenerator().Generate(context.Background(), slip)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "999", formatMoney("999"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.500.000", formatMoney("1500000"))
}

func TestLatin_QuitaDiacriticos(t *testing.T) {
	assert.Equal(t, "Cong ty Dai Phat", latin("Công ty Đại Phát"))
	assert.Equal(t, "Goi Bac", latin("Gói Bạc"))
	assert.Equal(t, "ABC", latin("ABC"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "#A1B2C3D4", shortID("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.Equal(t, "#xyz", shortID("xyz"))
}
