package taxcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/pkg/taxcode"
)

func TestValidate_MSTValidos(t *testing.T) {
	for _, code := range []string{"0100109106", "0300588569", " 0100109106 ", "0100109106-001"} {
		assert.NoError(t, taxcode.Validate(code), code)
	}
}

func TestValidate_MSTInvalidos(t *testing.T) {
	cases := map[string]string{
		"digito de control": "0100109107",
		"corto":             "010010910",
		"letras":            "01001091A6",
		"sucursal corta":    "0100109106-01",
		"sucursal cero":     "0100109106-000",
		"vacio":             "",
	}
	for name, code := range cases {
		assert.Error(t, taxcode.Validate(code), name)
	}
}

func TestCheckDigit(t *testing.T) {
	d, err := taxcode.CheckDigit("010010910")
	require.NoError(t, err)
	assert.Equal(t, byte('6'), d)

	_, err = taxcode.CheckDigit("000000000")
	assert.Error(t, err, "resto 0 no tiene dígito")

	_, err = taxcode.CheckDigit("12")
	assert.Error(t, err)
}
