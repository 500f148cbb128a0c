package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/application/validation"
	"github.com/jhoicas/jobboard-api/internal/domain"
)

type muestra struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=25,password"`
	Name     string `json:"name" validate:"min=3,max=10"`
	NumPost  int    `json:"numPost" validate:"min=1"`
	Website  string `json:"website" validate:"omitempty,url"`
	Priority string `json:"priority" validate:"packagelevel"`
	TaxCode  string `json:"taxCode" validate:"omitempty,taxcode"`
}

func valida() muestra {
	return muestra{
		Email: "hr@congty.vn", Password: "Abc@1234", Name: "ACME", NumPost: 1,
		Priority: "GOLD",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, got %v", err)
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Code
	}
	return out
}

func TestStruct_Valido(t *testing.T) {
	assert.NoError(t, validation.Struct(valida()))
}

func TestStruct_CodigosPorCampo(t *testing.T) {
	in := muestra{
		Email: "no-es-email", Password: "abcdefgh", Name: "AB", NumPost: 0,
		Website: "sin esquema", Priority: "GOLDEN", TaxCode: "0100109107",
	}
	err := validation.Struct(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	f := fieldsOf(t, err)
	assert.Equal(t, validation.CodeInvalidEmail, f["email"])
	assert.Equal(t, validation.CodeWeakPassword, f["password"])
	assert.Equal(t, validation.CodeTooShort, f["name"])
	assert.Equal(t, validation.CodeTooSmall, f["numPost"])
	assert.Equal(t, validation.CodeInvalidURL, f["website"])
	assert.Equal(t, validation.CodeInvalidLevel, f["priority"])
	assert.Equal(t, validation.CodeInvalidTaxID, f["taxCode"])
}

func TestStruct_PasswordLargo(t *testing.T) {
	in := valida()
	in.Password = "Abc@12345678901234567890xx"
	assert.Equal(t, validation.CodeTooLong, fieldsOf(t, validation.Struct(in))["password"])
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, validation.StrongPassword("Abc@1234"))
	assert.False(t, validation.StrongPassword("abc@1234"), "sin mayúscula")
	assert.False(t, validation.StrongPassword("ABC@1234"), "sin minúscula")
	assert.False(t, validation.StrongPassword("Abc@abcd"), "sin dígito")
	assert.False(t, validation.StrongPassword("Abc12345"), "sin especial")
}
