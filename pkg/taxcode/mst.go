// Package taxcode valida el mã số thuế (MST) de empresas vietnamitas: 10 dígitos con dígito
// de control, opcionalmente seguidos de "-NNN" para sucursales.
package taxcode

import (
	"fmt"
	"strings"
)

// pesos sobre los 9 primeros dígitos, de izquierda a derecha.
var mstWeights = [9]int{31, 29, 23, 19, 17, 13, 7, 5, 3}

// Validate comprueba formato y dígito de control. Acepta "0100109106" y "0100109106-001".
func Validate(code string) error {
	code = strings.TrimSpace(code)
	base, branch, hasBranch := strings.Cut(code, "-")
	if len(base) != 10 || !allDigits(base) {
		return fmt.Errorf("taxcode: se esperaban 10 dígitos, se recibió %q", base)
	}
	if hasBranch && (len(branch) != 3 || !allDigits(branch) || branch == "000") {
		return fmt.Errorf("taxcode: sufijo de sucursal inválido %q", branch)
	}
	expected, err := CheckDigit(base[:9])
	if err != nil {
		return err
	}
	if base[9] != expected {
		return fmt.Errorf("taxcode: dígito de control inválido: esperado %c, recibido %c", expected, base[9])
	}
	return nil
}

// CheckDigit calcula el décimo dígito para los 9 primeros. Con resto 0 el dígito sería 10;
// esos prefijos no se emiten.
func CheckDigit(first9 string) (byte, error) {
	if len(first9) != 9 || !allDigits(first9) {
		return 0, fmt.Errorf("taxcode: se requieren 9 dígitos, se recibió %q", first9)
	}
	var sum int
	for i := 0; i < 9; i++ {
		sum += int(first9[i]-'0') * mstWeights[i]
	}
	d := 10 - sum%11
	if d == 10 {
		return 0, fmt.Errorf("taxcode: el prefijo %s no admite dígito de control", first9)
	}
	return byte('0' + d), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
