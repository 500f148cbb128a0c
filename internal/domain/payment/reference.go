// Package payment contiene las reglas puras de conciliación de transferencias
// bancarias contra pedidos: extracción de la referencia del contenido libre y
// decisión de aceptación.
package payment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// referenceTokenIndex posición (base 0) del token que lleva la referencia del pedido
// dentro del contenido de la transferencia: "<PREFIJO> <EMPRESA> <REFERENCIA> ...".
const referenceTokenIndex = 2

// TransferTypeIn crédito entrante en la cuenta del comercio.
const TransferTypeIn = "in"

// NormalizeUUID elimina todo lo que no sea alfanumérico y, si quedan exactamente 32
// caracteres, los reagrupa en la forma canónica 8-4-4-4-12. Devuelve "" si no.
func NormalizeUUID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) != 32 {
		return ""
	}
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
}

// ExtractOrderReference toma el tercer token (separado por espacios) del contenido y lo
// normaliza a UUID en minúsculas. Si el tercer token no es una referencia válida (nombres
// de empresa de varias palabras desplazan la posición, o 32 caracteres que no son hex) se
// usa el primer token posterior que sí lo sea. Devuelve "" si no hay ninguno.
func ExtractOrderReference(content string) string {
	tokens := strings.Fields(content)
	if len(tokens) <= referenceTokenIndex {
		return ""
	}
	for _, tok := range tokens[referenceTokenIndex:] {
		candidate := NormalizeUUID(tok)
		if candidate == "" {
			continue
		}
		if id, err := uuid.Parse(candidate); err == nil {
			return id.String()
		}
	}
	return ""
}

// CompactReference quita los guiones de un UUID para incluirlo en el contenido de la
// transferencia (los bancos suelen eliminar la puntuación).
func CompactReference(orderID string) string {
	return strings.ReplaceAll(orderID, "-", "")
}

// TransferContent arma el contenido que la empresa debe escribir en su transferencia.
// El tercer token es siempre la referencia compacta del pedido.
func TransferContent(prefix, companyCode, orderID string) string {
	code := NormalizeCode(companyCode)
	if code == "" {
		code = "CTY"
	}
	return prefix + " " + code + " " + CompactReference(orderID)
}

// NormalizeCode deja solo caracteres alfanuméricos en mayúscula, para que el código de
// empresa sea un único token.
func NormalizeCode(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Accepts decide si la transferencia paga el pedido: crédito entrante, pedido
// encontrado y monto exactamente igual al precio (sin tolerancia).
func Accepts(transferType string, orderFound bool, amount, price decimal.Decimal) bool {
	return transferType == TransferTypeIn && orderFound && amount.Equal(price)
}
