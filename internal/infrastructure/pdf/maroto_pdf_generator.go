// Package pdf genera la orden de pago que la empresa usa para transferir el importe
// de un paquete VIP.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + MST       │  N° Pedido + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAQUETE: Nombre / Publicaciones / Duración / Vencimiento    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRANSFERENCIA: Banco / Cuenta / Contenido   │  TOTAL        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del contenido + leyenda                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.PaymentSlipGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.PaymentSlipGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(_ context.Context, slip ports.PaymentSlip) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de pago", true).
		WithAuthor(latin(slip.CompanyName), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(packageRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(transferRow(slip))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(qrFooterRows(slip)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(slip ports.PaymentSlip) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(latin(slip.CompanyName), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("MST: "+nonEmpty(slip.TaxCode, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDEN DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(slip.OrderID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+slip.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func packageRow(slip ports.PaymentSlip) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("PAQUETE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(latin(slip.PackageName), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Publicaciones: %d   |   Duración: %d días   |   Vence: %s   |   Estado: %s",
				slip.NumPost, slip.DurationDay, slip.EndDate.Format("02/01/2006"), slip.Status,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// transferRow: datos bancarios (izq) y total a transferir (der).
func transferRow(slip ports.PaymentSlip) core.Row {
	return row.New(24).Add(
		col.New(8).Add(
			text.New("DATOS DE LA TRANSFERENCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Banco: "+latin(nonEmpty(slip.BankName, "-")), props.Text{Size: 9, Top: 7}),
			text.New("Cuenta: "+nonEmpty(slip.BankAccount, "-"), props.Text{Size: 9, Top: 12}),
			text.New("Contenido: "+slip.TransferContent, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 17,
			}),
		),
		col.New(4).Add(
			text.New("TOTAL A TRANSFERIR", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(formatMoney(slip.Amount.StringFixed(0))+" VND", props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Right, Color: colorPrimary, Top: 8,
			}),
		),
	)
}

// qrFooterRows: QR con el contenido exacto de la transferencia + leyenda.
func qrFooterRows(slip ports.PaymentSlip) []core.Row {
	return []core.Row{
		row.New(50).Add(
			col.New(4).Add(code.NewQr(slip.TransferContent, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escriba el contenido exactamente como aparece.\nEl pedido se activa al recibir el importe exacto.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(slip.TransferContent, props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 22, Left: 3, Color: colorPrimary,
				}),
			),
		),
		row.New(8).Add(col.New(12).Add(
			text.New(
				"Un importe distinto o una transferencia sin este contenido no activa el paquete "+
					"y el pedido queda como FAILED.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// shortID primer bloque del UUID, suficiente para identificar el pedido en pantalla.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return "#" + strings.ToUpper(id[:i])
	}
	return "#" + id
}

// latin quita los diacríticos que la fuente helvetica no representa (tiếng Việt).
// "đ" no se descompone en NFD y se sustituye a mano.
func latin(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}
