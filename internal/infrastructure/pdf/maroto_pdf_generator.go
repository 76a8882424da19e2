// Package pdf produce la representación imprimible (A4) de una factura:
// bloque de emisor y cliente, tabla de líneas con descuento e IVA por línea,
// desglose de IVA por banda y un pie de verificación con la huella canónica
// del documento en texto y QR.
package pdf

import (
	"context"
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/tu-usuario/facturya-api/internal/application/billing"
	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
)

var (
	tintaPrincipal = &props.Color{Red: 30, Green: 60, Blue: 110}
	tintaSuave     = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// Anchos de columna de la tabla de líneas (suman 12).
const (
	anchoCant  = 1
	anchoDesc  = 4
	anchoPrec  = 2
	anchoDto   = 1
	anchoIVA   = 1
	anchoTotal = 3
)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	customer *entity.Customer,
	lines []appbilling.InvoiceLineForPDF,
	totals calc.InvoiceTotals,
) ([]byte, error) {
	m := maroto.New(config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.Prefix+invoice.Number, true).
		WithAuthor(company.Name, true).
		Build())

	g.encabezado(m, invoice, company)
	g.partes(m, company, customer)
	g.tabla(m, lines)
	g.totales(m, invoice, totals)
	g.verificacion(m, invoice)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// encabezado: razón social y NIF del emisor a la izquierda; el número de
// factura y la fecha de emisión a la derecha.
func (g *MarotoPDFGenerator) encabezado(m core.Maroto, invoice *entity.Invoice, company *entity.Company) {
	m.AddRow(20,
		col.New(7).Add(
			text.New(company.Name, props.Text{Style: fontstyle.Bold, Size: 14, Color: tintaPrincipal}),
			text.New("NIF "+company.TaxID, props.Text{Size: 9, Top: 10, Color: tintaSuave}),
		),
		col.New(5).Add(
			text.New("FACTURA "+invoice.Prefix+invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: tintaPrincipal,
			}),
			text.New("Emitida el "+invoice.Date.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: tintaSuave,
			}),
			text.New("Moneda: "+invoice.Currency, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: tintaSuave,
			}),
		),
	)
	m.AddRows(line.NewRow(2, props.Line{Color: tintaPrincipal, Thickness: 0.6}))
}

// partes: emisor y cliente lado a lado.
func (g *MarotoPDFGenerator) partes(m core.Maroto, company *entity.Company, customer *entity.Customer) {
	bloque := func(titulo, nombre, nif, contacto string) core.Col {
		return col.New(6).Add(
			text.New(titulo, props.Text{Style: fontstyle.Bold, Size: 7.5, Color: tintaPrincipal}),
			text.New(nombre, props.Text{Style: fontstyle.Bold, Size: 9.5, Top: 5}),
			text.New("NIF "+nif, props.Text{Size: 8, Top: 11, Color: tintaSuave}),
			text.New(contacto, props.Text{Size: 8, Top: 16, Color: tintaSuave}),
		)
	}
	m.AddRow(24,
		bloque("EMISOR", company.Name, company.TaxID,
			contacto(company.Address, company.Email, company.Phone)),
		bloque("CLIENTE", customer.Name, customer.TaxID,
			contacto(customer.Address, customer.Email, customer.Phone)),
	)
	m.AddRows(line.NewRow(2, props.Line{Color: tintaSuave, Thickness: 0.3}))
}

// tabla: cabecera y una fila por línea. El importe de cada fila es su base
// imponible (descuento ya aplicado); el IVA va en el bloque de totales.
func (g *MarotoPDFGenerator) tabla(m core.Maroto, lines []appbilling.InvoiceLineForPDF) {
	cab := func(w int, label string, a align.Type) core.Col {
		return col.New(w).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Color: tintaPrincipal,
		}))
	}
	m.AddRow(7,
		cab(anchoCant, "Cant.", align.Center),
		cab(anchoDesc, "Descripción", align.Left),
		cab(anchoPrec, "P. unitario", align.Right),
		cab(anchoDto, "Dto.", align.Right),
		cab(anchoIVA, "IVA", align.Center),
		cab(anchoTotal, "Base", align.Right),
	)

	celda := func(w int, s string, a align.Type) core.Col {
		return col.New(w).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1}))
	}
	for _, l := range lines {
		desc := l.Description
		if desc == "" {
			desc = l.ProductName
		}
		m.AddRow(6,
			celda(anchoCant, l.Quantity.String(), align.Center),
			celda(anchoDesc, desc, align.Left),
			celda(anchoPrec, l.UnitPrice.StringFixed(2), align.Right),
			celda(anchoDto, l.Result.DiscountAmount.StringFixed(2), align.Right),
			celda(anchoIVA, l.VATRate.String()+"%", align.Center),
			celda(anchoTotal, l.Result.TaxableAmount.StringFixed(2), align.Right),
		)
	}
	m.AddRows(line.NewRow(2, props.Line{Color: tintaSuave, Thickness: 0.3}))
}

// totales: subtotal, descuento (si lo hay), base imponible, IVA por banda en
// orden ascendente y el total. El total impreso es el autoritativo de la
// cabecera; en una factura finalizada coincide exacto con el agregado.
func (g *MarotoPDFGenerator) totales(m core.Maroto, invoice *entity.Invoice, totals calc.InvoiceTotals) {
	fila := func(etiqueta, valor string) {
		m.AddRow(5,
			col.New(7),
			col.New(3).Add(text.New(etiqueta, props.Text{
				Style: fontstyle.Bold, Size: 8.5, Align: align.Right,
			})),
			col.New(2).Add(text.New(valor, props.Text{Size: 8.5, Align: align.Right})),
		)
	}

	fila("Subtotal", totals.Subtotal.StringFixed(2))
	if !totals.TotalDiscount.IsZero() {
		fila("Descuento", "-"+totals.TotalDiscount.StringFixed(2))
	}
	fila("Base imponible", totals.TaxableAmount.StringFixed(2))

	for _, banda := range bandasOrdenadas(totals.VATBreakdown) {
		fila("IVA "+banda+"%", totals.VATBreakdown[banda].StringFixed(2))
	}

	total := totals.GrandTotal
	if invoice.Total.Valid {
		total = invoice.Total.Decimal
	}
	m.AddRow(9,
		col.New(7),
		col.New(3).Add(text.New("TOTAL "+invoice.Currency, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: tintaPrincipal, Top: 2,
		})),
		col.New(2).Add(text.New(total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: tintaPrincipal, Top: 2,
		})),
	)
}

// verificacion: huella canónica del documento en texto y como QR. Solo las
// facturas finalizadas tienen huella.
func (g *MarotoPDFGenerator) verificacion(m core.Maroto, invoice *entity.Invoice) {
	m.AddRows(line.NewRow(4))
	m.AddRows(line.NewRow(2, props.Line{Color: tintaSuave, Thickness: 0.3}))

	if invoice.DocumentHash != "" {
		m.AddRow(5, col.New(12).Add(
			text.New("Huella SHA-256 del documento electrónico", props.Text{
				Style: fontstyle.Bold, Size: 7, Color: tintaPrincipal,
			}),
		))
		m.AddRow(34,
			col.New(3).Add(code.NewQr(invoice.DocumentHash, props.Rect{Percent: 90, Center: true})),
			col.New(9).Add(
				text.New(invoice.DocumentHash[:len(invoice.DocumentHash)/2], props.Text{
					Size: 6.5, Color: tintaSuave, Top: 6,
				}),
				text.New(invoice.DocumentHash[len(invoice.DocumentHash)/2:], props.Text{
					Size: 6.5, Color: tintaSuave, Top: 10,
				}),
				text.New("La huella identifica de forma única el contenido de esta factura.", props.Text{
					Size: 7.5, Color: tintaSuave, Top: 18,
				}),
			),
		)
	}

	m.AddRow(6, col.New(12).Add(
		text.New("Documento generado electrónicamente. Consérvelo como soporte fiscal.", props.Text{
			Size: 6.5, Color: tintaSuave, Top: 2,
		}),
	))
}

func contacto(address, email, phone string) string {
	out := ""
	for _, campo := range []string{address, email, phone} {
		if campo == "" {
			continue
		}
		if out != "" {
			out += "  ·  "
		}
		out += campo
	}
	if out == "" {
		return "—"
	}
	return out
}

// bandasOrdenadas devuelve las claves del desglose en orden ascendente de
// tarifa, para un documento estable.
func bandasOrdenadas(breakdown map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := decimal.NewFromString(keys[i])
		b, _ := decimal.NewFromString(keys[j])
		return a.LessThan(b)
	})
	return keys
}
