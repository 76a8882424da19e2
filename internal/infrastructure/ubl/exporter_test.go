package ubl_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
	"github.com/tu-usuario/facturya-api/internal/infrastructure/ubl"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleDocument() (*entity.Invoice, *entity.Company, *entity.Customer, []*entity.InvoiceLine, calc.InvoiceTotals) {
	invoice := &entity.Invoice{
		ID:         "inv-1",
		CompanyID:  "co-1",
		CustomerID: "cus-1",
		Prefix:     "FAC",
		Number:     "000042",
		Date:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency:   "EUR",
		Status:     entity.InvoiceStatusFinalized,
		Notes:      "Pago a 30 días",
	}
	company := &entity.Company{
		ID:    "co-1",
		Name:  "Estudio Lumen SL",
		TaxID: "B12345678",
	}
	customer := &entity.Customer{
		ID:    "cus-1",
		Name:  "Cliente Norte SA",
		TaxID: "A87654321",
	}
	lines := []*entity.InvoiceLine{
		{
			Description: "Consultoría",
			Quantity:    dec("3"),
			UnitPrice:   dec("375.15"),
			VATRate:     dec("20"),
			Unit:        entity.UnitHour,
			Position:    1,
		},
		{
			Description: "Formación",
			Quantity:    dec("2"),
			UnitPrice:   dec("50"),
			VATRate:     dec("10"),
			Unit:        entity.UnitDay,
			Position:    2,
		},
	}
	items := make([]calc.LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, calc.LineItem{
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			VATRate:   l.VATRate,
		})
	}
	return invoice, company, customer, lines, calc.CalculateInvoiceTotals(items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Build
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_DocumentoUBL(t *testing.T) {
	exporter := ubl.NewExporter()
	invoice, company, customer, lines, totals := sampleDocument()

	out, err := exporter.Build(invoice, company, customer, lines, totals)
	require.NoError(t, err)
	xml := string(out)

	assert.Contains(t, xml, ubl.NsInvoice)
	assert.Contains(t, xml, "<cbc:ID>FAC000042</cbc:ID>")
	assert.Contains(t, xml, "<cbc:IssueDate>2026-03-15</cbc:IssueDate>")
	assert.Contains(t, xml, "<cbc:DocumentCurrencyCode>EUR</cbc:DocumentCurrencyCode>")
	assert.Contains(t, xml, "<cbc:LineCountNumeric>2</cbc:LineCountNumeric>")
	assert.Contains(t, xml, "Estudio Lumen SL")
	assert.Contains(t, xml, "Cliente Norte SA")

	// Importes con dos decimales y moneda explícita.
	// 1125.45 + 100 de base, 225.09 + 10 de IVA.
	assert.Contains(t, xml, `<cbc:TaxAmount currencyID="EUR">235.09</cbc:TaxAmount>`)
	assert.Contains(t, xml, `<cbc:TaxInclusiveAmount currencyID="EUR">1460.54</cbc:TaxInclusiveAmount>`)
	assert.Contains(t, xml, `<cbc:PayableAmount currencyID="EUR">1460.54</cbc:PayableAmount>`)
}

func TestBuild_BandasDeIVAOrdenadas(t *testing.T) {
	exporter := ubl.NewExporter()
	invoice, company, customer, lines, totals := sampleDocument()

	out, err := exporter.Build(invoice, company, customer, lines, totals)
	require.NoError(t, err)
	xml := string(out)

	// La banda del 10% aparece antes que la del 20% siempre.
	pos10 := strings.Index(xml, "<cbc:Percent>10.00</cbc:Percent>")
	pos20 := strings.Index(xml, "<cbc:Percent>20.00</cbc:Percent>")
	require.NotEqual(t, -1, pos10)
	require.NotEqual(t, -1, pos20)
	assert.Less(t, pos10, pos20)
}

func TestBuild_LineaConDescuento(t *testing.T) {
	exporter := ubl.NewExporter()
	invoice, company, customer, _, _ := sampleDocument()

	pct := dec("10")
	lines := []*entity.InvoiceLine{
		{
			Description:     "Licencia",
			Quantity:        dec("1"),
			UnitPrice:       dec("200"),
			VATRate:         dec("20"),
			DiscountPercent: decimal.NullDecimal{Decimal: pct, Valid: true},
			Position:        1,
		},
	}
	items := []calc.LineItem{{
		Quantity: dec("1"), UnitPrice: dec("200"), VATRate: dec("20"),
		DiscountPercent: &pct,
	}}
	totals := calc.CalculateInvoiceTotals(items)

	out, err := exporter.Build(invoice, company, customer, lines, totals)
	require.NoError(t, err)
	xml := string(out)

	// 200 − 10% = 180 de base, 36 de IVA, 20 de descuento declarado.
	assert.Contains(t, xml, `<cbc:LineExtensionAmount currencyID="EUR">180.00</cbc:LineExtensionAmount>`)
	assert.Contains(t, xml, `<cbc:Amount currencyID="EUR">20.00</cbc:Amount>`)
	assert.Contains(t, xml, "<cbc:ChargeIndicator>false</cbc:ChargeIndicator>")
}

func TestBuild_EntradasNulas(t *testing.T) {
	exporter := ubl.NewExporter()
	_, err := exporter.Build(nil, nil, nil, nil, calc.InvoiceTotals{})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// CanonicalHash
// ──────────────────────────────────────────────────────────────────────────────

func TestCanonicalHash_Determinista(t *testing.T) {
	exporter := ubl.NewExporter()
	invoice, company, customer, lines, totals := sampleDocument()

	first, err := exporter.Build(invoice, company, customer, lines, totals)
	require.NoError(t, err)
	second, err := exporter.Build(invoice, company, customer, lines, totals)
	require.NoError(t, err)

	h1, err := exporter.CanonicalHash(first)
	require.NoError(t, err)
	h2, err := exporter.CanonicalHash(second)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // SHA-256 en hexadecimal
}

func TestCanonicalHash_SensibleAlContenido(t *testing.T) {
	exporter := ubl.NewExporter()
	invoice, company, customer, lines, totals := sampleDocument()

	base, err := exporter.Build(invoice, company, customer, lines, totals)
	require.NoError(t, err)

	invoice.Number = "000043"
	changed, err := exporter.Build(invoice, company, customer, lines, totals)
	require.NoError(t, err)

	h1, err := exporter.CanonicalHash(base)
	require.NoError(t, err)
	h2, err := exporter.CanonicalHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
