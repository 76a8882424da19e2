package billing_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturya-api/internal/domain/billing"
)

// ──────────────────────────────────────────────────────────────────────────────
// CalculateInvoiceTotals
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateInvoiceTotals_ListaVacia(t *testing.T) {
	totals := billing.CalculateInvoiceTotals(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TotalDiscount.IsZero())
	assert.True(t, totals.TaxableAmount.IsZero())
	assert.True(t, totals.TotalVAT.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.Empty(t, totals.VATBreakdown)
}

func TestCalculateInvoiceTotals_DosTarifas(t *testing.T) {
	// Datos de muestra: 3 × 375.15 al 20% y 4 × 1120.60 al 0%.
	// El desglose tiene exactamente dos claves y la entrada de tarifa 0 vale 0.
	items := []billing.LineItem{
		{Quantity: dec("3"), UnitPrice: dec("375.15"), VATRate: dec("20")},
		{Quantity: dec("4"), UnitPrice: dec("1120.60"), VATRate: decimal.Zero},
	}
	totals := billing.CalculateInvoiceTotals(items)

	require.Len(t, totals.VATBreakdown, 2)
	assertDecEqual(t, dec("225.09"), totals.VATBreakdown[billing.RateKey(dec("20"))])
	assert.True(t, totals.VATBreakdown[billing.RateKey(decimal.Zero)].IsZero())

	assertDecEqual(t, dec("5607.85"), totals.Subtotal) // 1125.45 + 4482.40
	assertDecEqual(t, dec("225.09"), totals.TotalVAT)
	assertDecEqual(t, dec("5832.94"), totals.GrandTotal)
}

func TestCalculateInvoiceTotals_ClavesDeTarifaNormalizadas(t *testing.T) {
	// "20" como string y 20 como número deben caer en la MISMA entrada del
	// desglose; partir una tarifa lógica en dos es un defecto.
	items := []billing.LineItem{
		{Quantity: dec("1"), UnitPrice: dec("100"), VATRate: billing.ParseVATRate("20")},
		{Quantity: dec("1"), UnitPrice: dec("100"), VATRate: decimal.NewFromInt(20)},
		{Quantity: dec("1"), UnitPrice: dec("100"), VATRate: billing.ParseVATRate("20.0")},
	}
	totals := billing.CalculateInvoiceTotals(items)
	require.Len(t, totals.VATBreakdown, 1)
	assertDecEqual(t, dec("60"), totals.VATBreakdown[billing.RateKey(decimal.NewFromInt(20))])
}

func TestCalculateInvoiceTotals_OmiteLineasEliminadas(t *testing.T) {
	items := []billing.LineItem{
		{Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("20")},
		{Quantity: dec("9"), UnitPrice: dec("999"), VATRate: dec("20"), Removed: true},
	}
	totals := billing.CalculateInvoiceTotals(items)
	assertDecEqual(t, dec("100"), totals.Subtotal)
	assertDecEqual(t, dec("120"), totals.GrandTotal)
}

func TestCalculateInvoiceTotals_Idempotente(t *testing.T) {
	items := []billing.LineItem{
		{Quantity: dec("3"), UnitPrice: dec("33.33"), VATRate: dec("10")},
		{Quantity: dec("7"), UnitPrice: dec("19.90"), VATRate: dec("5.5"), DiscountPercent: decPtr("5")},
	}
	a := billing.CalculateInvoiceTotals(items)
	b := billing.CalculateInvoiceTotals(items)
	assertDecEqual(t, a.GrandTotal, b.GrandTotal)
	assertDecEqual(t, a.TotalVAT, b.TotalVAT)
	require.Equal(t, len(a.VATBreakdown), len(b.VATBreakdown))
	for k, v := range a.VATBreakdown {
		assertDecEqual(t, v, b.VATBreakdown[k], "clave %s", k)
	}
}

// TestCalculateInvoiceTotals_Invariantes genera facturas aleatorias (0 a 20
// líneas) y verifica los dos invariantes del agregador:
//
//	sum(VATBreakdown) == TotalVAT            (exacto)
//	GrandTotal == TaxableAmount + TotalVAT   (exacto)
//
// Semilla fija para reproducibilidad.
func TestCalculateInvoiceTotals_Invariantes(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	bands := billing.VATBands

	for i := 0; i < 200; i++ {
		n := rnd.Intn(21)
		items := make([]billing.LineItem, 0, n)
		for j := 0; j < n; j++ {
			item := billing.LineItem{
				Quantity:  decimal.NewFromFloat(float64(rnd.Intn(2000)) / 100),
				UnitPrice: decimal.NewFromFloat(float64(rnd.Intn(1_000_000)) / 100),
				VATRate:   bands[rnd.Intn(len(bands))],
			}
			switch rnd.Intn(3) {
			case 1:
				p := decimal.NewFromInt(int64(rnd.Intn(101)))
				item.DiscountPercent = &p
			case 2:
				item.DiscountAmount = decimal.NewFromFloat(float64(rnd.Intn(20000)) / 100)
			}
			items = append(items, item)
		}

		totals := billing.CalculateInvoiceTotals(items)

		sum := decimal.Zero
		for _, v := range totals.VATBreakdown {
			sum = sum.Add(v)
		}
		assert.Truef(t, sum.Equal(totals.TotalVAT),
			"iteración %d: desglose suma %s, TotalVAT %s", i, sum, totals.TotalVAT)
		assert.Truef(t, totals.TaxableAmount.Add(totals.TotalVAT).Equal(totals.GrandTotal),
			"iteración %d: base %s + IVA %s ≠ total %s", i,
			totals.TaxableAmount, totals.TotalVAT, totals.GrandTotal)
		assert.Truef(t, totals.Subtotal.Sub(totals.TotalDiscount).Equal(totals.TaxableAmount),
			"iteración %d: subtotal − descuento ≠ base gravable", i)
	}
}
