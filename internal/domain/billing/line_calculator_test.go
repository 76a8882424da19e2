package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturya-api/internal/domain/billing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// assertDecEqual compara decimales por valor numérico, no por representación.
func assertDecEqual(t *testing.T, want, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "esperado %s, obtenido %s (%v)", want, got, msgAndArgs)
}

// ──────────────────────────────────────────────────────────────────────────────
// CalculateLine
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateLine_SinIVASinDescuento(t *testing.T) {
	// Con tarifa 0 y sin descuento: subtotal = total = cantidad × precio, IVA = 0.
	cases := []struct {
		qty, price string
	}{
		{"1", "100"},
		{"3", "375.15"},
		{"0", "999.99"},
		{"2.5", "40"},
	}
	for _, tc := range cases {
		item := billing.LineItem{
			Quantity:  dec(tc.qty),
			UnitPrice: dec(tc.price),
			VATRate:   decimal.Zero,
		}
		r := billing.CalculateLine(item)
		want := dec(tc.qty).Mul(dec(tc.price)).Round(2)
		assertDecEqual(t, want, r.Subtotal, "subtotal %s×%s", tc.qty, tc.price)
		assertDecEqual(t, want, r.Total, "total %s×%s", tc.qty, tc.price)
		assert.True(t, r.VATAmount.IsZero(), "IVA debe ser cero con tarifa 0")
		assert.True(t, r.DiscountAmount.IsZero())
	}
}

func TestCalculateLine_IVAEstandar(t *testing.T) {
	// 3 × 375.15 al 20%: subtotal 1125.45, IVA 225.09, total 1350.54
	r := billing.CalculateLine(billing.LineItem{
		Quantity:  dec("3"),
		UnitPrice: dec("375.15"),
		VATRate:   dec("20"),
	})
	assertDecEqual(t, dec("1125.45"), r.Subtotal)
	assertDecEqual(t, dec("1125.45"), r.TaxableAmount)
	assertDecEqual(t, dec("225.09"), r.VATAmount)
	assertDecEqual(t, dec("1350.54"), r.Total)
}

func TestCalculateLine_TarifaReducida(t *testing.T) {
	// Banda 5.5: 10 × 19.90 = 199.00, IVA 10.95 (10.945 redondeado)
	r := billing.CalculateLine(billing.LineItem{
		Quantity:  dec("10"),
		UnitPrice: dec("19.90"),
		VATRate:   dec("5.5"),
	})
	assertDecEqual(t, dec("199.00"), r.Subtotal)
	assertDecEqual(t, dec("10.95"), r.VATAmount)
	assertDecEqual(t, dec("209.95"), r.Total)
}

func TestCalculateLine_DescuentoPorcentual(t *testing.T) {
	// Subtotal 200, 10% de descuento → base 180, IVA 20% → 36, total 216.
	r := billing.CalculateLine(billing.LineItem{
		Quantity:        dec("2"),
		UnitPrice:       dec("100"),
		VATRate:         dec("20"),
		DiscountPercent: decPtr("10"),
	})
	assertDecEqual(t, dec("200"), r.Subtotal)
	assertDecEqual(t, dec("20"), r.DiscountAmount)
	assertDecEqual(t, dec("180"), r.TaxableAmount)
	assertDecEqual(t, dec("36"), r.VATAmount)
	assertDecEqual(t, dec("216"), r.Total)
}

func TestCalculateLine_PorcentajeTienePrecedenciaSobreMontoFijo(t *testing.T) {
	// Si vienen ambos, gana el porcentaje.
	r := billing.CalculateLine(billing.LineItem{
		Quantity:        dec("1"),
		UnitPrice:       dec("100"),
		VATRate:         decimal.Zero,
		DiscountPercent: decPtr("25"),
		DiscountAmount:  dec("99"),
	})
	assertDecEqual(t, dec("25"), r.DiscountAmount)
	assertDecEqual(t, dec("75"), r.TaxableAmount)
}

func TestCalculateLine_DescuentoAcotado(t *testing.T) {
	// Subtotal 100 con descuento fijo 150: la base nunca baja de 0 (no −50).
	r := billing.CalculateLine(billing.LineItem{
		Quantity:       dec("1"),
		UnitPrice:      dec("100"),
		VATRate:        dec("20"),
		DiscountAmount: dec("150"),
	})
	assertDecEqual(t, dec("100"), r.Subtotal)
	assertDecEqual(t, dec("100"), r.DiscountAmount, "el descuento efectivo se acota al subtotal")
	assert.True(t, r.TaxableAmount.IsZero(), "base gravable acotada a 0, no negativa")
	assert.True(t, r.VATAmount.IsZero())
	assert.True(t, r.Total.IsZero())
}

func TestCalculateLine_CantidadOPrecioAusentes(t *testing.T) {
	// El valor cero de decimal.Decimal es 0: una línea a medio editar
	// simplemente no aporta, jamás lanza.
	r := billing.CalculateLine(billing.LineItem{VATRate: dec("20")})
	assert.True(t, r.Subtotal.IsZero())
	assert.True(t, r.Total.IsZero())
}

func TestCalculateLine_TarifaFueraDeBanda(t *testing.T) {
	// Tarifas fuera del conjunto enumerado se aceptan numéricamente
	// (defensivo); la señal de calidad de datos es IsEnumeratedRate.
	rate := dec("19")
	require.False(t, billing.IsEnumeratedRate(rate))
	r := billing.CalculateLine(billing.LineItem{
		Quantity:  dec("1"),
		UnitPrice: dec("100"),
		VATRate:   rate,
	})
	assertDecEqual(t, dec("19"), r.VATAmount)
}
