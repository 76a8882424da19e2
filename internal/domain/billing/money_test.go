package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturya-api/internal/domain"
	"github.com/tu-usuario/facturya-api/internal/domain/billing"
)

func TestDiv_DivisionPorCeroFallaRapido(t *testing.T) {
	// Un divisor cero es un defecto de lógica: error explícito, nunca 0/NaN.
	_, err := billing.Div(dec("100"), decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)

	q, err := billing.Div(dec("100"), dec("4"))
	require.NoError(t, err)
	assertDecEqual(t, dec("25"), q)
}

func TestAritmeticaBasica(t *testing.T) {
	assertDecEqual(t, dec("0.3"), billing.Add(dec("0.1"), dec("0.2")), "sin error binario de coma flotante")
	assertDecEqual(t, dec("-0.1"), billing.Sub(dec("0.2"), dec("0.3")))
	assertDecEqual(t, dec("0.02"), billing.Mul(dec("0.1"), dec("0.2")))
	assertDecEqual(t, dec("10.57"), billing.RoundCents(dec("10.565")))
}

func TestRateKey_Normalizacion(t *testing.T) {
	// Todas las formas numéricamente iguales producen la misma clave.
	key := billing.RateKey(decimal.NewFromInt(20))
	assert.Equal(t, key, billing.RateKey(dec("20")))
	assert.Equal(t, key, billing.RateKey(dec("20.0")))
	assert.Equal(t, key, billing.RateKey(billing.ParseVATRate("20.00")))
	assert.NotEqual(t, key, billing.RateKey(dec("5.5")))
}

func TestIsEnumeratedRate(t *testing.T) {
	for _, band := range []string{"0", "5.5", "10", "20"} {
		assert.Truef(t, billing.IsEnumeratedRate(dec(band)), "banda %s", band)
	}
	assert.False(t, billing.IsEnumeratedRate(dec("19")))
	assert.False(t, billing.IsEnumeratedRate(dec("21")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Formato de moneda
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrencyFormatter_DosDecimales(t *testing.T) {
	f := billing.NewCurrencyFormatter("es", "€")

	assert.Equal(t, "7,50 €", f.FormatValue(dec("7.5")))
	assert.Equal(t, "0,00 €", f.FormatValue(decimal.Zero), "cero REAL sí se muestra como 0,00")
	assert.Contains(t, f.FormatValue(dec("19.999")), "20,00", "redondeo a céntimos antes de formatear")
}

func TestCurrencyFormatter_AusentePorMarcador(t *testing.T) {
	// Un monto ausente se renderiza con el marcador, preservando la
	// distinción entre "sin valor" y "valor cero".
	f := billing.NewCurrencyFormatter("es", "€")
	assert.Equal(t, billing.AmountPlaceholder, f.Format(decimal.NullDecimal{}))
}

func TestCurrencyFormatter_MagnitudesExtremas(t *testing.T) {
	// Justo bajo el umbral la ida y vuelta por float64 sigue siendo exacta
	// céntimo a céntimo; por encima se preservan los dígitos sin agrupar.
	f := billing.NewCurrencyFormatter("es", "€")

	assert.Equal(t, "9.999.999.999.999,99 €", f.FormatValue(dec("9999999999999.99")))
	assert.Equal(t, "92233720368547758.08 €", f.FormatValue(dec("92233720368547758.08")))
	assert.Equal(t, "-92233720368547758.08 €", f.FormatValue(dec("-92233720368547758.08")))
}

func TestCurrencyFormatter_LocaleInvalidoNoRompe(t *testing.T) {
	f := billing.NewCurrencyFormatter("zz-INVALID", "€")
	assert.NotEmpty(t, f.FormatValue(dec("10")))
}
