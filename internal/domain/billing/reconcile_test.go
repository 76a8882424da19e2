package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturya-api/internal/domain/billing"
)

// ──────────────────────────────────────────────────────────────────────────────
// ReconcileTotals: precedencia servidor > cliente y propagación de nulos
// ──────────────────────────────────────────────────────────────────────────────

// Líneas deliberadamente contradictorias con los totales almacenados: si la
// conciliación las usara, el resultado cambiaría y el test fallaría.
func contradictoryLines() []billing.LineItem {
	return []billing.LineItem{
		{Quantity: dec("1"), UnitPrice: dec("100"), VATRate: dec("20")},
	}
}

func TestReconcileTotals_AlmacenadosSonAutoritativos(t *testing.T) {
	stored := &billing.StoredTotals{
		Total: billing.ParseAmount("5000.00"),
		Tax:   billing.ParseAmount("1000.00"),
	}
	out := billing.ReconcileTotals(stored, contradictoryLines())

	require.True(t, out.Total.Valid)
	require.True(t, out.Tax.Valid)
	require.True(t, out.Subtotal.Valid)
	assertDecEqual(t, dec("5000.00"), out.Total.Decimal, "las líneas se ignoran")
	assertDecEqual(t, dec("1000.00"), out.Tax.Decimal)
	assertDecEqual(t, dec("4000.00"), out.Subtotal.Decimal, "subtotal = total − impuesto")
}

func TestReconcileTotals_NulosSePropagan(t *testing.T) {
	// total y tax nulos con líneas presentes y bien formadas: la ausencia se
	// propaga, NO se recalcula desde las líneas.
	stored := &billing.StoredTotals{}
	out := billing.ReconcileTotals(stored, contradictoryLines())

	assert.False(t, out.Total.Valid)
	assert.False(t, out.Tax.Valid)
	assert.False(t, out.Subtotal.Valid)
}

func TestReconcileTotals_NuloParcial(t *testing.T) {
	// Solo total presente: tax ausente y subtotal no derivable → también ausente.
	stored := &billing.StoredTotals{Total: billing.ParseAmount("250.00")}
	out := billing.ReconcileTotals(stored, contradictoryLines())

	require.True(t, out.Total.Valid)
	assertDecEqual(t, dec("250.00"), out.Total.Decimal)
	assert.False(t, out.Tax.Valid)
	assert.False(t, out.Subtotal.Valid)
}

func TestReconcileTotals_SinSnapshotUsaAgregador(t *testing.T) {
	// Factura nueva (formulario de creación): no existe snapshot y se cae
	// por completo al agregador sobre las líneas en curso.
	out := billing.ReconcileTotals(nil, contradictoryLines())

	require.True(t, out.Total.Valid)
	require.True(t, out.Tax.Valid)
	require.True(t, out.Subtotal.Valid)
	assertDecEqual(t, dec("100"), out.Subtotal.Decimal)
	assertDecEqual(t, dec("20"), out.Tax.Decimal)
	assertDecEqual(t, dec("120"), out.Total.Decimal)
}

func TestReconcileTotals_SinSnapshotSinLineas(t *testing.T) {
	out := billing.ReconcileTotals(nil, nil)
	require.True(t, out.Total.Valid)
	assert.True(t, out.Total.Decimal.IsZero())
	assert.True(t, out.Tax.Decimal.IsZero())
	assert.True(t, out.Subtotal.Decimal.IsZero())
}

func TestReconcileTotals_StringsNumericosDelServidor(t *testing.T) {
	// Los totales almacenados pueden llegar como strings decimales; un
	// string no parseable equivale a ausencia, nunca a cero.
	assert.True(t, billing.ParseAmount("1234.56").Valid)
	assert.False(t, billing.ParseAmount("").Valid)
	assert.False(t, billing.ParseAmount("null").Valid)
	assert.False(t, billing.ParseAmount("abc").Valid)

	d := billing.ParseAmount("1234.56")
	assertDecEqual(t, dec("1234.56"), d.Decimal)
	assert.True(t, decimal.Zero.Equal(billing.ParseAmountOrZero("no-numérico")))
}
