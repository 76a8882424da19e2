package billing

import "github.com/shopspring/decimal"

// ReconcileTotals decide qué totales mostrar para una factura: los
// almacenados (autoritativos) o los recalculados desde las líneas.
//
// Reglas, en orden:
//
//  1. Sin snapshot (stored == nil): factura nueva sin guardar. Se usa
//     íntegramente el agregador sobre las líneas actuales.
//  2. Total e impuesto presentes: se usan tal cual y el subtotal se deriva
//     como total − impuesto. NUNCA se recalcula desde las líneas aunque
//     existan y den otro número: los valores almacenados pueden reflejar
//     ajustes de pago que las líneas no ven.
//  3. Total o impuesto nulo: la ausencia se propaga campo a campo hasta la
//     presentación (se renderiza "—"). No se sustituye por una suma propia,
//     haya o no líneas: el nulo significa "aún sin finalizar/pagar" y es un
//     contrato, no un fallback.
//
// Decisión pura: no consulta nada, solo combina datos ya obtenidos.
func ReconcileTotals(stored *StoredTotals, items []LineItem) DisplayTotals {
	if stored == nil {
		computed := CalculateInvoiceTotals(items)
		return DisplayTotals{
			Subtotal: present(computed.TaxableAmount),
			Tax:      present(computed.TotalVAT),
			Total:    present(computed.GrandTotal),
		}
	}

	out := DisplayTotals{Total: stored.Total, Tax: stored.Tax}
	if stored.Total.Valid && stored.Tax.Valid {
		out.Subtotal = present(stored.Total.Decimal.Sub(stored.Tax.Decimal))
	}
	return out
}

func present(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
