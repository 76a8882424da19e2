package billing

import "github.com/shopspring/decimal"

// CalculateLine convierte una línea en su resultado de cálculo. Función
// pura, O(1), sin efectos.
//
// Regla de redondeo (uniforme en todo el motor): el subtotal y el descuento
// de la línea se redondean a céntimos, y el IVA se calcula sobre la base
// gravable ya redondeada. Así los totales de la factura son sumas exactas
// de montos a céntimos y los invariantes se cumplen sin tolerancia.
func CalculateLine(item LineItem) LineResult {
	// Cantidad o precio ausentes (valor cero de decimal) aportan cero.
	subtotal := RoundCents(item.Quantity.Mul(item.UnitPrice))

	// Descuento: porcentaje con precedencia sobre monto fijo.
	var discount decimal.Decimal
	if item.DiscountPercent != nil {
		discount = RoundCents(subtotal.Mul(item.DiscountPercent.Div(cien)))
	} else {
		discount = RoundCents(item.DiscountAmount)
	}

	// El descuento nunca invierte el signo de la línea.
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		discount = subtotal
		taxable = decimal.Zero
	}

	vat := RoundCents(taxable.Mul(item.VATRate.Div(cien)))

	return LineResult{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		VATAmount:      vat,
		Total:          taxable.Add(vat),
	}
}
