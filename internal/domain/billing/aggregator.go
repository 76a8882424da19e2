package billing

import "github.com/shopspring/decimal"

// CalculateInvoiceTotals pliega todas las líneas de una factura en sus
// totales. Las líneas marcadas Removed se omiten. Una lista vacía produce
// totales en cero y un desglose vacío, no un error.
//
// Se itera en orden de entrada por determinismo; la suma es asociativa a la
// precisión usada, así que el resultado no depende del orden.
func CalculateInvoiceTotals(items []LineItem) InvoiceTotals {
	totals := InvoiceTotals{
		VATBreakdown: make(map[string]decimal.Decimal),
	}
	for _, item := range items {
		if item.Removed {
			continue
		}
		line := CalculateLine(item)
		totals.Subtotal = totals.Subtotal.Add(line.Subtotal)
		totals.TotalDiscount = totals.TotalDiscount.Add(line.DiscountAmount)
		totals.TaxableAmount = totals.TaxableAmount.Add(line.TaxableAmount)

		key := RateKey(item.VATRate)
		totals.VATBreakdown[key] = totals.VATBreakdown[key].Add(line.VATAmount)
		totals.TotalVAT = totals.TotalVAT.Add(line.VATAmount)
	}
	totals.GrandTotal = totals.TaxableAmount.Add(totals.TotalVAT)
	return totals
}
