package billing

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturya-api/internal/application/dto"
	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
)

// Conversión entre entidades persistidas, líneas del motor de totales y DTOs.

// toCalcItem convierte una línea persistida en la entrada del motor.
func toCalcItem(l *entity.InvoiceLine) calc.LineItem {
	item := calc.LineItem{
		ProductID:      l.ProductID,
		Description:    l.Description,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		VATRate:        l.VATRate,
		Unit:           l.Unit,
		DiscountAmount: l.DiscountAmount,
	}
	if l.DiscountPercent.Valid {
		p := l.DiscountPercent.Decimal
		item.DiscountPercent = &p
	}
	return item
}

// toCalcItems convierte todas las líneas persistidas.
func toCalcItems(lines []*entity.InvoiceLine) []calc.LineItem {
	items := make([]calc.LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, toCalcItem(l))
	}
	return items
}

// requestToCalcItem convierte una línea de formulario (sin resolver
// productos) en la entrada del motor; se usa en el preview, donde no hay
// estado de servidor. Precio o tarifa ausentes valen cero.
func requestToCalcItem(r dto.InvoiceLineRequest) calc.LineItem {
	item := calc.LineItem{
		ProductID:       r.ProductID,
		Description:     r.Description,
		Quantity:        r.Quantity,
		UnitPrice:       r.UnitPrice.Decimal,
		VATRate:         r.VATRate.Decimal,
		Unit:            r.Unit,
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		Removed:         r.Removed,
	}
	return item
}

func toLineResultResponse(r calc.LineResult) dto.LineResultResponse {
	return dto.LineResultResponse{
		Subtotal:       r.Subtotal,
		DiscountAmount: r.DiscountAmount,
		TaxableAmount:  r.TaxableAmount,
		VATAmount:      r.VATAmount,
		Total:          r.Total,
	}
}

func toLineResponse(l *entity.InvoiceLine) dto.InvoiceLineResponse {
	return dto.InvoiceLineResponse{
		ID:              l.ID,
		ProductID:       l.ProductID,
		Description:     l.Description,
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		VATRate:         l.VATRate,
		Unit:            l.Unit,
		DiscountPercent: l.DiscountPercent,
		DiscountAmount:  l.DiscountAmount,
		Result:          toLineResultResponse(calc.CalculateLine(toCalcItem(l))),
	}
}

func toTotalsResponse(t calc.InvoiceTotals) dto.InvoiceTotalsResponse {
	breakdown := make(map[string]decimal.Decimal, len(t.VATBreakdown))
	for k, v := range t.VATBreakdown {
		breakdown[k] = v
	}
	return dto.InvoiceTotalsResponse{
		Subtotal:      t.Subtotal,
		TotalDiscount: t.TotalDiscount,
		TaxableAmount: t.TaxableAmount,
		VATBreakdown:  breakdown,
		TotalVAT:      t.TotalVAT,
		GrandTotal:    t.GrandTotal,
	}
}

// toDisplayResponse materializa la tripleta conciliada, con los strings ya
// formateados (marcador "—" para campos ausentes).
func toDisplayResponse(d calc.DisplayTotals, f *calc.CurrencyFormatter) dto.DisplayTotalsResponse {
	return dto.DisplayTotalsResponse{
		Subtotal:        d.Subtotal,
		Tax:             d.Tax,
		Total:           d.Total,
		SubtotalDisplay: f.Format(d.Subtotal),
		TaxDisplay:      f.Format(d.Tax),
		TotalDisplay:    f.Format(d.Total),
	}
}

// storedTotals extrae el snapshot autoritativo de la cabecera persistida.
func storedTotals(inv *entity.Invoice) *calc.StoredTotals {
	return &calc.StoredTotals{Total: inv.Total, Tax: inv.Tax}
}
