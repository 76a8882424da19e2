package entity

import "github.com/shopspring/decimal"

// Unidades informativas de una línea (no intervienen en la aritmética).
const (
	UnitHour  = "hora"
	UnitDay   = "día"
	UnitPiece = "unidad"
)

// InvoiceLine representa una línea de una factura.
// Subtotal se persiste para reportes; el resto de montos derivados se
// recalculan en vivo con el motor de totales en cada lectura.
type InvoiceLine struct {
	ID              string
	InvoiceID       string
	ProductID       string // opcional, informativo
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	VATRate         decimal.Decimal // porcentaje (banda): 0, 5.5, 10, 20
	Unit            string          // ver constantes Unit*
	DiscountPercent decimal.NullDecimal
	DiscountAmount  decimal.Decimal
	Position        int
	Subtotal        decimal.Decimal
}
