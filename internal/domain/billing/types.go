// Package billing implementa el motor de totales de facturación:
// cálculo por línea, agregación con desglose de IVA por tarifa y la
// política de conciliación entre totales almacenados y recalculados.
//
// Todo el paquete es puro: funciones sin estado sobre valores inmutables,
// seguras de invocar en cada render/petición sin memoización.
package billing

import "github.com/shopspring/decimal"

// LineItem es la entrada cruda de una línea de factura, tal como llega de un
// formulario en edición o de la API. Cantidad o precio ausentes valen cero
// (la línea no aporta nada); nunca se rechaza una línea por datos a medio
// escribir.
type LineItem struct {
	ProductID   string // referencia opcional, solo informativa
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal // porcentaje: una de las bandas enumeradas
	Unit        string          // hora/día/unidad — no interviene en la aritmética

	// Descuento: el porcentaje tiene precedencia sobre el monto fijo.
	DiscountPercent *decimal.Decimal // 0..100, nil = sin porcentaje
	DiscountAmount  decimal.Decimal  // monto fijo; 0 = sin descuento

	// Removed marca la línea para eliminación en formularios editables;
	// el agregador la ignora por completo.
	Removed bool
}

// LineResult es el resultado inmutable del cálculo de una línea.
// Se calcula fresco en cada invocación; nunca se cachea.
type LineResult struct {
	Subtotal       decimal.Decimal // cantidad × precio unitario
	DiscountAmount decimal.Decimal // acotado para que TaxableAmount ≥ 0
	TaxableAmount  decimal.Decimal // subtotal − descuento
	VATAmount      decimal.Decimal // base gravable × tarifa/100
	Total          decimal.Decimal // base gravable + IVA
}

// InvoiceTotals son los totales derivados de una factura completa.
// Invariantes: GrandTotal = TaxableAmount + TotalVAT y la suma de
// VATBreakdown es exactamente TotalVAT.
type InvoiceTotals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxableAmount decimal.Decimal
	// VATBreakdown agrupa el IVA por tarifa. La clave es RateKey(tarifa),
	// de modo que "20", 20 y "20.0" colapsan en una sola entrada.
	VATBreakdown map[string]decimal.Decimal
	TotalVAT     decimal.Decimal
	GrandTotal   decimal.Decimal
}

// StoredTotals son los totales autoritativos que acompañan a una factura
// persistida. Cada campo es independiente: un NullDecimal inválido significa
// "aún no finalizada/pagada", una señal deliberada que debe propagarse tal
// cual hasta la presentación.
type StoredTotals struct {
	Total decimal.NullDecimal
	Tax   decimal.NullDecimal
}

// DisplayTotals es la tripleta que consume la capa de presentación.
// Un campo inválido se muestra como marcador ("—"), nunca como "0.00".
type DisplayTotals struct {
	Subtotal decimal.NullDecimal
	Tax      decimal.NullDecimal
	Total    decimal.NullDecimal
}
