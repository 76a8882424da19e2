package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// InvoiceLineRequest línea de factura tal como llega del formulario.
// decimal.Decimal des-serializa tanto "20" (string) como 20 (número); los
// campos NullDecimal además distinguen null/ausente, que significa "usar el
// valor por defecto del producto".
type InvoiceLineRequest struct {
	ProductID       string              `json:"product_id,omitempty"`
	Description     string              `json:"description,omitempty"`
	Quantity        decimal.Decimal     `json:"quantity"`
	UnitPrice       decimal.NullDecimal `json:"unit_price"`
	VATRate         decimal.NullDecimal `json:"vat_rate"`
	Unit            string              `json:"unit,omitempty"`
	DiscountPercent *decimal.Decimal    `json:"discount_percent,omitempty"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount,omitempty"`
	// Removed marca la línea para eliminación (soft-delete del formulario
	// de edición); el motor de totales la ignora.
	Removed bool `json:"removed,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	Prefix     string               `json:"prefix,omitempty"` // vacío = prefijo de la empresa
	Date       string               `json:"date,omitempty"`   // YYYY-MM-DD; vacío = hoy
	Currency   string               `json:"currency,omitempty"`
	Notes      string               `json:"notes,omitempty"`
	Lines      []InvoiceLineRequest `json:"lines"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id (solo borradores).
// Las líneas reemplazan por completo a las existentes.
type UpdateInvoiceRequest struct {
	CustomerID string               `json:"customer_id,omitempty"`
	Date       string               `json:"date,omitempty"`
	Notes      string               `json:"notes,omitempty"`
	Lines      []InvoiceLineRequest `json:"lines"`
}

// PreviewInvoiceRequest body para POST /api/invoices/preview: totales de un
// formulario aún no guardado.
type PreviewInvoiceRequest struct {
	Lines []InvoiceLineRequest `json:"lines"`
}

// ListInvoicesRequest query params para GET /api/invoices.
type ListInvoicesRequest struct {
	Status     string `query:"status"`
	CustomerID string `query:"customer_id"`
	DateFrom   string `query:"date_from"` // YYYY-MM-DD
	DateTo     string `query:"date_to"`
	SortBy     string `query:"sort_by"` // date | number | total
	Order      string `query:"order"`   // asc | desc
	PageRequest
}

// LineResultResponse montos derivados de una línea (tabla línea a línea).
type LineResultResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	Total          decimal.Decimal `json:"total"`
}

// InvoiceLineResponse línea con su resultado de cálculo.
type InvoiceLineResponse struct {
	ID              string              `json:"id"`
	ProductID       string              `json:"product_id,omitempty"`
	Description     string              `json:"description,omitempty"`
	Quantity        decimal.Decimal     `json:"quantity"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	VATRate         decimal.Decimal     `json:"vat_rate"`
	Unit            string              `json:"unit,omitempty"`
	DiscountPercent decimal.NullDecimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	Result          LineResultResponse  `json:"result"`
}

// InvoiceTotalsResponse totales derivados para el panel de resumen.
type InvoiceTotalsResponse struct {
	Subtotal      decimal.Decimal            `json:"subtotal"`
	TotalDiscount decimal.Decimal            `json:"total_discount"`
	TaxableAmount decimal.Decimal            `json:"taxable_amount"`
	VATBreakdown  map[string]decimal.Decimal `json:"vat_breakdown"` // clave: tarifa canónica ("20.00")
	TotalVAT      decimal.Decimal            `json:"total_vat"`
	GrandTotal    decimal.Decimal            `json:"grand_total"`
}

// DisplayTotalsResponse tripleta conciliada para presentación. Los campos
// numéricos serializan null cuando están ausentes; los *Display ya vienen
// formateados con moneda y marcador "—" para ausencia.
type DisplayTotalsResponse struct {
	Subtotal        decimal.NullDecimal `json:"subtotal"`
	Tax             decimal.NullDecimal `json:"tax"`
	Total           decimal.NullDecimal `json:"total"`
	SubtotalDisplay string              `json:"subtotal_display"`
	TaxDisplay      string              `json:"tax_display"`
	TotalDisplay    string              `json:"total_display"`
}

// InvoiceResponse factura completa para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	CompanyID    string                `json:"company_id"`
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name,omitempty"`
	Prefix       string                `json:"prefix"`
	Number       string                `json:"number,omitempty"`
	Date         string                `json:"date"`
	Currency     string                `json:"currency"`
	Status       string                `json:"status"`
	DocumentHash string                `json:"document_hash,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	Lines        []InvoiceLineResponse `json:"lines"`
	Totals       InvoiceTotalsResponse `json:"totals"`
	Display      DisplayTotalsResponse `json:"display"`
}

// InvoiceSummaryResponse fila de listado para GET /api/invoices.
type InvoiceSummaryResponse struct {
	ID         string                `json:"id"`
	CustomerID string                `json:"customer_id"`
	Prefix     string                `json:"prefix"`
	Number     string                `json:"number,omitempty"`
	Date       string                `json:"date"`
	Currency   string                `json:"currency"`
	Status     string                `json:"status"`
	Display    DisplayTotalsResponse `json:"display"`
}

// PreviewInvoiceResponse totales calculados para un formulario sin guardar.
type PreviewInvoiceResponse struct {
	Lines   []InvoiceLineResponse `json:"lines"`
	Totals  InvoiceTotalsResponse `json:"totals"`
	Display DisplayTotalsResponse `json:"display"`
}
