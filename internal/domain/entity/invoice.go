package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
const (
	InvoiceStatusDraft     = "DRAFT"     // editable; sin totales autoritativos
	InvoiceStatusFinalized = "FINALIZED" // numerada, totales fijados, inmutable
	InvoiceStatusPaid      = "PAID"      // pagada (los totales pueden reflejar ajustes de pago)
	InvoiceStatusVoid      = "VOID"      // anulada después de finalizar
)

// Invoice representa la cabecera de una factura.
//
// Total y Tax son los totales AUTORITATIVOS: permanecen nulos mientras la
// factura está en borrador y se fijan al finalizar (o al registrar pagos).
// Mientras son nulos la presentación muestra ausencia ("—"); nunca se
// sustituyen por una suma recalculada de las líneas.
type Invoice struct {
	ID           string
	CompanyID    string
	CustomerID   string
	Prefix       string
	Number       string
	Date         time.Time
	Currency     string // código ISO 4217, ej. "EUR"
	Status       string
	Total        decimal.NullDecimal // autoritativo; NULL hasta finalizar
	Tax          decimal.NullDecimal // autoritativo; NULL hasta finalizar
	DocumentHash string              // SHA-256 del XML UBL canonicalizado, fijado al finalizar
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Finalized indica si la factura ya es inmutable.
func (i *Invoice) Finalized() bool {
	return i.Status != InvoiceStatusDraft
}
