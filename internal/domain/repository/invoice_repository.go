package repository

import (
	"time"

	"github.com/tu-usuario/facturya-api/internal/domain/entity"
)

// Campos de ordenamiento permitidos en listados de facturas.
const (
	InvoiceSortByDate   = "date"
	InvoiceSortByNumber = "number"
	InvoiceSortByTotal  = "total"
)

// InvoiceFilter criterios de listado. Los punteros nulos no filtran.
type InvoiceFilter struct {
	CompanyID  string
	Status     string
	CustomerID string
	DateFrom   *time.Time
	DateTo     *time.Time
	SortBy     string // ver constantes InvoiceSortBy*; vacío = date
	SortDesc   bool
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para Invoice y líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	// Update actualiza cabecera: estado, totales autoritativos, número,
	// hash de documento y notas.
	Update(invoice *entity.Invoice) error
	Delete(id string) error
	// DeleteLines elimina todas las líneas de la factura (reemplazo en edición).
	DeleteLines(invoiceID string) error
	GetByID(id string) (*entity.Invoice, error)
	GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error)
	List(filter InvoiceFilter) ([]*entity.Invoice, error)
	// NextNumber reserva el siguiente consecutivo de la empresa para un prefijo.
	NextNumber(companyID, prefix string) (int64, error)
}
