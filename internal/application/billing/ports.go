package billing

import (
	"context"

	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
	"github.com/tu-usuario/facturya-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los
// repositorios de facturación atados a la misma tx.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoiceLineForPDF línea enriquecida con nombre de producto y montos
// derivados, lista para la tabla del PDF.
type InvoiceLineForPDF struct {
	entity.InvoiceLine
	ProductName string
	Result      calc.LineResult
}

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		company *entity.Company,
		customer *entity.Customer,
		lines []InvoiceLineForPDF,
		totals calc.InvoiceTotals,
	) ([]byte, error)
}

// UBLExporter construye el XML UBL 2.1 de una factura y calcula el hash
// SHA-256 de su forma canónica (C14N), usado como huella del documento al
// finalizar.
type UBLExporter interface {
	Build(
		invoice *entity.Invoice,
		company *entity.Company,
		customer *entity.Customer,
		lines []*entity.InvoiceLine,
		totals calc.InvoiceTotals,
	) ([]byte, error)
	CanonicalHash(xmlDoc []byte) (string, error)
}
