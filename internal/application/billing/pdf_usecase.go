package billing

import (
	"context"

	"github.com/tu-usuario/facturya-api/internal/domain"
	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	"github.com/tu-usuario/facturya-api/internal/domain/repository"
)

// PDFUseCase genera el PDF de una factura finalizada. Las líneas se
// enriquecen con el nombre del producto y los montos derivados del motor.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	productRepo  repository.ProductRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// GenerateInvoicePDF emite el PDF. Solo facturas finalizadas: un borrador
// todavía no tiene número ni totales autoritativos que imprimir.
func (uc *PDFUseCase) GenerateInvoicePDF(ctx context.Context, companyID, invoiceID string) ([]byte, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !invoice.Finalized() {
		return nil, domain.ErrConflict
	}

	company, err := uc.companyRepo.GetByID(invoice.CompanyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(invoice.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}

	enriched := make([]InvoiceLineForPDF, 0, len(lines))
	for _, l := range lines {
		row := InvoiceLineForPDF{
			InvoiceLine: *l,
			Result:      calc.CalculateLine(toCalcItem(l)),
		}
		if l.ProductID != "" {
			if product, _ := uc.productRepo.GetByID(l.ProductID); product != nil {
				row.ProductName = product.Name
			}
		}
		enriched = append(enriched, row)
	}

	totals := calc.CalculateInvoiceTotals(toCalcItems(lines))
	return uc.generator.GenerateInvoicePDF(ctx, invoice, company, customer, enriched, totals)
}
