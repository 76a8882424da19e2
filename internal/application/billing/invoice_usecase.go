package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturya-api/internal/application/dto"
	"github.com/tu-usuario/facturya-api/internal/domain"
	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
	"github.com/tu-usuario/facturya-api/internal/domain/repository"
)

// InvoiceUseCase casos de uso de facturación: crear, listar, consultar,
// editar, finalizar y eliminar facturas. Los totales mostrados salen siempre
// de la política de conciliación del motor (calc.ReconcileTotals): los
// totales almacenados son autoritativos y su ausencia se propaga tal cual.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	exporter     UBLExporter
	formatter    *calc.CurrencyFormatter
	currency     string // moneda por defecto (ISO 4217)
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	exporter UBLExporter,
	formatter *calc.CurrencyFormatter,
	currency string,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		exporter:     exporter,
		formatter:    formatter,
		currency:     currency,
	}
}

// CreateInvoice crea una factura en borrador. El borrador NO lleva totales
// autoritativos (quedan NULL hasta finalizar); la respuesta ya muestra el
// marcador de ausencia en la tripleta de presentación.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	prefix := in.Prefix
	if prefix == "" {
		prefix = company.InvoicePrefix
	}
	currency := in.Currency
	if currency == "" {
		currency = uc.currency
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: in.CustomerID,
		Prefix:     prefix,
		Date:       date,
		Currency:   currency,
		Status:     entity.InvoiceStatusDraft,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	lines, err := uc.resolveLines(companyID, inv.ID, in.Lines)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput // todas las líneas venían eliminadas
	}

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.ProductRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.toResponse(inv, customer.Name, lines), nil
}

// GetInvoice obtiene una factura con líneas, montos por línea, totales
// derivados y la tripleta conciliada.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return uc.toResponse(inv, customerName, lines), nil
}

// ListInvoices lista facturas con filtros (estado, cliente, rango de fechas)
// y ordenamiento. La tripleta de cada fila sale solo del snapshot
// almacenado: los borradores muestran "—" sin cargar líneas.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, companyID string, in dto.ListInvoicesRequest) ([]*dto.InvoiceSummaryResponse, error) {
	in.DefaultPage()

	filter := repository.InvoiceFilter{
		CompanyID:  companyID,
		Status:     in.Status,
		CustomerID: in.CustomerID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	switch in.Order {
	case "", "asc":
	case "desc":
		filter.SortDesc = true
	default:
		return nil, domain.ErrInvalidInput
	}
	switch in.SortBy {
	case "", repository.InvoiceSortByDate:
		filter.SortBy = repository.InvoiceSortByDate
	case repository.InvoiceSortByNumber, repository.InvoiceSortByTotal:
		filter.SortBy = in.SortBy
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.DateFrom != "" {
		from, err := time.Parse("2006-01-02", in.DateFrom)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.DateFrom = &from
	}
	if in.DateTo != "" {
		to, err := time.Parse("2006-01-02", in.DateTo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.DateTo = &to
	}

	list, err := uc.invoiceRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceSummaryResponse, 0, len(list))
	for _, inv := range list {
		display := calc.ReconcileTotals(storedTotals(inv), nil)
		out = append(out, &dto.InvoiceSummaryResponse{
			ID:         inv.ID,
			CustomerID: inv.CustomerID,
			Prefix:     inv.Prefix,
			Number:     inv.Number,
			Date:       inv.Date.Format("2006-01-02"),
			Currency:   inv.Currency,
			Status:     inv.Status,
			Display:    toDisplayResponse(display, uc.formatter),
		})
	}
	return out, nil
}

// UpdateInvoice reemplaza líneas y campos editables de un borrador.
// Una factura finalizada es inmutable: ErrInvoiceFinalized.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, companyID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if inv.Finalized() {
		return nil, domain.ErrInvoiceFinalized
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	customerName := ""
	if in.CustomerID != "" && in.CustomerID != inv.CustomerID {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		inv.CustomerID = in.CustomerID
		customerName = customer.Name
	}
	if in.Date != "" {
		date, err := parseDate(in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		inv.Date = date
	}
	if in.Notes != "" {
		inv.Notes = in.Notes
	}

	lines, err := uc.resolveLines(companyID, inv.ID, in.Lines)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	inv.UpdatedAt = time.Now()

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.ProductRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if err := invoiceRepo.DeleteLines(inv.ID); err != nil {
			return err
		}
		for _, line := range lines {
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, err
	}

	if customerName == "" {
		if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
			customerName = customer.Name
		}
	}
	return uc.toResponse(inv, customerName, lines), nil
}

// FinalizeInvoice fija los totales autoritativos de un borrador: calcula con
// el motor sobre las líneas actuales, reserva el consecutivo, genera el XML
// UBL, guarda el hash canónico del documento y transiciona a FINALIZED.
// Finalizar dos veces es ErrConflict.
func (uc *InvoiceUseCase) FinalizeInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if inv.Finalized() {
		return nil, domain.ErrConflict
	}

	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}

	totals := calc.CalculateInvoiceTotals(toCalcItems(lines))

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.ProductRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		seq, err := invoiceRepo.NextNumber(companyID, inv.Prefix)
		if err != nil {
			return err
		}
		inv.Number = fmt.Sprintf("%06d", seq)
		inv.Total = decimal.NullDecimal{Decimal: totals.GrandTotal, Valid: true}
		inv.Tax = decimal.NullDecimal{Decimal: totals.TotalVAT, Valid: true}
		inv.Status = entity.InvoiceStatusFinalized
		inv.UpdatedAt = time.Now()

		xmlDoc, err := uc.exporter.Build(inv, company, customer, lines, totals)
		if err != nil {
			return fmt.Errorf("generar XML UBL: %w", err)
		}
		hash, err := uc.exporter.CanonicalHash(xmlDoc)
		if err != nil {
			return fmt.Errorf("hash canónico del documento: %w", err)
		}
		inv.DocumentHash = hash

		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, err
	}

	return uc.toResponse(inv, customer.Name, lines), nil
}

// DeleteInvoice elimina un borrador (las finalizadas son inmutables).
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, companyID, id string) error {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if inv.Finalized() {
		return domain.ErrInvoiceFinalized
	}
	return uc.txRunner.RunBilling(ctx, func(
		_ repository.ProductRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if err := invoiceRepo.DeleteLines(id); err != nil {
			return err
		}
		return invoiceRepo.Delete(id)
	})
}

// ExportXML regenera el documento UBL de una factura finalizada. El documento
// reconstruido produce la misma huella canónica registrada al finalizar.
func (uc *InvoiceUseCase) ExportXML(ctx context.Context, companyID, id string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !inv.Finalized() {
		return nil, domain.ErrConflict
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	totals := calc.CalculateInvoiceTotals(toCalcItems(lines))
	return uc.exporter.Build(inv, company, customer, lines, totals)
}

// PreviewTotals calcula totales para un formulario aún no guardado. No
// existe snapshot de servidor, así que la conciliación cae por completo al
// agregador sobre las líneas en curso. Cálculo puro, sin tocar la base.
func (uc *InvoiceUseCase) PreviewTotals(in dto.PreviewInvoiceRequest) *dto.PreviewInvoiceResponse {
	items := make([]calc.LineItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		items = append(items, requestToCalcItem(l))
	}

	totals := calc.CalculateInvoiceTotals(items)
	display := calc.ReconcileTotals(nil, items)

	lines := make([]dto.InvoiceLineResponse, 0, len(items))
	for _, item := range items {
		if item.Removed {
			continue
		}
		lines = append(lines, dto.InvoiceLineResponse{
			ProductID:      item.ProductID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			VATRate:        item.VATRate,
			Unit:           item.Unit,
			DiscountAmount: item.DiscountAmount,
			DiscountPercent: decimal.NullDecimal{
				Decimal: derefOrZero(item.DiscountPercent),
				Valid:   item.DiscountPercent != nil,
			},
			Result: toLineResultResponse(calc.CalculateLine(item)),
		})
	}

	return &dto.PreviewInvoiceResponse{
		Lines:   lines,
		Totals:  toTotalsResponse(totals),
		Display: toDisplayResponse(display, uc.formatter),
	}
}

// resolveLines valida las líneas del request y completa los valores por
// defecto del producto (precio, banda de IVA, unidad) cuando faltan. Las
// líneas marcadas Removed no se persisten.
func (uc *InvoiceUseCase) resolveLines(companyID, invoiceID string, reqs []dto.InvoiceLineRequest) ([]*entity.InvoiceLine, error) {
	lines := make([]*entity.InvoiceLine, 0, len(reqs))
	for i, r := range reqs {
		if r.Removed {
			continue
		}
		if r.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}

		line := &entity.InvoiceLine{
			ID:             uuid.New().String(),
			InvoiceID:      invoiceID,
			ProductID:      r.ProductID,
			Description:    r.Description,
			Quantity:       r.Quantity,
			UnitPrice:      r.UnitPrice.Decimal,
			VATRate:        r.VATRate.Decimal,
			Unit:           r.Unit,
			DiscountAmount: r.DiscountAmount,
			Position:       i,
		}
		if r.DiscountPercent != nil {
			line.DiscountPercent = decimal.NullDecimal{Decimal: *r.DiscountPercent, Valid: true}
		}

		if r.ProductID != "" {
			product, err := uc.productRepo.GetByID(r.ProductID)
			if err != nil || product == nil {
				return nil, domain.ErrNotFound
			}
			if product.CompanyID != companyID {
				return nil, domain.ErrForbidden
			}
			if !r.UnitPrice.Valid {
				line.UnitPrice = product.Price
			}
			if !r.VATRate.Valid {
				line.VATRate = product.VATRate
			}
			if line.Unit == "" {
				line.Unit = product.Unit
			}
			if line.Description == "" {
				line.Description = product.Name
			}
		}

		line.Subtotal = calc.CalculateLine(toCalcItem(line)).Subtotal
		lines = append(lines, line)
	}
	return lines, nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, customerName string, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	items := toCalcItems(lines)
	totals := calc.CalculateInvoiceTotals(items)
	display := calc.ReconcileTotals(storedTotals(inv), items)

	lineResponses := make([]dto.InvoiceLineResponse, 0, len(lines))
	for _, l := range lines {
		lineResponses = append(lineResponses, toLineResponse(l))
	}

	return &dto.InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		CustomerID:   inv.CustomerID,
		CustomerName: customerName,
		Prefix:       inv.Prefix,
		Number:       inv.Number,
		Date:         inv.Date.Format("2006-01-02"),
		Currency:     inv.Currency,
		Status:       inv.Status,
		DocumentHash: inv.DocumentHash,
		Notes:        inv.Notes,
		Lines:        lineResponses,
		Totals:       toTotalsResponse(totals),
		Display:      toDisplayResponse(display, uc.formatter),
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
