package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/facturya-api/internal/domain"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
	"github.com/tu-usuario/facturya-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Los totales autoritativos (total, tax) son columnas NUMERIC NULL: un
// borrador se persiste con NULL y se escanea como NullDecimal inválido.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, customer_id, prefix, number, date, currency, status,
	       total, tax, document_hash, notes, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, customer_id, prefix, number, date, currency, status, total, tax, document_hash, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CompanyID, invoice.CustomerID, invoice.Prefix, nullIfEmpty(invoice.Number),
		invoice.Date, invoice.Currency, invoice.Status, invoice.Total, invoice.Tax,
		nullIfEmpty(invoice.DocumentHash), nullIfEmpty(invoice.Notes),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de la factura.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, description, quantity, unit_price, vat_rate, unit, discount_percent, discount_amount, position, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, nullIfEmpty(line.ProductID), line.Description,
		line.Quantity, line.UnitPrice, line.VATRate, line.Unit,
		line.DiscountPercent, line.DiscountAmount, line.Position, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// Update actualiza la cabecera: estado, totales autoritativos, número, hash
// de documento y notas.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id   = $2,
		    number        = COALESCE($3, number),
		    date          = $4,
		    status        = $5,
		    total         = $6,
		    tax           = $7,
		    document_hash = COALESCE($8, document_hash),
		    notes         = $9,
		    updated_at    = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID,
		invoice.CustomerID,
		nullIfEmpty(invoice.Number),
		invoice.Date,
		invoice.Status,
		invoice.Total,
		invoice.Tax,
		nullIfEmpty(invoice.DocumentHash),
		nullIfEmpty(invoice.Notes),
		invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina la cabecera (las líneas se eliminan con DeleteLines).
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// DeleteLines elimina todas las líneas de la factura (reemplazo en edición).
func (r *InvoiceRepo) DeleteLines(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetLinesByInvoiceID obtiene todas las líneas en orden de posición.
func (r *InvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, description, quantity, unit_price, vat_rate, unit, discount_percent, discount_amount, position, subtotal
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		var productID *string
		if err := rows.Scan(&l.ID, &l.InvoiceID, &productID, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.VATRate, &l.Unit,
			&l.DiscountPercent, &l.DiscountAmount, &l.Position, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		l.ProductID = derefStr(productID)
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List lista facturas de la empresa aplicando filtros y ordenamiento.
func (r *InvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`)
	args := []any{filter.CompanyID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		fmt.Fprintf(&b, " AND status = $%d", len(args))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		fmt.Fprintf(&b, " AND customer_id = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		fmt.Fprintf(&b, " AND date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		fmt.Fprintf(&b, " AND date <= $%d", len(args))
	}

	// Columnas de orden fijas: nunca interpolar entrada del usuario.
	sortCol := "date"
	switch filter.SortBy {
	case repository.InvoiceSortByNumber:
		sortCol = "number"
	case repository.InvoiceSortByTotal:
		sortCol = "total"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	// NULLS LAST mantiene los borradores (total NULL) al final al ordenar por total.
	fmt.Fprintf(&b, " ORDER BY %s %s NULLS LAST, created_at DESC", sortCol, direction)

	args = append(args, filter.Limit)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))

	rows, err := r.q.Query(context.Background(), b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// NextNumber reserva el siguiente consecutivo de la empresa para un prefijo.
// Upsert atómico sobre el contador: seguro bajo concurrencia dentro de la tx.
func (r *InvoiceRepo) NextNumber(companyID, prefix string) (int64, error) {
	query := `
		INSERT INTO invoice_counters (company_id, prefix, next_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, prefix)
		DO UPDATE SET next_number = invoice_counters.next_number + 1
		RETURNING next_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, companyID, prefix).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var number, documentHash, notes *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Prefix, &number,
		&inv.Date, &inv.Currency, &inv.Status,
		&inv.Total, &inv.Tax, &documentHash, &notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Number = derefStr(number)
	inv.DocumentHash = derefStr(documentHash)
	inv.Notes = derefStr(notes)
	return &inv, nil
}
