package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable. Aporta los valores
// por defecto de una línea (precio, banda de IVA, unidad) cuando el
// formulario no los especifica.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio unitario por defecto
	VATRate     decimal.Decimal // banda de IVA por defecto: 0, 5.5, 10, 20
	Unit        string          // hora, día, unidad
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
