package billing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturya-api/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Aritmética monetaria sobre decimal.Decimal. La suma, resta y
// multiplicación decimales son exactas; el redondeo a céntimos se aplica al
// producir el resultado de cada línea, no en pasos intermedios.

var cien = decimal.NewFromInt(100)

// Add suma dos montos.
func Add(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) }

// Sub resta b de a.
func Sub(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) }

// Mul multiplica dos montos.
func Mul(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b) }

// Div divide a entre b. Un divisor cero es un defecto de lógica, no un
// problema de calidad de datos: se devuelve domain.ErrDivisionByZero en vez
// de 0 o NaN silenciosos.
func Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, domain.ErrDivisionByZero
	}
	return a.Div(b), nil
}

// RoundCents redondea a precisión de moneda (2 decimales).
func RoundCents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// ParseAmount convierte un string numérico en un monto. Vacío, "null" o un
// valor no parseable producen la señal de ausencia (Valid=false), que la
// conciliación distingue de cero. Para cantidades/precios por línea usar
// ParseAmountOrZero, donde la ausencia legítimamente significa "no aporta".
func ParseAmount(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseAmountOrZero convierte un string numérico en un monto, tratando la
// ausencia como cero.
func ParseAmountOrZero(raw string) decimal.Decimal {
	if nd := ParseAmount(raw); nd.Valid {
		return nd.Decimal
	}
	return decimal.Zero
}

// AmountPlaceholder es lo que se muestra cuando un monto está ausente.
// Preserva la distinción entre "sin valor" y "valor cero".
const AmountPlaceholder = "—"

// CurrencyFormatter formatea montos como string de moneda con dos decimales
// según el locale configurado (ej. "1.234,56 €" para es).
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewCurrencyFormatter construye el formateador. locale es un tag BCP 47
// ("es", "fr", "en"); si no parsea se usa español. symbol es el símbolo de
// la moneda configurada ("€", "$").
func NewCurrencyFormatter(locale, symbol string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &CurrencyFormatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// x/text sólo convierte floats y enteros, así que la agrupación del locale
// pasa por float64. Por debajo de 10^13 el ulp queda muy por debajo de medio
// céntimo y los dos decimales se reproducen exactos; por encima se renuncia
// a la agrupación antes que a los dígitos.
var maxLocaleAmount = decimal.New(1, 13)

// Format renderiza un monto con exactamente dos decimales y el símbolo de
// moneda. Un monto ausente produce AmountPlaceholder, nunca "0,00".
func (f *CurrencyFormatter) Format(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return AmountPlaceholder
	}
	rounded := amount.Decimal.Round(2)
	if rounded.Abs().GreaterThanOrEqual(maxLocaleAmount) {
		return rounded.StringFixed(2) + " " + f.symbol
	}
	v, _ := rounded.Float64()
	return f.printer.Sprintf("%v %s",
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)),
		f.symbol,
	)
}

// FormatValue es un atajo para montos siempre presentes.
func (f *CurrencyFormatter) FormatValue(amount decimal.Decimal) string {
	return f.Format(decimal.NullDecimal{Decimal: amount, Valid: true})
}
