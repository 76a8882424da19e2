package billing

import "github.com/shopspring/decimal"

// Bandas de IVA del dominio, en porcentaje. El cálculo acepta tarifas fuera
// de este conjunto (defensivo, un formulario a medio editar puede traer
// cualquier cosa); la validación de calidad de datos ocurre aguas arriba.
var VATBands = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("5.5"),
	decimal.NewFromInt(10),
	decimal.NewFromInt(20),
}

// IsEnumeratedRate indica si la tarifa pertenece a las bandas del dominio.
func IsEnumeratedRate(rate decimal.Decimal) bool {
	for _, band := range VATBands {
		if rate.Equal(band) {
			return true
		}
	}
	return false
}

// RateKey produce la clave canónica de una tarifa para el desglose de IVA.
// Dos tarifas numéricamente iguales ("20", 20, "20.0") colapsan siempre en
// la misma clave; de lo contrario una tarifa lógica se partiría en dos
// entradas del desglose.
func RateKey(rate decimal.Decimal) string {
	return rate.StringFixed(2)
}

// ParseVATRate interpreta una tarifa recibida como string. No parseable o
// vacía vale cero (la línea simplemente no genera IVA).
func ParseVATRate(raw string) decimal.Decimal {
	return ParseAmountOrZero(raw)
}
