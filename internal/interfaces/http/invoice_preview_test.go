package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/tu-usuario/facturya-api/internal/application/billing"
	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	apphttp "github.com/tu-usuario/facturya-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del endpoint de preview — cálculo puro, sin base de datos
// ──────────────────────────────────────────────────────────────────────────────

// buildPreviewApp monta solo la ruta de preview; el caso de uso no necesita
// repositorios porque el preview nunca toca persistencia.
func buildPreviewApp() *fiber.App {
	formatter := calc.NewCurrencyFormatter("es-ES", "€")
	uc := appbilling.NewInvoiceUseCase(nil, nil, nil, nil, nil, nil, formatter, "EUR")
	handler := apphttp.NewInvoiceHandler(uc, nil)

	app := fiber.New()
	app.Post("/api/invoices/preview", handler.Preview)
	return app
}

func postPreview(t *testing.T, app *fiber.App, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/preview", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// La calculadora acepta cantidades y precios como string o como número JSON.
func TestPreview_TotalesConIVA(t *testing.T) {
	app := buildPreviewApp()
	out := postPreview(t, app, `{
		"lines": [
			{"description": "Desarrollo", "quantity": "3", "unit_price": "375.15", "vat_rate": "20", "unit": "hora"}
		]
	}`)

	totals := out["totals"].(map[string]any)
	assert.Equal(t, "1125.45", totals["taxable_amount"])
	assert.Equal(t, "225.09", totals["total_vat"])
	assert.Equal(t, "1350.54", totals["grand_total"])

	breakdown := totals["vat_breakdown"].(map[string]any)
	assert.Equal(t, "225.09", breakdown["20.00"], "la clave del desglose es la tarifa canónica")
}

// Sin snapshot de servidor el display sale completo del agregador.
func TestPreview_DisplayDesdeAgregador(t *testing.T) {
	app := buildPreviewApp()
	out := postPreview(t, app, `{
		"lines": [
			{"description": "Consultoría", "quantity": 2, "unit_price": 50, "vat_rate": 10}
		]
	}`)

	display := out["display"].(map[string]any)
	assert.Equal(t, "100", display["subtotal"])
	assert.Equal(t, "10", display["tax"])
	assert.Equal(t, "110", display["total"])
	assert.Contains(t, display["total_display"], "€")
}

// Las líneas marcadas removed no aportan ni aparecen en la respuesta.
func TestPreview_IgnoraLineasEliminadas(t *testing.T) {
	app := buildPreviewApp()
	out := postPreview(t, app, `{
		"lines": [
			{"description": "Activa", "quantity": "1", "unit_price": "100", "vat_rate": "20"},
			{"description": "Borrada", "quantity": "9", "unit_price": "999", "vat_rate": "20", "removed": true}
		]
	}`)

	lines := out["lines"].([]any)
	require.Len(t, lines, 1, "la línea eliminada no debe aparecer")

	totals := out["totals"].(map[string]any)
	assert.Equal(t, "120", totals["grand_total"])
}

// Un preview sin líneas devuelve totales en cero: cero es un valor
// legítimo, no ausencia.
func TestPreview_SinLineas(t *testing.T) {
	app := buildPreviewApp()
	out := postPreview(t, app, `{"lines": []}`)

	totals := out["totals"].(map[string]any)
	assert.Equal(t, "0", totals["grand_total"])

	display := out["display"].(map[string]any)
	assert.Equal(t, "0", display["total"])
	assert.Equal(t, "0,00 €", display["total_display"])
}
