package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/tu-usuario/facturya-api/internal/application/billing"
	"github.com/tu-usuario/facturya-api/internal/application/dto"
	"github.com/tu-usuario/facturya-api/internal/domain"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
	"github.com/tu-usuario/facturya-api/internal/domain/repository"
)

// listadoInvoiceRepo captura el filtro que recibe List y devuelve vacío.
// El resto de operaciones no se usan en el listado.
type listadoInvoiceRepo struct {
	repository.InvoiceRepository

	filtro repository.InvoiceFilter
}

func (r *listadoInvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.filtro = filter
	return nil, nil
}

func listadoUseCase(repo repository.InvoiceRepository) *appbilling.InvoiceUseCase {
	return appbilling.NewInvoiceUseCase(nil, nil, nil, nil, repo, nil, nil, "EUR")
}

func TestListInvoices_OrdenValidado(t *testing.T) {
	// order y sort_by se validan igual: un valor desconocido es entrada
	// inválida, no un ascendente silencioso.
	cases := []struct {
		nombre   string
		order    string
		wantDesc bool
	}{
		{"vacío es ascendente", "", false},
		{"asc explícito", "asc", false},
		{"desc", "desc", true},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			repo := &listadoInvoiceRepo{}
			uc := listadoUseCase(repo)

			_, err := uc.ListInvoices(context.Background(), "empresa-1", dto.ListInvoicesRequest{Order: tc.order})
			require.NoError(t, err)
			assert.Equal(t, tc.wantDesc, repo.filtro.SortDesc)
		})
	}
}

func TestListInvoices_EntradaInvalida(t *testing.T) {
	uc := listadoUseCase(&listadoInvoiceRepo{})

	for nombre, req := range map[string]dto.ListInvoicesRequest{
		"order desconocido":   {Order: "sideways"},
		"sort_by desconocido": {SortBy: "color"},
		"fecha malformada":    {DateFrom: "15-03-2026"},
	} {
		t.Run(nombre, func(t *testing.T) {
			_, err := uc.ListInvoices(context.Background(), "empresa-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
