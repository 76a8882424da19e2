package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturya-api/internal/application/usecase"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
	apphttp "github.com/tu-usuario/facturya-api/internal/interfaces/http"
	pkgjwt "github.com/tu-usuario/facturya-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "facturya-test"
	testExpMin    = 60
)

func bearerFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func protectedApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role": apphttp.GetRole(c)})
		},
	)
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware + RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name       string
		allowed    []string
		authHeader func(t *testing.T) string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "rol exacto pasa",
			allowed:    []string{"admin"},
			authHeader: func(t *testing.T) string { return bearerFor(t, "admin") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "uno entre varios roles pasa",
			allowed:    []string{"admin", "contable"},
			authHeader: func(t *testing.T) string { return bearerFor(t, "contable") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "rol no permitido devuelve 403",
			allowed:    []string{"admin"},
			authHeader: func(t *testing.T) string { return bearerFor(t, "vendedor") },
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "token sin rol devuelve 401",
			allowed:    []string{"admin"},
			authHeader: func(t *testing.T) string { return bearerFor(t, "") },
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_ROLE",
		},
		{
			name:       "sin header devuelve 401",
			allowed:    []string{"admin"},
			authHeader: func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		{
			name:       "token corrupto devuelve 401",
			allowed:    []string{"admin"},
			authHeader: func(t *testing.T) string { return "Bearer no.es.jwt" },
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
		{
			name:       "esquema distinto de Bearer devuelve 401",
			allowed:    []string{"admin"},
			authHeader: func(t *testing.T) string { return "Basic abc123" },
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := protectedApp(tc.allowed...)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if h := tc.authHeader(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantCode != "" {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tc.wantCode, body["code"])
			}
		})
	}
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/claims", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", bearerFor(t, "contable"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "contable", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /me — perfil con verificación de empresa
// ──────────────────────────────────────────────────────────────────────────────

// stubUserRepo devuelve siempre el mismo usuario; suficiente para /me.
type stubUserRepo struct {
	user *entity.User
}

func (s *stubUserRepo) Create(*entity.User) error                            { return nil }
func (s *stubUserRepo) GetByID(string) (*entity.User, error)                 { return s.user, nil }
func (s *stubUserRepo) FindByEmail(string) (*entity.User, error)             { return s.user, nil }
func (s *stubUserRepo) GetByEmailAndCompany(string, string) (*entity.User, error) {
	return s.user, nil
}
func (s *stubUserRepo) Update(*entity.User) error { return nil }

func meApp(user *entity.User) *fiber.App {
	app := fiber.New()
	handler := apphttp.NewUserHandler(usecase.NewUserUseCase(&stubUserRepo{user: user}))
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), handler.Me)
	return app
}

func TestMe_DevuelvePerfil(t *testing.T) {
	now := time.Now()
	app := meApp(&entity.User{
		ID:        testUserID,
		CompanyID: testCompanyID,
		Email:     "ana@example.com",
		Name:      "Ana",
		Role:      "admin",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerFor(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, testUserID, body["id"])
}

func TestMe_EmpresaDistintaDevuelve403(t *testing.T) {
	// El usuario cambió de empresa después de emitido el token.
	app := meApp(&entity.User{
		ID:        testUserID,
		CompanyID: "otra-empresa",
		Role:      "admin",
		Status:    "active",
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerFor(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt — ida y vuelta de claims
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_IdaYVuelta(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "vendedor", testIssuer, testExpMin)
	require.NoError(t, err)

	userID, companyID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testCompanyID, companyID)
	assert.Equal(t, "vendedor", role)
}

func TestJWT_Rechazos(t *testing.T) {
	t.Run("expirado", func(t *testing.T) {
		tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, -1)
		require.NoError(t, err)
		_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
		assert.Error(t, err)
	})
	t.Run("secret incorrecto", func(t *testing.T) {
		tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, testExpMin)
		require.NoError(t, err)
		_, _, _, err = pkgjwt.Parse("otro-secret-totalmente-distinto", tok)
		assert.Error(t, err)
	})
	t.Run("secret vacío", func(t *testing.T) {
		_, err := pkgjwt.Generate("", testUserID, testCompanyID, "admin", testIssuer, testExpMin)
		assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
	})
}
