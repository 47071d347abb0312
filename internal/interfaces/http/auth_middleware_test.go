package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cajas-api/internal/application/dto"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	apphttp "github.com/jhoicas/cajas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/cajas-api/pkg/jwt"
)

const (
	authSecret = "secreto-de-pruebas"
	authUserID = "00000000-0000-0000-0000-000000000001"
)

// guardedApp expone GET /guarded detrás de AuthMiddleware y RequireRole.
func guardedApp(roles ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(authSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func signed(t *testing.T, secret, role string, minutes int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, authUserID, role, "cajas-api-test", minutes)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware_Roles(t *testing.T) {
	cases := []struct {
		name    string
		allowed []entity.Role
		header  func(t *testing.T) string
		status  int
		code    string
	}{
		{
			name:    "admin en ruta de admin",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(t *testing.T) string { return "Bearer " + signed(t, authSecret, "admin", 5) },
			status:  http.StatusOK,
		},
		{
			name:    "cajero en ruta de operadores",
			allowed: []entity.Role{entity.RoleAdmin, entity.RoleCajero},
			header:  func(t *testing.T) string { return "bearer " + signed(t, authSecret, "cajero", 5) },
			status:  http.StatusOK,
		},
		{
			name:    "consulta en ruta de admin",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(t *testing.T) string { return "Bearer " + signed(t, authSecret, "consulta", 5) },
			status:  http.StatusForbidden,
			code:    "FORBIDDEN",
		},
		{
			name:    "token sin rol",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(t *testing.T) string { return "Bearer " + signed(t, authSecret, "", 5) },
			status:  http.StatusUnauthorized,
			code:    "MISSING_ROLE",
		},
		{
			name:    "rol desconocido",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(t *testing.T) string { return "Bearer " + signed(t, authSecret, "root", 5) },
			status:  http.StatusUnauthorized,
			code:    "MISSING_ROLE",
		},
		{
			name:    "sin header",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(*testing.T) string { return "" },
			status:  http.StatusUnauthorized,
			code:    "MISSING_TOKEN",
		},
		{
			name:    "esquema distinto de Bearer",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(t *testing.T) string { return "Basic " + signed(t, authSecret, "admin", 5) },
			status:  http.StatusUnauthorized,
			code:    "INVALID_TOKEN",
		},
		{
			name:    "Bearer vacío",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(*testing.T) string { return "Bearer   " },
			status:  http.StatusUnauthorized,
			code:    "MISSING_TOKEN",
		},
		{
			name:    "solo el esquema",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(*testing.T) string { return "Bearer" },
			status:  http.StatusUnauthorized,
			code:    "MISSING_TOKEN",
		},
		{
			name:    "token malformado",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(*testing.T) string { return "Bearer no.es.jwt" },
			status:  http.StatusUnauthorized,
			code:    "INVALID_TOKEN",
		},
		{
			name:    "firmado con otro secreto",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(t *testing.T) string { return "Bearer " + signed(t, "otro-secreto", "admin", 5) },
			status:  http.StatusUnauthorized,
			code:    "INVALID_TOKEN",
		},
		{
			name:    "token vencido",
			allowed: []entity.Role{entity.RoleAdmin},
			header:  func(t *testing.T) string { return "Bearer " + signed(t, authSecret, "admin", -5) },
			status:  http.StatusUnauthorized,
			code:    "INVALID_TOKEN",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if h := tc.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := guardedApp(tc.allowed...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code == "" {
				return
			}
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, authSecret, "cajero", 5))
	resp, err := guardedApp(entity.RoleCajero).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, authUserID, body["user_id"])
	assert.Equal(t, "cajero", body["role"])
}
