package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cajas-api/internal/application/dto"
	appmovement "github.com/jhoicas/cajas-api/internal/application/movement"
	"github.com/jhoicas/cajas-api/internal/application/usecase"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/infrastructure/memory"
	"github.com/jhoicas/cajas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cajas-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/cajas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/cajas-api/pkg/jwt"
	"github.com/jhoicas/cajas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildAPI arma el router completo sobre el backend en memoria con
// cajas A=100, B=50, C=0 y usuarios admin, cajero (caja A) y consulta (sin cajas).
func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutBox(entity.Box{ID: "A", Description: "Caja Central", Balance: decimal.NewFromInt(100), Active: true})
	store.PutBox(entity.Box{ID: "B", Description: "Acme Corp Vault", Balance: decimal.NewFromInt(50), Active: true})
	store.PutBox(entity.Box{ID: "C", Description: "Banco Nación", Balance: decimal.Zero, Active: true})
	store.PutUser(entity.User{ID: "admin", Name: "Ana", Role: entity.RoleAdmin})
	store.PutUser(entity.User{ID: "cajero", Name: "Beto", Role: entity.RoleCajero, BoxPermissions: []string{"A"}})
	store.PutUser(entity.User{ID: "consulta", Name: "Caro", Role: entity.RoleConsulta})

	boxRepo := memory.NewBoxRepository(store)
	userRepo := memory.NewUserRepository(store)
	movementUC := appmovement.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewMovementRepository(store),
		boxRepo,
		userRepo,
		pdf.NewMarotoReportGenerator("Cajas Test"),
		logger.Nop(),
		appmovement.Config{MaxAttempts: 3},
	).WithSpreadsheet(xlsx.NewExcelizeReportGenerator())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		MovementUC: movementUC,
		BoxUC:      usecase.NewBoxUseCase(boxRepo, userRepo),
		UserUC:     usecase.NewUserUseCase(userRepo),
		JWTSecret:  authSecret,
		Log:        logger.Nop(),
	})
	return app, store
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(authSecret, userID, role, "cajas-api-test", 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createMovement(t *testing.T, app *fiber.App, auth, origin, dest, amount string) dto.MovementResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/movements", auth, map[string]any{
		"origin_box_id":      origin,
		"destination_box_id": dest,
		"origin_amount":      amount,
		"destination_amount": amount,
		"observation":        "traspaso",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.MovementResponse](t, resp)
}

func boxBalance(t *testing.T, store *memory.Store, id string) string {
	t.Helper()
	b, ok := store.Balance(id)
	require.True(t, ok)
	return b.Balance.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Caso: alta, baja y re-alta con saldos observados por /api/boxes.
func TestMovements_CreateToggleYSaldos(t *testing.T) {
	app, store := buildAPI(t)
	admin := bearer(t, "admin", "admin")

	m := createMovement(t, app, admin, "A", "B", "30")
	assert.True(t, m.Active)
	assert.Equal(t, int64(1), m.Number)
	assert.Equal(t, "70", boxBalance(t, store, "A"))
	assert.Equal(t, "80", boxBalance(t, store, "B"))

	resp := call(t, app, http.MethodPatch, "/api/movements/"+m.ID+"/toggle", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	off := decode[dto.MovementResponse](t, resp)
	assert.False(t, off.Active)

	resp = call(t, app, http.MethodGet, "/api/boxes/A", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	box := decode[dto.BoxResponse](t, resp)
	assert.True(t, decimal.NewFromInt(100).Equal(box.Balance))
	assert.Equal(t, "50", boxBalance(t, store, "B"))
}

func TestMovements_CreateValidaciones(t *testing.T) {
	app, _ := buildAPI(t)
	admin := bearer(t, "admin", "admin")

	resp := call(t, app, http.MethodPost, "/api/movements", admin, map[string]any{
		"origin_box_id": "A", "destination_box_id": "B", "origin_amount": "10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/movements", admin, map[string]any{
		"origin_box_id": "A", "destination_box_id": "A", "origin_amount": "10", "destination_amount": "10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, "/api/movements", admin, map[string]any{
		"origin_box_id": "A", "destination_box_id": "Z", "origin_amount": "10", "destination_amount": "10",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovements_RolConsultaNoEscribe(t *testing.T) {
	app, _ := buildAPI(t)
	admin := bearer(t, "admin", "admin")
	consulta := bearer(t, "consulta", "consulta")
	m := createMovement(t, app, admin, "A", "B", "10")

	resp := call(t, app, http.MethodPatch, "/api/movements/"+m.ID+"/toggle", consulta, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/movements", consulta, map[string]any{
		"origin_box_id": "A", "destination_box_id": "B", "origin_amount": "1", "destination_amount": "1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMovements_ListadoConAliasYPermisos(t *testing.T) {
	app, _ := buildAPI(t)
	admin := bearer(t, "admin", "admin")
	cajero := bearer(t, "cajero", "cajero")
	createMovement(t, app, admin, "A", "B", "1")
	createMovement(t, app, admin, "B", "C", "2")
	createMovement(t, app, admin, "C", "A", "3")

	resp := call(t, app, http.MethodGet, "/api/movements?columna=monto_origen&direccion=-1&registerpp=2&desde=0", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.MovementListResponse](t, resp)
	assert.Equal(t, 3, page.Page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].Number)
	assert.Equal(t, "Banco Nación", page.Items[0].OriginBox.Description)

	resp = call(t, app, http.MethodGet, "/api/movements?q=acme", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.MovementListResponse](t, resp).Page.Total)

	resp = call(t, app, http.MethodGet, "/api/movements", cajero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := decode[dto.MovementListResponse](t, resp)
	assert.Equal(t, 2, mine.Page.Total)
	for _, it := range mine.Items {
		assert.True(t, it.OriginBoxID == "A" || it.DestinationBoxID == "A")
	}

	resp = call(t, app, http.MethodGet, "/api/movements?sort=password", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/movements?limit=abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovements_BusquedaUTF8Invalida(t *testing.T) {
	app, _ := buildAPI(t)
	admin := bearer(t, "admin", "admin")

	for _, path := range []string{"/api/movements", "/api/movements/report", "/api/movements/export"} {
		resp := call(t, app, http.MethodGet, path+"?parametro=caja%20%FF", admin, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "VALIDATION", body.Code, path)
	}
}

func TestMovements_GetYUpdate(t *testing.T) {
	app, store := buildAPI(t)
	admin := bearer(t, "admin", "admin")
	cajero := bearer(t, "cajero", "cajero")
	m := createMovement(t, app, admin, "B", "C", "5")

	resp := call(t, app, http.MethodGet, "/api/movements/"+m.ID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	joined := decode[dto.JoinedMovementResponse](t, resp)
	assert.Equal(t, "Ana", joined.Creator.Name)
	assert.Equal(t, "Acme Corp Vault", joined.OriginBox.Description)

	// Caso: movimiento fuera de las cajas del cajero
	resp = call(t, app, http.MethodGet, "/api/movements/"+m.ID, cajero, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/movements/no-existe", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/movements/"+m.ID, admin, map[string]any{"observation": "corregida"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "corregida", decode[dto.MovementResponse](t, resp).Observation)
	assert.Equal(t, "45", boxBalance(t, store, "B"))
}

func TestMovements_Reporte(t *testing.T) {
	app, _ := buildAPI(t)
	admin := bearer(t, "admin", "admin")
	createMovement(t, app, admin, "A", "B", "1")

	resp := call(t, app, http.MethodGet, "/api/movements/report?activo=true", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	resp = call(t, app, http.MethodGet, "/api/movements/export", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "xlsx es un zip")
}

func TestMe(t *testing.T) {
	app, _ := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/me", bearer(t, "cajero", "cajero"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, []string{"A"}, me.BoxPermissions)

	resp = call(t, app, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
