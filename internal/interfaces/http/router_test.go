package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
	"github.com/ukena18/Haci-sub000/internal/infrastructure/metrics"
	"github.com/ukena18/Haci-sub000/internal/infrastructure/sqlite"
	apphttp "github.com/ukena18/Haci-sub000/internal/interfaces/http"
	"github.com/ukena18/Haci-sub000/pkg/clock"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type testServer struct {
	app    *fiber.App
	bearer string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"), ledger.NewID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := metrics.New()
	svc := workspace.New(workspace.Deps{
		Store:    store,
		Tx:       store,
		Clock:    clock.Fixed{At: testNow},
		Observer: rec,
	}, workspace.Options{DefaultCurrency: "TRY"})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Workspace: svc,
		JWTSecret: testJWTSecret,
		Metrics:   rec,
		Health:    store.Ping,
	})
	return &testServer{app: app, bearer: bearer(t)}
}

// call envía body como JSON (nil = sin cuerpo) y decodifica la respuesta en out si no es nil.
func (s *testServer) call(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", s.bearer)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) create(t *testing.T, path string, body any) string {
	t.Helper()
	var out dto.CreatedResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, path, body, &out), path)
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestRouter_FlujoCompletoDeCobro(t *testing.T) {
	s := newTestServer(t)

	vaultID := s.create(t, "/api/vaults", fiber.Map{"name": "Kasa", "currency": "TRY"})
	customerID := s.create(t, "/api/customers", fiber.Map{"name": "Ali", "surname": "Veli"})
	jobID := s.create(t, "/api/jobs", fiber.Map{
		"customer_id": customerID, "title": "Tesisat", "time_mode": "fixed",
		"fixed_price": 250, "due_days": 10,
		"parts": []fiber.Map{{"name": "vana", "qty": 2, "unit_price": 25}},
	})
	s.create(t, "/api/transactions/payments", fiber.Map{"customer_id": customerID, "amount": 100})

	var totals dto.CustomerTotalsResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/customers/"+customerID+"/totals", nil, &totals))
	assert.True(t, totals.Balance.Equal(decimal.NewFromInt(-200)), totals.Balance.String())
	assert.Equal(t, "Ali Veli", totals.CustomerName)
	assert.Equal(t, "TRY", totals.Currency)

	var watch []dto.WatchItemResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/watchlist", nil, &watch))
	require.Len(t, watch, 1)
	assert.Equal(t, jobID, watch[0].ID)
	assert.Equal(t, 10, watch[0].DaysLeft)

	payID := s.create(t, "/api/jobs/"+jobID+"/pay", nil)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/customers/"+customerID+"/totals", nil, &totals))
	assert.True(t, totals.Balance.Equal(decimal.NewFromInt(100)), totals.Balance.String())

	var vault dto.VaultResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/vaults/"+vaultID+"/totals", nil, &vault))
	assert.True(t, vault.TotalPayment.Equal(decimal.NewFromInt(400)))
	assert.True(t, vault.Active)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodDelete, "/api/transactions/"+payID, nil, &errBody))
	assert.Equal(t, "GENERATED_TRANSACTION", errBody.Code)
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodDelete, "/api/vaults/"+vaultID, nil, &errBody))
	assert.Equal(t, "VAULT_ACTIVE", errBody.Code)
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, "/api/jobs/"+jobID+"/pay", nil, &errBody))
	assert.Equal(t, "ALREADY_PAID", errBody.Code)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/watchlist", nil, &watch))
	assert.Empty(t, watch, "un trabajo pagado sale de la lista")
}

func TestRouter_VistaPublica(t *testing.T) {
	s := newTestServer(t)
	s.create(t, "/api/vaults", fiber.Map{"name": "Kasa"})
	customerID := s.create(t, "/api/customers", fiber.Map{"name": "Ali"})
	s.create(t, "/api/transactions/debts", fiber.Map{"customer_id": customerID, "amount": 80, "due_days": 5})

	var snap entity.ShareSnapshot
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/customers/"+customerID+"/share", nil, &snap))
	require.NotEmpty(t, snap.ShareID)
	assert.True(t, snap.Balance.Equal(decimal.NewFromInt(-80)))

	// sin credencial
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/share/"+snap.ShareID, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var public entity.ShareSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&public))
	assert.Equal(t, customerID, public.CustomerID)
	require.Len(t, public.Lines, 1)

	var again entity.ShareSnapshot
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/customers/"+customerID+"/share", nil, &again))
	assert.Equal(t, snap.ShareID, again.ShareID, "republicar conserva el enlace")
}

func TestRouter_CronometroYDescartes(t *testing.T) {
	s := newTestServer(t)
	customerID := s.create(t, "/api/customers", fiber.Map{"name": "Ali"})
	jobID := s.create(t, "/api/jobs", fiber.Map{"customer_id": customerID, "time_mode": "clock", "rate": 60, "due_days": 3})

	var cost dto.JobCostResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/jobs/"+jobID+"/clock-in", nil, &cost))
	assert.True(t, cost.Live)
	assert.Equal(t, "clock", cost.Mode)
	require.NotNil(t, cost.Hours)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, "/api/jobs/"+jobID+"/clock-in", nil, &errBody))
	assert.Equal(t, "CLOCK_RUNNING", errBody.Code)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/jobs/"+jobID+"/complete", nil, &cost))
	assert.False(t, cost.Live)

	// sin horas registradas el total es cero y no se vigila
	var watch []dto.WatchItemResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/watchlist", nil, &watch))
	assert.Empty(t, watch)

	debtID := s.create(t, "/api/transactions/debts", fiber.Map{"customer_id": customerID, "amount": 40, "due_days": 2})
	assert.Equal(t, http.StatusNoContent, s.call(t, http.MethodPost, "/api/watchlist/debt/"+debtID+"/dismiss", nil, nil))
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/watchlist/dismissed", nil, &watch))
	require.Len(t, watch, 1)
	assert.True(t, watch[0].Dismissed)

	assert.Equal(t, http.StatusNoContent, s.call(t, http.MethodPost, "/api/watchlist/debt/"+debtID+"/restore", nil, nil))
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/watchlist", nil, &watch))
	require.Len(t, watch, 1)
	assert.Equal(t, 2, watch[0].DaysLeft)

	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/watchlist/otro/"+debtID+"/dismiss", nil, &errBody))
	assert.Equal(t, http.StatusNoContent, s.call(t, http.MethodPost, "/api/transactions/"+debtID+"/settle", nil, nil))
	assert.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, "/api/transactions/"+debtID+"/settle", nil, &errBody))
}

func TestRouter_ValidacionYEstado(t *testing.T) {
	s := newTestServer(t)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/customers", fiber.Map{"email": "no-es-correo"}, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, http.StatusBadRequest, s.call(t, http.MethodPost, "/api/jobs", fiber.Map{"customer_id": "c1", "time_mode": "hourly"}, &errBody))

	customerID := s.create(t, "/api/customers", fiber.Map{"name": "Ali", "currency": "USD"})
	s.create(t, "/api/vaults", fiber.Map{"name": "Kasa", "currency": "TRY"})
	assert.Equal(t, http.StatusUnprocessableEntity, s.call(t, http.MethodPost, "/api/transactions/payments", fiber.Map{"customer_id": customerID, "amount": 10}, &errBody))
	assert.Equal(t, "CURRENCY_MISMATCH", errBody.Code)

	assert.Equal(t, http.StatusNoContent, s.call(t, http.MethodPut, "/api/profile", fiber.Map{"business_name": "Usta", "due_days": 7}, nil))

	var state entity.StateTree
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/state", nil, &state))
	assert.Len(t, state.Customers, 1)
	assert.Equal(t, "Usta", state.Profile.BusinessName)

	state.Customers[0].Name = "Ayşe"
	assert.Equal(t, http.StatusNoContent, s.call(t, http.MethodPut, "/api/state", state, nil))
	var totals dto.CustomerTotalsResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/customers/"+customerID+"/totals", nil, &totals))
	assert.Equal(t, "Ayşe", totals.CustomerName)
}

func TestRouter_PublicosYSinCredencial(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/state", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "haci_http_requests_total")
}

func TestRouter_GuardarTrabajoConIDDelCliente(t *testing.T) {
	s := newTestServer(t)
	customerID := s.create(t, "/api/customers", fiber.Map{"name": "Ali"})
	job := fiber.Map{"id": "job-offline-1", "customer_id": customerID, "time_mode": "fixed", "fixed_price": 90}

	var out dto.CreatedResponse
	assert.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/jobs", job, &out), "id desconocido crea")
	assert.Equal(t, "job-offline-1", out.ID)

	job["fixed_price"] = 120
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/jobs", job, &out), "id existente edita")

	var cost dto.JobCostResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/jobs/job-offline-1/cost", nil, &cost))
	assert.True(t, cost.Total.Equal(decimal.NewFromInt(120)))
}
