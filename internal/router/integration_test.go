//go:build integration

package router_test

// Integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/config"
	"github.com/Fer-Psy/tr4cking/internal/infra"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/router"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // admin JWT

	viajeID   string
	origenID  string
	destinoID string
	clienteID string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tr4cking_test"),
		tcPostgres.WithUsername("tr4cking"),
		tcPostgres.WithPassword("tr4cking"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		ReservaTTLMinutos:  30,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	env := &testEnv{db: db}
	seedFixtures(t, env)

	r := router.New(cfg, db, rdb)
	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "tr4cking-2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)
	env.token = loginBody.AccessToken

	return env
}

// seedFixtures loads the master data every flow needs: admin user, empresa
// with an active timbrado, bus, paradas, a scheduled viaje and one cliente.
func seedFixtures(t *testing.T, env *testEnv) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("tr4cking-2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&model.Usuario{
		ID:           uuid.New(),
		Username:     "admin",
		Nombre:       "Admin Integración",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	empresa := &model.Empresa{ID: uuid.New(), Nombre: "Transporte Ñu Guazú SA", RUC: "80012345-6"}
	require.NoError(t, env.db.Create(empresa).Error)

	require.NoError(t, env.db.Create(&model.Timbrado{
		ID:              uuid.New(),
		EmpresaID:       empresa.ID,
		Numero:          "12345678",
		FechaInicio:     time.Now().AddDate(0, -1, 0),
		FechaFin:        time.Now().AddDate(0, 11, 0),
		NumeroDesde:     1,
		NumeroHasta:     1000,
		PuntoExpedicion: "001-001",
		Activo:          true,
	}).Error)

	bus := &model.Bus{ID: uuid.New(), EmpresaID: empresa.ID, Placa: "ABC123", CapacidadAsientos: 40, Activo: true}
	require.NoError(t, env.db.Create(bus).Error)

	origen := &model.Parada{ID: uuid.New(), Nombre: "Terminal Asunción", Ciudad: "Asunción"}
	destino := &model.Parada{ID: uuid.New(), Nombre: "Terminal Encarnación", Ciudad: "Encarnación"}
	require.NoError(t, env.db.Create(origen).Error)
	require.NoError(t, env.db.Create(destino).Error)
	env.origenID = origen.ID.String()
	env.destinoID = destino.ID.String()

	viaje := &model.Viaje{
		ID:              uuid.New(),
		BusID:           bus.ID,
		ParadaOrigenID:  origen.ID,
		ParadaDestinoID: destino.ID,
		FechaSalida:     time.Now().Add(24 * time.Hour),
		Estado:          "programado",
	}
	require.NoError(t, env.db.Create(viaje).Error)
	env.viajeID = viaje.ID.String()

	cliente := &model.Persona{ID: uuid.New(), Nombre: "Marta", Apellido: "Riquelme", Cedula: 4555666, EsCliente: true}
	require.NoError(t, env.db.Create(cliente).Error)
	env.clienteID = cliente.ID.String()
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full cycle: abrir caja → vender pasaje → facturar → anular → cerrar caja.
func TestIntegracionCicloFacturacion(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Abrir caja
	cajaResp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": 100000}), env.token)
	require.Equal(t, http.StatusCreated, cajaResp.StatusCode)
	var sesion struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, cajaResp, &sesion)
	assert.Equal(t, "abierta", sesion.Estado)

	// 2. Vender un pasaje
	ventaResp := do(t, env.server, "POST", "/v1/pasajes/vender",
		jsonBody(t, map[string]any{
			"viaje_id":          env.viajeID,
			"parada_origen_id":  env.origenID,
			"parada_destino_id": env.destinoID,
			"numero_asiento":    7,
			"precio":            150000,
			"pasajero_cedula":   4555666,
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var pasaje struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, ventaResp, &pasaje)
	assert.Equal(t, "vendido", pasaje.Estado)

	// 3. Vista previa del número y creación de la factura
	previewResp := do(t, env.server, "GET", "/v1/facturas/proximo-numero", nil, env.token)
	require.Equal(t, http.StatusOK, previewResp.StatusCode)
	var preview struct {
		ProximoNumero int64 `json:"proximo_numero"`
	}
	decodeJSON(t, previewResp, &preview)
	assert.Equal(t, int64(1), preview.ProximoNumero)

	facturaResp := do(t, env.server, "POST", "/v1/facturas",
		jsonBody(t, map[string]any{
			"cliente_id":       env.clienteID,
			"condicion":        "contado",
			"pasaje_ids":       []string{pasaje.ID},
			"tasa_iva_pasajes": 0,
		}), env.token)
	require.Equal(t, http.StatusCreated, facturaResp.StatusCode)
	var factura struct {
		ID             string `json:"id"`
		NumeroFactura  int64  `json:"numero_factura"`
		NumeroCompleto string `json:"numero_completo"`
		Estado         string `json:"estado"`
		Total          string `json:"total"`
		TotalIVA       string `json:"total_iva"`
	}
	decodeJSON(t, facturaResp, &factura)
	assert.Equal(t, int64(1), factura.NumeroFactura)
	assert.Equal(t, "001-001-0000001", factura.NumeroCompleto)
	assert.Equal(t, "emitida", factura.Estado)
	assert.Equal(t, "150000", factura.Total)
	assert.Equal(t, "0", factura.TotalIVA)

	// La venta y la factura asentaron ingresos en la sesión.
	reporteResp := do(t, env.server, "GET", "/v1/caja/sesiones/"+sesion.ID+"/reporte", nil, env.token)
	require.Equal(t, http.StatusOK, reporteResp.StatusCode)
	var reporte struct {
		TotalIngresos string `json:"total_ingresos"`
		TotalEgresos  string `json:"total_egresos"`
	}
	decodeJSON(t, reporteResp, &reporte)
	assert.Equal(t, "300000", reporte.TotalIngresos) // venta directa + factura
	assert.Equal(t, "0", reporte.TotalEgresos)

	// 4. Anular: egreso compensatorio y pasaje cancelado
	anularResp := do(t, env.server, "POST", "/v1/facturas/"+factura.ID+"/anular",
		jsonBody(t, map[string]any{"motivo": "Error de carga en test"}), env.token)
	require.Equal(t, http.StatusOK, anularResp.StatusCode)
	var anulada struct {
		Estado      string `json:"estado"`
		Advertencia string `json:"advertencia"`
	}
	decodeJSON(t, anularResp, &anulada)
	assert.Equal(t, "anulada", anulada.Estado)
	assert.Empty(t, anulada.Advertencia)

	pasajeResp := do(t, env.server, "GET", "/v1/pasajes/"+pasaje.ID, nil, env.token)
	require.Equal(t, http.StatusOK, pasajeResp.StatusCode)
	var pasajeLeido struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, pasajeResp, &pasajeLeido)
	assert.Equal(t, "cancelado", pasajeLeido.Estado)

	// 5. Cierre cuadrado: 100000 + 300000 − 150000 (anulación) = 250000
	cierreResp := do(t, env.server, "POST", "/v1/caja/cerrar",
		jsonBody(t, map[string]any{"monto_declarado": 250000}), env.token)
	require.Equal(t, http.StatusOK, cierreResp.StatusCode)
	var cerrada struct {
		Estado string `json:"estado"`
		Desvio *struct {
			Monto         string `json:"monto"`
			Clasificacion string `json:"clasificacion"`
		} `json:"desvio"`
	}
	decodeJSON(t, cierreResp, &cerrada)
	assert.Equal(t, "cerrada", cerrada.Estado)
	require.NotNil(t, cerrada.Desvio)
	assert.Equal(t, "0", cerrada.Desvio.Monto)
	assert.Equal(t, "normal", cerrada.Desvio.Clasificacion)
}

// The (timbrado, numero) unique index is the allocation backstop: concurrent
// invoice creation never yields duplicate numbers.
func TestIntegracionNumeracionConcurrente(t *testing.T) {
	env := setupTestEnv(t)

	do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": 0}), env.token).Body.Close()

	// Un pasaje vendido por asiento, luego facturas concurrentes.
	const n = 5
	pasajeIDs := make([]string, n)
	for i := 0; i < n; i++ {
		resp := do(t, env.server, "POST", "/v1/pasajes/vender",
			jsonBody(t, map[string]any{
				"viaje_id":          env.viajeID,
				"parada_origen_id":  env.origenID,
				"parada_destino_id": env.destinoID,
				"numero_asiento":    i + 1,
				"precio":            100000,
				"pasajero_cedula":   4555666,
			}), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var p struct {
			ID string `json:"id"`
		}
		decodeJSON(t, resp, &p)
		pasajeIDs[i] = p.ID
	}

	numeros := make(chan int64, n)
	errores := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(pasajeID string) {
			resp := do(t, env.server, "POST", "/v1/facturas",
				jsonBody(t, map[string]any{
					"cliente_id":       env.clienteID,
					"condicion":        "contado",
					"pasaje_ids":       []string{pasajeID},
					"tasa_iva_pasajes": 0,
				}), env.token)
			if resp.StatusCode != http.StatusCreated {
				resp.Body.Close()
				errores <- fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			var f struct {
				NumeroFactura int64 `json:"numero_factura"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
				resp.Body.Close()
				errores <- err
				return
			}
			resp.Body.Close()
			numeros <- f.NumeroFactura
		}(pasajeIDs[i])
	}

	vistos := make(map[int64]bool)
	for i := 0; i < n; i++ {
		select {
		case num := <-numeros:
			assert.False(t, vistos[num], "número duplicado: %d", num)
			vistos[num] = true
		case err := <-errores:
			t.Fatalf("creación de factura falló: %v", err)
		case <-time.After(30 * time.Second):
			t.Fatal("timeout esperando facturas concurrentes")
		}
	}
	// Cinco números contiguos desde 1.
	for esperado := int64(1); esperado <= n; esperado++ {
		assert.True(t, vistos[esperado], "falta el número %d", esperado)
	}
}

// Public tracking: register a parcel authenticated, follow it without a token.
func TestIntegracionTrackingPublico(t *testing.T) {
	env := setupTestEnv(t)

	require.NoError(t, env.db.Create(&model.Persona{
		ID: uuid.New(), Nombre: "Ramón", Apellido: "Ayala", Cedula: 1444555,
	}).Error)

	regResp := do(t, env.server, "POST", "/v1/encomiendas",
		jsonBody(t, map[string]any{
			"remitente_cedula":    1444555,
			"destinatario_cedula": 4555666,
			"parada_origen_id":    env.origenID,
			"parada_destino_id":   env.destinoID,
			"tipo":                "paquete",
			"precio":              45000,
		}), env.token)
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	var encomienda struct {
		Codigo string `json:"codigo"`
		Precio string `json:"precio"`
	}
	decodeJSON(t, regResp, &encomienda)
	require.NotEmpty(t, encomienda.Codigo)
	assert.True(t, decimal.RequireFromString(encomienda.Precio).Equal(decimal.NewFromInt(45000)))

	// Sin token: la vista pública no expone montos ni cédulas.
	trackResp := do(t, env.server, "GET", "/v1/tracking/"+encomienda.Codigo, nil, "")
	require.Equal(t, http.StatusOK, trackResp.StatusCode)
	var tracking map[string]any
	decodeJSON(t, trackResp, &tracking)
	assert.Equal(t, "registrado", tracking["estado"])
	assert.NotContains(t, tracking, "precio")
	assert.NotContains(t, tracking, "remitente")

	trackMiss := do(t, env.server, "GET", "/v1/tracking/ENC-00000000-XXXX", nil, "")
	defer trackMiss.Body.Close()
	assert.Equal(t, http.StatusNotFound, trackMiss.StatusCode)
}
