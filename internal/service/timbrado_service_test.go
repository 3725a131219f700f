package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiguienteNumeroDesdeInicio(t *testing.T) {
	repo := newFakeTimbradoRepo()
	seedTimbradoVigente(repo, 1001, 2000)
	svc := service.NewTimbradoService(repo)

	timbrado, numero, err := svc.SiguienteNumero(context.Background(), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(1001), numero)
	assert.Equal(t, "001-001", timbrado.PuntoExpedicion)
}

func TestSiguienteNumeroIncrementa(t *testing.T) {
	repo := newFakeTimbradoRepo()
	seedTimbradoVigente(repo, 1001, 2000)
	repo.ultimo = 1005
	svc := service.NewTimbradoService(repo)

	_, numero, err := svc.SiguienteNumero(context.Background(), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(1006), numero)
}

func TestSiguienteNumeroAgotado(t *testing.T) {
	repo := newFakeTimbradoRepo()
	seedTimbradoVigente(repo, 1, 5)
	repo.ultimo = 5
	svc := service.NewTimbradoService(repo)

	_, _, err := svc.SiguienteNumero(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, service.ErrSecuenciaAgotada)

	// La vista previa reporta lo mismo sin tomar el lock.
	_, err = svc.ProximoNumero(context.Background())
	assert.ErrorIs(t, err, service.ErrSecuenciaAgotada)
}

func TestSiguienteNumeroSinTimbrado(t *testing.T) {
	svc := service.NewTimbradoService(newFakeTimbradoRepo())

	_, _, err := svc.SiguienteNumero(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, service.ErrSinTimbrado)
}

func TestSiguienteNumeroVencido(t *testing.T) {
	repo := newFakeTimbradoRepo()
	timbrado := seedTimbradoVigente(repo, 1, 1000)
	timbrado.FechaFin = time.Now().AddDate(0, 0, -10)
	svc := service.NewTimbradoService(repo)

	_, _, err := svc.SiguienteNumero(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, service.ErrTimbradoNoVigente)
}

func TestProximoNumeroNoConsume(t *testing.T) {
	repo := newFakeTimbradoRepo()
	seedTimbradoVigente(repo, 1001, 2000)
	repo.ultimo = 1047
	svc := service.NewTimbradoService(repo)

	primera, err := svc.ProximoNumero(context.Background())
	require.NoError(t, err)
	segunda, err := svc.ProximoNumero(context.Background())
	require.NoError(t, err)

	// Consultar no asigna: dos vistas seguidas ven el mismo número.
	assert.Equal(t, int64(1048), primera.ProximoNumero)
	assert.Equal(t, primera.ProximoNumero, segunda.ProximoNumero)
	assert.Equal(t, "001-001-0001048", primera.NumeroCompleto)
	assert.Equal(t, int64(953), primera.Disponibles)
}

func TestCrearTimbrado(t *testing.T) {
	svc := service.NewTimbradoService(newFakeTimbradoRepo())

	resp, err := svc.Crear(context.Background(), dto.CrearTimbradoRequest{
		EmpresaID:       uuid.New().String(),
		Numero:          "15975346",
		FechaInicio:     time.Now().AddDate(0, -1, 0).Format("2006-01-02"),
		FechaFin:        time.Now().AddDate(0, 11, 0).Format("2006-01-02"),
		NumeroDesde:     1,
		NumeroHasta:     500000,
		PuntoExpedicion: "001-002",
	})
	require.NoError(t, err)

	assert.Equal(t, "15975346", resp.Numero)
	assert.True(t, resp.Activo)
	assert.True(t, resp.Vigente)
	assert.Equal(t, int64(500000), resp.NumeroHasta)
}

func TestCrearTimbrado_FechasInvalidas(t *testing.T) {
	svc := service.NewTimbradoService(newFakeTimbradoRepo())

	_, err := svc.Crear(context.Background(), dto.CrearTimbradoRequest{
		EmpresaID:       uuid.New().String(),
		Numero:          "15975346",
		FechaInicio:     "2026-12-31",
		FechaFin:        "2026-01-01",
		NumeroDesde:     1,
		NumeroHasta:     100,
		PuntoExpedicion: "001-001",
	})
	assert.EqualError(t, err, "fecha_fin debe ser posterior a fecha_inicio")
}

func TestCrearTimbrado_RangoInvalido(t *testing.T) {
	svc := service.NewTimbradoService(newFakeTimbradoRepo())

	_, err := svc.Crear(context.Background(), dto.CrearTimbradoRequest{
		EmpresaID:       uuid.New().String(),
		Numero:          "15975346",
		FechaInicio:     "2026-01-01",
		FechaFin:        "2026-12-31",
		NumeroDesde:     500,
		NumeroHasta:     100,
		PuntoExpedicion: "001-001",
	})
	assert.EqualError(t, err, "numero_hasta debe ser mayor o igual a numero_desde")
}

func TestActivarDesactivarTimbrado(t *testing.T) {
	repo := newFakeTimbradoRepo()
	timbrado := seedTimbradoVigente(repo, 1, 1000)
	svc := service.NewTimbradoService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Desactivar(ctx, timbrado.ID))
	_, err := svc.ProximoNumero(ctx)
	assert.ErrorIs(t, err, service.ErrSinTimbrado)

	require.NoError(t, svc.Activar(ctx, timbrado.ID))
	vista, err := svc.ProximoNumero(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vista.ProximoNumero)
}
