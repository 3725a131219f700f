package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// facturacionEnv wires the facturación service against the in-memory fakes.
// The timbrado repo reads MAX(numero_factura) from the factura repo, and the
// factura repo hydrates detalle pasajes, so allocation and anulación behave
// like they do against Postgres.
type facturacionEnv struct {
	svc        service.FacturacionService
	cajaSvc    service.CajaService
	timbrados  *fakeTimbradoRepo
	facturas   *fakeFacturaRepo
	caja       *fakeCajaRepo
	pasajes    *fakePasajeRepo
	encos      *fakeEncomiendaRepo
	personas   *fakePersonaRepo
	cliente    *model.Persona
	cajeroID   uuid.UUID
}

func newFacturacionEnv() *facturacionEnv {
	env := &facturacionEnv{
		timbrados: newFakeTimbradoRepo(),
		facturas:  newFakeFacturaRepo(),
		caja:      newFakeCajaRepo(),
		pasajes:   newFakePasajeRepo(),
		encos:     newFakeEncomiendaRepo(),
		personas:  newFakePersonaRepo(),
		cajeroID:  uuid.New(),
	}
	env.timbrados.facturas = env.facturas
	env.facturas.pasajes = env.pasajes
	env.cliente = seedPersona(env.personas, 4555666, "Marta", "Riquelme")
	env.cajaSvc = service.NewCajaService(env.caja)
	env.svc = service.NewFacturacionService(
		env.facturas,
		service.NewTimbradoService(env.timbrados),
		env.caja,
		env.pasajes,
		env.encos,
		env.personas,
		nil, // no dispatcher: PDF jobs are out of scope here
	)
	return env
}

func (env *facturacionEnv) abrirCaja(t *testing.T, inicial int64) {
	t.Helper()
	_, err := env.cajaSvc.Abrir(context.Background(), env.cajeroID, dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromInt(inicial),
	})
	require.NoError(t, err)
}

func (env *facturacionEnv) seedPasajeVendido(precio int64, asiento int) *model.Pasaje {
	p := &model.Pasaje{
		ID:              uuid.New(),
		Codigo:          fmt.Sprintf("PAS-20250812-%04d", asiento),
		ViajeID:         uuid.New(),
		PasajeroID:      env.cliente.ID,
		ParadaOrigenID:  uuid.New(),
		ParadaDestinoID: uuid.New(),
		NumeroAsiento:   asiento,
		Precio:          decimal.NewFromInt(precio),
		Estado:          "vendido",
		ParadaOrigen:    &model.Parada{Nombre: "Asunción"},
		ParadaDestino:   &model.Parada{Nombre: "Encarnación"},
	}
	env.pasajes.pasajes[p.ID] = p
	return p
}

func (env *facturacionEnv) seedEncomienda(precio int64) *model.Encomienda {
	e := &model.Encomienda{
		ID:              uuid.New(),
		Codigo:          "ENC-20250812-9C41",
		RemitenteID:     env.cliente.ID,
		DestinatarioID:  uuid.New(),
		ParadaOrigenID:  uuid.New(),
		ParadaDestinoID: uuid.New(),
		Tipo:            "paquete",
		Precio:          decimal.NewFromInt(precio),
		Estado:          "registrado",
	}
	env.encos.encomiendas[e.ID] = e
	return e
}

func (env *facturacionEnv) crear(t *testing.T, req dto.CrearFacturaRequest) *dto.FacturaResponse {
	t.Helper()
	if req.ClienteID == "" {
		req.ClienteID = env.cliente.ID.String()
	}
	if req.Condicion == "" {
		req.Condicion = "contado"
	}
	resp, err := env.svc.CrearFactura(context.Background(), env.cajeroID, req)
	require.NoError(t, err)
	return resp
}

// ── Creación ──────────────────────────────────────────────────────────────────

func TestCrearFacturaSoloPasajes(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	env.abrirCaja(t, 0)
	p1 := env.seedPasajeVendido(150000, 7)
	p2 := env.seedPasajeVendido(150000, 8)

	resp := env.crear(t, dto.CrearFacturaRequest{
		PasajeIDs: []string{p1.ID.String(), p2.ID.String()},
	})

	assert.Equal(t, int64(1), resp.NumeroFactura)
	assert.Equal(t, "001-001-0000001", resp.NumeroCompleto)
	assert.Equal(t, "emitida", resp.Estado)

	// La fecha de emisión sale en RFC3339 con el offset real del reloj.
	emision, perr := time.Parse(time.RFC3339, resp.FechaEmision)
	require.NoError(t, perr)
	assert.WithinDuration(t, time.Now(), emision, time.Minute)

	require.Len(t, resp.Detalles, 2)
	assert.Equal(t, "Pasaje Asunción - Encarnación", resp.Detalles[0].Descripcion)
	assert.Equal(t, 0, resp.Detalles[0].TasaIVA)

	// Pasajes exentos: todo cae en la banda exenta, sin IVA.
	assert.Equal(t, "300000", resp.SubtotalExenta.String())
	assert.True(t, resp.SubtotalIVA5.IsZero())
	assert.True(t, resp.SubtotalIVA10.IsZero())
	assert.True(t, resp.TotalIVA.IsZero())
	assert.Equal(t, "300000", resp.Total.String())
	assert.Equal(t, "TRESCIENTOS MIL GUARANÍES", resp.TotalEnLetras)

	// Un único ingreso en caja por el total, concepto venta_pasaje.
	require.Len(t, env.caja.movimientos, 1)
	mov := env.caja.movimientos[0]
	assert.Equal(t, "ingreso", mov.Tipo)
	assert.Equal(t, "venta_pasaje", mov.Concepto)
	assert.Equal(t, "300000", mov.Monto.String())
	require.NotNil(t, mov.FacturaID)
	assert.Empty(t, resp.Advertencia)
}

func TestCrearFacturaIVAIncluido(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	env.abrirCaja(t, 0)
	e := env.seedEncomienda(110000)

	resp := env.crear(t, dto.CrearFacturaRequest{
		EncomiendaIDs: []string{e.ID.String()},
	})

	// Precio con IVA incluido: el impuesto se extrae (10/110), no se suma.
	assert.Equal(t, "110000", resp.SubtotalIVA10.String())
	assert.Equal(t, "10000", resp.IVA10.String())
	assert.Equal(t, "10000", resp.TotalIVA.String())
	assert.Equal(t, "110000", resp.Total.String())
	require.Len(t, resp.Detalles, 1)
	assert.Equal(t, 10, resp.Detalles[0].TasaIVA)
	assert.Equal(t, "Encomienda paquete - ENC-20250812-9C41", resp.Detalles[0].Descripcion)

	require.Len(t, env.caja.movimientos, 1)
	assert.Equal(t, "venta_encomienda", env.caja.movimientos[0].Concepto)
}

func TestCrearFacturaMixta(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	env.abrirCaja(t, 0)
	p := env.seedPasajeVendido(107000, 3)
	e := env.seedEncomienda(333333)

	resp := env.crear(t, dto.CrearFacturaRequest{
		PasajeIDs:      []string{p.ID.String()},
		EncomiendaIDs:  []string{e.ID.String()},
		TasaIVAPasajes: 5,
	})

	// 107000×5/105 = 5095.238… → 5095.24; 333333×10/110 = 30303.0.
	assert.Equal(t, "107000", resp.SubtotalIVA5.String())
	assert.Equal(t, "333333", resp.SubtotalIVA10.String())
	assert.Equal(t, "5095.24", resp.IVA5.StringFixed(2))
	assert.Equal(t, "30303.00", resp.IVA10.StringFixed(2))
	assert.Equal(t, resp.IVA5.Add(resp.IVA10).String(), resp.TotalIVA.String())
	assert.Equal(t, resp.SubtotalExenta.Add(resp.SubtotalIVA5).Add(resp.SubtotalIVA10).String(),
		resp.Total.String())

	// Mezcla de líneas: el ingreso cae en concepto otro.
	require.Len(t, env.caja.movimientos, 1)
	assert.Equal(t, "otro", env.caja.movimientos[0].Concepto)
}

func TestCrearFacturaVacia(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)

	_, err := env.svc.CrearFactura(context.Background(), env.cajeroID, dto.CrearFacturaRequest{
		ClienteID: env.cliente.ID.String(),
		Condicion: "contado",
	})
	assert.ErrorIs(t, err, service.ErrFacturaVacia)
}

func TestCrearFacturaSinSesionDeCaja(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	p := env.seedPasajeVendido(80000, 1)

	resp := env.crear(t, dto.CrearFacturaRequest{
		PasajeIDs: []string{p.ID.String()},
	})

	// La factura sale igual; el ingreso no se registra y se avisa.
	assert.Equal(t, "emitida", resp.Estado)
	assert.NotEmpty(t, resp.Advertencia)
	assert.Empty(t, env.caja.movimientos)
}

func TestCrearFacturaPasajeNoFacturable(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	p := env.seedPasajeVendido(80000, 1)
	p.Estado = "reservado"

	_, err := env.svc.CrearFactura(context.Background(), env.cajeroID, dto.CrearFacturaRequest{
		ClienteID: env.cliente.ID.String(),
		Condicion: "contado",
		PasajeIDs: []string{p.ID.String()},
	})
	assert.ErrorContains(t, err, "no es facturable")
}

func TestCrearFacturaSecuenciaCompleta(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 3)
	env.abrirCaja(t, 0)

	// Rango [1,3]: tres facturas consecutivas, la cuarta agota la secuencia.
	for esperado := int64(1); esperado <= 3; esperado++ {
		p := env.seedPasajeVendido(50000, int(esperado))
		resp := env.crear(t, dto.CrearFacturaRequest{
			PasajeIDs: []string{p.ID.String()},
		})
		assert.Equal(t, esperado, resp.NumeroFactura)
	}

	p := env.seedPasajeVendido(50000, 40)
	_, err := env.svc.CrearFactura(context.Background(), env.cajeroID, dto.CrearFacturaRequest{
		ClienteID: env.cliente.ID.String(),
		Condicion: "contado",
		PasajeIDs: []string{p.ID.String()},
	})
	assert.ErrorIs(t, err, service.ErrSecuenciaAgotada)
}

func TestCrearFacturaSinTimbrado(t *testing.T) {
	env := newFacturacionEnv()
	p := env.seedPasajeVendido(50000, 1)

	_, err := env.svc.CrearFactura(context.Background(), env.cajeroID, dto.CrearFacturaRequest{
		ClienteID: env.cliente.ID.String(),
		Condicion: "contado",
		PasajeIDs: []string{p.ID.String()},
	})
	assert.ErrorIs(t, err, service.ErrSinTimbrado)
}

// ── Anulación ─────────────────────────────────────────────────────────────────

func TestAnularFactura(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	env.abrirCaja(t, 100000)
	p1 := env.seedPasajeVendido(60000, 5)
	p2 := env.seedPasajeVendido(60000, 6)
	e := env.seedEncomienda(44000)

	creada := env.crear(t, dto.CrearFacturaRequest{
		PasajeIDs:     []string{p1.ID.String(), p2.ID.String()},
		EncomiendaIDs: []string{e.ID.String()},
	})

	anulada, err := env.svc.AnularFactura(context.Background(), env.cajeroID,
		uuid.MustParse(creada.ID), dto.AnularFacturaRequest{Motivo: "Error de carga"})
	require.NoError(t, err)

	assert.Equal(t, "anulada", anulada.Estado)
	require.NotNil(t, anulada.MotivoAnulacion)
	assert.Equal(t, "Error de carga", *anulada.MotivoAnulacion)
	require.NotNil(t, anulada.FechaAnulacion)
	anulacion, perr := time.Parse(time.RFC3339, *anulada.FechaAnulacion)
	require.NoError(t, perr)
	assert.WithinDuration(t, time.Now(), anulacion, time.Minute)
	assert.Empty(t, anulada.Advertencia)

	// Exactamente un egreso de reversión por el total, ligado a la factura.
	var egresos []model.MovimientoCaja
	for _, m := range env.caja.movimientos {
		if m.Tipo == "egreso" {
			egresos = append(egresos, m)
		}
	}
	require.Len(t, egresos, 1)
	assert.Equal(t, "anulacion", egresos[0].Concepto)
	assert.Equal(t, creada.Total.String(), egresos[0].Monto.String())
	require.NotNil(t, egresos[0].FacturaID)
	assert.Equal(t, creada.ID, egresos[0].FacturaID.String())

	// Los pasajes quedan cancelados con el motivo derivado…
	for _, p := range []*model.Pasaje{p1, p2} {
		assert.Equal(t, "cancelado", p.Estado)
		require.NotNil(t, p.MotivoCancelacion)
		assert.Equal(t, "Factura anulada: Error de carga", *p.MotivoCancelacion)
		assert.NotNil(t, p.FechaCancelacion)
	}
	// …y la encomienda no se toca: la carga en tránsito no se revierte sola.
	assert.Equal(t, "registrado", e.Estado)
}

func TestAnularFacturaSinSesion(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	env.abrirCaja(t, 0)
	p := env.seedPasajeVendido(90000, 2)

	creada := env.crear(t, dto.CrearFacturaRequest{
		PasajeIDs: []string{p.ID.String()},
	})

	// Cerrar la caja antes de anular: la reversión no tiene dónde asentarse.
	_, err := env.cajaSvc.Cerrar(context.Background(), env.cajeroID, "cajero", dto.CerrarCajaRequest{
		MontoDeclarado: decimal.NewFromInt(90000),
	})
	require.NoError(t, err)
	previos := len(env.caja.movimientos)

	anulada, err := env.svc.AnularFactura(context.Background(), env.cajeroID,
		uuid.MustParse(creada.ID), dto.AnularFacturaRequest{Motivo: "Cliente desistió"})
	require.NoError(t, err)

	// La anulación prospera igual: advertencia, cero movimientos nuevos.
	assert.Equal(t, "anulada", anulada.Estado)
	assert.NotEmpty(t, anulada.Advertencia)
	assert.Len(t, env.caja.movimientos, previos)
	assert.Equal(t, "cancelado", p.Estado)
}

func TestAnularFacturaDosVeces(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	env.abrirCaja(t, 0)
	p := env.seedPasajeVendido(70000, 9)

	creada := env.crear(t, dto.CrearFacturaRequest{
		PasajeIDs: []string{p.ID.String()},
	})
	ctx := context.Background()

	_, err := env.svc.AnularFactura(ctx, env.cajeroID, uuid.MustParse(creada.ID),
		dto.AnularFacturaRequest{Motivo: "Primer intento"})
	require.NoError(t, err)

	_, err = env.svc.AnularFactura(ctx, env.cajeroID, uuid.MustParse(creada.ID),
		dto.AnularFacturaRequest{Motivo: "Segundo intento"})
	assert.ErrorIs(t, err, service.ErrFacturaAnulada)
}

func TestAnularFacturaSinRevertirCaja(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	env.abrirCaja(t, 0)
	e := env.seedEncomienda(55000)

	creada := env.crear(t, dto.CrearFacturaRequest{
		EncomiendaIDs: []string{e.ID.String()},
	})
	previos := len(env.caja.movimientos)

	noRevertir := false
	anulada, err := env.svc.AnularFactura(context.Background(), env.cajeroID,
		uuid.MustParse(creada.ID), dto.AnularFacturaRequest{
			Motivo:       "Factura duplicada",
			RevertirCaja: &noRevertir,
		})
	require.NoError(t, err)

	assert.Equal(t, "anulada", anulada.Estado)
	assert.Len(t, env.caja.movimientos, previos)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func TestObtenerFactura(t *testing.T) {
	env := newFacturacionEnv()
	seedTimbradoVigente(env.timbrados, 1, 1000)
	p := env.seedPasajeVendido(120000, 11)

	creada := env.crear(t, dto.CrearFacturaRequest{
		PasajeIDs: []string{p.ID.String()},
	})

	leida, err := env.svc.Obtener(context.Background(), uuid.MustParse(creada.ID))
	require.NoError(t, err)
	assert.Equal(t, creada.NumeroCompleto, leida.NumeroCompleto)
	assert.Equal(t, creada.Total.String(), leida.Total.String())

	_, err = env.svc.Obtener(context.Background(), uuid.New())
	assert.EqualError(t, err, "factura no encontrada")
}
