package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories shared by the service tests. Every DB() returns
// nil, which makes runTx call the closure directly instead of opening a
// transaction. Lookups that miss return gorm.ErrRecordNotFound so the
// services' errors.Is branches behave like they do against Postgres.

var (
	_ repository.CajaRepository       = (*fakeCajaRepo)(nil)
	_ repository.TimbradoRepository   = (*fakeTimbradoRepo)(nil)
	_ repository.FacturaRepository    = (*fakeFacturaRepo)(nil)
	_ repository.PasajeRepository     = (*fakePasajeRepo)(nil)
	_ repository.EncomiendaRepository = (*fakeEncomiendaRepo)(nil)
	_ repository.PersonaRepository    = (*fakePersonaRepo)(nil)
	_ repository.ViajeRepository      = (*fakeViajeRepo)(nil)
)

// ── Caja ──────────────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

func (r *fakeCajaRepo) CreateSesion(_ context.Context, _ *gorm.DB, s *model.SesionCaja) error {
	// Mirror of the partial unique index: one open session per cajero.
	for _, existing := range r.sesiones {
		if existing.CajeroID == s.CajeroID && existing.Estado == "abierta" {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSesionAbierta(_ context.Context, cajeroID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.CajeroID == cajeroID && s.Estado == "abierta" {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) FindSesionAbiertaForUpdate(ctx context.Context, _ *gorm.DB, cajeroID uuid.UUID) (*model.SesionCaja, error) {
	return r.FindSesionAbierta(ctx, cajeroID)
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeCajaRepo) FindSesionByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	return r.FindSesionByID(ctx, id)
}

func (r *fakeCajaRepo) UpdateSesion(_ context.Context, _ *gorm.DB, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, _ *gorm.DB, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCajaRepo) SumMovimientos(_ context.Context, _ *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, m := range r.movimientos {
		if m.SesionCajaID != sesionID {
			continue
		}
		switch m.Tipo {
		case "ingreso":
			ingresos = ingresos.Add(m.Monto)
		case "egreso":
			egresos = egresos.Add(m.Monto)
		}
	}
	return ingresos, egresos, nil
}

func (r *fakeCajaRepo) SumMovimientosPorConcepto(_ context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	totales := make(map[string]decimal.Decimal)
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			totales[m.Concepto] = totales[m.Concepto].Add(m.Monto)
		}
	}
	return totales, nil
}

func (r *fakeCajaRepo) ListSesiones(_ context.Context, filter dto.SesionFilter) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if filter.Estado != "" && filter.Estado != "all" && s.Estado != filter.Estado {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

// ── Timbrado ──────────────────────────────────────────────────────────────────

type fakeTimbradoRepo struct {
	activo    *model.Timbrado
	timbrados map[uuid.UUID]*model.Timbrado
	// facturas, when set, backs MaxNumeroFactura the way the real query
	// does: MAX(numero_factura) over the issued facturas. ultimo is the
	// standalone knob for tests without a factura repo.
	facturas *fakeFacturaRepo
	ultimo   int64
}

func newFakeTimbradoRepo() *fakeTimbradoRepo {
	return &fakeTimbradoRepo{timbrados: make(map[uuid.UUID]*model.Timbrado)}
}

func (r *fakeTimbradoRepo) DB() *gorm.DB { return nil }

func (r *fakeTimbradoRepo) Create(_ context.Context, t *model.Timbrado) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.timbrados[t.ID] = t
	if t.Activo {
		r.activo = t
	}
	return nil
}

func (r *fakeTimbradoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Timbrado, error) {
	t, ok := r.timbrados[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTimbradoRepo) FindActivo(_ context.Context) (*model.Timbrado, error) {
	if r.activo == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.activo, nil
}

func (r *fakeTimbradoRepo) FindActivoForUpdate(ctx context.Context, _ *gorm.DB) (*model.Timbrado, error) {
	return r.FindActivo(ctx)
}

func (r *fakeTimbradoRepo) MaxNumeroFactura(_ context.Context, _ *gorm.DB, timbradoID uuid.UUID) (int64, error) {
	if r.facturas == nil {
		return r.ultimo, nil
	}
	var max int64
	for _, f := range r.facturas.facturas {
		if f.TimbradoID == timbradoID && f.NumeroFactura > max {
			max = f.NumeroFactura
		}
	}
	return max, nil
}

func (r *fakeTimbradoRepo) List(_ context.Context) ([]model.Timbrado, error) {
	out := make([]model.Timbrado, 0, len(r.timbrados))
	for _, t := range r.timbrados {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTimbradoRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	t, ok := r.timbrados[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Activo = activo
	if activo {
		r.activo = t
	} else if r.activo != nil && r.activo.ID == id {
		r.activo = nil
	}
	return nil
}

// ── Factura ───────────────────────────────────────────────────────────────────

type fakeFacturaRepo struct {
	facturas map[uuid.UUID]*model.Factura
	detalles []model.DetalleFactura
	// pasajes, when set, lets FindByID hydrate Detalles[].Pasaje the way
	// the real repo preloads them.
	pasajes *fakePasajeRepo
}

func newFakeFacturaRepo() *fakeFacturaRepo {
	return &fakeFacturaRepo{facturas: make(map[uuid.UUID]*model.Factura)}
}

func (r *fakeFacturaRepo) DB() *gorm.DB { return nil }

func (r *fakeFacturaRepo) Create(_ context.Context, _ *gorm.DB, f *model.Factura) error {
	for _, existing := range r.facturas {
		if existing.TimbradoID == f.TimbradoID && existing.NumeroFactura == f.NumeroFactura {
			return gorm.ErrDuplicatedKey
		}
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	r.facturas[f.ID] = f
	return nil
}

func (r *fakeFacturaRepo) CreateDetalle(_ context.Context, _ *gorm.DB, d *model.DetalleFactura) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.detalles = append(r.detalles, *d)
	return nil
}

func (r *fakeFacturaRepo) Update(_ context.Context, _ *gorm.DB, f *model.Factura) error {
	r.facturas[f.ID] = f
	return nil
}

func (r *fakeFacturaRepo) UpdatePDFPath(_ context.Context, id uuid.UUID, path string) error {
	f, ok := r.facturas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.PDFPath = &path
	return nil
}

func (r *fakeFacturaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.facturas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if r.pasajes != nil {
		for i := range f.Detalles {
			d := &f.Detalles[i]
			if d.PasajeID != nil {
				d.Pasaje = r.pasajes.pasajes[*d.PasajeID]
			}
		}
	}
	return f, nil
}

func (r *fakeFacturaRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeFacturaRepo) List(_ context.Context, _ dto.FacturaFilter) ([]model.Factura, int64, error) {
	out := make([]model.Factura, 0, len(r.facturas))
	for _, f := range r.facturas {
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

// ── Pasaje ────────────────────────────────────────────────────────────────────

type fakePasajeRepo struct {
	pasajes map[uuid.UUID]*model.Pasaje
}

func newFakePasajeRepo() *fakePasajeRepo {
	return &fakePasajeRepo{pasajes: make(map[uuid.UUID]*model.Pasaje)}
}

func (r *fakePasajeRepo) DB() *gorm.DB { return nil }

func (r *fakePasajeRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pasaje) error {
	// Mirror of the partial unique index on (viaje_id, numero_asiento)
	// over active states.
	for _, existing := range r.pasajes {
		if existing.ViajeID == p.ViajeID &&
			existing.NumeroAsiento == p.NumeroAsiento &&
			model.EstadoActivoPasaje(existing.Estado) {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.pasajes[p.ID] = p
	return nil
}

func (r *fakePasajeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pasaje, error) {
	p, ok := r.pasajes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePasajeRepo) FindByCodigo(_ context.Context, codigo string) (*model.Pasaje, error) {
	for _, p := range r.pasajes {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePasajeRepo) Update(_ context.Context, _ *gorm.DB, p *model.Pasaje) error {
	r.pasajes[p.ID] = p
	return nil
}

func (r *fakePasajeRepo) ListByViaje(_ context.Context, viajeID uuid.UUID) ([]model.Pasaje, error) {
	var out []model.Pasaje
	for _, p := range r.pasajes {
		if p.ViajeID == viajeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePasajeRepo) CountActivosByViaje(_ context.Context, viajeID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.pasajes {
		if p.ViajeID == viajeID && model.EstadoActivoPasaje(p.Estado) {
			n++
		}
	}
	return n, nil
}

func (r *fakePasajeRepo) FindActivoByAsiento(_ context.Context, _ *gorm.DB, viajeID uuid.UUID, numeroAsiento int) (*model.Pasaje, error) {
	for _, p := range r.pasajes {
		if p.ViajeID == viajeID && p.NumeroAsiento == numeroAsiento && model.EstadoActivoPasaje(p.Estado) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePasajeRepo) List(_ context.Context, _ dto.PasajeFilter) ([]model.Pasaje, int64, error) {
	out := make([]model.Pasaje, 0, len(r.pasajes))
	for _, p := range r.pasajes {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePasajeRepo) ListReservasVencidas(_ context.Context, corte time.Time, limit int) ([]model.Pasaje, error) {
	var out []model.Pasaje
	for _, p := range r.pasajes {
		if p.Estado == "reservado" && p.ExpiraEn != nil && p.ExpiraEn.Before(corte) {
			out = append(out, *p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ── Encomienda ────────────────────────────────────────────────────────────────

type fakeEncomiendaRepo struct {
	encomiendas map[uuid.UUID]*model.Encomienda
}

func newFakeEncomiendaRepo() *fakeEncomiendaRepo {
	return &fakeEncomiendaRepo{encomiendas: make(map[uuid.UUID]*model.Encomienda)}
}

func (r *fakeEncomiendaRepo) DB() *gorm.DB { return nil }

func (r *fakeEncomiendaRepo) Create(_ context.Context, _ *gorm.DB, e *model.Encomienda) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.encomiendas[e.ID] = e
	return nil
}

func (r *fakeEncomiendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Encomienda, error) {
	e, ok := r.encomiendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEncomiendaRepo) FindByCodigo(_ context.Context, codigo string) (*model.Encomienda, error) {
	for _, e := range r.encomiendas {
		if e.Codigo == codigo {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEncomiendaRepo) Update(_ context.Context, _ *gorm.DB, e *model.Encomienda) error {
	e.UpdatedAt = time.Now()
	r.encomiendas[e.ID] = e
	return nil
}

func (r *fakeEncomiendaRepo) List(_ context.Context, _ dto.EncomiendaFilter) ([]model.Encomienda, int64, error) {
	out := make([]model.Encomienda, 0, len(r.encomiendas))
	for _, e := range r.encomiendas {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

// ── Persona ───────────────────────────────────────────────────────────────────

type fakePersonaRepo struct {
	personas map[int64]*model.Persona // keyed by cedula
}

func newFakePersonaRepo() *fakePersonaRepo {
	return &fakePersonaRepo{personas: make(map[int64]*model.Persona)}
}

func (r *fakePersonaRepo) DB() *gorm.DB { return nil }

func (r *fakePersonaRepo) Create(_ context.Context, _ *gorm.DB, p *model.Persona) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.personas[p.Cedula] = p
	return nil
}

func (r *fakePersonaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Persona, error) {
	for _, p := range r.personas {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePersonaRepo) FindByCedula(_ context.Context, cedula int64) (*model.Persona, error) {
	p, ok := r.personas[cedula]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePersonaRepo) Update(_ context.Context, p *model.Persona) error {
	r.personas[p.Cedula] = p
	return nil
}

func (r *fakePersonaRepo) Search(_ context.Context, query string, limit int) ([]model.Persona, error) {
	var out []model.Persona
	q := strings.ToLower(query)
	for _, p := range r.personas {
		if strings.Contains(strings.ToLower(p.Nombre), q) || strings.Contains(strings.ToLower(p.Apellido), q) {
			out = append(out, *p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ── Viaje ─────────────────────────────────────────────────────────────────────

type fakeViajeRepo struct {
	viajes map[uuid.UUID]*model.Viaje
}

func newFakeViajeRepo() *fakeViajeRepo {
	return &fakeViajeRepo{viajes: make(map[uuid.UUID]*model.Viaje)}
}

func (r *fakeViajeRepo) Create(_ context.Context, v *model.Viaje) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.viajes[v.ID] = v
	return nil
}

func (r *fakeViajeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Viaje, error) {
	v, ok := r.viajes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeViajeRepo) Update(_ context.Context, v *model.Viaje) error {
	r.viajes[v.ID] = v
	return nil
}

func (r *fakeViajeRepo) List(_ context.Context, _ dto.ViajeFilter) ([]model.Viaje, int64, error) {
	out := make([]model.Viaje, 0, len(r.viajes))
	for _, v := range r.viajes {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedViajeProgramado(repo *fakeViajeRepo, capacidad int) *model.Viaje {
	viaje := &model.Viaje{
		ID:              uuid.New(),
		BusID:           uuid.New(),
		ParadaOrigenID:  uuid.New(),
		ParadaDestinoID: uuid.New(),
		FechaSalida:     time.Now().Add(24 * time.Hour),
		Estado:          "programado",
		Bus:             &model.Bus{CapacidadAsientos: capacidad},
	}
	repo.viajes[viaje.ID] = viaje
	return viaje
}

func seedPersona(repo *fakePersonaRepo, cedula int64, nombre, apellido string) *model.Persona {
	p := &model.Persona{
		ID:       uuid.New(),
		Cedula:   cedula,
		Nombre:   nombre,
		Apellido: apellido,
	}
	repo.personas[cedula] = p
	return p
}

func seedTimbradoVigente(repo *fakeTimbradoRepo, desde, hasta int64) *model.Timbrado {
	t := &model.Timbrado{
		ID:              uuid.New(),
		EmpresaID:       uuid.New(),
		Numero:          "12345678",
		FechaInicio:     time.Now().AddDate(0, -6, 0),
		FechaFin:        time.Now().AddDate(0, 6, 0),
		NumeroDesde:     desde,
		NumeroHasta:     hasta,
		PuntoExpedicion: "001-001",
		Activo:          true,
	}
	repo.timbrados[t.ID] = t
	repo.activo = t
	return t
}
