package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/letras"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/repository"
	"github.com/Fer-Psy/tr4cking/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FacturacionService interface {
	CrearFactura(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	AnularFactura(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID, req dto.AnularFacturaRequest) (*dto.FacturaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
}

type facturacionService struct {
	repo           repository.FacturaRepository
	timbrados      TimbradoService
	cajaRepo       repository.CajaRepository
	pasajeRepo     repository.PasajeRepository
	encomiendaRepo repository.EncomiendaRepository
	personaRepo    repository.PersonaRepository
	dispatcher     *worker.Dispatcher
}

func NewFacturacionService(
	repo repository.FacturaRepository,
	timbrados TimbradoService,
	cajaRepo repository.CajaRepository,
	pasajeRepo repository.PasajeRepository,
	encomiendaRepo repository.EncomiendaRepository,
	personaRepo repository.PersonaRepository,
	dispatcher *worker.Dispatcher,
) FacturacionService {
	return &facturacionService{
		repo:           repo,
		timbrados:      timbrados,
		cajaRepo:       cajaRepo,
		pasajeRepo:     pasajeRepo,
		encomiendaRepo: encomiendaRepo,
		personaRepo:    personaRepo,
		dispatcher:     dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CrearFactura ──────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Resolve cliente, pasajes and encomiendas (pre-flight, outside TX)
//   2. BEGIN TX: allocate numero under the timbrado row lock
//   3. Create factura + one detalle per pasaje/encomienda
//   4. Aggregate totals (tax-inclusive, IVA extracted 5/105 and 10/110)
//   5. Post ingreso movement if the cashier holds an open session
//   6. COMMIT
//   7. (async) dispatch PDF job, best-effort
//
// A rolled-back transaction releases the allocated numero; the next attempt
// reuses it, so the printed sequence stays gapless.

func (s *facturacionService) CrearFactura(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	if len(req.PasajeIDs) == 0 && len(req.EncomiendaIDs) == 0 {
		return nil, ErrFacturaVacia
	}

	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.personaRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}

	// 1. Resolve lines (pre-flight, outside TX)
	type lineaResuelta struct {
		descripcion  string
		precio       decimal.Decimal
		tasaIVA      int
		pasajeID     *uuid.UUID
		encomiendaID *uuid.UUID
	}

	var lineas []lineaResuelta
	for _, raw := range req.PasajeIDs {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("pasaje_id inválido: %w", err)
		}
		p, err := s.pasajeRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("pasaje %s no encontrado", raw)
		}
		if p.Estado != "vendido" && p.Estado != "abordado" {
			return nil, fmt.Errorf("pasaje %s no es facturable (estado %s)", p.Codigo, p.Estado)
		}
		origen, destino := "", ""
		if p.ParadaOrigen != nil {
			origen = p.ParadaOrigen.Nombre
		}
		if p.ParadaDestino != nil {
			destino = p.ParadaDestino.Nombre
		}
		id := p.ID
		lineas = append(lineas, lineaResuelta{
			descripcion: fmt.Sprintf("Pasaje %s - %s", origen, destino),
			precio:      p.Precio,
			tasaIVA:     req.TasaIVAPasajes,
			pasajeID:    &id,
		})
	}
	for _, raw := range req.EncomiendaIDs {
		eid, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("encomienda_id inválido: %w", err)
		}
		e, err := s.encomiendaRepo.FindByID(ctx, eid)
		if err != nil {
			return nil, fmt.Errorf("encomienda %s no encontrada", raw)
		}
		if e.Estado == "cancelado" || e.Estado == "devuelto" {
			return nil, fmt.Errorf("encomienda %s no es facturable (estado %s)", e.Codigo, e.Estado)
		}
		id := e.ID
		lineas = append(lineas, lineaResuelta{
			descripcion:  fmt.Sprintf("Encomienda %s - %s", e.Tipo, e.Codigo),
			precio:       e.Precio,
			tasaIVA:      10,
			encomiendaID: &id,
		})
	}

	// 2. Aggregate totals. Prices are tax-inclusive: the IVA is extracted from
	// the taxed subtotals, and Total carries no tax added on top.
	exenta, sub5, sub10 := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lineas {
		switch l.tasaIVA {
		case 5:
			sub5 = sub5.Add(l.precio)
		case 10:
			sub10 = sub10.Add(l.precio)
		default:
			exenta = exenta.Add(l.precio)
		}
	}
	iva5 := sub5.Mul(decimal.NewFromInt(5)).Div(decimal.NewFromInt(105)).Round(2)
	iva10 := sub10.Mul(decimal.NewFromInt(10)).Div(decimal.NewFromInt(110)).Round(2)

	// 3. ACID transaction
	var factura model.Factura
	var advertencia string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		timbrado, numero, err := s.timbrados.SiguienteNumero(ctx, tx, time.Now())
		if err != nil {
			return err
		}

		factura = model.Factura{
			TimbradoID:     timbrado.ID,
			NumeroFactura:  numero,
			ClienteID:      clienteID,
			Condicion:      req.Condicion,
			FechaEmision:   time.Now(),
			Estado:         "emitida",
			UsuarioID:      usuarioID,
			SubtotalExenta: exenta,
			SubtotalIVA5:   sub5,
			SubtotalIVA10:  sub10,
			IVA5:           iva5,
			IVA10:          iva10,
			TotalIVA:       iva5.Add(iva10),
			Total:          exenta.Add(sub5).Add(sub10),
		}

		// Session is resolved under lock: the movement below must not race a
		// concurrent close of the same session.
		sesion, sesionErr := s.cajaRepo.FindSesionAbiertaForUpdate(ctx, tx, usuarioID)
		if sesionErr == nil {
			factura.SesionCajaID = &sesion.ID
		}

		if err := s.repo.Create(ctx, tx, &factura); err != nil {
			return err
		}
		factura.Timbrado = timbrado

		for _, l := range lineas {
			detalle := model.DetalleFactura{
				FacturaID:      factura.ID,
				Cantidad:       decimal.NewFromInt(1),
				Descripcion:    l.descripcion,
				PrecioUnitario: l.precio,
				TasaIVA:        l.tasaIVA,
				Subtotal:       l.precio,
				PasajeID:       l.pasajeID,
				EncomiendaID:   l.encomiendaID,
			}
			if err := s.repo.CreateDetalle(ctx, tx, &detalle); err != nil {
				return err
			}
			factura.Detalles = append(factura.Detalles, detalle)
		}

		// 4. Ingreso movement, only with an open session. Posted for contado
		// and credito alike: the till tracks the document, collection terms
		// are a reporting concern.
		if sesionErr == nil {
			concepto, descripcion := conceptoVenta(&factura)
			mov := model.MovimientoCaja{
				SesionCajaID: sesion.ID,
				Tipo:         "ingreso",
				Concepto:     concepto,
				Monto:        factura.Total,
				Descripcion:  descripcion,
				FacturaID:    &factura.ID,
			}
			if err := s.cajaRepo.CreateMovimiento(ctx, tx, &mov); err != nil {
				return err
			}
		} else {
			advertencia = "factura emitida sin sesión de caja abierta: no se registró el ingreso en caja"
		}

		return nil
	})
	if txErr != nil {
		// A lost race on (timbrado, numero) means another cashier consumed the
		// last number between our lock release and insert; surface it the same
		// way an exhausted range does.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrSecuenciaAgotada
		}
		return nil, txErr
	}

	// 5. Async PDF job, best effort
	if s.dispatcher != nil {
		payload := worker.FacturaPDFJobPayload{FacturaID: factura.ID.String()}
		if cliente.Email != nil && *cliente.Email != "" {
			payload.ClienteEmail = cliente.Email
		}
		_ = s.dispatcher.EnqueueFacturaPDF(ctx, payload)
	}

	factura.Cliente = cliente
	resp := facturaToResponse(&factura)
	resp.Advertencia = advertencia
	return resp, nil
}

// ── AnularFactura ─────────────────────────────────────────────────────────────
// All-or-nothing void: state flip, caja reversal and pasaje cancellation share
// one transaction. Encomiendas are left untouched: once a parcel is in
// carriage its reversal is a manual process, the void only affects the
// fiscal document.

func (s *facturacionService) AnularFactura(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID, req dto.AnularFacturaRequest) (*dto.FacturaResponse, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}
	if factura.Estado == "anulada" {
		return nil, ErrFacturaAnulada
	}

	revertir := true
	if req.RevertirCaja != nil {
		revertir = *req.RevertirCaja
	}

	var advertencia string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Re-check under lock: two concurrent voids must not both post a
		// reversal.
		locked, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return errors.New("factura no encontrada")
		}
		if locked.Estado == "anulada" {
			return ErrFacturaAnulada
		}

		ahora := time.Now()
		locked.Estado = "anulada"
		locked.MotivoAnulacion = &req.Motivo
		locked.FechaAnulacion = &ahora
		if err := s.repo.Update(ctx, tx, locked); err != nil {
			return err
		}
		factura.Estado = locked.Estado
		factura.MotivoAnulacion = locked.MotivoAnulacion
		factura.FechaAnulacion = locked.FechaAnulacion

		if revertir {
			sesion, sesionErr := s.cajaRepo.FindSesionAbiertaForUpdate(ctx, tx, usuarioID)
			if sesionErr == nil {
				mov := model.MovimientoCaja{
					SesionCajaID: sesion.ID,
					Tipo:         "egreso",
					Concepto:     "anulacion",
					Monto:        factura.Total,
					Descripcion:  fmt.Sprintf("Anulación factura %s", factura.NumeroCompleto()),
					FacturaID:    &factura.ID,
				}
				if err := s.cajaRepo.CreateMovimiento(ctx, tx, &mov); err != nil {
					return err
				}
			} else {
				advertencia = "factura anulada sin sesión de caja abierta: no se registró la reversión en caja"
			}
		}

		// Tickets on the voided factura are cancelled; parcels are not.
		motivo := fmt.Sprintf("Factura anulada: %s", req.Motivo)
		for i := range factura.Detalles {
			d := &factura.Detalles[i]
			if d.PasajeID == nil || d.Pasaje == nil {
				continue
			}
			pasaje := d.Pasaje
			pasaje.Estado = "cancelado"
			pasaje.FechaCancelacion = &ahora
			pasaje.MotivoCancelacion = &motivo
			if err := s.pasajeRepo.Update(ctx, tx, pasaje); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := facturaToResponse(factura)
	resp.Advertencia = advertencia
	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *facturacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	factura, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("factura no encontrada")
	}
	return facturaToResponse(factura), nil
}

func (s *facturacionService) Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	facturas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		data = append(data, *facturaToResponse(&facturas[i]))
	}
	return &dto.FacturaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// conceptoVenta derives the movement concepto and descripcion from the line
// mix: mixed facturas fall back to "otro".
func conceptoVenta(f *model.Factura) (concepto, descripcion string) {
	tienePasajes, tieneEncomiendas := false, false
	for i := range f.Detalles {
		if f.Detalles[i].PasajeID != nil {
			tienePasajes = true
		}
		if f.Detalles[i].EncomiendaID != nil {
			tieneEncomiendas = true
		}
	}
	nro := f.NumeroCompleto()
	switch {
	case tienePasajes && tieneEncomiendas:
		return "otro", fmt.Sprintf("Venta %s", nro)
	case tienePasajes:
		return "venta_pasaje", fmt.Sprintf("Pasaje %s", nro)
	default:
		return "venta_encomienda", fmt.Sprintf("Encomienda %s", nro)
	}
}

func facturaToResponse(f *model.Factura) *dto.FacturaResponse {
	detalles := make([]dto.DetalleFacturaResponse, 0, len(f.Detalles))
	for i := range f.Detalles {
		d := &f.Detalles[i]
		det := dto.DetalleFacturaResponse{
			Cantidad:       d.Cantidad,
			Descripcion:    d.Descripcion,
			PrecioUnitario: d.PrecioUnitario,
			TasaIVA:        d.TasaIVA,
			Subtotal:       d.Subtotal,
		}
		if d.PasajeID != nil {
			id := d.PasajeID.String()
			det.PasajeID = &id
		}
		if d.EncomiendaID != nil {
			id := d.EncomiendaID.String()
			det.EncomiendaID = &id
		}
		detalles = append(detalles, det)
	}

	resp := &dto.FacturaResponse{
		ID:             f.ID.String(),
		NumeroCompleto: f.NumeroCompleto(),
		NumeroFactura:  f.NumeroFactura,
		Condicion:      f.Condicion,
		Estado:         f.Estado,
		FechaEmision:   f.FechaEmision.Format(time.RFC3339),
		Detalles:       detalles,
		SubtotalExenta: f.SubtotalExenta,
		SubtotalIVA5:   f.SubtotalIVA5,
		SubtotalIVA10:  f.SubtotalIVA10,
		IVA5:           f.IVA5,
		IVA10:          f.IVA10,
		TotalIVA:       f.TotalIVA,
		Total:          f.Total,
		TotalEnLetras:  letras.Guaranies(f.Total),
	}
	if f.Timbrado != nil {
		resp.Timbrado = f.Timbrado.Numero
	}
	if f.Cliente != nil {
		resp.Cliente = f.Cliente.NombreCompleto()
		resp.ClienteCedula = f.Cliente.Cedula
	}
	if f.MotivoAnulacion != nil {
		resp.MotivoAnulacion = f.MotivoAnulacion
	}
	if f.FechaAnulacion != nil {
		t := f.FechaAnulacion.Format(time.RFC3339)
		resp.FechaAnulacion = &t
	}
	return resp
}
