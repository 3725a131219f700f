package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PasajeService interface {
	Vender(ctx context.Context, vendedorID uuid.UUID, req dto.VenderPasajeRequest) (*dto.PasajeResponse, error)
	Reservar(ctx context.Context, vendedorID uuid.UUID, req dto.ReservarPasajeRequest) (*dto.PasajeResponse, error)
	ConfirmarReserva(ctx context.Context, vendedorID uuid.UUID, id uuid.UUID) (*dto.PasajeResponse, error)
	Abordar(ctx context.Context, id uuid.UUID) (*dto.PasajeResponse, error)
	MarcarNoShow(ctx context.Context, id uuid.UUID) (*dto.PasajeResponse, error)
	Cancelar(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req dto.CancelarPasajeRequest) (*dto.PasajeResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PasajeResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.PasajeResponse, error)
	Listar(ctx context.Context, filter dto.PasajeFilter) (*dto.PasajeListResponse, error)
	ListarPorViaje(ctx context.Context, viajeID uuid.UUID) ([]dto.PasajeResponse, error)
	// ExpirarReservas cancels reservas whose hold window lapsed; the cron
	// calls this in batches. Returns how many were swept.
	ExpirarReservas(ctx context.Context, limit int) (int, error)
}

type pasajeService struct {
	repo        repository.PasajeRepository
	viajeRepo   repository.ViajeRepository
	personaRepo repository.PersonaRepository
	cajaRepo    repository.CajaRepository
	reservaTTL  time.Duration
}

func NewPasajeService(
	repo repository.PasajeRepository,
	viajeRepo repository.ViajeRepository,
	personaRepo repository.PersonaRepository,
	cajaRepo repository.CajaRepository,
	reservaTTL time.Duration,
) PasajeService {
	return &pasajeService{
		repo:        repo,
		viajeRepo:   viajeRepo,
		personaRepo: personaRepo,
		cajaRepo:    cajaRepo,
		reservaTTL:  reservaTTL,
	}
}

// ── Vender ────────────────────────────────────────────────────────────────────
//  1. Validate viaje admits sales and the seat exists on the bus
//  2. BEGIN TX: get-or-create pasajero by cedula
//  3. Check the seat, insert the pasaje (partial unique index backstops races)
//  4. Post ingreso movement if the seller holds an open session
//  5. COMMIT

func (s *pasajeService) Vender(ctx context.Context, vendedorID uuid.UUID, req dto.VenderPasajeRequest) (*dto.PasajeResponse, error) {
	if !req.Precio.IsPositive() {
		return nil, ErrMontoInvalido
	}
	viaje, origenID, destinoID, err := s.resolverViaje(ctx, req.ViajeID, req.ParadaOrigenID, req.ParadaDestinoID, req.NumeroAsiento)
	if err != nil {
		return nil, err
	}

	ahora := time.Now()
	var pasaje *model.Pasaje
	var advertencia string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pasajero, err := s.buscarOCrearPasajero(ctx, tx, req.PasajeroCedula, req.PasajeroNombre, req.PasajeroApellido, req.PasajeroTelefono)
		if err != nil {
			return err
		}

		if _, err := s.repo.FindActivoByAsiento(ctx, tx, viaje.ID, req.NumeroAsiento); err == nil {
			return ErrAsientoOcupado
		}

		pasaje = &model.Pasaje{
			Codigo:          generarCodigo("PAS"),
			ViajeID:         viaje.ID,
			PasajeroID:      pasajero.ID,
			ParadaOrigenID:  origenID,
			ParadaDestinoID: destinoID,
			NumeroAsiento:   req.NumeroAsiento,
			Precio:          req.Precio,
			Estado:          "vendido",
			VendedorID:      &vendedorID,
			FechaVenta:      &ahora,
			Pasajero:        pasajero,
		}
		if err := s.repo.Create(ctx, tx, pasaje); err != nil {
			return err
		}

		advertencia, err = s.registrarVentaEnCaja(ctx, tx, vendedorID, pasaje)
		return err
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrAsientoOcupado
		}
		return nil, txErr
	}

	resp := pasajeToResponse(pasaje)
	resp.Advertencia = advertencia
	return resp, nil
}

// ── Reservar ──────────────────────────────────────────────────────────────────
// Holds the seat without payment. No caja movement: money moves when the
// reserva is confirmed. ExpiraEn bounds the hold; the sweep reclaims it.

func (s *pasajeService) Reservar(ctx context.Context, vendedorID uuid.UUID, req dto.ReservarPasajeRequest) (*dto.PasajeResponse, error) {
	if !req.Precio.IsPositive() {
		return nil, ErrMontoInvalido
	}
	viaje, origenID, destinoID, err := s.resolverViaje(ctx, req.ViajeID, req.ParadaOrigenID, req.ParadaDestinoID, req.NumeroAsiento)
	if err != nil {
		return nil, err
	}

	expira := time.Now().Add(s.reservaTTL)
	var pasaje *model.Pasaje
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pasajero, err := s.buscarOCrearPasajero(ctx, tx, req.PasajeroCedula, req.PasajeroNombre, req.PasajeroApellido, req.PasajeroTelefono)
		if err != nil {
			return err
		}

		if _, err := s.repo.FindActivoByAsiento(ctx, tx, viaje.ID, req.NumeroAsiento); err == nil {
			return ErrAsientoOcupado
		}

		pasaje = &model.Pasaje{
			Codigo:          generarCodigo("PAS"),
			ViajeID:         viaje.ID,
			PasajeroID:      pasajero.ID,
			ParadaOrigenID:  origenID,
			ParadaDestinoID: destinoID,
			NumeroAsiento:   req.NumeroAsiento,
			Precio:          req.Precio,
			Estado:          "reservado",
			VendedorID:      &vendedorID,
			ExpiraEn:        &expira,
			Pasajero:        pasajero,
		}
		return s.repo.Create(ctx, tx, pasaje)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrAsientoOcupado
		}
		return nil, txErr
	}

	return pasajeToResponse(pasaje), nil
}

// ── ConfirmarReserva ──────────────────────────────────────────────────────────

func (s *pasajeService) ConfirmarReserva(ctx context.Context, vendedorID uuid.UUID, id uuid.UUID) (*dto.PasajeResponse, error) {
	pasaje, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pasaje no encontrado")
	}
	if pasaje.Estado != "reservado" {
		return nil, fmt.Errorf("solo una reserva puede confirmarse (estado %s)", pasaje.Estado)
	}
	if pasaje.ExpiraEn != nil && pasaje.ExpiraEn.Before(time.Now()) {
		return nil, errors.New("la reserva está vencida")
	}

	ahora := time.Now()
	var advertencia string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pasaje.Estado = "vendido"
		pasaje.VendedorID = &vendedorID
		pasaje.FechaVenta = &ahora
		pasaje.ExpiraEn = nil
		if err := s.repo.Update(ctx, tx, pasaje); err != nil {
			return err
		}
		advertencia, err = s.registrarVentaEnCaja(ctx, tx, vendedorID, pasaje)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := pasajeToResponse(pasaje)
	resp.Advertencia = advertencia
	return resp, nil
}

// ── Abordar / MarcarNoShow ────────────────────────────────────────────────────

func (s *pasajeService) Abordar(ctx context.Context, id uuid.UUID) (*dto.PasajeResponse, error) {
	return s.transicionar(ctx, id, "vendido", "abordado")
}

func (s *pasajeService) MarcarNoShow(ctx context.Context, id uuid.UUID) (*dto.PasajeResponse, error) {
	return s.transicionar(ctx, id, "vendido", "no_show")
}

func (s *pasajeService) transicionar(ctx context.Context, id uuid.UUID, desde, hasta string) (*dto.PasajeResponse, error) {
	pasaje, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pasaje no encontrado")
	}
	if pasaje.Estado != desde {
		return nil, fmt.Errorf("el pasaje no admite la transición a %s (estado %s)", hasta, pasaje.Estado)
	}
	pasaje.Estado = hasta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, pasaje)
	})
	if txErr != nil {
		return nil, txErr
	}
	return pasajeToResponse(pasaje), nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Cancels a reserva or a vendido seat. The devolución egress only applies to
// paid pasajes and only lands when the actor holds an open session.

func (s *pasajeService) Cancelar(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req dto.CancelarPasajeRequest) (*dto.PasajeResponse, error) {
	pasaje, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pasaje no encontrado")
	}
	if pasaje.Estado != "reservado" && pasaje.Estado != "vendido" {
		return nil, fmt.Errorf("el pasaje no puede cancelarse (estado %s)", pasaje.Estado)
	}
	eraVendido := pasaje.Estado == "vendido"

	ahora := time.Now()
	var advertencia string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pasaje.Estado = "cancelado"
		pasaje.FechaCancelacion = &ahora
		pasaje.MotivoCancelacion = &req.Motivo
		if err := s.repo.Update(ctx, tx, pasaje); err != nil {
			return err
		}

		if req.DevolverDinero && eraVendido {
			sesion, sesionErr := s.cajaRepo.FindSesionAbiertaForUpdate(ctx, tx, actorID)
			if sesionErr != nil {
				advertencia = "pasaje cancelado sin sesión de caja abierta: no se registró la devolución"
				return nil
			}
			mov := model.MovimientoCaja{
				SesionCajaID: sesion.ID,
				Tipo:         "egreso",
				Concepto:     "devolucion",
				Monto:        pasaje.Precio,
				Descripcion:  fmt.Sprintf("Devolución pasaje %s", pasaje.Codigo),
			}
			return s.cajaRepo.CreateMovimiento(ctx, tx, &mov)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := pasajeToResponse(pasaje)
	resp.Advertencia = advertencia
	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *pasajeService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PasajeResponse, error) {
	pasaje, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pasaje no encontrado")
	}
	return pasajeToResponse(pasaje), nil
}

func (s *pasajeService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.PasajeResponse, error) {
	pasaje, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, errors.New("pasaje no encontrado")
	}
	return pasajeToResponse(pasaje), nil
}

func (s *pasajeService) Listar(ctx context.Context, filter dto.PasajeFilter) (*dto.PasajeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pasajes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PasajeResponse, 0, len(pasajes))
	for i := range pasajes {
		data = append(data, *pasajeToResponse(&pasajes[i]))
	}
	return &dto.PasajeListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *pasajeService) ListarPorViaje(ctx context.Context, viajeID uuid.UUID) ([]dto.PasajeResponse, error) {
	pasajes, err := s.repo.ListByViaje(ctx, viajeID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PasajeResponse, 0, len(pasajes))
	for i := range pasajes {
		resp = append(resp, *pasajeToResponse(&pasajes[i]))
	}
	return resp, nil
}

// ── ExpirarReservas ───────────────────────────────────────────────────────────

func (s *pasajeService) ExpirarReservas(ctx context.Context, limit int) (int, error) {
	vencidas, err := s.repo.ListReservasVencidas(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}
	if len(vencidas) == 0 {
		return 0, nil
	}

	motivo := "Reserva vencida"
	swept := 0
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range vencidas {
			p := &vencidas[i]
			ahora := time.Now()
			p.Estado = "cancelado"
			p.FechaCancelacion = &ahora
			p.MotivoCancelacion = &motivo
			if err := s.repo.Update(ctx, tx, p); err != nil {
				return err
			}
			swept++
		}
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}
	return swept, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *pasajeService) resolverViaje(ctx context.Context, viajeID, origenID, destinoID string, numeroAsiento int) (*model.Viaje, uuid.UUID, uuid.UUID, error) {
	vid, err := uuid.Parse(viajeID)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, fmt.Errorf("viaje_id inválido: %w", err)
	}
	oid, err := uuid.Parse(origenID)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, fmt.Errorf("parada_origen_id inválido: %w", err)
	}
	did, err := uuid.Parse(destinoID)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, fmt.Errorf("parada_destino_id inválido: %w", err)
	}

	viaje, err := s.viajeRepo.FindByID(ctx, vid)
	if err != nil {
		return nil, uuid.Nil, uuid.Nil, errors.New("viaje no encontrado")
	}
	if viaje.Estado != "programado" {
		return nil, uuid.Nil, uuid.Nil, fmt.Errorf("el viaje no admite venta de pasajes (estado %s)", viaje.Estado)
	}
	if viaje.Bus != nil && numeroAsiento > viaje.Bus.CapacidadAsientos {
		return nil, uuid.Nil, uuid.Nil, ErrAsientoInvalido
	}
	return viaje, oid, did, nil
}

func (s *pasajeService) buscarOCrearPasajero(ctx context.Context, tx *gorm.DB, cedula int64, nombre, apellido, telefono string) (*model.Persona, error) {
	if persona, err := s.personaRepo.FindByCedula(ctx, cedula); err == nil {
		return persona, nil
	}
	if nombre == "" {
		return nil, errors.New("pasajero_nombre es requerido para registrar un pasajero nuevo")
	}
	persona := &model.Persona{
		Cedula:     cedula,
		Nombre:     nombre,
		Apellido:   apellido,
		EsPasajero: true,
	}
	if telefono != "" {
		persona.Telefono = &telefono
	}
	if err := s.personaRepo.Create(ctx, tx, persona); err != nil {
		return nil, err
	}
	return persona, nil
}

// registrarVentaEnCaja posts the sale income against the seller's open
// session. Returns a warning string when there is none: the sale itself is
// never blocked by the till.
func (s *pasajeService) registrarVentaEnCaja(ctx context.Context, tx *gorm.DB, vendedorID uuid.UUID, pasaje *model.Pasaje) (string, error) {
	sesion, err := s.cajaRepo.FindSesionAbiertaForUpdate(ctx, tx, vendedorID)
	if err != nil {
		return "pasaje vendido sin sesión de caja abierta: no se registró el ingreso en caja", nil
	}
	mov := model.MovimientoCaja{
		SesionCajaID: sesion.ID,
		Tipo:         "ingreso",
		Concepto:     "venta_pasaje",
		Monto:        pasaje.Precio,
		Descripcion:  fmt.Sprintf("Venta pasaje %s", pasaje.Codigo),
	}
	if err := s.cajaRepo.CreateMovimiento(ctx, tx, &mov); err != nil {
		return "", err
	}
	return "", nil
}

// generarCodigo builds a human-quotable code like "PAS-20250812-3F0A".
func generarCodigo(prefijo string) string {
	sufijo := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("%s-%s-%s", prefijo, time.Now().Format("20060102"), sufijo)
}

func pasajeToResponse(p *model.Pasaje) *dto.PasajeResponse {
	resp := &dto.PasajeResponse{
		ID:            p.ID.String(),
		Codigo:        p.Codigo,
		ViajeID:       p.ViajeID.String(),
		NumeroAsiento: p.NumeroAsiento,
		Precio:        p.Precio,
		Estado:        p.Estado,
	}
	if p.Pasajero != nil {
		resp.Pasajero = p.Pasajero.NombreCompleto()
		resp.PasajeroCedula = p.Pasajero.Cedula
	}
	if p.ParadaOrigen != nil {
		resp.Origen = p.ParadaOrigen.Nombre
	}
	if p.ParadaDestino != nil {
		resp.Destino = p.ParadaDestino.Nombre
	}
	if p.FechaVenta != nil {
		t := p.FechaVenta.Format(time.RFC3339)
		resp.FechaVenta = &t
	}
	if p.ExpiraEn != nil {
		t := p.ExpiraEn.Format(time.RFC3339)
		resp.ExpiraEn = &t
	}
	return resp
}
