package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EncomiendaService interface {
	Registrar(ctx context.Context, registradorID uuid.UUID, req dto.RegistrarEncomiendaRequest) (*dto.EncomiendaResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoEncomiendaRequest) (*dto.EncomiendaResponse, error)
	Entregar(ctx context.Context, id uuid.UUID, req dto.EntregarEncomiendaRequest) (*dto.EncomiendaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EncomiendaResponse, error)
	// Rastrear is the public tracking lookup by codigo: state and route only,
	// no identities or amounts.
	Rastrear(ctx context.Context, codigo string) (*dto.TrackingResponse, error)
	Listar(ctx context.Context, filter dto.EncomiendaFilter) (*dto.EncomiendaListResponse, error)
}

type encomiendaService struct {
	repo        repository.EncomiendaRepository
	personaRepo repository.PersonaRepository
	viajeRepo   repository.ViajeRepository
	cajaRepo    repository.CajaRepository
}

func NewEncomiendaService(
	repo repository.EncomiendaRepository,
	personaRepo repository.PersonaRepository,
	viajeRepo repository.ViajeRepository,
	cajaRepo repository.CajaRepository,
) EncomiendaService {
	return &encomiendaService{
		repo:        repo,
		personaRepo: personaRepo,
		viajeRepo:   viajeRepo,
		cajaRepo:    cajaRepo,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Unlike pasaje sales, the personas are NOT created on the fly: a parcel
// needs a reachable sender and receiver, so both must pre-exist in the
// registry.

func (s *encomiendaService) Registrar(ctx context.Context, registradorID uuid.UUID, req dto.RegistrarEncomiendaRequest) (*dto.EncomiendaResponse, error) {
	if !req.Precio.IsPositive() {
		return nil, ErrMontoInvalido
	}

	remitente, err := s.personaRepo.FindByCedula(ctx, req.RemitenteCedula)
	if err != nil {
		return nil, fmt.Errorf("remitente con cédula %d: %w", req.RemitenteCedula, ErrPersonaNoRegistrada)
	}
	destinatario, err := s.personaRepo.FindByCedula(ctx, req.DestinatarioCedula)
	if err != nil {
		return nil, fmt.Errorf("destinatario con cédula %d: %w", req.DestinatarioCedula, ErrPersonaNoRegistrada)
	}

	origenID, err := uuid.Parse(req.ParadaOrigenID)
	if err != nil {
		return nil, fmt.Errorf("parada_origen_id inválido: %w", err)
	}
	destinoID, err := uuid.Parse(req.ParadaDestinoID)
	if err != nil {
		return nil, fmt.Errorf("parada_destino_id inválido: %w", err)
	}

	var viajeID *uuid.UUID
	if req.ViajeID != nil && *req.ViajeID != "" {
		vid, err := uuid.Parse(*req.ViajeID)
		if err != nil {
			return nil, fmt.Errorf("viaje_id inválido: %w", err)
		}
		if _, err := s.viajeRepo.FindByID(ctx, vid); err != nil {
			return nil, errors.New("viaje no encontrado")
		}
		viajeID = &vid
	}

	encomienda := &model.Encomienda{
		Codigo:          generarCodigo("ENC"),
		RemitenteID:     remitente.ID,
		DestinatarioID:  destinatario.ID,
		ViajeID:         viajeID,
		ParadaOrigenID:  origenID,
		ParadaDestinoID: destinoID,
		Tipo:            req.Tipo,
		Descripcion:     req.Descripcion,
		PesoKg:          req.PesoKg,
		ValorDeclarado:  req.ValorDeclarado,
		Precio:          req.Precio,
		Estado:          "registrado",
		RegistradorID:   registradorID,
		Remitente:       remitente,
		Destinatario:    destinatario,
	}

	var advertencia string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, encomienda); err != nil {
			return err
		}

		sesion, sesionErr := s.cajaRepo.FindSesionAbiertaForUpdate(ctx, tx, registradorID)
		if sesionErr != nil {
			advertencia = "encomienda registrada sin sesión de caja abierta: no se registró el ingreso en caja"
			return nil
		}
		mov := model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         "ingreso",
			Concepto:     "venta_encomienda",
			Monto:        encomienda.Precio,
			Descripcion:  fmt.Sprintf("Encomienda %s", encomienda.Codigo),
		}
		return s.cajaRepo.CreateMovimiento(ctx, tx, &mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := encomiendaToResponse(encomienda)
	resp.Advertencia = advertencia
	return resp, nil
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────

func (s *encomiendaService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoEncomiendaRequest) (*dto.EncomiendaResponse, error) {
	encomienda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("encomienda no encontrada")
	}
	if encomienda.Estado == "entregado" {
		return nil, errors.New("una encomienda entregada no admite cambios de estado")
	}

	encomienda.Estado = req.Estado
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, encomienda)
	})
	if txErr != nil {
		return nil, txErr
	}
	return encomiendaToResponse(encomienda), nil
}

// ── Entregar ──────────────────────────────────────────────────────────────────
// Delivery is terminal and captures who physically took the parcel.

func (s *encomiendaService) Entregar(ctx context.Context, id uuid.UUID, req dto.EntregarEncomiendaRequest) (*dto.EncomiendaResponse, error) {
	encomienda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("encomienda no encontrada")
	}
	switch encomienda.Estado {
	case "entregado":
		return nil, errors.New("la encomienda ya fue entregada")
	case "cancelado", "devuelto":
		return nil, fmt.Errorf("la encomienda no puede entregarse (estado %s)", encomienda.Estado)
	}

	ahora := time.Now()
	encomienda.Estado = "entregado"
	encomienda.ReceptorNombre = &req.ReceptorNombre
	encomienda.ReceptorCedula = &req.ReceptorCedula
	encomienda.FechaEntrega = &ahora

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, encomienda)
	})
	if txErr != nil {
		return nil, txErr
	}
	return encomiendaToResponse(encomienda), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *encomiendaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EncomiendaResponse, error) {
	encomienda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("encomienda no encontrada")
	}
	return encomiendaToResponse(encomienda), nil
}

func (s *encomiendaService) Rastrear(ctx context.Context, codigo string) (*dto.TrackingResponse, error) {
	encomienda, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, errors.New("encomienda no encontrada")
	}

	resp := &dto.TrackingResponse{
		Codigo:        encomienda.Codigo,
		Estado:        encomienda.Estado,
		Tipo:          encomienda.Tipo,
		ActualizadoEn: encomienda.UpdatedAt.Format(time.RFC3339),
	}
	if encomienda.ParadaOrigen != nil {
		resp.Origen = encomienda.ParadaOrigen.Nombre
	}
	if encomienda.ParadaDestino != nil {
		resp.Destino = encomienda.ParadaDestino.Nombre
	}
	if encomienda.FechaEntrega != nil {
		t := encomienda.FechaEntrega.Format(time.RFC3339)
		resp.FechaEntrega = &t
	}
	if encomienda.Viaje != nil {
		resp.ViajeEstado = &encomienda.Viaje.Estado
	}
	return resp, nil
}

func (s *encomiendaService) Listar(ctx context.Context, filter dto.EncomiendaFilter) (*dto.EncomiendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	encomiendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EncomiendaResponse, 0, len(encomiendas))
	for i := range encomiendas {
		data = append(data, *encomiendaToResponse(&encomiendas[i]))
	}
	return &dto.EncomiendaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Mapper ────────────────────────────────────────────────────────────────────

func encomiendaToResponse(e *model.Encomienda) *dto.EncomiendaResponse {
	resp := &dto.EncomiendaResponse{
		ID:             e.ID.String(),
		Codigo:         e.Codigo,
		Tipo:           e.Tipo,
		Descripcion:    e.Descripcion,
		PesoKg:         e.PesoKg,
		ValorDeclarado: e.ValorDeclarado,
		Precio:         e.Precio,
		Estado:         e.Estado,
		ReceptorNombre: e.ReceptorNombre,
		ReceptorCedula: e.ReceptorCedula,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if e.Remitente != nil {
		resp.Remitente = e.Remitente.NombreCompleto()
	}
	if e.Destinatario != nil {
		resp.Destinatario = e.Destinatario.NombreCompleto()
	}
	if e.ViajeID != nil {
		id := e.ViajeID.String()
		resp.ViajeID = &id
	}
	if e.ParadaOrigen != nil {
		resp.Origen = e.ParadaOrigen.Nombre
	}
	if e.ParadaDestino != nil {
		resp.Destino = e.ParadaDestino.Nombre
	}
	if e.FechaEntrega != nil {
		t := e.FechaEntrega.Format(time.RFC3339)
		resp.FechaEntrega = &t
	}
	return resp
}
