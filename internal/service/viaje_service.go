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
)

type ViajeService interface {
	Crear(ctx context.Context, req dto.CrearViajeRequest) (*dto.ViajeResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ViajeResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoViajeRequest) (*dto.ViajeResponse, error)
	Listar(ctx context.Context, filter dto.ViajeFilter) (*dto.ViajeListResponse, error)
}

type viajeService struct {
	repo       repository.ViajeRepository
	flotaRepo  repository.FlotaRepository
	pasajeRepo repository.PasajeRepository
}

func NewViajeService(
	repo repository.ViajeRepository,
	flotaRepo repository.FlotaRepository,
	pasajeRepo repository.PasajeRepository,
) ViajeService {
	return &viajeService{repo: repo, flotaRepo: flotaRepo, pasajeRepo: pasajeRepo}
}

func (s *viajeService) Crear(ctx context.Context, req dto.CrearViajeRequest) (*dto.ViajeResponse, error) {
	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		return nil, fmt.Errorf("bus_id inválido: %w", err)
	}
	origenID, err := uuid.Parse(req.ParadaOrigenID)
	if err != nil {
		return nil, fmt.Errorf("parada_origen_id inválido: %w", err)
	}
	destinoID, err := uuid.Parse(req.ParadaDestinoID)
	if err != nil {
		return nil, fmt.Errorf("parada_destino_id inválido: %w", err)
	}
	if origenID == destinoID {
		return nil, errors.New("origen y destino no pueden ser la misma parada")
	}
	salida, err := time.Parse(time.RFC3339, req.FechaSalida)
	if err != nil {
		return nil, fmt.Errorf("fecha_salida inválida: %w", err)
	}

	bus, err := s.flotaRepo.FindBusByID(ctx, busID)
	if err != nil {
		return nil, errors.New("bus no encontrado")
	}
	if !bus.Activo {
		return nil, errors.New("el bus está inactivo y no puede programarse")
	}
	if _, err := s.flotaRepo.FindParadaByID(ctx, origenID); err != nil {
		return nil, errors.New("parada de origen no encontrada")
	}
	if _, err := s.flotaRepo.FindParadaByID(ctx, destinoID); err != nil {
		return nil, errors.New("parada de destino no encontrada")
	}

	viaje := &model.Viaje{
		BusID:           busID,
		ParadaOrigenID:  origenID,
		ParadaDestinoID: destinoID,
		FechaSalida:     salida,
		Estado:          "programado",
		ChoferNombre:    req.ChoferNombre,
		Bus:             bus,
	}
	if err := s.repo.Create(ctx, viaje); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, viaje)
}

func (s *viajeService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ViajeResponse, error) {
	viaje, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("viaje no encontrado")
	}
	return s.buildResponse(ctx, viaje)
}

func (s *viajeService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoViajeRequest) (*dto.ViajeResponse, error) {
	viaje, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("viaje no encontrado")
	}
	if viaje.Estado == "completado" || viaje.Estado == "cancelado" {
		return nil, fmt.Errorf("el viaje no admite cambios de estado (estado %s)", viaje.Estado)
	}

	viaje.Estado = req.Estado
	if err := s.repo.Update(ctx, viaje); err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, viaje)
}

func (s *viajeService) Listar(ctx context.Context, filter dto.ViajeFilter) (*dto.ViajeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	viajes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ViajeResponse, 0, len(viajes))
	for i := range viajes {
		resp, err := s.buildResponse(ctx, &viajes[i])
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}
	return &dto.ViajeListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// buildResponse derives the seat inventory: capacity comes from the bus,
// occupancy from pasajes in an active state.
func (s *viajeService) buildResponse(ctx context.Context, v *model.Viaje) (*dto.ViajeResponse, error) {
	ocupados, err := s.pasajeRepo.CountActivosByViaje(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ViajeResponse{
		ID:               v.ID.String(),
		FechaSalida:      v.FechaSalida.Format(time.RFC3339),
		Estado:           v.Estado,
		ChoferNombre:     v.ChoferNombre,
		AsientosOcupados: ocupados,
	}
	if v.Bus != nil {
		resp.Bus = v.Bus.Placa
		resp.CapacidadAsientos = v.Bus.CapacidadAsientos
		resp.AsientosDisponibles = int64(v.Bus.CapacidadAsientos) - ocupados
		if v.Bus.Empresa != nil {
			resp.Empresa = v.Bus.Empresa.Nombre
		}
	}
	if v.ParadaOrigen != nil {
		resp.Origen = v.ParadaOrigen.Nombre
	}
	if v.ParadaDestino != nil {
		resp.Destino = v.ParadaDestino.Nombre
	}

	pasajes, err := s.pasajeRepo.ListByViaje(ctx, v.ID)
	if err == nil {
		for i := range pasajes {
			if model.EstadoActivoPasaje(pasajes[i].Estado) {
				resp.AsientosVendidos = append(resp.AsientosVendidos, pasajes[i].NumeroAsiento)
			}
		}
	}
	return resp, nil
}
