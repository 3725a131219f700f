package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlotaService manages the fleet master data the scheduling flows depend on.
type FlotaService interface {
	CrearEmpresa(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error)
	ListarEmpresas(ctx context.Context) ([]dto.EmpresaResponse, error)
	CrearBus(ctx context.Context, req dto.CrearBusRequest) (*dto.BusResponse, error)
	ListarBuses(ctx context.Context) ([]dto.BusResponse, error)
	CrearParada(ctx context.Context, req dto.CrearParadaRequest) (*dto.ParadaResponse, error)
	ListarParadas(ctx context.Context) ([]dto.ParadaResponse, error)
}

type flotaService struct {
	repo repository.FlotaRepository
}

func NewFlotaService(repo repository.FlotaRepository) FlotaService {
	return &flotaService{repo: repo}
}

func (s *flotaService) CrearEmpresa(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error) {
	empresa := &model.Empresa{
		Nombre:    req.Nombre,
		RUC:       req.RUC,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	}
	if err := s.repo.CreateEmpresa(ctx, empresa); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("ya existe una empresa con ese RUC")
		}
		return nil, err
	}
	return empresaToResponse(empresa), nil
}

func (s *flotaService) ListarEmpresas(ctx context.Context) ([]dto.EmpresaResponse, error) {
	empresas, err := s.repo.ListEmpresas(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EmpresaResponse, 0, len(empresas))
	for i := range empresas {
		resp = append(resp, *empresaToResponse(&empresas[i]))
	}
	return resp, nil
}

func (s *flotaService) CrearBus(ctx context.Context, req dto.CrearBusRequest) (*dto.BusResponse, error) {
	empresaID, err := uuid.Parse(req.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("empresa_id inválido: %w", err)
	}
	empresa, err := s.repo.FindEmpresaByID(ctx, empresaID)
	if err != nil {
		return nil, errors.New("empresa no encontrada")
	}

	bus := &model.Bus{
		EmpresaID:         empresaID,
		Placa:             req.Placa,
		Modelo:            req.Modelo,
		CapacidadAsientos: req.CapacidadAsientos,
		Activo:            true,
		Empresa:           empresa,
	}
	if err := s.repo.CreateBus(ctx, bus); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("ya existe un bus con esa placa")
		}
		return nil, err
	}
	return busToResponse(bus), nil
}

func (s *flotaService) ListarBuses(ctx context.Context) ([]dto.BusResponse, error) {
	buses, err := s.repo.ListBuses(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BusResponse, 0, len(buses))
	for i := range buses {
		resp = append(resp, *busToResponse(&buses[i]))
	}
	return resp, nil
}

func (s *flotaService) CrearParada(ctx context.Context, req dto.CrearParadaRequest) (*dto.ParadaResponse, error) {
	parada := &model.Parada{
		Nombre:    req.Nombre,
		Ciudad:    req.Ciudad,
		Direccion: req.Direccion,
	}
	if err := s.repo.CreateParada(ctx, parada); err != nil {
		return nil, err
	}
	return paradaToResponse(parada), nil
}

func (s *flotaService) ListarParadas(ctx context.Context) ([]dto.ParadaResponse, error) {
	paradas, err := s.repo.ListParadas(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ParadaResponse, 0, len(paradas))
	for i := range paradas {
		resp = append(resp, *paradaToResponse(&paradas[i]))
	}
	return resp, nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func empresaToResponse(e *model.Empresa) *dto.EmpresaResponse {
	return &dto.EmpresaResponse{
		ID:        e.ID.String(),
		Nombre:    e.Nombre,
		RUC:       e.RUC,
		Telefono:  e.Telefono,
		Direccion: e.Direccion,
	}
}

func busToResponse(b *model.Bus) *dto.BusResponse {
	resp := &dto.BusResponse{
		ID:                b.ID.String(),
		Placa:             b.Placa,
		Modelo:            b.Modelo,
		CapacidadAsientos: b.CapacidadAsientos,
		Activo:            b.Activo,
	}
	if b.Empresa != nil {
		resp.Empresa = b.Empresa.Nombre
	}
	return resp
}

func paradaToResponse(p *model.Parada) *dto.ParadaResponse {
	return &dto.ParadaResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Ciudad:    p.Ciudad,
		Direccion: p.Direccion,
	}
}
