package service

import (
	"context"
	"errors"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PersonaService interface {
	Crear(ctx context.Context, req dto.CrearPersonaRequest) (*dto.PersonaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PersonaResponse, error)
	ObtenerPorCedula(ctx context.Context, cedula int64) (*dto.PersonaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPersonaRequest) (*dto.PersonaResponse, error)
	Buscar(ctx context.Context, query string) ([]dto.PersonaResponse, error)
}

type personaService struct {
	repo repository.PersonaRepository
}

func NewPersonaService(repo repository.PersonaRepository) PersonaService {
	return &personaService{repo: repo}
}

func (s *personaService) Crear(ctx context.Context, req dto.CrearPersonaRequest) (*dto.PersonaResponse, error) {
	persona := &model.Persona{
		Cedula:    req.Cedula,
		Nombre:    req.Nombre,
		Apellido:  req.Apellido,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		EsCliente: true,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, persona)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("ya existe una persona con esa cédula")
		}
		return nil, err
	}
	return personaToResponse(persona), nil
}

func (s *personaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PersonaResponse, error) {
	persona, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("persona no encontrada")
	}
	return personaToResponse(persona), nil
}

func (s *personaService) ObtenerPorCedula(ctx context.Context, cedula int64) (*dto.PersonaResponse, error) {
	persona, err := s.repo.FindByCedula(ctx, cedula)
	if err != nil {
		return nil, ErrPersonaNoRegistrada
	}
	return personaToResponse(persona), nil
}

func (s *personaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPersonaRequest) (*dto.PersonaResponse, error) {
	persona, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("persona no encontrada")
	}

	if req.Nombre != nil {
		persona.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		persona.Apellido = *req.Apellido
	}
	if req.Telefono != nil {
		persona.Telefono = req.Telefono
	}
	if req.Email != nil {
		persona.Email = req.Email
	}
	if req.Direccion != nil {
		persona.Direccion = req.Direccion
	}

	if err := s.repo.Update(ctx, persona); err != nil {
		return nil, err
	}
	return personaToResponse(persona), nil
}

func (s *personaService) Buscar(ctx context.Context, query string) ([]dto.PersonaResponse, error) {
	personas, err := s.repo.Search(ctx, query, 20)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PersonaResponse, 0, len(personas))
	for i := range personas {
		resp = append(resp, *personaToResponse(&personas[i]))
	}
	return resp, nil
}

func personaToResponse(p *model.Persona) *dto.PersonaResponse {
	return &dto.PersonaResponse{
		ID:         p.ID.String(),
		Cedula:     p.Cedula,
		Nombre:     p.Nombre,
		Apellido:   p.Apellido,
		Telefono:   p.Telefono,
		Email:      p.Email,
		Direccion:  p.Direccion,
		EsPasajero: p.EsPasajero,
		EsCliente:  p.EsCliente,
	}
}
