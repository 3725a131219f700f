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

type TimbradoService interface {
	Crear(ctx context.Context, req dto.CrearTimbradoRequest) (*dto.TimbradoResponse, error)
	Listar(ctx context.Context) ([]dto.TimbradoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TimbradoResponse, error)
	Activar(ctx context.Context, id uuid.UUID) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	// ProximoNumero previews the next number without allocating it. Two
	// consecutive calls may return the same value; only facturación consumes.
	ProximoNumero(ctx context.Context) (*dto.ProximoNumeroResponse, error)
	// SiguienteNumero allocates the next invoice number inside the caller's
	// transaction, holding a row lock on the timbrado until commit. If the
	// transaction rolls back the number is released.
	SiguienteNumero(ctx context.Context, tx *gorm.DB, hoy time.Time) (*model.Timbrado, int64, error)
}

type timbradoService struct {
	repo repository.TimbradoRepository
}

func NewTimbradoService(repo repository.TimbradoRepository) TimbradoService {
	return &timbradoService{repo: repo}
}

// ── SiguienteNumero ───────────────────────────────────────────────────────────
// The sequence lives in the facturas already issued: next = MAX(numero)+1,
// or NumeroDesde for a fresh timbrado. The FOR UPDATE on the timbrado row
// serializes concurrent allocations; the unique index on
// (timbrado_id, numero_factura) is the backstop.

func (s *timbradoService) SiguienteNumero(ctx context.Context, tx *gorm.DB, hoy time.Time) (*model.Timbrado, int64, error) {
	timbrado, err := s.repo.FindActivoForUpdate(ctx, tx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrSinTimbrado
		}
		return nil, 0, err
	}
	if !timbrado.Vigente(hoy) {
		return nil, 0, ErrTimbradoNoVigente
	}

	ultimo, err := s.repo.MaxNumeroFactura(ctx, tx, timbrado.ID)
	if err != nil {
		return nil, 0, err
	}
	siguiente := timbrado.NumeroDesde
	if ultimo >= timbrado.NumeroDesde {
		siguiente = ultimo + 1
	}
	if siguiente > timbrado.NumeroHasta {
		return nil, 0, ErrSecuenciaAgotada
	}
	return timbrado, siguiente, nil
}

// ── ProximoNumero ─────────────────────────────────────────────────────────────

func (s *timbradoService) ProximoNumero(ctx context.Context) (*dto.ProximoNumeroResponse, error) {
	timbrado, err := s.repo.FindActivo(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinTimbrado
		}
		return nil, err
	}
	if !timbrado.Vigente(time.Now()) {
		return nil, ErrTimbradoNoVigente
	}

	ultimo, err := s.repo.MaxNumeroFactura(ctx, s.repo.DB(), timbrado.ID)
	if err != nil {
		return nil, err
	}
	siguiente := timbrado.NumeroDesde
	if ultimo >= timbrado.NumeroDesde {
		siguiente = ultimo + 1
	}
	if siguiente > timbrado.NumeroHasta {
		return nil, ErrSecuenciaAgotada
	}

	return &dto.ProximoNumeroResponse{
		Timbrado:        timbrado.Numero,
		PuntoExpedicion: timbrado.PuntoExpedicion,
		ProximoNumero:   siguiente,
		NumeroCompleto:  fmt.Sprintf("%s-%07d", timbrado.PuntoExpedicion, siguiente),
		Disponibles:     timbrado.NumeroHasta - siguiente + 1,
	}, nil
}

// ── CRUD ──────────────────────────────────────────────────────────────────────

func (s *timbradoService) Crear(ctx context.Context, req dto.CrearTimbradoRequest) (*dto.TimbradoResponse, error) {
	empresaID, err := uuid.Parse(req.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("empresa_id inválido: %w", err)
	}
	inicio, err := time.Parse("2006-01-02", req.FechaInicio)
	if err != nil {
		return nil, fmt.Errorf("fecha_inicio inválida: %w", err)
	}
	fin, err := time.Parse("2006-01-02", req.FechaFin)
	if err != nil {
		return nil, fmt.Errorf("fecha_fin inválida: %w", err)
	}
	if fin.Before(inicio) {
		return nil, errors.New("fecha_fin debe ser posterior a fecha_inicio")
	}
	if req.NumeroHasta < req.NumeroDesde {
		return nil, errors.New("numero_hasta debe ser mayor o igual a numero_desde")
	}

	timbrado := &model.Timbrado{
		EmpresaID:       empresaID,
		Numero:          req.Numero,
		FechaInicio:     inicio,
		FechaFin:        fin,
		NumeroDesde:     req.NumeroDesde,
		NumeroHasta:     req.NumeroHasta,
		PuntoExpedicion: req.PuntoExpedicion,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, timbrado); err != nil {
		return nil, err
	}
	return timbradoToResponse(timbrado), nil
}

func (s *timbradoService) Listar(ctx context.Context) ([]dto.TimbradoResponse, error) {
	timbrados, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TimbradoResponse, 0, len(timbrados))
	for i := range timbrados {
		resp = append(resp, *timbradoToResponse(&timbrados[i]))
	}
	return resp, nil
}

func (s *timbradoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TimbradoResponse, error) {
	timbrado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("timbrado no encontrado")
	}
	return timbradoToResponse(timbrado), nil
}

func (s *timbradoService) Activar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActivo(ctx, id, true)
}

func (s *timbradoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActivo(ctx, id, false)
}

// ── Mapper ────────────────────────────────────────────────────────────────────

func timbradoToResponse(t *model.Timbrado) *dto.TimbradoResponse {
	resp := &dto.TimbradoResponse{
		ID:              t.ID.String(),
		Numero:          t.Numero,
		FechaInicio:     t.FechaInicio.Format("2006-01-02"),
		FechaFin:        t.FechaFin.Format("2006-01-02"),
		NumeroDesde:     t.NumeroDesde,
		NumeroHasta:     t.NumeroHasta,
		PuntoExpedicion: t.PuntoExpedicion,
		Activo:          t.Activo,
		Vigente:         t.Vigente(time.Now()),
	}
	if t.Empresa != nil {
		resp.Empresa = t.Empresa.Nombre
	}
	return resp
}
