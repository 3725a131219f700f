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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaService interface {
	Abrir(ctx context.Context, cajeroID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionResponse, error)
	Cerrar(ctx context.Context, cajeroID uuid.UUID, rol string, req dto.CerrarCajaRequest) (*dto.SesionResponse, error)
	RegistrarMovimiento(ctx context.Context, cajeroID uuid.UUID, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
	SesionActiva(ctx context.Context, cajeroID uuid.UUID) (*dto.SesionResponse, error)
	ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error)
	ListarSesiones(ctx context.Context, filter dto.SesionFilter) (*dto.SesionListResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// One open session per cajero. The lookup catches the common case; the partial
// unique index on (cajero_id) WHERE estado='abierta' catches the race.

func (s *cajaService) Abrir(ctx context.Context, cajeroID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionResponse, error) {
	if req.MontoInicial.IsNegative() {
		return nil, ErrMontoInvalido
	}
	if existing, err := s.repo.FindSesionAbierta(ctx, cajeroID); err == nil && existing != nil {
		return nil, ErrCajaYaAbierta
	}

	sesion := &model.SesionCaja{
		CajeroID:     cajeroID,
		MontoInicial: req.MontoInicial,
		Estado:       "abierta",
		OpenedAt:     time.Now(),
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateSesion(ctx, tx, sesion)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCajaYaAbierta
		}
		return nil, err
	}

	return sesionToResponse(sesion), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Blind count: the expected amount is computed only after the declared count
// arrives. The session row is locked so the sum cannot race a concurrent
// movement insert; the first close's numbers are final.

func (s *cajaService) Cerrar(ctx context.Context, cajeroID uuid.UUID, rol string, req dto.CerrarCajaRequest) (*dto.SesionResponse, error) {
	if req.MontoDeclarado.IsNegative() {
		return nil, ErrMontoInvalido
	}

	// Resolve the target session: explicit id, or the caller's open session.
	var sesionID uuid.UUID
	if req.SesionCajaID != "" {
		id, err := uuid.Parse(req.SesionCajaID)
		if err != nil {
			return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
		}
		sesionID = id
	} else {
		abierta, err := s.repo.FindSesionAbierta(ctx, cajeroID)
		if err != nil {
			return nil, ErrCajaNoAbierta
		}
		sesionID = abierta.ID
	}

	var sesion *model.SesionCaja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sesion, err = s.repo.FindSesionByIDForUpdate(ctx, tx, sesionID)
		if err != nil {
			return errors.New("sesión de caja no encontrada")
		}
		// Un cajero sólo cierra su propia sesión; supervisores y
		// administradores pueden cerrar la de cualquiera por id.
		if rol == "cajero" && sesion.CajeroID != cajeroID {
			return ErrSesionAjena
		}
		if sesion.Estado != "abierta" {
			return ErrCajaYaCerrada
		}

		ingresos, egresos, err := s.repo.SumMovimientos(ctx, tx, sesion.ID)
		if err != nil {
			return err
		}

		esperado := sesion.MontoInicial.Add(ingresos).Sub(egresos)
		declarado := req.MontoDeclarado
		desvio := declarado.Sub(esperado).Round(2)
		var desvioPct decimal.Decimal
		if !esperado.IsZero() {
			desvioPct = desvio.Div(esperado).Mul(decimal.NewFromInt(100)).Round(2)
		}
		clasificacion := clasificarDesvio(desvioPct)

		ahora := time.Now()
		sesion.MontoEsperado = &esperado
		sesion.MontoDeclarado = &declarado
		sesion.Desvio = &desvio
		sesion.DesvioPct = &desvioPct
		sesion.ClasificacionDesvio = &clasificacion
		sesion.Estado = "cerrada"
		sesion.Observaciones = req.Observaciones
		sesion.ClosedAt = &ahora

		return s.repo.UpdateSesion(ctx, tx, sesion)
	})
	if err != nil {
		return nil, err
	}

	return sesionToResponse(sesion), nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Appends to the ledger of the caller's open session. Movements are immutable:
// there is no update or delete path anywhere in the system.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, cajeroID uuid.UUID, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	var facturaID *uuid.UUID
	if req.FacturaID != nil && *req.FacturaID != "" {
		id, err := uuid.Parse(*req.FacturaID)
		if err != nil {
			return nil, fmt.Errorf("factura_id inválido: %w", err)
		}
		facturaID = &id
	}

	var mov *model.MovimientoCaja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sesion, err := s.repo.FindSesionAbiertaForUpdate(ctx, tx, cajeroID)
		if err != nil {
			return ErrCajaNoAbierta
		}
		mov = &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Tipo:         req.Tipo,
			Concepto:     req.Concepto,
			Monto:        req.Monto,
			Descripcion:  req.Descripcion,
			FacturaID:    facturaID,
		}
		return s.repo.CreateMovimiento(ctx, tx, mov)
	})
	if err != nil {
		return nil, err
	}

	return movimientoToResponse(mov), nil
}

// ── SesionActiva ──────────────────────────────────────────────────────────────

func (s *cajaService) SesionActiva(ctx context.Context, cajeroID uuid.UUID) (*dto.SesionResponse, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx, cajeroID)
	if err != nil {
		return nil, ErrCajaNoAbierta
	}
	return sesionToResponse(sesion), nil
}

// ── ObtenerReporte ────────────────────────────────────────────────────────────

func (s *cajaService) ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}

	movs, err := s.repo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	porConcepto, err := s.repo.SumMovimientosPorConcepto(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	ingresos, egresos := decimal.Zero, decimal.Zero
	movimientos := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		m := &movs[i]
		switch m.Tipo {
		case "ingreso":
			ingresos = ingresos.Add(m.Monto)
		case "egreso":
			egresos = egresos.Add(m.Monto)
		}
		movimientos = append(movimientos, *movimientoToResponse(m))
	}

	return &dto.ReporteCajaResponse{
		Sesion:              *sesionToResponse(sesion),
		TotalIngresos:       ingresos,
		TotalEgresos:        egresos,
		TotalesPorConcepto:  porConcepto,
		CantidadMovimientos: len(movs),
		Movimientos:         movimientos,
	}, nil
}

// ── ListarSesiones ────────────────────────────────────────────────────────────

func (s *cajaService) ListarSesiones(ctx context.Context, filter dto.SesionFilter) (*dto.SesionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sesiones, total, err := s.repo.ListSesiones(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SesionResponse, 0, len(sesiones))
	for i := range sesiones {
		data = append(data, *sesionToResponse(&sesiones[i]))
	}
	return &dto.SesionListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// clasificarDesvio returns "normal" | "advertencia" | "critico".
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5%. Advisory only;
// a variance is a business alert, never a rejected close.
func clasificarDesvio(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}

func sesionToResponse(s *model.SesionCaja) *dto.SesionResponse {
	resp := &dto.SesionResponse{
		ID:             s.ID.String(),
		CajeroID:       s.CajeroID.String(),
		MontoInicial:   s.MontoInicial,
		MontoEsperado:  s.MontoEsperado,
		MontoDeclarado: s.MontoDeclarado,
		Estado:         s.Estado,
		Observaciones:  s.Observaciones,
		OpenedAt:       s.OpenedAt.Format(time.RFC3339),
	}
	if s.Cajero != nil {
		resp.Cajero = s.Cajero.Nombre
	}
	if s.Desvio != nil && s.DesvioPct != nil && s.ClasificacionDesvio != nil {
		resp.Desvio = &dto.DesvioResponse{
			Monto:         *s.Desvio,
			Porcentaje:    *s.DesvioPct,
			Clasificacion: *s.ClasificacionDesvio,
		}
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

func movimientoToResponse(m *model.MovimientoCaja) *dto.MovimientoResponse {
	resp := &dto.MovimientoResponse{
		ID:          m.ID.String(),
		Tipo:        m.Tipo,
		Concepto:    m.Concepto,
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.FacturaID != nil {
		id := m.FacturaID.String()
		resp.FacturaID = &id
	}
	return resp
}
