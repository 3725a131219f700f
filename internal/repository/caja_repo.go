package repository

import (
	"context"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	CreateSesion(ctx context.Context, tx *gorm.DB, s *model.SesionCaja) error
	FindSesionAbierta(ctx context.Context, cajeroID uuid.UUID) (*model.SesionCaja, error)
	// FindSesionAbiertaForUpdate locks the cashier's open session row so a
	// movement insert cannot race a concurrent close.
	FindSesionAbiertaForUpdate(ctx context.Context, tx *gorm.DB, cajeroID uuid.UUID) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, tx *gorm.DB, s *model.SesionCaja) error
	CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error)
	// SumMovimientos aggregates SUM(monto) per tipo inside tx; close depends
	// on reading this under the session row lock.
	SumMovimientos(ctx context.Context, tx *gorm.DB, sesionID uuid.UUID) (ingresos, egresos decimal.Decimal, err error)
	SumMovimientosPorConcepto(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error)
	ListSesiones(ctx context.Context, filter dto.SesionFilter) ([]model.SesionCaja, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) CreateSesion(ctx context.Context, tx *gorm.DB, s *model.SesionCaja) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context, cajeroID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("cajero_id = ? AND estado = 'abierta'", cajeroID).
		First(&s).Error
	return &s, err
}

func (r *cajaRepo) FindSesionAbiertaForUpdate(ctx context.Context, tx *gorm.DB, cajeroID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cajero_id = ? AND estado = 'abierta'", cajeroID).
		First(&s).Error
	return &s, err
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Preload("Cajero").First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) FindSesionByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error
	return &s, err
}

func (r *cajaRepo) UpdateSesion(ctx context.Context, tx *gorm.DB, s *model.SesionCaja) error {
	return tx.WithContext(ctx).Save(s).Error
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) SumMovimientos(ctx context.Context, tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	type fila struct {
		Tipo  string
		Total decimal.Decimal
	}
	var filas []fila
	err := tx.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ?", sesionID).
		Group("tipo").
		Scan(&filas).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, f := range filas {
		switch f.Tipo {
		case "ingreso":
			ingresos = f.Total
		case "egreso":
			egresos = f.Total
		}
	}
	return ingresos, egresos, nil
}

func (r *cajaRepo) SumMovimientosPorConcepto(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	type fila struct {
		Concepto string
		Total    decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("concepto, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ?", sesionID).
		Group("concepto").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	totales := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		totales[f.Concepto] = f.Total
	}
	return totales, nil
}

func (r *cajaRepo) ListSesiones(ctx context.Context, filter dto.SesionFilter) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.SesionCaja{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.CajeroID != "" {
		q = q.Where("cajero_id = ?", filter.CajeroID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(opened_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Cajero").
		Order("opened_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sesiones).Error
	return sesiones, total, err
}
