package repository

import (
	"context"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PasajeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pasaje) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pasaje, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Pasaje, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Pasaje) error
	ListByViaje(ctx context.Context, viajeID uuid.UUID) ([]model.Pasaje, error)
	// CountActivosByViaje counts seats held in active states (reservado,
	// vendido, abordado) for availability computation.
	CountActivosByViaje(ctx context.Context, viajeID uuid.UUID) (int64, error)
	// FindActivoByAsiento returns the pasaje holding the seat, if any. The
	// partial unique index remains the authority under concurrency.
	FindActivoByAsiento(ctx context.Context, tx *gorm.DB, viajeID uuid.UUID, numeroAsiento int) (*model.Pasaje, error)
	List(ctx context.Context, filter dto.PasajeFilter) ([]model.Pasaje, int64, error)
	// ListReservasVencidas returns reservas whose expira_en is in the past,
	// capped at limit, for the expiry sweep.
	ListReservasVencidas(ctx context.Context, corte time.Time, limit int) ([]model.Pasaje, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type pasajeRepo struct{ db *gorm.DB }

func NewPasajeRepository(db *gorm.DB) PasajeRepository { return &pasajeRepo{db: db} }

func (r *pasajeRepo) DB() *gorm.DB { return r.db }

func (r *pasajeRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pasaje) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pasajeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pasaje, error) {
	var p model.Pasaje
	err := r.db.WithContext(ctx).
		Preload("Viaje.Bus").
		Preload("Pasajero").
		Preload("ParadaOrigen").
		Preload("ParadaDestino").
		First(&p, id).Error
	return &p, err
}

func (r *pasajeRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Pasaje, error) {
	var p model.Pasaje
	err := r.db.WithContext(ctx).
		Preload("Viaje").
		Preload("Pasajero").
		Where("codigo = ?", codigo).
		First(&p).Error
	return &p, err
}

func (r *pasajeRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Pasaje) error {
	return tx.WithContext(ctx).Save(p).Error
}

func (r *pasajeRepo) ListByViaje(ctx context.Context, viajeID uuid.UUID) ([]model.Pasaje, error) {
	var pasajes []model.Pasaje
	err := r.db.WithContext(ctx).
		Preload("Pasajero").
		Where("viaje_id = ?", viajeID).
		Order("numero_asiento ASC").
		Find(&pasajes).Error
	return pasajes, err
}

func (r *pasajeRepo) CountActivosByViaje(ctx context.Context, viajeID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pasaje{}).
		Where("viaje_id = ? AND estado IN ('reservado', 'vendido', 'abordado')", viajeID).
		Count(&n).Error
	return n, err
}

func (r *pasajeRepo) FindActivoByAsiento(ctx context.Context, tx *gorm.DB, viajeID uuid.UUID, numeroAsiento int) (*model.Pasaje, error) {
	var p model.Pasaje
	err := tx.WithContext(ctx).
		Where("viaje_id = ? AND numero_asiento = ? AND estado IN ('reservado', 'vendido', 'abordado')", viajeID, numeroAsiento).
		First(&p).Error
	return &p, err
}

func (r *pasajeRepo) List(ctx context.Context, filter dto.PasajeFilter) ([]model.Pasaje, int64, error) {
	var pasajes []model.Pasaje
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pasaje{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ViajeID != "" {
		q = q.Where("viaje_id = ?", filter.ViajeID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Viaje").Preload("Pasajero").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pasajes).Error
	return pasajes, total, err
}

func (r *pasajeRepo) ListReservasVencidas(ctx context.Context, corte time.Time, limit int) ([]model.Pasaje, error) {
	var pasajes []model.Pasaje
	err := r.db.WithContext(ctx).
		Where("estado = 'reservado' AND expira_en IS NOT NULL AND expira_en < ?", corte).
		Limit(limit).
		Find(&pasajes).Error
	return pasajes, err
}
