package repository

import (
	"context"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ViajeRepository interface {
	Create(ctx context.Context, v *model.Viaje) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Viaje, error)
	Update(ctx context.Context, v *model.Viaje) error
	List(ctx context.Context, filter dto.ViajeFilter) ([]model.Viaje, int64, error)
}

type viajeRepo struct{ db *gorm.DB }

func NewViajeRepository(db *gorm.DB) ViajeRepository { return &viajeRepo{db: db} }

func (r *viajeRepo) Create(ctx context.Context, v *model.Viaje) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *viajeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Viaje, error) {
	var v model.Viaje
	err := r.db.WithContext(ctx).
		Preload("Bus.Empresa").
		Preload("ParadaOrigen").
		Preload("ParadaDestino").
		First(&v, id).Error
	return &v, err
}

func (r *viajeRepo) Update(ctx context.Context, v *model.Viaje) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *viajeRepo) List(ctx context.Context, filter dto.ViajeFilter) ([]model.Viaje, int64, error) {
	var viajes []model.Viaje
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Viaje{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha_salida) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Bus").Preload("ParadaOrigen").Preload("ParadaDestino").
		Order("fecha_salida ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&viajes).Error
	return viajes, total, err
}
