package repository

import (
	"context"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EncomiendaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.Encomienda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Encomienda, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Encomienda, error)
	Update(ctx context.Context, tx *gorm.DB, e *model.Encomienda) error
	List(ctx context.Context, filter dto.EncomiendaFilter) ([]model.Encomienda, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type encomiendaRepo struct{ db *gorm.DB }

func NewEncomiendaRepository(db *gorm.DB) EncomiendaRepository { return &encomiendaRepo{db: db} }

func (r *encomiendaRepo) DB() *gorm.DB { return r.db }

func (r *encomiendaRepo) Create(ctx context.Context, tx *gorm.DB, e *model.Encomienda) error {
	return tx.WithContext(ctx).Create(e).Error
}

func (r *encomiendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Encomienda, error) {
	var e model.Encomienda
	err := r.db.WithContext(ctx).
		Preload("Remitente").
		Preload("Destinatario").
		Preload("Viaje").
		Preload("ParadaOrigen").
		Preload("ParadaDestino").
		First(&e, id).Error
	return &e, err
}

func (r *encomiendaRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Encomienda, error) {
	var e model.Encomienda
	err := r.db.WithContext(ctx).
		Preload("Remitente").
		Preload("Destinatario").
		Preload("Viaje").
		Preload("ParadaOrigen").
		Preload("ParadaDestino").
		Where("codigo = ?", codigo).
		First(&e).Error
	return &e, err
}

func (r *encomiendaRepo) Update(ctx context.Context, tx *gorm.DB, e *model.Encomienda) error {
	return tx.WithContext(ctx).Save(e).Error
}

func (r *encomiendaRepo) List(ctx context.Context, filter dto.EncomiendaFilter) ([]model.Encomienda, int64, error) {
	var encomiendas []model.Encomienda
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Encomienda{})

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

	err := q.Preload("Remitente").Preload("Destinatario").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&encomiendas).Error
	return encomiendas, total, err
}
