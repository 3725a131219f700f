package repository

import (
	"context"

	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FacturaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	CreateDetalle(ctx context.Context, tx *gorm.DB, d *model.DetalleFactura) error
	Update(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	// UpdatePDFPath runs outside any transaction; the async worker calls it
	// after rendering the printable PDF.
	UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	// FindByIDForUpdate locks the factura row for the void transition.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	return tx.WithContext(ctx).Create(f).Error
}

func (r *facturaRepo) CreateDetalle(ctx context.Context, tx *gorm.DB, d *model.DetalleFactura) error {
	return tx.WithContext(ctx).Create(d).Error
}

func (r *facturaRepo) Update(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	return tx.WithContext(ctx).Save(f).Error
}

func (r *facturaRepo) UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("id = ?", id).
		Update("pdf_path", path).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Timbrado.Empresa").
		Preload("Cliente").
		Preload("Detalles.Pasaje.ParadaOrigen").
		Preload("Detalles.Pasaje.ParadaDestino").
		Preload("Detalles.Encomienda").
		First(&f, id).Error
	return &f, err
}

func (r *facturaRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, id).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Factura{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha_emision) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Timbrado").Preload("Cliente").Preload("Detalles").
		Order("fecha_emision DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&facturas).Error
	return facturas, total, err
}
