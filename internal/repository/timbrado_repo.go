package repository

import (
	"context"

	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TimbradoRepository interface {
	Create(ctx context.Context, t *model.Timbrado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Timbrado, error)
	// FindActivo returns the newest active timbrado without locking it.
	// Informational reads only; allocation must go through FindActivoForUpdate.
	FindActivo(ctx context.Context) (*model.Timbrado, error)
	// FindActivoForUpdate locks the newest active timbrado row (SELECT ... FOR
	// UPDATE) inside tx, serializing concurrent number allocations.
	FindActivoForUpdate(ctx context.Context, tx *gorm.DB) (*model.Timbrado, error)
	// MaxNumeroFactura returns the highest number already allocated for the
	// timbrado, or 0 when it has no facturas yet.
	MaxNumeroFactura(ctx context.Context, tx *gorm.DB, timbradoID uuid.UUID) (int64, error)
	List(ctx context.Context) ([]model.Timbrado, error)
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type timbradoRepo struct{ db *gorm.DB }

func NewTimbradoRepository(db *gorm.DB) TimbradoRepository { return &timbradoRepo{db: db} }

func (r *timbradoRepo) DB() *gorm.DB { return r.db }

func (r *timbradoRepo) Create(ctx context.Context, t *model.Timbrado) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *timbradoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Timbrado, error) {
	var t model.Timbrado
	err := r.db.WithContext(ctx).Preload("Empresa").First(&t, id).Error
	return &t, err
}

func (r *timbradoRepo) FindActivo(ctx context.Context) (*model.Timbrado, error) {
	var t model.Timbrado
	err := r.db.WithContext(ctx).Preload("Empresa").
		Where("activo = true").
		Order("fecha_inicio DESC").
		First(&t).Error
	return &t, err
}

func (r *timbradoRepo) FindActivoForUpdate(ctx context.Context, tx *gorm.DB) (*model.Timbrado, error) {
	var t model.Timbrado
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("activo = true").
		Order("fecha_inicio DESC").
		First(&t).Error
	return &t, err
}

func (r *timbradoRepo) MaxNumeroFactura(ctx context.Context, tx *gorm.DB, timbradoID uuid.UUID) (int64, error) {
	var ultimo int64
	err := tx.WithContext(ctx).Model(&model.Factura{}).
		Where("timbrado_id = ?", timbradoID).
		Select("COALESCE(MAX(numero_factura), 0)").
		Scan(&ultimo).Error
	return ultimo, err
}

func (r *timbradoRepo) List(ctx context.Context) ([]model.Timbrado, error) {
	var timbrados []model.Timbrado
	err := r.db.WithContext(ctx).Preload("Empresa").Order("fecha_inicio DESC").Find(&timbrados).Error
	return timbrados, err
}

func (r *timbradoRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Timbrado{}).Where("id = ?", id).Update("activo", activo).Error
}
