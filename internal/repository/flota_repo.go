package repository

import (
	"context"

	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlotaRepository covers the fleet master data (empresas, buses, paradas).
// Low-churn configuration records, so one repository serves the three.
type FlotaRepository interface {
	CreateEmpresa(ctx context.Context, e *model.Empresa) error
	FindEmpresaByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error)
	ListEmpresas(ctx context.Context) ([]model.Empresa, error)

	CreateBus(ctx context.Context, b *model.Bus) error
	FindBusByID(ctx context.Context, id uuid.UUID) (*model.Bus, error)
	ListBuses(ctx context.Context) ([]model.Bus, error)

	CreateParada(ctx context.Context, p *model.Parada) error
	FindParadaByID(ctx context.Context, id uuid.UUID) (*model.Parada, error)
	ListParadas(ctx context.Context) ([]model.Parada, error)
}

type flotaRepo struct{ db *gorm.DB }

func NewFlotaRepository(db *gorm.DB) FlotaRepository { return &flotaRepo{db: db} }

func (r *flotaRepo) CreateEmpresa(ctx context.Context, e *model.Empresa) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *flotaRepo) FindEmpresaByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *flotaRepo) ListEmpresas(ctx context.Context) ([]model.Empresa, error) {
	var empresas []model.Empresa
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&empresas).Error
	return empresas, err
}

func (r *flotaRepo) CreateBus(ctx context.Context, b *model.Bus) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *flotaRepo) FindBusByID(ctx context.Context, id uuid.UUID) (*model.Bus, error) {
	var b model.Bus
	err := r.db.WithContext(ctx).Preload("Empresa").First(&b, id).Error
	return &b, err
}

func (r *flotaRepo) ListBuses(ctx context.Context) ([]model.Bus, error) {
	var buses []model.Bus
	err := r.db.WithContext(ctx).Preload("Empresa").Order("placa ASC").Find(&buses).Error
	return buses, err
}

func (r *flotaRepo) CreateParada(ctx context.Context, p *model.Parada) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *flotaRepo) FindParadaByID(ctx context.Context, id uuid.UUID) (*model.Parada, error) {
	var p model.Parada
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *flotaRepo) ListParadas(ctx context.Context) ([]model.Parada, error) {
	var paradas []model.Parada
	err := r.db.WithContext(ctx).Order("ciudad ASC, nombre ASC").Find(&paradas).Error
	return paradas, err
}
