package repository

import (
	"context"

	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PersonaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Persona) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Persona, error)
	FindByCedula(ctx context.Context, cedula int64) (*model.Persona, error)
	Update(ctx context.Context, p *model.Persona) error
	Search(ctx context.Context, query string, limit int) ([]model.Persona, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type personaRepo struct{ db *gorm.DB }

func NewPersonaRepository(db *gorm.DB) PersonaRepository { return &personaRepo{db: db} }

func (r *personaRepo) DB() *gorm.DB { return r.db }

func (r *personaRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Persona) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *personaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Persona, error) {
	var p model.Persona
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *personaRepo) FindByCedula(ctx context.Context, cedula int64) (*model.Persona, error) {
	var p model.Persona
	err := r.db.WithContext(ctx).Where("cedula = ?", cedula).First(&p).Error
	return &p, err
}

func (r *personaRepo) Update(ctx context.Context, p *model.Persona) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personaRepo) Search(ctx context.Context, query string, limit int) ([]model.Persona, error) {
	var personas []model.Persona
	q := r.db.WithContext(ctx).Model(&model.Persona{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("nombre ILIKE ? OR apellido ILIKE ? OR CAST(cedula AS TEXT) LIKE ?", like, like, like)
	}
	err := q.Order("apellido ASC, nombre ASC").Limit(limit).Find(&personas).Error
	return personas, err
}
