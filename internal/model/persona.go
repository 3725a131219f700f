package model

import (
	"time"

	"github.com/google/uuid"
)

// Persona is the shared registry for clients, passengers and parcel
// senders/receivers, keyed by cedula.
type Persona struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cedula    int64     `gorm:"uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Apellido  string
	Telefono  *string `gorm:"type:varchar(30)"`
	Email     *string
	Direccion *string
	// EsPasajero / EsCliente are soft flags set by the flow that first
	// registered the persona; a persona may be both.
	EsPasajero bool `gorm:"not null;default:false"`
	EsCliente  bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NombreCompleto joins nombre and apellido for display and invoicing.
func (p *Persona) NombreCompleto() string {
	if p.Apellido == "" {
		return p.Nombre
	}
	return p.Nombre + " " + p.Apellido
}
