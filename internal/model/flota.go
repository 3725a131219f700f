package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is the operating company. Its RUC appears on every factura and
// in the fiscal QR payload.
type Empresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	RUC       string    `gorm:"type:varchar(20);uniqueIndex;not null;column:ruc"`
	Telefono  *string   `gorm:"type:varchar(30)"`
	Direccion *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bus belongs to an Empresa. CapacidadAsientos bounds the seat numbers a
// viaje can sell.
type Bus struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Placa             string    `gorm:"type:varchar(15);uniqueIndex;not null"`
	Modelo            *string
	CapacidadAsientos int  `gorm:"not null"`
	Activo            bool `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Empresa *Empresa `gorm:"foreignKey:EmpresaID"`
}

// Parada is a terminal or intermediate stop referenced by viajes, pasajes
// and encomiendas.
type Parada struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Ciudad    string    `gorm:"not null"`
	Direccion *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
