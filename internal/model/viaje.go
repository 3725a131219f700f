package model

import (
	"time"

	"github.com/google/uuid"
)

// Viaje is a scheduled bus departure. Seat inventory is derived, not stored:
// available = bus capacity minus pasajes in an active state.
// Estado: "programado" | "en_curso" | "completado" | "cancelado"
type Viaje struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusID           uuid.UUID `gorm:"type:uuid;not null;index"`
	ParadaOrigenID  uuid.UUID `gorm:"type:uuid;not null"`
	ParadaDestinoID uuid.UUID `gorm:"type:uuid;not null"`
	FechaSalida     time.Time `gorm:"not null;index"`
	Estado          string    `gorm:"type:varchar(20);not null;default:'programado'"`
	ChoferNombre    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Bus           *Bus    `gorm:"foreignKey:BusID"`
	ParadaOrigen  *Parada `gorm:"foreignKey:ParadaOrigenID"`
	ParadaDestino *Parada `gorm:"foreignKey:ParadaDestinoID"`
}
