package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pasaje is a seat on a viaje. Seat uniqueness is enforced by a partial
// unique index on (viaje_id, numero_asiento) over active states, so a
// cancelled or no-show seat can be resold.
// Estado: "reservado" | "vendido" | "abordado" | "cancelado" | "no_show"
type Pasaje struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo          string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	ViajeID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PasajeroID      uuid.UUID       `gorm:"type:uuid;not null"`
	ParadaOrigenID  uuid.UUID       `gorm:"type:uuid;not null"`
	ParadaDestinoID uuid.UUID       `gorm:"type:uuid;not null"`
	NumeroAsiento   int             `gorm:"not null"`
	Precio          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'reservado'"`
	VendedorID      *uuid.UUID      `gorm:"type:uuid"`
	FechaVenta      *time.Time
	// ExpiraEn bounds a reserva; the background sweep cancels it past this.
	ExpiraEn          *time.Time
	FechaCancelacion  *time.Time
	MotivoCancelacion *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Viaje         *Viaje   `gorm:"foreignKey:ViajeID"`
	Pasajero      *Persona `gorm:"foreignKey:PasajeroID"`
	ParadaOrigen  *Parada  `gorm:"foreignKey:ParadaOrigenID"`
	ParadaDestino *Parada  `gorm:"foreignKey:ParadaDestinoID"`
}

// EstadoActivoPasaje reports whether the estado holds a seat.
func EstadoActivoPasaje(estado string) bool {
	switch estado {
	case "reservado", "vendido", "abordado":
		return true
	}
	return false
}
