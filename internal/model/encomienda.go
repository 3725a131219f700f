package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Encomienda is a freight item handed over for carriage. Remitente and
// destinatario must already exist in the persona registry. Invoicing never
// cancels an encomienda: once in carriage the reversal is a manual process.
// Estado: "registrado" | "en_transito" | "en_destino" | "entregado" |
// "devuelto" | "cancelado"
// Tipo: "paquete" | "documento" | "valija" | "carga"
type Encomienda struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo          string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	RemitenteID     uuid.UUID  `gorm:"type:uuid;not null"`
	DestinatarioID  uuid.UUID  `gorm:"type:uuid;not null"`
	ViajeID         *uuid.UUID `gorm:"type:uuid;index"`
	ParadaOrigenID  uuid.UUID  `gorm:"type:uuid;not null"`
	ParadaDestinoID uuid.UUID  `gorm:"type:uuid;not null"`
	Tipo            string     `gorm:"type:varchar(15);not null"`
	Descripcion     *string
	PesoKg          *decimal.Decimal `gorm:"type:decimal(8,2);column:peso_kg"`
	ValorDeclarado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Precio          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Estado          string           `gorm:"type:varchar(20);not null;default:'registrado'"`
	// Receptor fields capture who physically received the item on delivery.
	ReceptorNombre *string
	ReceptorCedula *int64
	FechaEntrega   *time.Time
	RegistradorID  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Remitente     *Persona `gorm:"foreignKey:RemitenteID"`
	Destinatario  *Persona `gorm:"foreignKey:DestinatarioID"`
	Viaje         *Viaje   `gorm:"foreignKey:ViajeID"`
	ParadaOrigen  *Parada  `gorm:"foreignKey:ParadaOrigenID"`
	ParadaDestino *Parada  `gorm:"foreignKey:ParadaDestinoID"`
}
