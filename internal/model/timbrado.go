package model

import (
	"time"

	"github.com/google/uuid"
)

// Timbrado is a fiscal license issued by the SET: it authorizes invoice
// numbers in [NumeroDesde, NumeroHasta] while today falls inside
// [FechaInicio, FechaFin]. The range is static configuration: allocation
// never mutates the record; only Activo is ever toggled.
type Timbrado struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Numero      string    `gorm:"type:varchar(20);not null"`
	FechaInicio time.Time `gorm:"type:date;not null"`
	FechaFin    time.Time `gorm:"type:date;not null"`
	NumeroDesde int64     `gorm:"not null"`
	NumeroHasta int64     `gorm:"not null"`
	// PuntoExpedicion prefixes the printed invoice number, e.g. "001-001".
	PuntoExpedicion string `gorm:"type:varchar(10);not null"`
	Activo          bool   `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Empresa *Empresa `gorm:"foreignKey:EmpresaID"`
}

// Vigente reports whether the license may issue numbers on the given date.
// The window is compared on calendar days in hoy's zone: FechaInicio/FechaFin
// are stored as UTC midnights, so truncating the instant itself would shift
// the boundary by the zone offset near midnight.
func (t *Timbrado) Vigente(hoy time.Time) bool {
	y, m, d := hoy.Date()
	dia := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return t.Activo && !dia.Before(t.FechaInicio) && !dia.After(t.FechaFin)
}
