package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja represents a cashier's custody over a cash drawer, opened with a
// float and closed once against a blind count. A partial unique index (see
// infra schema patches) guarantees at most one open session per cajero.
// Estado: "abierta" | "cerrada"
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajeroID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoEsperado is computed once at close: MontoInicial + ingresos − egresos.
	MontoEsperado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DesvioPct      *decimal.Decimal `gorm:"type:decimal(5,2)"`
	// ClasificacionDesvio: "normal" | "advertencia" | "critico"
	ClasificacionDesvio *string `gorm:"type:varchar(20)"`
	Estado              string  `gorm:"type:varchar(20);not null;default:'abierta'"`
	Observaciones       *string
	OpenedAt            time.Time `gorm:"not null"`
	ClosedAt            *time.Time

	Cajero      *Usuario         `gorm:"foreignKey:CajeroID"`
	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja is an immutable entry in the cash ledger. Monto is always
// positive; Tipo carries the sign. Movements are NEVER modified or deleted;
// reversals create inverse entries.
// Tipo: "ingreso" | "egreso"
// Concepto: "venta_pasaje" | "venta_encomienda" | "anulacion" | "devolucion" |
// "gasto" | "retiro" | "deposito" | "otro"
type MovimientoCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo         string          `gorm:"type:varchar(10);not null"`
	Concepto     string          `gorm:"type:varchar(20);not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion  string          `gorm:"not null"`
	FacturaID    *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time

	Factura *Factura `gorm:"foreignKey:FacturaID"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
