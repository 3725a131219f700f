package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Factura is a fiscal invoice. Prices are tax-inclusive: IVA5/IVA10 are
// extracted from the taxed subtotals (5/105 and 10/110), and Total is the
// sum of the three subtotals with no tax added on top.
// Estado: "emitida" | "anulada"
// Condicion: "contado" | "credito"
// Facturas are never deleted; anulación is a state transition.
type Factura struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TimbradoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_facturas_timbrado_numero"`
	NumeroFactura int64     `gorm:"not null;uniqueIndex:idx_facturas_timbrado_numero"`
	ClienteID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Condicion     string    `gorm:"type:varchar(10);not null;default:'contado'"`
	FechaEmision  time.Time `gorm:"not null"`
	Estado        string    `gorm:"type:varchar(10);not null;default:'emitida'"`
	// UsuarioID is the cashier who issued the invoice.
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	SesionCajaID *uuid.UUID `gorm:"type:uuid"`

	SubtotalExenta decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SubtotalIVA5   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:subtotal_iva5"`
	SubtotalIVA10  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:subtotal_iva10"`
	IVA5           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:iva5"`
	IVA10          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:iva10"`
	TotalIVA       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:total_iva"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	MotivoAnulacion *string
	FechaAnulacion  *time.Time

	// PDFPath is filled by the async worker once the printable PDF exists.
	PDFPath *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Timbrado *Timbrado        `gorm:"foreignKey:TimbradoID"`
	Cliente  *Persona         `gorm:"foreignKey:ClienteID"`
	Detalles []DetalleFactura `gorm:"foreignKey:FacturaID"`
}

// NumeroCompleto renders the printed invoice number, e.g. "001-001-0000123".
func (f *Factura) NumeroCompleto() string {
	punto := ""
	if f.Timbrado != nil {
		punto = f.Timbrado.PuntoExpedicion
	}
	return fmt.Sprintf("%s-%07d", punto, f.NumeroFactura)
}

// DetalleFactura is an invoice line. Created with its factura and immutable
// afterwards. At most one of PasajeID/EncomiendaID is set.
// TasaIVA: 0 | 5 | 10
type DetalleFactura struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:1"`
	Descripcion    string          `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TasaIVA        int             `gorm:"not null;default:0;column:tasa_iva"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PasajeID       *uuid.UUID      `gorm:"type:uuid"`
	EncomiendaID   *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time

	Pasaje     *Pasaje     `gorm:"foreignKey:PasajeID"`
	Encomienda *Encomienda `gorm:"foreignKey:EncomiendaID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (DetalleFactura) TableName() string { return "detalles_factura" }
