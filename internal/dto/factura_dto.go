package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearFacturaRequest struct {
	ClienteID string `json:"cliente_id" validate:"required,uuid"`
	Condicion string `json:"condicion"  validate:"required,oneof=contado credito"`
	// At least one of the two sets must be non-empty.
	PasajeIDs     []string `json:"pasaje_ids"     validate:"omitempty,dive,uuid"`
	EncomiendaIDs []string `json:"encomienda_ids" validate:"omitempty,dive,uuid"`
	// TasaIVAPasajes applies to every pasaje line; fares are exempt by default.
	// Encomienda lines are always taxed at 10.
	TasaIVAPasajes int `json:"tasa_iva_pasajes" validate:"oneof=0 5 10"`
}

type AnularFacturaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
	// RevertirCaja: nil defaults to true.
	RevertirCaja *bool `json:"revertir_caja"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type FacturaFilter struct {
	Estado    string `form:"estado,default=all"` // emitida | anulada | all
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	Fecha     string `form:"fecha"` // YYYY-MM-DD
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleFacturaResponse struct {
	Cantidad       decimal.Decimal `json:"cantidad"`
	Descripcion    string          `json:"descripcion"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	TasaIVA        int             `json:"tasa_iva"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	PasajeID       *string         `json:"pasaje_id,omitempty"`
	EncomiendaID   *string         `json:"encomienda_id,omitempty"`
}

type FacturaResponse struct {
	ID              string                   `json:"id"`
	NumeroCompleto  string                   `json:"numero_completo"`
	NumeroFactura   int64                    `json:"numero_factura"`
	Timbrado        string                   `json:"timbrado"`
	Cliente         string                   `json:"cliente"`
	ClienteCedula   int64                    `json:"cliente_cedula"`
	Condicion       string                   `json:"condicion"`
	Estado          string                   `json:"estado"`
	FechaEmision    string                   `json:"fecha_emision"`
	Detalles        []DetalleFacturaResponse `json:"detalles"`
	SubtotalExenta  decimal.Decimal          `json:"subtotal_exenta"`
	SubtotalIVA5    decimal.Decimal          `json:"subtotal_iva5"`
	SubtotalIVA10   decimal.Decimal          `json:"subtotal_iva10"`
	IVA5            decimal.Decimal          `json:"iva5"`
	IVA10           decimal.Decimal          `json:"iva10"`
	TotalIVA        decimal.Decimal          `json:"total_iva"`
	Total           decimal.Decimal          `json:"total"`
	TotalEnLetras   string                   `json:"total_en_letras"`
	MotivoAnulacion *string                  `json:"motivo_anulacion,omitempty"`
	FechaAnulacion  *string                  `json:"fecha_anulacion,omitempty"`
	// Advertencia carries non-fatal conditions, e.g. a void with no open
	// session to post the reversal against.
	Advertencia string `json:"advertencia,omitempty"`
}

type ProximoNumeroResponse struct {
	Timbrado        string `json:"timbrado"`
	PuntoExpedicion string `json:"punto_expedicion"`
	ProximoNumero   int64  `json:"proximo_numero"`
	NumeroCompleto  string `json:"numero_completo"`
	Disponibles     int64  `json:"disponibles"`
}
