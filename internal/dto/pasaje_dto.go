package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// VenderPasajeRequest sells a seat directly (estado vendido). The pasajero is
// looked up by cedula and created on the fly when unknown.
type VenderPasajeRequest struct {
	ViajeID          string          `json:"viaje_id"          validate:"required,uuid"`
	ParadaOrigenID   string          `json:"parada_origen_id"  validate:"required,uuid"`
	ParadaDestinoID  string          `json:"parada_destino_id" validate:"required,uuid"`
	NumeroAsiento    int             `json:"numero_asiento"    validate:"required,min=1"`
	Precio           decimal.Decimal `json:"precio"            validate:"required"`
	PasajeroCedula   int64           `json:"pasajero_cedula"   validate:"required,min=1"`
	PasajeroNombre   string          `json:"pasajero_nombre"`
	PasajeroApellido string          `json:"pasajero_apellido"`
	PasajeroTelefono string          `json:"pasajero_telefono"`
}

// ReservarPasajeRequest holds a seat without payment; the reserva expires and
// is swept back to cancelado if never confirmed.
type ReservarPasajeRequest struct {
	ViajeID          string          `json:"viaje_id"          validate:"required,uuid"`
	ParadaOrigenID   string          `json:"parada_origen_id"  validate:"required,uuid"`
	ParadaDestinoID  string          `json:"parada_destino_id" validate:"required,uuid"`
	NumeroAsiento    int             `json:"numero_asiento"    validate:"required,min=1"`
	Precio           decimal.Decimal `json:"precio"            validate:"required"`
	PasajeroCedula   int64           `json:"pasajero_cedula"   validate:"required,min=1"`
	PasajeroNombre   string          `json:"pasajero_nombre"`
	PasajeroApellido string          `json:"pasajero_apellido"`
	PasajeroTelefono string          `json:"pasajero_telefono"`
}

type CancelarPasajeRequest struct {
	Motivo         string `json:"motivo" validate:"required,min=5"`
	DevolverDinero bool   `json:"devolver_dinero"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type PasajeFilter struct {
	Estado  string `form:"estado,default=all"`
	ViajeID string `form:"viaje_id" validate:"omitempty,uuid"`
	Fecha   string `form:"fecha"` // YYYY-MM-DD
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PasajeListResponse struct {
	Data  []PasajeResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PasajeResponse struct {
	ID             string          `json:"id"`
	Codigo         string          `json:"codigo"`
	ViajeID        string          `json:"viaje_id"`
	Pasajero       string          `json:"pasajero"`
	PasajeroCedula int64           `json:"pasajero_cedula"`
	Origen         string          `json:"origen,omitempty"`
	Destino        string          `json:"destino,omitempty"`
	NumeroAsiento  int             `json:"numero_asiento"`
	Precio         decimal.Decimal `json:"precio"`
	Estado         string          `json:"estado"`
	FechaVenta     *string         `json:"fecha_venta,omitempty"`
	ExpiraEn       *string         `json:"expira_en,omitempty"`
	// Advertencia carries non-fatal conditions, e.g. no open caja to post the
	// sale movement against.
	Advertencia string `json:"advertencia,omitempty"`
}
