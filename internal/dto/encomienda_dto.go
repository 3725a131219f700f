package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarEncomiendaRequest registers a parcel for carriage. Remitente and
// destinatario must already exist in the persona registry.
type RegistrarEncomiendaRequest struct {
	RemitenteCedula    int64            `json:"remitente_cedula"    validate:"required,min=1"`
	DestinatarioCedula int64            `json:"destinatario_cedula" validate:"required,min=1"`
	ViajeID            *string          `json:"viaje_id"            validate:"omitempty,uuid"`
	ParadaOrigenID     string           `json:"parada_origen_id"    validate:"required,uuid"`
	ParadaDestinoID    string           `json:"parada_destino_id"   validate:"required,uuid"`
	Tipo               string           `json:"tipo"                validate:"required,oneof=paquete documento valija carga"`
	Descripcion        *string          `json:"descripcion"`
	PesoKg             *decimal.Decimal `json:"peso_kg"             validate:"omitempty"`
	ValorDeclarado     *decimal.Decimal `json:"valor_declarado"     validate:"omitempty"`
	Precio             decimal.Decimal  `json:"precio"              validate:"required"`
}

type EntregarEncomiendaRequest struct {
	ReceptorNombre string `json:"receptor_nombre" validate:"required,min=3"`
	ReceptorCedula int64  `json:"receptor_cedula" validate:"required,min=1"`
}

// CambiarEstadoEncomiendaRequest moves the parcel along the carriage chain.
// "entregado" is excluded: delivery goes through the entrega endpoint, which
// captures receptor identity.
type CambiarEstadoEncomiendaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=registrado en_transito en_destino devuelto cancelado"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type EncomiendaFilter struct {
	Estado  string `form:"estado,default=all"`
	ViajeID string `form:"viaje_id" validate:"omitempty,uuid"`
	Fecha   string `form:"fecha"` // YYYY-MM-DD
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type EncomiendaListResponse struct {
	Data  []EncomiendaResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EncomiendaResponse struct {
	ID             string           `json:"id"`
	Codigo         string           `json:"codigo"`
	Remitente      string           `json:"remitente"`
	Destinatario   string           `json:"destinatario"`
	ViajeID        *string          `json:"viaje_id,omitempty"`
	Origen         string           `json:"origen,omitempty"`
	Destino        string           `json:"destino,omitempty"`
	Tipo           string           `json:"tipo"`
	Descripcion    *string          `json:"descripcion,omitempty"`
	PesoKg         *decimal.Decimal `json:"peso_kg,omitempty"`
	ValorDeclarado *decimal.Decimal `json:"valor_declarado,omitempty"`
	Precio         decimal.Decimal  `json:"precio"`
	Estado         string           `json:"estado"`
	ReceptorNombre *string          `json:"receptor_nombre,omitempty"`
	ReceptorCedula *int64           `json:"receptor_cedula,omitempty"`
	FechaEntrega   *string          `json:"fecha_entrega,omitempty"`
	CreatedAt      string           `json:"created_at"`
	// Advertencia carries non-fatal conditions, e.g. no open caja to post the
	// registration movement against.
	Advertencia string `json:"advertencia,omitempty"`
}

// TrackingResponse is the public view of a parcel: no personal data beyond
// first names, no amounts.
type TrackingResponse struct {
	Codigo        string  `json:"codigo"`
	Estado        string  `json:"estado"`
	Tipo          string  `json:"tipo"`
	Origen        string  `json:"origen"`
	Destino       string  `json:"destino"`
	FechaEntrega  *string `json:"fecha_entrega,omitempty"`
	ViajeEstado   *string `json:"viaje_estado,omitempty"`
	ActualizadoEn string  `json:"actualizado_en"`
}
