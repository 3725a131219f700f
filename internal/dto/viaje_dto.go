package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearViajeRequest struct {
	BusID           string  `json:"bus_id"            validate:"required,uuid"`
	ParadaOrigenID  string  `json:"parada_origen_id"  validate:"required,uuid"`
	ParadaDestinoID string  `json:"parada_destino_id" validate:"required,uuid"`
	FechaSalida     string  `json:"fecha_salida"      validate:"required"` // RFC 3339
	ChoferNombre    *string `json:"chofer_nombre"`
}

type CambiarEstadoViajeRequest struct {
	Estado string `json:"estado" validate:"required,oneof=programado en_curso completado cancelado"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type ViajeFilter struct {
	Estado string `form:"estado,default=all"`
	Fecha  string `form:"fecha"` // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ViajeListResponse struct {
	Data  []ViajeResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ViajeResponse struct {
	ID           string  `json:"id"`
	Bus          string  `json:"bus"`
	Empresa      string  `json:"empresa,omitempty"`
	Origen       string  `json:"origen"`
	Destino      string  `json:"destino"`
	FechaSalida  string  `json:"fecha_salida"`
	Estado       string  `json:"estado"`
	ChoferNombre *string `json:"chofer_nombre,omitempty"`
	// Seat inventory is derived from bus capacity minus active pasajes.
	CapacidadAsientos   int   `json:"capacidad_asientos"`
	AsientosOcupados    int64 `json:"asientos_ocupados"`
	AsientosDisponibles int64 `json:"asientos_disponibles"`
	AsientosVendidos    []int `json:"asientos_vendidos,omitempty"`
}
