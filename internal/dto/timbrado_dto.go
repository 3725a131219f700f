package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearTimbradoRequest struct {
	EmpresaID       string `json:"empresa_id"       validate:"required,uuid"`
	Numero          string `json:"numero"           validate:"required,min=3"`
	FechaInicio     string `json:"fecha_inicio"     validate:"required"` // YYYY-MM-DD
	FechaFin        string `json:"fecha_fin"        validate:"required"` // YYYY-MM-DD
	NumeroDesde     int64  `json:"numero_desde"     validate:"required,min=1"`
	NumeroHasta     int64  `json:"numero_hasta"     validate:"required,min=1"`
	PuntoExpedicion string `json:"punto_expedicion" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TimbradoResponse struct {
	ID              string `json:"id"`
	Empresa         string `json:"empresa,omitempty"`
	Numero          string `json:"numero"`
	FechaInicio     string `json:"fecha_inicio"`
	FechaFin        string `json:"fecha_fin"`
	NumeroDesde     int64  `json:"numero_desde"`
	NumeroHasta     int64  `json:"numero_hasta"`
	PuntoExpedicion string `json:"punto_expedicion"`
	Activo          bool   `json:"activo"`
	Vigente         bool   `json:"vigente"`
}
