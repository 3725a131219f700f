package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEmpresaRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2"`
	RUC       string  `json:"ruc"       validate:"required,min=3"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}

type CrearBusRequest struct {
	EmpresaID         string  `json:"empresa_id"         validate:"required,uuid"`
	Placa             string  `json:"placa"              validate:"required,min=3"`
	Modelo            *string `json:"modelo"`
	CapacidadAsientos int     `json:"capacidad_asientos" validate:"required,min=1,max=90"`
}

type CrearParadaRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2"`
	Ciudad    string  `json:"ciudad"    validate:"required,min=2"`
	Direccion *string `json:"direccion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmpresaResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	RUC       string  `json:"ruc"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
}

type BusResponse struct {
	ID                string  `json:"id"`
	Empresa           string  `json:"empresa,omitempty"`
	Placa             string  `json:"placa"`
	Modelo            *string `json:"modelo,omitempty"`
	CapacidadAsientos int     `json:"capacidad_asientos"`
	Activo            bool    `json:"activo"`
}

type ParadaResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Ciudad    string  `json:"ciudad"`
	Direccion *string `json:"direccion,omitempty"`
}
