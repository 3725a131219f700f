package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPersonaRequest struct {
	Cedula    int64   `json:"cedula"   validate:"required,min=1"`
	Nombre    string  `json:"nombre"   validate:"required,min=2"`
	Apellido  string  `json:"apellido"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"    validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ActualizarPersonaRequest struct {
	Nombre    *string `json:"nombre"   validate:"omitempty,min=2"`
	Apellido  *string `json:"apellido"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"    validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PersonaResponse struct {
	ID         string  `json:"id"`
	Cedula     int64   `json:"cedula"`
	Nombre     string  `json:"nombre"`
	Apellido   string  `json:"apellido,omitempty"`
	Telefono   *string `json:"telefono,omitempty"`
	Email      *string `json:"email,omitempty"`
	Direccion  *string `json:"direccion,omitempty"`
	EsPasajero bool    `json:"es_pasajero"`
	EsCliente  bool    `json:"es_cliente"`
}
