package service

import "errors"

// Business-rule violations surfaced by the services. Handlers map them to
// HTTP status codes with errors.Is; raw storage errors never reach the edge.
var (
	// Timbrado / numeración fiscal
	ErrSinTimbrado       = errors.New("no hay timbrado activo configurado")
	ErrTimbradoNoVigente = errors.New("el timbrado no está vigente a la fecha")
	ErrSecuenciaAgotada  = errors.New("se agotaron los números de factura para este timbrado")

	// Facturación
	ErrFacturaVacia   = errors.New("la factura debe incluir al menos un pasaje o encomienda")
	ErrFacturaAnulada = errors.New("la factura ya está anulada")

	// Caja
	ErrCajaYaAbierta = errors.New("ya existe una sesión de caja abierta para este cajero")
	ErrCajaYaCerrada = errors.New("la sesión de caja ya está cerrada")
	ErrCajaNoAbierta = errors.New("no hay sesión de caja abierta")
	ErrSesionAjena   = errors.New("la sesión de caja pertenece a otro cajero")
	ErrMontoInvalido = errors.New("el monto debe ser mayor a cero")

	// Pasajes
	ErrAsientoOcupado  = errors.New("el asiento ya está ocupado para este viaje")
	ErrAsientoInvalido = errors.New("número de asiento fuera del rango del bus")

	// Personas
	ErrPersonaNoRegistrada = errors.New("persona no registrada")
)
