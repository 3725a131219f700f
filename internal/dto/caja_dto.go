package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type CerrarCajaRequest struct {
	// SesionCajaID is optional: empty closes the caller's open session.
	SesionCajaID   string          `json:"sesion_caja_id"  validate:"omitempty,uuid"`
	MontoDeclarado decimal.Decimal `json:"monto_declarado" validate:"min=0"`
	Observaciones  *string         `json:"observaciones"`
}

type MovimientoRequest struct {
	Tipo        string          `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Concepto    string          `json:"concepto"    validate:"required,oneof=venta_pasaje venta_encomienda anulacion devolucion gasto retiro deposito otro"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
	FacturaID   *string         `json:"factura_id"  validate:"omitempty,uuid"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type SesionFilter struct {
	Estado   string `form:"estado,default=all"` // abierta | cerrada | all
	CajeroID string `form:"cajero_id" validate:"omitempty,uuid"`
	Fecha    string `form:"fecha"` // YYYY-MM-DD
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SesionListResponse struct {
	Data  []SesionResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DesvioResponse struct {
	Monto         decimal.Decimal `json:"monto"`
	Porcentaje    decimal.Decimal `json:"porcentaje"`
	Clasificacion string          `json:"clasificacion"` // normal | advertencia | critico
}

type SesionResponse struct {
	ID             string           `json:"id"`
	CajeroID       string           `json:"cajero_id"`
	Cajero         string           `json:"cajero,omitempty"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	MontoEsperado  *decimal.Decimal `json:"monto_esperado,omitempty"`
	MontoDeclarado *decimal.Decimal `json:"monto_declarado,omitempty"`
	Desvio         *DesvioResponse  `json:"desvio,omitempty"`
	Estado         string           `json:"estado"`
	Observaciones  *string          `json:"observaciones,omitempty"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       *string          `json:"closed_at,omitempty"`
}

type MovimientoResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Concepto    string          `json:"concepto"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	FacturaID   *string         `json:"factura_id,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type ReporteCajaResponse struct {
	Sesion              SesionResponse             `json:"sesion"`
	TotalIngresos       decimal.Decimal            `json:"total_ingresos"`
	TotalEgresos        decimal.Decimal            `json:"total_egresos"`
	TotalesPorConcepto  map[string]decimal.Decimal `json:"totales_por_concepto"`
	CantidadMovimientos int                        `json:"cantidad_movimientos"`
	Movimientos         []MovimientoResponse       `json:"movimientos"`
}
