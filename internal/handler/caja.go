package handler

import (
	"net/http"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/middleware"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre una sesión de caja para el cajero autenticado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Monto inicial declarado"
// @Success 201 {object} dto.SesionResponse
// @Failure 409 {object} apierror.APIError "Ya existe una sesión abierta"
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), cajeroID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra la sesión de caja con el monto declarado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Declaración de cierre"
// @Success 200 {object} dto.SesionResponse
// @Failure 403 {object} apierror.APIError "La sesión pertenece a otro cajero"
// @Failure 409 {object} apierror.APIError "La sesión ya fue cerrada"
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Cerrar(c.Request.Context(), cajeroID, claims.Rol, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso o egreso manual en la sesión abierta
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoRequest true "Movimiento manual"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 422 {object} apierror.APIError "Sin sesión abierta"
// @Router /v1/caja/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), cajeroID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SesionActiva godoc
// @Summary Devuelve la sesión abierta del cajero autenticado
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SesionResponse
// @Failure 404 {object} apierror.APIError "Sin sesión abierta"
// @Router /v1/caja/actual [get]
func (h *CajaHandler) SesionActiva(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cajeroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.SesionActiva(c.Request.Context(), cajeroID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("No hay sesión de caja abierta"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerReporte godoc
// @Summary Reporte de una sesión: saldo esperado, declarado y desvío
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesión"
// @Success 200 {object} dto.ReporteCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/sesiones/{id}/reporte [get]
func (h *CajaHandler) ObtenerReporte(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarSesiones godoc
// @Summary Lista sesiones de caja con filtros
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param estado query string false "abierta | cerrada | all"
// @Param cajero_id query string false "Filtrar por cajero"
// @Param fecha query string false "YYYY-MM-DD"
// @Success 200 {object} dto.SesionListResponse
// @Router /v1/caja/sesiones [get]
func (h *CajaHandler) ListarSesiones(c *gin.Context) {
	var filter dto.SesionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarSesiones(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sesiones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
