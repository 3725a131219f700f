package handler

import (
	"net/http"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
)

type FlotaHandler struct{ svc service.FlotaService }

func NewFlotaHandler(svc service.FlotaService) *FlotaHandler { return &FlotaHandler{svc: svc} }

// CrearEmpresa godoc
// @Summary Registra una empresa de transporte
// @Tags flota
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearEmpresaRequest true "Datos de la empresa"
// @Success 201 {object} dto.EmpresaResponse
// @Failure 400 {object} apierror.APIError "RUC duplicado"
// @Router /v1/empresas [post]
func (h *FlotaHandler) CrearEmpresa(c *gin.Context) {
	var req dto.CrearEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearEmpresa(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarEmpresas godoc
// @Summary Lista las empresas registradas
// @Tags flota
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EmpresaResponse
// @Router /v1/empresas [get]
func (h *FlotaHandler) ListarEmpresas(c *gin.Context) {
	resp, err := h.svc.ListarEmpresas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar empresas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearBus godoc
// @Summary Registra un bus de una empresa
// @Tags flota
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearBusRequest true "Datos del bus"
// @Success 201 {object} dto.BusResponse
// @Failure 400 {object} apierror.APIError "Placa duplicada"
// @Router /v1/buses [post]
func (h *FlotaHandler) CrearBus(c *gin.Context) {
	var req dto.CrearBusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearBus(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarBuses godoc
// @Summary Lista los buses registrados
// @Tags flota
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.BusResponse
// @Router /v1/buses [get]
func (h *FlotaHandler) ListarBuses(c *gin.Context) {
	resp, err := h.svc.ListarBuses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar buses"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearParada godoc
// @Summary Registra una parada (ciudad/terminal)
// @Tags flota
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearParadaRequest true "Datos de la parada"
// @Success 201 {object} dto.ParadaResponse
// @Router /v1/paradas [post]
func (h *FlotaHandler) CrearParada(c *gin.Context) {
	var req dto.CrearParadaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearParada(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarParadas godoc
// @Summary Lista las paradas registradas
// @Tags flota
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ParadaResponse
// @Router /v1/paradas [get]
func (h *FlotaHandler) ListarParadas(c *gin.Context) {
	resp, err := h.svc.ListarParadas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar paradas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
