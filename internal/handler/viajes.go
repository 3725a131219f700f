package handler

import (
	"net/http"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ViajesHandler struct {
	svc       service.ViajeService
	pasajeSvc service.PasajeService
}

func NewViajesHandler(svc service.ViajeService, pasajeSvc service.PasajeService) *ViajesHandler {
	return &ViajesHandler{svc: svc, pasajeSvc: pasajeSvc}
}

// Crear godoc
// @Summary Programa un viaje
// @Tags viajes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearViajeRequest true "Datos del viaje"
// @Success 201 {object} dto.ViajeResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/viajes [post]
func (h *ViajesHandler) Crear(c *gin.Context) {
	var req dto.CrearViajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary Obtiene un viaje con su disponibilidad de asientos
// @Tags viajes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de viaje"
// @Success 200 {object} dto.ViajeResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/viajes/{id} [get]
func (h *ViajesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Viaje no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary Cambia el estado del viaje (en_curso, completado, cancelado)
// @Tags viajes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de viaje"
// @Param body body dto.CambiarEstadoViajeRequest true "Nuevo estado"
// @Success 200 {object} dto.ViajeResponse
// @Router /v1/viajes/{id}/estado [post]
func (h *ViajesHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CambiarEstadoViajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista viajes con filtros y paginación
// @Tags viajes
// @Produce json
// @Security BearerAuth
// @Param estado query string false "programado | en_curso | completado | cancelado | all"
// @Param fecha query string false "YYYY-MM-DD"
// @Success 200 {object} dto.ViajeListResponse
// @Router /v1/viajes [get]
func (h *ViajesHandler) Listar(c *gin.Context) {
	var filter dto.ViajeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar viajes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pasajes godoc
// @Summary Lista los pasajes activos de un viaje (mapa de asientos)
// @Tags viajes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de viaje"
// @Success 200 {array} dto.PasajeResponse
// @Router /v1/viajes/{id}/pasajes [get]
func (h *ViajesHandler) Pasajes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.pasajeSvc.ListarPorViaje(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pasajes del viaje"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
