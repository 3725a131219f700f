package handler

import (
	"context"
	"net/http"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/middleware"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PasajesHandler struct{ svc service.PasajeService }

func NewPasajesHandler(svc service.PasajeService) *PasajesHandler {
	return &PasajesHandler{svc: svc}
}

// Vender godoc
// @Summary Vende un asiento de un viaje
// @Tags pasajes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.VenderPasajeRequest true "Datos de la venta"
// @Success 201 {object} dto.PasajeResponse
// @Failure 409 {object} apierror.APIError "Asiento ocupado"
// @Router /v1/pasajes/vender [post]
func (h *PasajesHandler) Vender(c *gin.Context) {
	var req dto.VenderPasajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	vendedorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Vender(c.Request.Context(), vendedorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Reservar godoc
// @Summary Reserva un asiento con vencimiento automático
// @Tags pasajes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReservarPasajeRequest true "Datos de la reserva"
// @Success 201 {object} dto.PasajeResponse
// @Failure 409 {object} apierror.APIError "Asiento ocupado"
// @Router /v1/pasajes/reservar [post]
func (h *PasajesHandler) Reservar(c *gin.Context) {
	var req dto.ReservarPasajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	vendedorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Reservar(c.Request.Context(), vendedorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Confirmar godoc
// @Summary Convierte una reserva vigente en venta
// @Tags pasajes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pasaje"
// @Success 200 {object} dto.PasajeResponse
// @Failure 400 {object} apierror.APIError "Reserva vencida o estado inválido"
// @Router /v1/pasajes/{id}/confirmar [post]
func (h *PasajesHandler) Confirmar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	vendedorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ConfirmarReserva(c.Request.Context(), vendedorID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abordar godoc
// @Summary Marca el pasaje como abordado
// @Tags pasajes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pasaje"
// @Success 200 {object} dto.PasajeResponse
// @Router /v1/pasajes/{id}/abordar [post]
func (h *PasajesHandler) Abordar(c *gin.Context) {
	h.transicion(c, h.svc.Abordar)
}

// NoShow godoc
// @Summary Marca el pasaje como no presentado
// @Tags pasajes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pasaje"
// @Success 200 {object} dto.PasajeResponse
// @Router /v1/pasajes/{id}/no-show [post]
func (h *PasajesHandler) NoShow(c *gin.Context) {
	h.transicion(c, h.svc.MarcarNoShow)
}

// Cancelar godoc
// @Summary Cancela un pasaje reservado o vendido
// @Tags pasajes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pasaje"
// @Param body body dto.CancelarPasajeRequest true "Motivo y devolución"
// @Success 200 {object} dto.PasajeResponse
// @Router /v1/pasajes/{id}/cancelar [post]
func (h *PasajesHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CancelarPasajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Cancelar(c.Request.Context(), actorID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un pasaje por ID
// @Tags pasajes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pasaje"
// @Success 200 {object} dto.PasajeResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pasajes/{id} [get]
func (h *PasajesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pasaje no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorCodigo godoc
// @Summary Obtiene un pasaje por su código impreso
// @Tags pasajes
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Código de pasaje"
// @Success 200 {object} dto.PasajeResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pasajes/codigo/{codigo} [get]
func (h *PasajesHandler) PorCodigo(c *gin.Context) {
	resp, err := h.svc.ObtenerPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pasaje no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista pasajes con filtros y paginación
// @Tags pasajes
// @Produce json
// @Security BearerAuth
// @Param estado query string false "reservado | vendido | abordado | no_show | cancelado | all"
// @Param viaje_id query string false "Filtrar por viaje"
// @Param fecha query string false "YYYY-MM-DD"
// @Success 200 {object} dto.PasajeListResponse
// @Router /v1/pasajes [get]
func (h *PasajesHandler) Listar(c *gin.Context) {
	var filter dto.PasajeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pasajes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// transicion factors the shared shape of the estado-only endpoints.
func (h *PasajesHandler) transicion(c *gin.Context, fn func(context.Context, uuid.UUID) (*dto.PasajeResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
