package handler

import (
	"context"
	"net/http"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TimbradosHandler struct{ svc service.TimbradoService }

func NewTimbradosHandler(svc service.TimbradoService) *TimbradosHandler {
	return &TimbradosHandler{svc: svc}
}

// Crear godoc
// @Summary Registra un timbrado autorizado (solo administrador)
// @Tags timbrados
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearTimbradoRequest true "Datos del timbrado"
// @Success 201 {object} dto.TimbradoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/timbrados [post]
func (h *TimbradosHandler) Crear(c *gin.Context) {
	var req dto.CrearTimbradoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista los timbrados registrados
// @Tags timbrados
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TimbradoResponse
// @Router /v1/timbrados [get]
func (h *TimbradosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar timbrados"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un timbrado por ID
// @Tags timbrados
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de timbrado"
// @Success 200 {object} dto.TimbradoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/timbrados/{id} [get]
func (h *TimbradosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Timbrado no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activar godoc
// @Summary Activa un timbrado para emisión
// @Tags timbrados
// @Security BearerAuth
// @Param id path string true "ID de timbrado"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/timbrados/{id}/activar [post]
func (h *TimbradosHandler) Activar(c *gin.Context) {
	h.setActivo(c, h.svc.Activar)
}

// Desactivar godoc
// @Summary Desactiva un timbrado
// @Tags timbrados
// @Security BearerAuth
// @Param id path string true "ID de timbrado"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/timbrados/{id}/desactivar [post]
func (h *TimbradosHandler) Desactivar(c *gin.Context) {
	h.setActivo(c, h.svc.Desactivar)
}

func (h *TimbradosHandler) setActivo(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
