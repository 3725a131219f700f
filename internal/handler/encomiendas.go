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

type EncomiendasHandler struct{ svc service.EncomiendaService }

func NewEncomiendasHandler(svc service.EncomiendaService) *EncomiendasHandler {
	return &EncomiendasHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra una encomienda para transporte
// @Tags encomiendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarEncomiendaRequest true "Datos de la encomienda"
// @Success 201 {object} dto.EncomiendaResponse
// @Failure 404 {object} apierror.APIError "Remitente o destinatario no registrado"
// @Router /v1/encomiendas [post]
func (h *EncomiendasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarEncomiendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	registradorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Registrar(c.Request.Context(), registradorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CambiarEstado godoc
// @Summary Avanza el estado de tránsito de una encomienda
// @Tags encomiendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de encomienda"
// @Param body body dto.CambiarEstadoEncomiendaRequest true "Nuevo estado"
// @Success 200 {object} dto.EncomiendaResponse
// @Router /v1/encomiendas/{id}/estado [post]
func (h *EncomiendasHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CambiarEstadoEncomiendaRequest
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

// Entregar godoc
// @Summary Entrega la encomienda capturando los datos del receptor
// @Tags encomiendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de encomienda"
// @Param body body dto.EntregarEncomiendaRequest true "Receptor"
// @Success 200 {object} dto.EncomiendaResponse
// @Router /v1/encomiendas/{id}/entregar [post]
func (h *EncomiendasHandler) Entregar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.EntregarEncomiendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Entregar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene una encomienda por ID
// @Tags encomiendas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de encomienda"
// @Success 200 {object} dto.EncomiendaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/encomiendas/{id} [get]
func (h *EncomiendasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Encomienda no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista encomiendas con filtros y paginación
// @Tags encomiendas
// @Produce json
// @Security BearerAuth
// @Param estado query string false "registrado | en_transito | en_destino | entregado | devuelto | cancelado | all"
// @Param viaje_id query string false "Filtrar por viaje"
// @Param fecha query string false "YYYY-MM-DD"
// @Success 200 {object} dto.EncomiendaListResponse
// @Router /v1/encomiendas [get]
func (h *EncomiendasHandler) Listar(c *gin.Context) {
	var filter dto.EncomiendaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar encomiendas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
