package handler

import (
	"net/http"
	"strconv"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PersonasHandler struct{ svc service.PersonaService }

func NewPersonasHandler(svc service.PersonaService) *PersonasHandler {
	return &PersonasHandler{svc: svc}
}

// Crear godoc
// @Summary Registra una persona (cliente, pasajero o ambos)
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPersonaRequest true "Datos de la persona"
// @Success 201 {object} dto.PersonaResponse
// @Failure 400 {object} apierror.APIError "Cédula duplicada"
// @Router /v1/personas [post]
func (h *PersonasHandler) Crear(c *gin.Context) {
	var req dto.CrearPersonaRequest
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
// @Summary Obtiene una persona por ID
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de persona"
// @Success 200 {object} dto.PersonaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/personas/{id} [get]
func (h *PersonasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Persona no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorCedula godoc
// @Summary Busca una persona por cédula exacta
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param cedula path int true "Cédula"
// @Success 200 {object} dto.PersonaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/personas/cedula/{cedula} [get]
func (h *PersonasHandler) PorCedula(c *gin.Context) {
	cedula, err := strconv.ParseInt(c.Param("cedula"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Cédula inválida"))
		return
	}
	resp, err := h.svc.ObtenerPorCedula(c.Request.Context(), cedula)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza los datos de contacto de una persona
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de persona"
// @Param body body dto.ActualizarPersonaRequest true "Campos a actualizar"
// @Success 200 {object} dto.PersonaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/personas/{id} [put]
func (h *PersonasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarPersonaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Buscar godoc
// @Summary Busca personas por nombre, apellido o cédula parcial
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param q query string true "Texto a buscar"
// @Success 200 {array} dto.PersonaResponse
// @Router /v1/personas [get]
func (h *PersonasHandler) Buscar(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, apierror.New("El parámetro q es requerido"))
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al buscar personas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
