package handler

import (
	"net/http"
	"os"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/infra"
	"github.com/Fer-Psy/tr4cking/internal/middleware"
	"github.com/Fer-Psy/tr4cking/internal/model"
	"github.com/Fer-Psy/tr4cking/internal/repository"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FacturasHandler holds the repo besides the service: the printable
// endpoints (pdf/qr/ticket) render straight from the loaded model.
type FacturasHandler struct {
	svc            service.FacturacionService
	timbradoSvc    service.TimbradoService
	repo           repository.FacturaRepository
	pdfStoragePath string
}

func NewFacturasHandler(
	svc service.FacturacionService,
	timbradoSvc service.TimbradoService,
	repo repository.FacturaRepository,
	pdfStoragePath string,
) *FacturasHandler {
	return &FacturasHandler{svc: svc, timbradoSvc: timbradoSvc, repo: repo, pdfStoragePath: pdfStoragePath}
}

// Crear godoc
// @Summary Emite una factura sobre pasajes y/o encomiendas
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearFacturaRequest true "Items a facturar"
// @Success 201 {object} dto.FacturaResponse
// @Failure 422 {object} apierror.APIError "Sin timbrado vigente o secuencia agotada"
// @Router /v1/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearFactura(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Anular godoc
// @Summary Anula una factura emitida y revierte sus efectos
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de factura"
// @Param body body dto.AnularFacturaRequest true "Motivo de anulación"
// @Success 200 {object} dto.FacturaResponse
// @Failure 409 {object} apierror.APIError "La factura ya está anulada"
// @Router /v1/facturas/{id}/anular [post]
func (h *FacturasHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AnularFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AnularFactura(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene una factura con sus detalles
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de factura"
// @Success 200 {object} dto.FacturaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/facturas/{id} [get]
func (h *FacturasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Factura no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista facturas con filtros y paginación
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param estado query string false "emitida | anulada | all"
// @Param cliente_id query string false "Filtrar por cliente"
// @Param fecha query string false "YYYY-MM-DD"
// @Success 200 {object} dto.FacturaListResponse
// @Router /v1/facturas [get]
func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar facturas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProximoNumero godoc
// @Summary Previsualiza el próximo número de factura sin consumirlo
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProximoNumeroResponse
// @Failure 422 {object} apierror.APIError "Sin timbrado vigente"
// @Router /v1/facturas/proximo-numero [get]
func (h *FacturasHandler) ProximoNumero(c *gin.Context) {
	resp, err := h.timbradoSvc.ProximoNumero(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarPDF godoc
// @Summary Descarga el PDF imprimible de la factura
// @Tags facturas
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID de factura"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/facturas/{id}/pdf [get]
func (h *FacturasHandler) DescargarPDF(c *gin.Context) {
	factura, ok := h.cargarFactura(c)
	if !ok {
		return
	}

	// The worker normally renders ahead of time; fall back to a synchronous
	// render when the file is missing (fresh deploy, cleaned storage).
	if factura.PDFPath != nil {
		if _, err := os.Stat(*factura.PDFPath); err == nil {
			c.FileAttachment(*factura.PDFPath, "factura_"+factura.NumeroCompleto()+".pdf")
			return
		}
	}
	path, err := infra.GenerateFacturaPDF(factura, h.pdfStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo generar el PDF"))
		return
	}
	_ = h.repo.UpdatePDFPath(c.Request.Context(), factura.ID, path)
	c.FileAttachment(path, "factura_"+factura.NumeroCompleto()+".pdf")
}

// ObtenerQR godoc
// @Summary Devuelve el código QR fiscal de la factura en PNG
// @Tags facturas
// @Produce image/png
// @Security BearerAuth
// @Param id path string true "ID de factura"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/facturas/{id}/qr [get]
func (h *FacturasHandler) ObtenerQR(c *gin.Context) {
	factura, ok := h.cargarFactura(c)
	if !ok {
		return
	}
	png, err := infra.GenerateFacturaQR(factura, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo generar el QR"))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Ticket godoc
// @Summary Devuelve los comandos ESC/POS para impresión térmica directa
// @Tags facturas
// @Produce application/octet-stream
// @Security BearerAuth
// @Param id path string true "ID de factura"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/facturas/{id}/ticket [get]
func (h *FacturasHandler) Ticket(c *gin.Context) {
	factura, ok := h.cargarFactura(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", infra.GenerateFacturaTicket(factura))
}

// cargarFactura parses :id and loads the factura with its relations,
// writing the error response on failure.
func (h *FacturasHandler) cargarFactura(c *gin.Context) (factura *model.Factura, ok bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return nil, false
	}
	f, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Factura no encontrada"))
		return nil, false
	}
	return f, true
}
