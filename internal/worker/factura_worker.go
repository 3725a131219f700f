package worker

// factura_worker.go
// Processes invoice rendering jobs from QueueFacturaPDF: generates the
// printable 80mm PDF for an emitted factura and, when the customer has an
// email on file, chains an email delivery job.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Fer-Psy/tr4cking/internal/infra"
	"github.com/Fer-Psy/tr4cking/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// FacturaPDFJobPayload is the job envelope sent to QueueFacturaPDF.
type FacturaPDFJobPayload struct {
	FacturaID    string  `json:"factura_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// FacturaPDFWorker renders invoice PDFs in the background so the sale
// endpoint never waits on disk or SMTP.
type FacturaPDFWorker struct {
	facturaRepo    repository.FacturaRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

func NewFacturaPDFWorker(
	facturaRepo repository.FacturaRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
) *FacturaPDFWorker {
	return &FacturaPDFWorker{
		facturaRepo:    facturaRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single rendering job:
//  1. Parse FacturaPDFJobPayload from the job envelope
//  2. Fetch the factura with timbrado, cliente and detalles
//  3. Render the 80mm PDF (QR included) and persist its path
//  4. Optionally enqueue an email job with the PDF attached
func (w *FacturaPDFWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FacturaPDFJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("factura_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueFacturaPDF, JobTypeFacturaPDF, raw, "invalid payload: "+err.Error(), 0)
		return
	}

	facturaID, err := uuid.Parse(payload.FacturaID)
	if err != nil {
		log.Error().Str("factura_id", payload.FacturaID).Msg("factura_worker: invalid factura_id")
		SendToDLQ(ctx, w.rdb, QueueFacturaPDF, JobTypeFacturaPDF, raw, "invalid factura_id", 0)
		return
	}

	factura, err := w.facturaRepo.FindByID(ctx, facturaID)
	if err != nil {
		log.Error().Err(err).Str("factura_id", payload.FacturaID).Msg("factura_worker: factura not found")
		SendToDLQ(ctx, w.rdb, QueueFacturaPDF, JobTypeFacturaPDF, raw, "factura not found", 0)
		return
	}

	pdfPath, err := infra.GenerateFacturaPDF(factura, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("factura_id", payload.FacturaID).Msg("factura_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueFacturaPDF, JobTypeFacturaPDF, raw, "pdf generation failed: "+err.Error(), 0)
		return
	}

	if err := w.facturaRepo.UpdatePDFPath(ctx, facturaID, pdfPath); err != nil {
		log.Warn().Err(err).Str("factura_id", payload.FacturaID).Msg("factura_worker: failed to store pdf path")
	}
	log.Info().Str("pdf", pdfPath).Str("factura_id", payload.FacturaID).Msg("factura_worker: PDF generated")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" {
		return
	}

	nro := factura.NumeroCompleto()
	emailJob := EmailJobPayload{
		ToEmail: *payload.ClienteEmail,
		Subject: fmt.Sprintf("Factura %s", nro),
		Body: fmt.Sprintf("Adjuntamos su factura Nº %s.\nTotal: Gs. %s",
			nro, factura.Total.StringFixed(0)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *payload.ClienteEmail).Msg("factura_worker: failed to enqueue email")
	} else {
		log.Info().Str("email", *payload.ClienteEmail).Msg("factura_worker: email job enqueued")
	}
}
