package infra

// pdf.go: printable invoice generation using go-pdf/fpdf.
// Renders an 80mm thermal-style factura with:
//   - Company header (razón social, RUC, dirección)
//   - Timbrado number and validity window
//   - Full invoice number and emission date
//   - Customer block
//   - Line table with per-line IVA rate
//   - Subtotals per rate, IVA liquidation, bold total
//   - Amount in words and fiscal QR code
//
// The output file is saved to storagePath/factura_{numero}.pdf.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fer-Psy/tr4cking/internal/letras"
	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateFacturaPDF renders the printable PDF for an emitted factura.
// The factura must come with Timbrado (and its Empresa), Cliente and
// Detalles preloaded. storagePath is created if needed; the absolute path
// of the generated file is returned.
func GenerateFacturaPDF(factura *model.Factura, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	nro := factura.NumeroCompleto()
	filePath := filepath.Join(storagePath, fmt.Sprintf("factura_%s.pdf", nro))

	// 80mm thermal roll; fixed 220mm height covers a full invoice with QR.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: 220},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	// Core fonts are cp1252; tr converts the UTF-8 strings (Ñ, á, °).
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Company header ────────────────────────────────────────────────────────
	empresa := factura.Timbrado.Empresa
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, tr(empresa.Nombre), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	if empresa.Direccion != nil {
		pdf.CellFormat(contentW, 4, tr(*empresa.Direccion), "", 1, "C", false, 0, "")
	}
	if empresa.Telefono != nil {
		pdf.CellFormat(contentW, 4, tr("Tel: "+*empresa.Telefono), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr("RUC: "+empresa.RUC), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	// ── Timbrado block ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Timbrado N° %s", factura.Timbrado.Numero)), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Vigencia: %s al %s",
		factura.Timbrado.FechaInicio.Format("02/01/2006"),
		factura.Timbrado.FechaFin.Format("02/01/2006"))), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	// ── Invoice identity ──────────────────────────────────────────────────────
	condicion := "CONTADO"
	if factura.Condicion == "credito" {
		condicion = "CRÉDITO"
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr("FACTURA "+condicion), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("N° "+nro), "", 1, "C", false, 0, "")

	if factura.Estado == "anulada" {
		pdf.SetTextColor(200, 0, 0)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "** ANULADA **", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Fecha de emisión: "+factura.FechaEmision.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")

	// ── Customer ──────────────────────────────────────────────────────────────
	if factura.Cliente != nil {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+factura.Cliente.NombreCompleto()), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("RUC/CI: %d", factura.Cliente.Cedula)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)

	// ── Separator ─────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	// ── Line table ────────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // description
	col2 := contentW * 0.10 // qty
	col3 := contentW * 0.19 // unit price
	col4 := contentW * 0.09 // IVA rate
	col5 := contentW * 0.22 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, tr("Descripción"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "IVA", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col5, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, det := range factura.Detalles {
		desc := []rune(det.Descripcion)
		if len(desc) > 20 {
			desc = append(desc[:19], '…')
		}
		tasa := "E"
		if det.TasaIVA > 0 {
			tasa = fmt.Sprintf("%d%%", det.TasaIVA)
		}
		pdf.CellFormat(col1, 5, tr(string(desc)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, det.Cantidad.StringFixed(0), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, det.PrecioUnitario.StringFixed(0), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, tasa, "", 0, "C", false, 0, "")
		pdf.CellFormat(col5, 5, det.Subtotal.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3 + col4

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(labelW, 4, "Subtotal Exentas:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 4, "Gs. "+factura.SubtotalExenta.StringFixed(0), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 4, "Subtotal Gravadas 5%:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 4, "Gs. "+factura.SubtotalIVA5.StringFixed(0), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 4, "Subtotal Gravadas 10%:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 4, "Gs. "+factura.SubtotalIVA10.StringFixed(0), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 6, "Gs. "+factura.Total.StringFixed(0), "", 1, "R", false, 0, "")

	// ── IVA liquidation ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW, 4, tr("LIQUIDACIÓN DEL IVA"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("IVA 5%%: %s   IVA 10%%: %s   Total IVA: %s",
		factura.IVA5.StringFixed(0),
		factura.IVA10.StringFixed(0),
		factura.TotalIVA.StringFixed(0))), "", 1, "L", false, 0, "")

	// ── Amount in words ───────────────────────────────────────────────────────
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "I", 6.5)
	pdf.MultiCell(contentW, 3.5, tr("SON: "+letras.Guaranies(factura.Total)), "", "L", false)

	// ── Fiscal QR ─────────────────────────────────────────────────────────────
	qrPNG, err := GenerateFacturaQR(factura, 256)
	if err != nil {
		return "", fmt.Errorf("pdf: qr: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("factura_qr", opts, bytes.NewReader(qrPNG))
	qrSize := 26.0
	pdf.ImageOptions("factura_qr", (pageW-qrSize)/2, pdf.GetY()+2, qrSize, qrSize, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + qrSize + 4)

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "I", 6.5)
	pdf.CellFormat(contentW, 4, "Original: Cliente / Duplicado: Archivo", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
