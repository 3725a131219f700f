package infra

// qr.go: fiscal QR code for printed invoices.
// The payload is the pipe-separated verification string:
//   RUC:{ruc}|TIMBRADO:{numero}|FACTURA:{nro}|FECHA:{YYYYMMDD}|TOTAL:{total}|IVA:{iva}
// Amounts are whole guaraníes.

import (
	"fmt"
	"strings"

	"github.com/Fer-Psy/tr4cking/internal/model"

	qrcode "github.com/skip2/go-qrcode"
)

// FacturaQRPayload builds the verification string encoded in the QR.
func FacturaQRPayload(f *model.Factura) string {
	ruc, timbrado := "", ""
	if f.Timbrado != nil {
		timbrado = f.Timbrado.Numero
		if f.Timbrado.Empresa != nil {
			ruc = f.Timbrado.Empresa.RUC
		}
	}
	parts := []string{
		"RUC:" + ruc,
		"TIMBRADO:" + timbrado,
		"FACTURA:" + f.NumeroCompleto(),
		"FECHA:" + f.FechaEmision.Format("20060102"),
		"TOTAL:" + f.Total.StringFixed(0),
		"IVA:" + f.TotalIVA.StringFixed(0),
	}
	return strings.Join(parts, "|")
}

// GenerateFacturaQR renders the verification payload as a PNG.
func GenerateFacturaQR(f *model.Factura, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(FacturaQRPayload(f), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	return png, nil
}
