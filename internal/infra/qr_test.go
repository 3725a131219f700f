package infra_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/infra"
	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facturaDePrueba() *model.Factura {
	emision, _ := time.Parse("2006-01-02", "2025-08-12")
	return &model.Factura{
		ID:            uuid.New(),
		NumeroFactura: 123,
		FechaEmision:  emision,
		Estado:        "emitida",
		SubtotalIVA10: decimal.NewFromInt(110000),
		IVA10:         decimal.NewFromInt(10000),
		TotalIVA:      decimal.NewFromInt(10000),
		Total:         decimal.NewFromInt(110000),
		Timbrado: &model.Timbrado{
			Numero:          "12345678",
			PuntoExpedicion: "001-001",
			Empresa:         &model.Empresa{Nombre: "Transporte Ñu Guazú SA", RUC: "80012345-6"},
		},
		Cliente: &model.Persona{Nombre: "Marta", Apellido: "Riquelme", Cedula: 4555666},
		Detalles: []model.DetalleFactura{
			{
				Cantidad:       decimal.NewFromInt(1),
				Descripcion:    "Encomienda paquete - ENC-20250812-9C41",
				PrecioUnitario: decimal.NewFromInt(110000),
				TasaIVA:        10,
				Subtotal:       decimal.NewFromInt(110000),
			},
		},
	}
}

func TestFacturaQRPayload(t *testing.T) {
	f := facturaDePrueba()

	payload := infra.FacturaQRPayload(f)

	assert.Equal(t,
		"RUC:80012345-6|TIMBRADO:12345678|FACTURA:001-001-0000123|FECHA:20250812|TOTAL:110000|IVA:10000",
		payload)
}

func TestFacturaQRPayloadSinEmpresa(t *testing.T) {
	f := facturaDePrueba()
	f.Timbrado.Empresa = nil

	payload := infra.FacturaQRPayload(f)

	// Campos vacíos antes que un panic por preloads ausentes.
	assert.Contains(t, payload, "RUC:|")
	assert.Contains(t, payload, "TIMBRADO:12345678")
}

func TestGenerateFacturaQR(t *testing.T) {
	png, err := infra.GenerateFacturaQR(facturaDePrueba(), 0)
	require.NoError(t, err)

	// Firma PNG: el resto del contenido lo valida el lector, no nosotros.
	require.True(t, len(png) > 8)
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}))
}
