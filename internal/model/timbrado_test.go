package model_test

import (
	"testing"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timbradoConVentana(t *testing.T, desde, hasta string) *model.Timbrado {
	t.Helper()
	fi, err := time.Parse("2006-01-02", desde)
	require.NoError(t, err)
	ff, err := time.Parse("2006-01-02", hasta)
	require.NoError(t, err)
	return &model.Timbrado{FechaInicio: fi, FechaFin: ff, Activo: true}
}

func TestVigenteVentanaCalendario(t *testing.T) {
	tb := timbradoConVentana(t, "2026-01-01", "2026-08-29")

	// La vigencia se evalúa por día calendario en la zona del reloj, no por
	// el instante UTC.
	asuncion := time.FixedZone("-04", -4*3600)
	tokio := time.FixedZone("+09", 9*3600)

	casos := []struct {
		nombre  string
		hoy     time.Time
		vigente bool
	}{
		{
			nombre:  "primer día en UTC",
			hoy:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			vigente: true,
		},
		{
			nombre:  "último día en UTC",
			hoy:     time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC),
			vigente: true,
		},
		{
			// 21:00 en Asunción del último día es 01:00Z del día siguiente;
			// el timbrado sigue vigente hasta la medianoche local.
			nombre:  "noche del último día al oeste de UTC",
			hoy:     time.Date(2026, 8, 29, 21, 0, 0, 0, asuncion),
			vigente: true,
		},
		{
			// 00:30 en Tokio del primer día todavía es el día anterior en
			// UTC; localmente la ventana ya abrió.
			nombre:  "madrugada del primer día al este de UTC",
			hoy:     time.Date(2026, 1, 1, 0, 30, 0, 0, tokio),
			vigente: true,
		},
		{
			nombre:  "día anterior al inicio",
			hoy:     time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			vigente: false,
		},
		{
			nombre:  "día posterior al fin",
			hoy:     time.Date(2026, 8, 30, 0, 0, 0, 0, asuncion),
			vigente: false,
		},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.vigente, tb.Vigente(c.hoy))
		})
	}
}

func TestVigenteInactivo(t *testing.T) {
	tb := timbradoConVentana(t, "2026-01-01", "2026-12-31")
	tb.Activo = false

	assert.False(t, tb.Vigente(time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)))
}
