package letras_test

import (
	"testing"

	"github.com/Fer-Psy/tr4cking/internal/letras"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEnLetras(t *testing.T) {
	casos := []struct {
		n        int64
		esperado string
	}{
		{0, "CERO"},
		{1, "UN"},
		{9, "NUEVE"},
		{10, "DIEZ"},
		{15, "QUINCE"},
		{16, "DIECISÉIS"},
		{20, "VEINTE"},
		{21, "VEINTIUN"},
		{29, "VEINTINUEVE"},
		{30, "TREINTA"},
		{47, "CUARENTA Y SIETE"},
		{100, "CIEN"},
		{101, "CIENTO UN"},
		{115, "CIENTO QUINCE"},
		{500, "QUINIENTOS"},
		{999, "NOVECIENTOS NOVENTA Y NUEVE"},
		{1000, "MIL"},
		{1500, "MIL QUINIENTOS"},
		{21000, "VEINTIUN MIL"},
		{100000, "CIEN MIL"},
		{150000, "CIENTO CINCUENTA MIL"},
		{999999, "NOVECIENTOS NOVENTA Y NUEVE MIL NOVECIENTOS NOVENTA Y NUEVE"},
		{1000000, "UN MILLÓN"},
		{1000001, "UN MILLÓN UN"},
		{2500000, "DOS MILLONES QUINIENTOS MIL"},
		{110000000, "CIENTO DIEZ MILLONES"},
		{1500000000, "MIL QUINIENTOS MILLONES"},
		{-5, "MENOS CINCO"},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, letras.EnLetras(c.n), "n=%d", c.n)
	}
}

func TestGuaranies(t *testing.T) {
	assert.Equal(t, "CIENTO CINCUENTA MIL GUARANÍES",
		letras.Guaranies(decimal.NewFromInt(150000)))
	assert.Equal(t, "CERO GUARANÍES", letras.Guaranies(decimal.Zero))
}

func TestGuaraniesTruncaDecimales(t *testing.T) {
	// El guaraní no circula con fracciones: los centavos jamás se deletrean.
	monto := decimal.RequireFromString("1500.75")
	assert.Equal(t, "MIL QUINIENTOS GUARANÍES", letras.Guaranies(monto))
}
