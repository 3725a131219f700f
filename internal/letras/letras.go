// Package letras converts integer amounts to Spanish words for printed
// facturas ("TOTAL EN LETRAS"). Pure functions, no state: presentation
// logic kept out of the invoicing services.
package letras

import (
	"strings"

	"github.com/shopspring/decimal"
)

var unidades = [10]string{"", "UN", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE"}

var decenas = [10]string{"", "DIEZ", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA",
	"SESENTA", "SETENTA", "OCHENTA", "NOVENTA"}

var especiales = map[int64]string{
	11: "ONCE", 12: "DOCE", 13: "TRECE", 14: "CATORCE", 15: "QUINCE",
	16: "DIECISÉIS", 17: "DIECISIETE", 18: "DIECIOCHO", 19: "DIECINUEVE",
}

var centenas = [10]string{"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS",
	"QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS"}

// Guaranies renders a monetary amount in words, truncating any decimals.
// Guaraní has no circulating fraction, so cents are never spelled.
func Guaranies(monto decimal.Decimal) string {
	return EnLetras(monto.IntPart()) + " GUARANÍES"
}

// EnLetras converts n (0 ≤ n < 1e12) to upper-case Spanish words. Negative
// inputs are prefixed with MENOS.
func EnLetras(n int64) string {
	if n == 0 {
		return "CERO"
	}
	if n < 0 {
		return "MENOS " + EnLetras(-n)
	}
	return convertir(n)
}

func convertir(n int64) string {
	switch {
	case n < 1000:
		return grupo(n)
	case n < 1_000_000:
		miles := n / 1000
		resto := n % 1000
		texto := "MIL"
		if miles > 1 {
			texto = grupo(miles) + " MIL"
		}
		if resto > 0 {
			texto += " " + grupo(resto)
		}
		return texto
	default:
		millones := n / 1_000_000
		resto := n % 1_000_000
		texto := "UN MILLÓN"
		if millones > 1 {
			texto = convertir(millones) + " MILLONES"
		}
		if resto > 0 {
			texto += " " + convertir(resto)
		}
		return texto
	}
}

// grupo spells a three-digit group.
func grupo(n int64) string {
	if n == 0 {
		return ""
	}
	if n == 100 {
		return "CIEN"
	}

	var b strings.Builder
	if n >= 100 {
		b.WriteString(centenas[n/100])
		n %= 100
		if n > 0 {
			b.WriteString(" ")
		}
	}

	if s, ok := especiales[n]; ok {
		b.WriteString(s)
		return b.String()
	}

	switch {
	case n == 20:
		b.WriteString("VEINTE")
	case n > 20 && n < 30:
		b.WriteString("VEINTI" + unidades[n-20])
	case n >= 10:
		b.WriteString(decenas[n/10])
		if n%10 > 0 {
			b.WriteString(" Y " + unidades[n%10])
		}
	case n > 0:
		b.WriteString(unidades[n])
	}
	return b.String()
}
