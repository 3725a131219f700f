package infra

// escpos.go: raw ESC/POS command stream for 42-column thermal printers.
// The caller forwards these bytes to the printer unmodified. Text is
// encoded as code page 850, the Latin American set thermal firmwares
// ship with; unsupported runes are replaced, never rejected.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Fer-Psy/tr4cking/internal/model"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ticketWidth = 42

// ESC/POS command sequences.
var (
	escInit        = []byte{0x1b, '@'}
	escAlignLeft   = []byte{0x1b, 'a', 0x00}
	escAlignCenter = []byte{0x1b, 'a', 0x01}
	escAlignRight  = []byte{0x1b, 'a', 0x02}
	escBoldOn      = []byte{0x1b, 'E', 0x01}
	escBoldOff     = []byte{0x1b, 'E', 0x00}
	gsDoubleHeight = []byte{0x1d, '!', 0x10}
	gsNormalSize   = []byte{0x1d, '!', 0x00}
	gsCut          = []byte{0x1d, 'V', 0x00}
)

// GenerateFacturaTicket builds the ESC/POS byte stream for a factura.
// The factura must come with Timbrado (and its Empresa), Cliente and
// Detalles preloaded.
func GenerateFacturaTicket(factura *model.Factura) []byte {
	t := newTicketBuilder()
	sep := strings.Repeat("-", ticketWidth)
	empresa := factura.Timbrado.Empresa

	t.cmd(escInit)

	// Header
	t.cmd(escAlignCenter, escBoldOn, gsDoubleHeight)
	t.line(empresa.Nombre)
	t.cmd(gsNormalSize, escBoldOff)
	t.line("RUC: " + empresa.RUC)
	t.line(sep)

	// Invoice number
	t.cmd(escBoldOn)
	t.line("FACTURA ELECTRONICA")
	t.line(factura.NumeroCompleto())
	t.cmd(escBoldOff)
	t.line("Timbrado: " + factura.Timbrado.Numero)
	t.cmd(escAlignLeft)

	// Customer
	t.line(sep)
	if factura.Cliente != nil {
		t.line(fmt.Sprintf("Cliente: %d", factura.Cliente.Cedula))
		t.line(truncate(factura.Cliente.NombreCompleto(), ticketWidth))
	}
	t.line(sep)

	// Lines
	for _, det := range factura.Detalles {
		t.line(det.Cantidad.StringFixed(0) + " " + truncate(det.Descripcion, 30))
		t.cmd(escAlignRight)
		t.line("Gs. " + t.guaranies(det.Subtotal.IntPart()))
		t.cmd(escAlignLeft)
	}

	// Total
	t.line(sep)
	t.cmd(escAlignCenter, escBoldOn, gsDoubleHeight)
	t.line("TOTAL: Gs. " + t.guaranies(factura.Total.IntPart()))
	t.cmd(gsNormalSize, escBoldOff)

	// Footer
	t.line("")
	t.line(factura.FechaEmision.Format("02/01/2006 15:04"))
	t.line("GRACIAS POR SU PREFERENCIA")

	// Feed and cut
	t.line("")
	t.line("")
	t.line("")
	t.cmd(gsCut)

	return t.bytes()
}

type ticketBuilder struct {
	buf     bytes.Buffer
	enc     *encoding.Encoder
	printer *message.Printer
}

func newTicketBuilder() *ticketBuilder {
	return &ticketBuilder{
		enc:     encoding.ReplaceUnsupported(charmap.CodePage850.NewEncoder()),
		printer: message.NewPrinter(language.Spanish),
	}
}

func (t *ticketBuilder) cmd(seqs ...[]byte) {
	for _, s := range seqs {
		t.buf.Write(s)
	}
}

// line encodes s as cp850 and appends a newline. The replacing encoder
// never fails on UTF-8 input.
func (t *ticketBuilder) line(s string) {
	encoded, _ := t.enc.String(s)
	t.buf.WriteString(encoded)
	t.buf.WriteByte('\n')
}

// guaranies formats n with Spanish thousands separators ("1.500.000").
func (t *ticketBuilder) guaranies(n int64) string {
	return t.printer.Sprintf("%d", n)
}

func (t *ticketBuilder) bytes() []byte { return t.buf.Bytes() }

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
