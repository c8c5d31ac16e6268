package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 10.0
	cellPad    = 2.0
	lineHeight = 4.5
	fontSize   = 9.0
	// tagStep is the vertical advance per application tag line.
	tagStep = lineHeight + 1
)

type rgb struct{ r, g, b int }

var (
	colorTitle       = rgb{0x10, 0xB9, 0x81}
	colorSubtitle    = rgb{0x4B, 0x55, 0x63}
	colorBorder      = rgb{0xE5, 0xE7, 0xEB}
	colorHeaderFill  = rgb{0xF9, 0xFA, 0xFB}
	colorSpecs       = rgb{0x6B, 0x72, 0x80}
	colorText        = rgb{0x37, 0x41, 0x51}
	colorAppFill     = rgb{0xEE, 0xF2, 0xFF}
	colorAppText     = rgb{0x4F, 0x46, 0xE5}
	colorBadgeFill   = rgb{0xE5, 0xE7, 0xEB}
	colorActiveFill  = rgb{0xD1, 0xFA, 0xE5}
	colorActiveText  = rgb{0x06, 0x5F, 0x46}
	columnWidthRatio = []float64{0.2, 0.2, 0.2, 0.2, 0.2}
)

// Render writes doc as an A4 portrait PDF. Rows that do not fit on the current
// page start a new one, which repeats the table header.
func Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(doc.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	tableW := pageW - 2*pageMargin
	widths := make([]float64, len(columnWidthRatio))
	for i, ratio := range columnWidthRatio {
		widths[i] = tableW * ratio
	}

	pdf.AddPage()

	setText(pdf, colorTitle)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	setText(pdf, colorSubtitle)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr(doc.Summary), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header(pdf, tr, doc.Columns, widths)

	for _, row := range doc.Rows {
		h := rowHeight(pdf, tr, row, widths)
		if pdf.GetY()+h > pageH-pageMargin {
			pdf.AddPage()
			header(pdf, tr, doc.Columns, widths)
		}
		drawRow(pdf, tr, row, widths, h)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func setFill(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

func header(pdf *fpdf.Fpdf, tr func(string) string, columns []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	setFill(pdf, colorHeaderFill)
	setText(pdf, colorText)
	for i, c := range columns {
		pdf.CellFormat(widths[i], 8, tr(c), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// cellLines returns the wrapped lines of every cell in row, column by column.
func cellLines(pdf *fpdf.Fpdf, tr func(string) string, row Row, widths []float64) [][]string {
	wrap := func(text string, w float64) []string {
		out := pdf.SplitText(tr(text), w-2*cellPad)
		if len(out) == 0 {
			out = []string{""}
		}
		return out
	}

	var spec, apps []string
	for _, s := range row.Spec {
		spec = append(spec, wrap(s, widths[1])...)
	}
	for _, a := range row.Applications {
		apps = append(apps, wrap(a, widths[2]-2)...)
	}

	return [][]string{
		wrap(row.Name, widths[0]),
		spec,
		apps,
		wrap(row.Unit, widths[3]),
		{tr(row.Status)},
	}
}

func rowHeight(pdf *fpdf.Fpdf, tr func(string) string, row Row, widths []float64) float64 {
	pdf.SetFont("Helvetica", "", fontSize)
	lines := cellLines(pdf, tr, row, widths)
	maxLines := 1
	for _, l := range lines {
		if len(l) > maxLines {
			maxLines = len(l)
		}
	}
	h := float64(maxLines)*lineHeight + 2*cellPad
	if appH := float64(len(lines[2]))*tagStep + 2*cellPad; appH > h {
		h = appH
	}
	return h
}

func drawRow(pdf *fpdf.Fpdf, tr func(string) string, row Row, widths []float64, h float64) {
	pdf.SetFont("Helvetica", "", fontSize)
	x0, y0 := pdf.GetXY()
	lines := cellLines(pdf, tr, row, widths)

	x := x0
	for i, w := range widths {
		pdf.Rect(x, y0, w, h, "D")

		switch i {
		case 1:
			setText(pdf, colorSpecs)
			writeLines(pdf, lines[i], x, y0, w)
		case 2:
			y := y0 + cellPad
			setFill(pdf, colorAppFill)
			setText(pdf, colorAppText)
			for _, app := range lines[i] {
				pdf.SetXY(x+cellPad, y)
				pdf.CellFormat(pdf.GetStringWidth(app)+2*cellPad, lineHeight, app, "", 0, "L", true, 0, "")
				y += tagStep
			}
		case 4:
			fill, text := colorBadgeFill, colorText
			if row.Active {
				fill, text = colorActiveFill, colorActiveText
			}
			setFill(pdf, fill)
			setText(pdf, text)
			pdf.SetXY(x+cellPad, y0+cellPad)
			pdf.CellFormat(pdf.GetStringWidth(lines[i][0])+2*cellPad, lineHeight, lines[i][0], "", 0, "C", true, 0, "")
		default:
			setText(pdf, colorText)
			writeLines(pdf, lines[i], x, y0, w)
		}
		x += w
	}

	pdf.SetXY(x0, y0+h)
}

func writeLines(pdf *fpdf.Fpdf, lines []string, x, y, w float64) {
	for i, l := range lines {
		pdf.SetXY(x+cellPad, y+cellPad+float64(i)*lineHeight)
		pdf.CellFormat(w-2*cellPad, lineHeight, l, "", 0, "L", false, 0, "")
	}
}
