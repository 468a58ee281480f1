package pdf

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"smsportal/internal/models"
)

// Generator is implemented by *ReportGenerator; handlers depend on this for tests.
type Generator interface {
	WriteHistory(w io.Writer, data HistoryData) error
}

// ReportGenerator renders history pages. With FontPath pointing at a TTF the
// report is written in that font; otherwise the core Helvetica font is used
// and text is transliterated to cp1252.
type ReportGenerator struct {
	FontPath string
	fontName string
}

type HistoryData struct {
	Title       string
	Kind        models.MessageKind
	Page        *models.Page
	GeneratedAt time.Time
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err != nil {
			fontPath = ""
		}
	}
	name := "Helvetica"
	if fontPath != "" {
		name = "Report"
	}
	return &ReportGenerator{FontPath: fontPath, fontName: name}
}

func (g *ReportGenerator) WriteHistory(w io.Writer, data HistoryData) error {
	if data.Page == nil {
		return fmt.Errorf("history report: no page")
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(data.Title, true)
	pdf.SetAuthor("SMS Portal", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	tr := func(s string) string { return s }
	if g.FontPath != "" {
		pdf.AddUTF8Font(g.fontName, "", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(data.Title), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	sub := fmt.Sprintf("Page %d of %d, %d record(s) in total. Generated %s",
		data.Page.Number, data.Page.TotalPages, data.Page.Total,
		data.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, sub, "", 1, "L", false, 0, "")
	g.hr(pdf)

	cols := []struct {
		title string
		width float64
	}{
		{"Date", 35},
		{"Destination", 40},
		{detailsTitle(data.Kind), 130},
		{"Provider ID", 62},
	}

	pdf.SetFont(g.fontName, "B", 10)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.fontName, "", 9)
	for _, r := range data.Page.Records {
		row := []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Destination,
			tr(truncate(r.Body, 90)),
			r.ProviderID,
		}
		for i, c := range cols {
			pdf.CellFormat(c.width, 6, row[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(data.Page.Records) == 0 {
		pdf.CellFormat(0, 7, "No records.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func detailsTitle(kind models.MessageKind) string {
	switch kind {
	case models.KindCall:
		return "TwiML URL"
	case models.KindLookup:
		return "Carrier"
	}
	return "Message"
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(15, y, 282, y)
	pdf.SetY(y + 3)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
