package reporting

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// PDFExporter exports scan sessions to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportSession renders a session and its results as a PDF document
func (e *PDFExporter) ExportSession(s *domain.ScanSession) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil session", domain.ErrInvalidArgument)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, s)
	e.addSummary(pdf, s)
	e.addResults(pdf, s)
	e.addFooter(pdf, s)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// addHeader adds the report title and session metadata
func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, s *domain.ScanSession) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 14, "Wi-Fi Scan Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	lines := []string{
		fmt.Sprintf("Session: %s", s.ID),
		fmt.Sprintf("Started: %s", s.StartedAt.Format("2006-01-02 15:04:05")),
	}
	if !s.FinishedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("Duration: %s", s.FinishedAt.Sub(s.StartedAt).Round(10*time.Millisecond)))
	}
	if s.ChannelSpec != "" {
		lines = append(lines, fmt.Sprintf("Channels: %s", s.ChannelSpec))
	}
	if s.BandSpec != "" {
		lines = append(lines, fmt.Sprintf("Bands: %s", s.BandSpec))
	}
	for _, l := range lines {
		pdf.CellFormat(0, 6, l, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

// addSummary adds status and per-band and per-security counts
func (e *PDFExporter) addSummary(pdf *gofpdf.Fpdf, s *domain.ScanSession) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)

	stats := []summaryStat{
		{"Status", string(s.Status)},
		{"Networks", fmt.Sprintf("%d", len(s.Results))},
	}
	if s.Error != "" {
		stats = append(stats, summaryStat{"Error", s.Error})
	}
	for _, band := range []domain.WiFiBand{domain.Band24GHz, domain.Band5GHz, domain.Band6GHz} {
		n := 0
		for _, r := range s.Results {
			if r.Band == band {
				n++
			}
		}
		if n > 0 {
			stats = append(stats, summaryStat{band.String(), fmt.Sprintf("%d", n)})
		}
	}

	for _, stat := range stats {
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, stat.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	bySecurity := CountBySecurity(s.Results)
	if len(bySecurity) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Security", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, sc := range bySecurity {
		r, g, b := e.getSecurityColor(sc.Security)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(40, 6, string(sc.Security), "", 0, "C", true, 0, "")
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", sc.Count), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

type summaryStat struct {
	label string
	value string
}

// addResults adds the result table in delivery order
func (e *PDFExporter) addResults(pdf *gofpdf.Fpdf, s *domain.ScanSession) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Networks", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(s.Results) == 0 {
		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No networks found", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, h := range tableHeader {
		pdf.CellFormat(pdfColumnWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 8)
	for i, r := range s.Results {
		row := resultRow(i+1, r)
		for col, cell := range row {
			align := "L"
			if col == 0 || col == 3 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[col], 6, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

var pdfColumnWidths = []float64{10, 45, 25, 12, 32, 36, 20}

// getSecurityColor returns RGB color based on protection strength
func (e *PDFExporter) getSecurityColor(sec domain.SecurityType) (r, g, b int) {
	switch sec {
	case domain.SecurityNone, domain.SecurityWEP:
		return 220, 53, 69 // Red
	case domain.SecurityWPAPSK, domain.SecurityUnknown:
		return 255, 149, 0 // Orange
	case domain.SecurityPSK, domain.SecurityPSKSHA256, domain.SecurityWAPI:
		return 0, 122, 255 // Blue
	default:
		return 52, 199, 89 // Green
	}
}

// addFooter adds the report footer
func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, s *domain.ScanSession) {
	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	footerText := fmt.Sprintf("wscan report %s - page %d", s.ID, pdf.PageNo())
	pdf.CellFormat(0, 5, footerText, "", 1, "C", false, 0, "")
}

// SecurityCount is the number of networks using one security type.
type SecurityCount struct {
	Security domain.SecurityType
	Count    int
}

// CountBySecurity tallies results by security, most common first.
func CountBySecurity(results []domain.ScanResult) []SecurityCount {
	counts := make(map[domain.SecurityType]int)
	for _, r := range results {
		counts[r.Security]++
	}
	out := make([]SecurityCount, 0, len(counts))
	for sec, n := range counts {
		out = append(out, SecurityCount{Security: sec, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Security < out[j].Security
	})
	return out
}
