package reporting

import (
	"bytes"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

func sampleSession(n int) *domain.ScanSession {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := &domain.ScanSession{
		ID:          "session-123",
		StartedAt:   start,
		FinishedAt:  start.Add(2300 * time.Millisecond),
		ChannelSpec: "2:1,6,11_5:36-48",
		Status:      domain.SessionDone,
	}
	securities := []domain.SecurityType{domain.SecurityPSK, domain.SecuritySAE, domain.SecurityNone, domain.SecurityWEP}
	for i := 0; i < n; i++ {
		band, ch := domain.Band24GHz, 1+(i%11)
		if i%3 == 0 {
			band, ch = domain.Band5GHz, 36
		}
		s.Results = append(s.Results, domain.ScanResult{
			SSID:     fmt.Sprintf("Net-%02d", i),
			Band:     band,
			Channel:  ch,
			Security: securities[i%len(securities)],
			MFP:      domain.MFPOptional,
			RSSI:     -40 - i,
			BSSID:    net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, byte(i)},
		})
	}
	s.ResultCount = len(s.Results)
	return s
}

func TestPDFExporterExportSession(t *testing.T) {
	exporter := NewPDFExporter()

	pdfData, err := exporter.ExportSession(sampleSession(12))
	require.NoError(t, err)

	// PDF files start with %PDF-
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF-")), "Generated data does not have PDF header")
	assert.Greater(t, len(pdfData), 1000)
	assert.Less(t, len(pdfData), 1000000)

	t.Logf("Generated PDF size: %d bytes", len(pdfData))
}

func TestPDFExporterWithNoResults(t *testing.T) {
	exporter := NewPDFExporter()

	s := sampleSession(0)
	s.Status = domain.SessionTimeout
	s.Error = "scan did not complete"
	s.FinishedAt = time.Time{}

	pdfData, err := exporter.ExportSession(s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF-")))
}

func TestPDFExporterManyResults(t *testing.T) {
	exporter := NewPDFExporter()

	// Enough rows to force page breaks
	small, err := exporter.ExportSession(sampleSession(5))
	require.NoError(t, err)
	large, err := exporter.ExportSession(sampleSession(150))
	require.NoError(t, err)

	assert.Greater(t, len(large), len(small))
}

func TestPDFExporterNilSession(t *testing.T) {
	_, err := NewPDFExporter().ExportSession(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCountBySecurity(t *testing.T) {
	results := []domain.ScanResult{
		{Security: domain.SecurityPSK},
		{Security: domain.SecurityNone},
		{Security: domain.SecurityPSK},
		{Security: domain.SecuritySAE},
		{Security: domain.SecurityNone},
		{Security: domain.SecurityPSK},
	}

	got := CountBySecurity(results)
	assert.Equal(t, []SecurityCount{
		{Security: domain.SecurityPSK, Count: 3},
		{Security: domain.SecurityNone, Count: 2},
		{Security: domain.SecuritySAE, Count: 1},
	}, got)

	assert.Empty(t, CountBySecurity(nil))
}
