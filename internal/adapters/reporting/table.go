package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

var tableHeader = []string{"Num", "SSID", "Chan (Band)", "RSSI", "Security", "BSSID", "MFP"}

// resultRow formats one result the way the CLI and the PDF show it.
func resultRow(num int, r domain.ScanResult) []string {
	return []string{
		fmt.Sprintf("%d", num),
		r.SSID,
		domain.BandChannel{Band: r.Band, Channel: r.Channel}.String(),
		fmt.Sprintf("%d", r.RSSI),
		r.Security.String(),
		domain.FormatMAC(r.BSSID),
		r.MFP.String(),
	}
}

// WriteResultsTable renders results as a text table.
func WriteResultsTable(w io.Writer, results []domain.ScanResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("Num", "SSID", "Chan (Band)", "RSSI", "Security", "BSSID", "MFP")

	for i, r := range results {
		if err := table.Append(resultRow(i+1, r)); err != nil {
			return err
		}
	}
	return table.Render()
}
