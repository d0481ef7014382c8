package energy

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable renders the breakdown as a table with the share of each memory.
func (m Model) WriteTable(w io.Writer, title string) {
	total := m.Total()
	share := func(v float64) string {
		if total == 0 {
			return "-"
		}

		return fmt.Sprintf("%.2f%%", v/total*100)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s", title)
	t.AppendHeader(table.Row{"Component", "Read (pJ)", "Write (pJ)", "Share"})
	t.AppendRows([]table.Row{
		{"iobuf", m.ReadIOBuf, m.WriteIOBuf, share(m.IOBuf())},
		{"weight", m.ReadWeight, m.WriteWeight, share(m.Weight())},
		{"DRAM", m.ReadDRAM, m.WriteDRAM, share(m.DRAM())},
		{"background", m.Background, "", share(m.Background)},
		{"compute", m.Compute, "", share(m.Compute)},
	})
	t.AppendFooter(table.Row{"Total", total, "", ""})
	t.Render()
}

var csvFields = []string{
	"rd_iobuf", "rd_weight", "rd_ddr",
	"wr_iobuf", "wr_weight", "wr_ddr",
	"bg", "calc", "total",
}

// CSVHeader returns the column names of CSVRecord, each prefixed.
func CSVHeader(prefix string) []string {
	header := make([]string, 0, len(csvFields))
	for _, f := range csvFields {
		header = append(header, prefix+f)
	}

	return header
}

// CSVRecord returns the breakdown in uJ, reads first, then writes, then
// background, compute, and total.
func (m Model) CSVRecord() []string {
	values := []float64{
		m.ReadIOBuf, m.ReadWeight, m.ReadDRAM,
		m.WriteIOBuf, m.WriteWeight, m.WriteDRAM,
		m.Background, m.Compute, m.Total(),
	}

	record := make([]string, 0, len(values))
	for _, v := range values {
		record = append(record, strconv.FormatFloat(v/1e6, 'g', -1, 64))
	}

	return record
}
