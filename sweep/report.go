package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/syifan/cnnenergy/energy"
)

// WriteCSV writes one row per result: the FIFO depth, the buffer indices, and
// the breakdowns of the single-layer, cross-layer, and fixed-weight schedules,
// in uJ.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)

	header := []string{"fifo_depth", "iobuf", "weight_buf"}
	header = append(header, energy.CSVHeader("single_")...)
	header = append(header, energy.CSVHeader("cross_")...)
	header = append(header, energy.CSVHeader("fixed_")...)

	err := cw.Write(header)
	if err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range results {
		record := []string{
			strconv.Itoa(r.FIFODepth()),
			strconv.Itoa(r.IOBufIdx),
			strconv.Itoa(r.WeightIdx),
		}
		record = append(record, r.Single.CSVRecord()...)
		record = append(record, r.CrossLayer.CSVRecord()...)
		record = append(record, r.FixedWeights.CSVRecord()...)

		err = cw.Write(record)
		if err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteSummary renders the best point of each schedule.
func WriteSummary(w io.Writer, results []Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Best configurations")
	t.AppendHeader(table.Row{
		"Schedule", "FIFO depth", "iobuf", "weight buf", "Energy (uJ)",
	})

	schedules := []struct {
		name string
		pick func(Result) energy.Model
	}{
		{"single layer", PickSingle},
		{"cross layer", PickCrossLayer},
		{"fixed weights", PickFixedWeights},
	}

	for _, s := range schedules {
		best := Best(results, s.pick)
		t.AppendRow(table.Row{
			s.name,
			best.FIFODepth(),
			best.IOBufIdx,
			best.WeightIdx,
			s.pick(best).Total() / 1e6,
		})
	}

	t.Render()
}
