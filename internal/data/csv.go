package data

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// WriteAggregateCSV writes the per-element daily extrema as a flat CSV for
// downstream tooling: one row per line (max loading) and one per bus
// (min voltage), in stable element order.
func WriteAggregateCSV(path string, agg *model.DailyAggregate) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"element_type", "element_id", "metric", "value", "hours"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, id := range sortedIDs(agg.MaxLineLoading) {
		row := []string{"line", id, "max_loading_percent", fmtFloat(agg.MaxLineLoading[id]), strconv.Itoa(len(agg.LineSeries[id]))}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	for _, id := range sortedIDs(agg.MinBusVoltage) {
		row := []string{"bus", id, "min_voltage_pu", fmtFloat(agg.MinBusVoltage[id]), strconv.Itoa(len(agg.BusSeries[id]))}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func sortedIDs(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
