// Package aggregate reduces a day of hourly snapshots to per-element extrema:
// the worst line loading and the lowest bus voltage seen across the run.
package aggregate

import (
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// Aggregator consumes hour-labeled snapshots and accumulates per-element
// series. Feed it through Add (in any hour order; entries are keyed by
// label), then Finalize once after the last hour.
type Aggregator struct {
	hours      []string
	lineSeries map[string][]float64
	busSeries  map[string][]float64
	injected   map[string]bool
	gaps       []string
}

// New returns an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		lineSeries: make(map[string][]float64),
		busSeries:  make(map[string][]float64),
		injected:   make(map[string]bool),
	}
}

// Add folds one snapshot in. Undefined rows (NaN loading or voltage) are
// dropped from the affected element's series without touching other elements.
func (a *Aggregator) Add(snap *model.HourlySnapshot) {
	a.hours = append(a.hours, snap.Hour)

	for id, r := range snap.Lines {
		if !r.Defined() {
			continue
		}
		a.lineSeries[id] = append(a.lineSeries[id], r.LoadingPercent)
	}
	for id, r := range snap.Buses {
		if r.HasInjection() {
			a.injected[id] = true
		}
		if !r.Defined() {
			continue
		}
		a.busSeries[id] = append(a.busSeries[id], r.VmPU)
	}
}

// AddGap records an hour that produced no snapshot.
func (a *Aggregator) AddGap(hour string) {
	a.gaps = append(a.gaps, hour)
}

// Finalize reduces the accumulated series. Voltage entries are restricted to
// buses that carried non-zero net injection in at least one hour; elements
// whose entire series was undefined are absent from both maps.
func (a *Aggregator) Finalize() *model.DailyAggregate {
	agg := &model.DailyAggregate{
		MaxLineLoading: make(map[string]float64, len(a.lineSeries)),
		MinBusVoltage:  make(map[string]float64),
		LineSeries:     make(map[string][]float64, len(a.lineSeries)),
		BusSeries:      make(map[string][]float64),
		Hours:          a.hours,
		Gaps:           a.gaps,
	}

	for id, series := range a.lineSeries {
		if len(series) == 0 {
			continue
		}
		agg.LineSeries[id] = series
		agg.MaxLineLoading[id] = maxOf(series)
	}
	for id, series := range a.busSeries {
		if len(series) == 0 || !a.injected[id] {
			continue
		}
		agg.BusSeries[id] = series
		agg.MinBusVoltage[id] = minOf(series)
	}
	return agg
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
