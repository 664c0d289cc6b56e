package model

import "math"

// BusResult is one bus row of a solved hour.
type BusResult struct {
	VmPU     float64 `json:"vm_pu"`
	AngleDeg float64 `json:"angle_deg"`
	// PKW/QKVAr are the net injections applied for the hour (load positive,
	// generation negative), echoed back so consumers can tell idle buses apart.
	PKW   float64 `json:"p_kw"`
	QKVAr float64 `json:"q_kvar"`
}

// LineResult is one line row of a solved hour.
type LineResult struct {
	LoadingPercent float64 `json:"loading_percent"`
	CurrentA       float64 `json:"current_a"`
	PFromKW        float64 `json:"p_from_kw"`
}

// HourlySnapshot is the full result of one steady-state solve. It is produced
// and consumed within a single orchestration step; nothing retains it beyond
// extraction into time series.
type HourlySnapshot struct {
	Hour  string                `json:"hour"`
	Buses map[string]BusResult  `json:"buses"`
	Lines map[string]LineResult `json:"lines"`
}

// HasInjection reports whether the bus carried any net power this hour.
func (r BusResult) HasInjection() bool {
	return r.PKW != 0 || r.QKVAr != 0
}

// Defined reports whether the bus row holds a usable voltage.
func (r BusResult) Defined() bool {
	return !math.IsNaN(r.VmPU)
}

// Defined reports whether the line row holds a usable loading value.
func (r LineResult) Defined() bool {
	return !math.IsNaN(r.LoadingPercent)
}

// DailyAggregate reduces a day of snapshots to per-element extrema plus the
// series they came from. Voltage entries are restricted to buses that carried
// non-zero injection in at least one hour.
type DailyAggregate struct {
	MaxLineLoading map[string]float64   `json:"max_line_loading"`
	MinBusVoltage  map[string]float64   `json:"min_bus_voltage"`
	LineSeries     map[string][]float64 `json:"line_series"`
	BusSeries      map[string][]float64 `json:"bus_series"`
	// Hours lists the labels the series are aligned to, in solve order.
	Hours []string `json:"hours"`
	// Gaps lists hour labels that failed to solve when gap recording is
	// enabled; empty on a clean run.
	Gaps []string `json:"gaps,omitempty"`
}
