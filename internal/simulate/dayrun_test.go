package simulate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanfillettaz/loadflow-visualization/internal/aggregate"
	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
	"github.com/loanfillettaz/loadflow-visualization/internal/solver"
)

// Full pipeline over a small feeder with one placeholder line: topology in,
// daily extrema out, with the isolated branch behaving sanely throughout.
func TestDayRun_EndToEnd(t *testing.T) {
	topo, err := model.NewTopology(
		[]model.Bus{{ID: "sub"}, {ID: "A"}, {ID: "B"}},
		[]model.Line{
			{ID: "L1", From: "sub", To: "A", ROhmPerKm: 0.3, XOhmPerKm: 0.3, LengthM: 100, AmpacityA: 200},
			{ID: "L2", From: "A", To: "B"},
		},
		[]model.LoadPoint{
			{BusID: "A", PeakActiveKW: 20, PeakReactiveKVAr: 6},
			{BusID: "B", PeakActiveKW: 5, PeakReactiveKVAr: 1.5},
		},
	)
	require.NoError(t, err)

	net, err := grid.Build(topo, grid.Params{BasePowerVA: 1e6, BaseVoltageV: 400, FrequencyHz: 50})
	require.NoError(t, err)
	require.Len(t, net.Exclusions, 1)
	assert.Equal(t, "L2", net.Exclusions[0].RowID)

	set, err := profile.Synthesize(topo.LoadPoints, profile.Options{
		Archetype:           "office",
		GenerationArchetype: "none",
	})
	require.NoError(t, err)

	agg := aggregate.New()
	byHour := make(map[string]*model.HourlySnapshot)
	gaps, err := New(net, set, solver.NewGaussSeidel()).Run(Options{HourStart: 0, HourEnd: 24}, func(snap *model.HourlySnapshot) {
		agg.Add(snap)
		byHour[snap.Hour] = snap
	})
	require.NoError(t, err)
	require.Empty(t, gaps)
	require.Len(t, byHour, 24)

	// An office draws nothing at night: flat voltages, idle line.
	night := byHour["02:00"]
	assert.InDelta(t, 1.0, night.Buses["A"].VmPU, 1e-9)
	assert.InDelta(t, 0.0, night.Lines["L1"].LoadingPercent, 1e-9)

	// Mid-morning is the office peak: real current on L1, depressed voltage
	// at the fed bus.
	peak := byHour["09:00"]
	assert.Less(t, peak.Buses["A"].VmPU, 1.0)
	assert.Greater(t, peak.Lines["L1"].LoadingPercent, 0.0)
	assert.Greater(t, peak.Lines["L1"].PFromKW, 15.0)

	// B hangs off the excluded line, so no power can reach it; it must still
	// report a finite voltage every hour.
	for hour, snap := range byHour {
		v := snap.Buses["B"].VmPU
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "hour %s", hour)
		assert.InDelta(t, 1.0, v, 1e-9, "hour %s", hour)
	}

	daily := agg.Finalize()
	assert.InDelta(t, peak.Lines["L1"].LoadingPercent, daily.MaxLineLoading["L1"], 1e-9)
	assert.InDelta(t, peak.Buses["A"].VmPU, daily.MinBusVoltage["A"], 1e-9)
	assert.Contains(t, daily.MinBusVoltage, "B")
	assert.NotContains(t, daily.MinBusVoltage, "sub", "the substation never carries an injection")
	assert.Empty(t, daily.Gaps)
	assert.Len(t, daily.Hours, 24)
}
