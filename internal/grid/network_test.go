package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
)

func testParams() Params {
	return Params{BasePowerVA: 1e6, BaseVoltageV: 400, FrequencyHz: 50, Name: "test"}
}

func testTopology(t *testing.T) *model.Topology {
	t.Helper()
	topo, err := model.NewTopology(
		[]model.Bus{{ID: "ref"}, {ID: "A"}, {ID: "B"}},
		[]model.Line{
			{ID: "L1", From: "ref", To: "A", ROhmPerKm: 0.3, XOhmPerKm: 0.3, LengthM: 100, AmpacityA: 200},
			{ID: "L2", From: "A", To: "B", LengthM: 50}, // placeholder row
		},
		[]model.LoadPoint{
			{BusID: "B", PeakActiveKW: 10, PeakReactiveKVAr: 3},
		},
	)
	require.NoError(t, err)
	return topo
}

func TestBuild_ReferenceIsFirstBus(t *testing.T) {
	net, err := Build(testTopology(t), testParams())
	require.NoError(t, err)

	require.Len(t, net.Buses, 3)
	refs := 0
	for _, b := range net.Buses {
		if b.IsReference {
			refs++
		}
	}
	assert.Equal(t, 1, refs, "exactly one reference bus")
	assert.Equal(t, "ref", net.Reference().ID)
	assert.Equal(t, 0, net.Reference().Index)
}

func TestBuild_SkipsDegenerateLines(t *testing.T) {
	net, err := Build(testTopology(t), testParams())
	require.NoError(t, err)

	require.Len(t, net.Lines, 1)
	assert.Equal(t, "L1", net.Lines[0].ID)

	require.Len(t, net.Exclusions, 1)
	assert.Equal(t, "L2", net.Exclusions[0].RowID)
	assert.Contains(t, net.Exclusions[0].Reason, "zero resistance")
}

func TestBuild_LineEndpointsResolve(t *testing.T) {
	net, err := Build(testTopology(t), testParams())
	require.NoError(t, err)

	for _, l := range net.Lines {
		assert.Less(t, l.FromIndex, len(net.Buses))
		assert.Less(t, l.ToIndex, len(net.Buses))
	}
}

func TestBuild_PerUnitConversion(t *testing.T) {
	net, err := Build(testTopology(t), testParams())
	require.NoError(t, err)

	// Zbase = 400^2 / 1e6 = 0.16 ohm; L1 is 0.3 ohm/km over 100 m = 0.03 ohm.
	assert.InDelta(t, 0.03/0.16, net.Lines[0].RPU, 1e-12)
	assert.InDelta(t, 0.03/0.16, net.Lines[0].XPU, 1e-12)
	assert.Equal(t, 200.0, net.Lines[0].AmpacityA)
}

func TestBuild_UnknownBusReferences(t *testing.T) {
	topo, err := model.NewTopology(
		[]model.Bus{{ID: "ref"}, {ID: "A"}},
		[]model.Line{
			{ID: "L1", From: "ref", To: "ghost", ROhmPerKm: 0.3, XOhmPerKm: 0.3, LengthM: 100, AmpacityA: 200},
		},
		[]model.LoadPoint{
			{BusID: "phantom", PeakActiveKW: 5},
		},
	)
	require.NoError(t, err)

	net, err := Build(topo, testParams())
	require.NoError(t, err)

	assert.Empty(t, net.Lines)
	require.Len(t, net.Exclusions, 2)
	assert.Equal(t, "L1", net.Exclusions[0].RowID)
	assert.Equal(t, "phantom", net.Exclusions[1].RowID)
}

func TestBuild_EmptyTopology(t *testing.T) {
	_, err := Build(&model.Topology{}, testParams())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	_, err = Build(nil, testParams())
	require.Error(t, err)
}

func TestBuild_BadBaseQuantities(t *testing.T) {
	_, err := Build(testTopology(t), Params{BasePowerVA: 0, BaseVoltageV: 400})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestLoadsForHour_SignsAndSkips(t *testing.T) {
	topo, err := model.NewTopology(
		[]model.Bus{{ID: "ref"}, {ID: "A"}},
		nil,
		[]model.LoadPoint{
			{BusID: "A", PeakActiveKW: 10, PeakReactiveKVAr: 3, PeakGenerationKW: 4},
			{BusID: "ghost", PeakActiveKW: 99},
		},
	)
	require.NoError(t, err)
	net, err := Build(topo, testParams())
	require.NoError(t, err)

	set, err := profile.Synthesize(topo.LoadPoints, profile.Options{
		Archetype:           "industry",
		GenerationArchetype: "summer",
	})
	require.NoError(t, err)

	ls, err := net.LoadsForHour(set, "12:00")
	require.NoError(t, err)
	assert.Equal(t, "12:00", ls.Hour)
	// One active + one reactive + one generation entry, ghost skipped.
	require.Len(t, ls.Loads, 3)

	pKW, qKVAr := net.NetInjections(ls)
	aIdx, ok := net.BusIndex("A")
	require.True(t, ok)

	load, _ := profile.LoadShape("industry")
	gen, _ := profile.GenerationShape("summer")
	assert.InDelta(t, 10*load[12]-4*gen[12], pKW[aIdx], 1e-12, "generation offsets consumption")
	assert.InDelta(t, 3*load[12], qKVAr[aIdx], 1e-12)
}

func TestLoadsForHour_UnknownLabel(t *testing.T) {
	net, err := Build(testTopology(t), testParams())
	require.NoError(t, err)
	set, err := profile.Synthesize(nil, profile.Options{Archetype: "office", GenerationArchetype: "none"})
	require.NoError(t, err)

	_, err = net.LoadsForHour(set, "25:00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}
