package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopology_DropsAllZeroLoads(t *testing.T) {
	topo, err := NewTopology(
		[]Bus{{ID: "a"}, {ID: "b"}},
		nil,
		[]LoadPoint{
			{BusID: "a", PeakActiveKW: 10},
			{BusID: "b"},
			{BusID: "b", PeakGenerationKW: 4},
		},
	)
	require.NoError(t, err)
	require.Len(t, topo.LoadPoints, 2)
	assert.Equal(t, "a", topo.LoadPoints[0].BusID)
	assert.Equal(t, "b", topo.LoadPoints[1].BusID)
}

func TestNewTopology_Invalid(t *testing.T) {
	_, err := NewTopology(nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = NewTopology([]Bus{{ID: "a"}, {ID: "a"}}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate bus id")

	_, err = NewTopology([]Bus{{ID: ""}}, nil, nil)
	require.Error(t, err)
}

func TestLine_Degenerate(t *testing.T) {
	full := Line{ROhmPerKm: 0.3, XOhmPerKm: 0.3, LengthM: 100}
	assert.False(t, full.Degenerate())

	for _, l := range []Line{
		{XOhmPerKm: 0.3, LengthM: 100},
		{ROhmPerKm: 0.3, LengthM: 100},
		{ROhmPerKm: 0.3, XOhmPerKm: 0.3},
		{},
	} {
		assert.True(t, l.Degenerate(), "%+v", l)
	}
}

func TestTopology_Reference(t *testing.T) {
	topo, err := NewTopology([]Bus{{ID: "sub"}, {ID: "a"}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "sub", topo.Reference().ID)
	assert.True(t, topo.HasBus("a"))
	assert.False(t, topo.HasBus("z"))
}

func TestHourLabels(t *testing.T) {
	assert.Equal(t, "07:00", HourLabel(7))
	assert.Equal(t, "23:00", HourLabel(23))
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, HourLabels(8, 11))

	labels := HourLabels(0, HoursPerDay)
	require.Len(t, labels, 24)
	assert.Equal(t, "00:00", labels[0])
	assert.Equal(t, "23:00", labels[23])
}

func TestValidateHourRange(t *testing.T) {
	require.NoError(t, ValidateHourRange(0, 24))
	require.NoError(t, ValidateHourRange(8, 9))

	for _, tc := range [][2]int{{-1, 24}, {0, 25}, {12, 12}, {18, 6}} {
		err := ValidateHourRange(tc[0], tc[1])
		require.Error(t, err, "[%d, %d)", tc[0], tc[1])
		assert.True(t, errors.Is(err, ErrConfiguration))
	}
}
