package data

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

func TestParseTopology(t *testing.T) {
	raw := []byte(`{
		"buses": [
			{"id": "sub", "lat": 46.52, "lon": 6.63},
			{"id": "f1"}
		],
		"lines": [
			{"id": "L1", "from": "sub", "to": "f1", "r_per_km": 0.3, "x_per_km": 0.35, "length_m": 120, "ampacity_a": 210}
		],
		"loads": [
			{"bus_id": "f1", "peak_active_kw": 15, "peak_reactive_kvar": 5},
			{"bus_id": "f1"}
		]
	}`)
	topo, err := ParseTopology(raw)
	require.NoError(t, err)

	require.Len(t, topo.Buses, 2)
	assert.Equal(t, "sub", topo.Buses[0].ID)
	require.NotNil(t, topo.Buses[0].Lat)
	assert.InDelta(t, 46.52, *topo.Buses[0].Lat, 1e-12)
	assert.Nil(t, topo.Buses[1].Lat)

	require.Len(t, topo.Lines, 1)
	assert.InDelta(t, 0.35, topo.Lines[0].XOhmPerKm, 1e-12)
	assert.InDelta(t, 120, topo.Lines[0].LengthM, 1e-12)

	require.Len(t, topo.LoadPoints, 1, "all-zero load rows are dropped")
	assert.InDelta(t, 15, topo.LoadPoints[0].PeakActiveKW, 1e-12)
}

func TestParseTopology_BadJSON(t *testing.T) {
	_, err := ParseTopology([]byte(`{"buses": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse topology")
}

func TestLoadTopologyJSON_MissingFile(t *testing.T) {
	_, err := LoadTopologyJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

const quantileCSV = `hour;Q5;Q10;Q25;Q50;Q75;Q90;Q95
00:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
01:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
02:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
03:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
04:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
05:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
06:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
07:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
08:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
09:00;2.0;3.0;4.0;6.0;8.0;10.0;12.0
10:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
11:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
12:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
13:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
14:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
15:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
16:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
17:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
18:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
19:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
20:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
21:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
22:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
23:00;1.0;1.5;2.0;3.0;4.0;5.0;6.0
`

func TestParseQuantileCSV(t *testing.T) {
	table, err := ParseQuantileCSV(strings.NewReader(quantileCSV))
	require.NoError(t, err)

	v := table.Sample("09:00", 0.5)
	assert.InDelta(t, 6.0, v, 1e-12, "median draw hits Q50")
	assert.InDelta(t, 2.0, table.Sample("09:00", 0.0), 1e-12, "saturates at Q5 below the first breakpoint")
	assert.InDelta(t, 12.0, table.Sample("09:00", 1.0), 1e-12, "saturates at Q95 beyond the last breakpoint")
}

func TestParseQuantileCSV_BadHeader(t *testing.T) {
	bad := strings.Replace(quantileCSV, "Q50", "median", 1)
	_, err := ParseQuantileCSV(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantile column")
}

func TestParseQuantileCSV_BadValue(t *testing.T) {
	bad := strings.Replace(quantileCSV, "09:00;2.0", "09:00;high", 1)
	_, err := ParseQuantileCSV(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad quantile value")
}

func TestParseQuantileCSV_MissingHour(t *testing.T) {
	truncated := quantileCSV[:strings.Index(quantileCSV, "23:00")]
	_, err := ParseQuantileCSV(strings.NewReader(truncated))
	require.Error(t, err)
}

func TestWriteAggregateCSV(t *testing.T) {
	agg := &model.DailyAggregate{
		MaxLineLoading: map[string]float64{"L2": 45.5, "L1": 87.25},
		MinBusVoltage:  map[string]float64{"f1": 0.9876},
		LineSeries:     map[string][]float64{"L1": {80, 87.25}, "L2": {45.5, 40}},
		BusSeries:      map[string][]float64{"f1": {0.99, 0.9876}},
	}
	path := filepath.Join(t.TempDir(), "aggregate.csv")
	require.NoError(t, WriteAggregateCSV(path, agg))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"element_type", "element_id", "metric", "value", "hours"}, rows[0])
	assert.Equal(t, []string{"line", "L1", "max_loading_percent", "87.250000", "2"}, rows[1])
	assert.Equal(t, []string{"line", "L2", "max_loading_percent", "45.500000", "2"}, rows[2])
	assert.Equal(t, []string{"bus", "f1", "min_voltage_pu", "0.987600", "2"}, rows[3])
}
