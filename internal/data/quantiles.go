package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
)

// quantileHeader is the expected column order of a quantile CSV.
var quantileHeader = []string{"hour", "Q5", "Q10", "Q25", "Q50", "Q75", "Q90", "Q95"}

// LoadQuantileCSV reads an hour-indexed quantile table from a ;-separated CSV
// with columns hour;Q5;Q10;Q25;Q50;Q75;Q90;Q95 and hour labels "00:00".."23:00".
func LoadQuantileCSV(path string) (*profile.QuantileTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quantile file: %w", err)
	}
	defer f.Close()
	return ParseQuantileCSV(f)
}

// ParseQuantileCSV decodes a quantile table from a reader.
func ParseQuantileCSV(r io.Reader) (*profile.QuantileTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read quantile header: %w", err)
	}
	if err := checkQuantileHeader(header); err != nil {
		return nil, err
	}

	rows := make(map[string]profile.Breakpoints)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read quantile row: %w", err)
		}
		vals := make([]float64, 7)
		for i := 0; i < 7; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("bad quantile value %q for hour %s: %w", rec[i+1], rec[0], err)
			}
			vals[i] = v
		}
		rows[strings.TrimSpace(rec[0])] = profile.Breakpoints{
			Q5: vals[0], Q10: vals[1], Q25: vals[2], Q50: vals[3],
			Q75: vals[4], Q90: vals[5], Q95: vals[6],
		}
	}
	return profile.NewQuantileTable(rows)
}

func checkQuantileHeader(header []string) error {
	if len(header) < len(quantileHeader) {
		return fmt.Errorf("quantile header has %d columns, want %d", len(header), len(quantileHeader))
	}
	for i, want := range quantileHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("quantile column %d is %q, want %q", i, header[i], want)
		}
	}
	return nil
}
