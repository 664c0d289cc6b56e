package model

import "fmt"

// HoursPerDay is the fixed resolution of every profile and simulation run.
const HoursPerDay = 24

// HourLabel formats an hour-of-day as the canonical "HH:00" label used across
// profiles, snapshots and aggregates. Keep these values stable; they are the
// join key between every stage of the pipeline.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// HourLabels returns the labels for [start, end), e.g. "08:00".."17:00".
func HourLabels(start, end int) []string {
	out := make([]string, 0, end-start)
	for h := start; h < end; h++ {
		out = append(out, HourLabel(h))
	}
	return out
}

// ValidateHourRange checks that [start, end) is a non-empty window inside a day.
func ValidateHourRange(start, end int) error {
	if start < 0 || end > HoursPerDay || start >= end {
		return fmt.Errorf("hour range [%d, %d) must be non-empty and within [0, %d): %w",
			start, end, HoursPerDay, ErrConfiguration)
	}
	return nil
}
