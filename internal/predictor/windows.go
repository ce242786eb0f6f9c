package predictor

import (
	"sort"

	"rainbowfinder/internal/types"
)

// VisibilityFloor is the default probability a sample must exceed to count
// toward a visibility window.
const VisibilityFloor = 0.25

// TimeWindows scans the paired (weather, sun) forecast samples and returns
// one window per contiguous run whose probability exceeds the default
// visibility floor. See TimeWindowsAbove.
func TimeWindows(forecast []types.WeatherSample, suns []types.SolarPosition) []types.TimeWindow {
	return TimeWindowsAbove(forecast, suns, VisibilityFloor)
}

// TimeWindowsAbove pairs forecast samples with sun positions index-by-index,
// computes the probability for each pair, and emits one TimeWindow per
// contiguous run above the floor. Each window spans the run's first and last
// sample timestamps and carries the run's peak probability.
//
// Windows are non-overlapping and chronologically ordered. The result is
// empty for an empty forecast or one entirely below the floor. If the two
// series differ in length, the unpaired tail is ignored.
func TimeWindowsAbove(forecast []types.WeatherSample, suns []types.SolarPosition, floor float64) []types.TimeWindow {
	n := len(forecast)
	if len(suns) < n {
		n = len(suns)
	}

	var windows []types.TimeWindow
	var open bool
	var current types.TimeWindow

	for i := 0; i < n; i++ {
		p := Probability(forecast[i], suns[i])
		if p > floor {
			if !open {
				open = true
				current = types.TimeWindow{
					Start:       forecast[i].Timestamp,
					End:         forecast[i].Timestamp,
					Probability: p,
				}
				continue
			}
			current.End = forecast[i].Timestamp
			if p > current.Probability {
				current.Probability = p
			}
			continue
		}
		if open {
			windows = append(windows, current)
			open = false
		}
	}
	if open {
		windows = append(windows, current)
	}

	// The chronological contract is on the output, not the scan order.
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}
