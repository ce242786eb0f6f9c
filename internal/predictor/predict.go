package predictor

import (
	"rainbowfinder/internal/types"
)

// Predict assembles a full RainbowPrediction for a location from a paired
// (weather, sun) forecast. It picks the best visibility window, then builds
// the prediction from the window's peak sample: probability, timing, arc
// geometry, ranked viewing locations, bow type, and intensity.
//
// The boolean result is false when no sample clears the visibility floor;
// in that case the zero prediction is returned and the caller branches on
// absence. Malformed samples lower the probability, they never fail.
func Predict(loc types.GeoPoint, forecast []types.WeatherSample, suns []types.SolarPosition, radiusKM float64) (types.RainbowPrediction, bool) {
	windows := TimeWindows(forecast, suns)
	if len(windows) == 0 {
		return types.RainbowPrediction{}, false
	}

	// Best window = highest peak probability; earliest wins ties so users
	// hear about the soonest opportunity.
	best := windows[0]
	for _, w := range windows[1:] {
		if w.Probability > best.Probability {
			best = w
		}
	}

	peakWeather, peakSun := peakSample(forecast, suns, best)

	bowType := Classify(peakWeather, peakSun)
	arc := ArcCoordinates(loc, peakSun)
	if bowType == types.RainbowSecondary {
		arc = SecondaryArcCoordinates(loc, peakSun)
	}

	return types.RainbowPrediction{
		Location:         loc,
		Probability:      best.Probability,
		PredictedStart:   best.Start,
		PredictedEnd:     best.End,
		ViewingLocations: ViewingLocations(loc, peakSun, peakWeather, radiusKM),
		SunPosition:      peakSun,
		Weather:          peakWeather,
		Type:             bowType,
		Intensity:        Intensity(peakWeather, peakSun),
		ArcCoordinates:   arc,
	}, true
}

// peakSample returns the paired sample inside the window with the highest
// probability.
func peakSample(forecast []types.WeatherSample, suns []types.SolarPosition, win types.TimeWindow) (types.WeatherSample, types.SolarPosition) {
	n := len(forecast)
	if len(suns) < n {
		n = len(suns)
	}

	var bestW types.WeatherSample
	var bestS types.SolarPosition
	bestP := -1.0
	for i := 0; i < n; i++ {
		ts := forecast[i].Timestamp
		if ts.Before(win.Start) || ts.After(win.End) {
			continue
		}
		if p := Probability(forecast[i], suns[i]); p > bestP {
			bestP = p
			bestW = forecast[i]
			bestS = suns[i]
		}
	}
	return bestW, bestS
}
