package notifications

import (
	"math"
	"time"

	"rainbowfinder/internal/geo"
	"rainbowfinder/internal/types"
)

// PolicyEngine decides whether a prediction is worth telling a user about.
// The preference gate (ShouldNotify) is pure; the delivery-time gates
// (ShouldDeliver) consult the clock. Nothing here mutates its inputs.
type PolicyEngine struct {
	clock  types.Clock
	logger types.Logger
}

// NewPolicyEngine creates a PolicyEngine with the given clock and logger.
// The clock abstraction allows deterministic testing of time-dependent logic.
func NewPolicyEngine(clock types.Clock, logger types.Logger) *PolicyEngine {
	return &PolicyEngine{
		clock:  clock,
		logger: logger,
	}
}

// ShouldNotify reports whether the prediction clears the user's preference
// gate: notifications enabled AND probability at or above the user's
// minimum. It is pure; no clock, no side effects. Timing and distance
// concerns live in ShouldDeliver.
func (e *PolicyEngine) ShouldNotify(user types.UserProfile, p types.RainbowPrediction) bool {
	prefs := user.Preferences
	return prefs.NotificationEnabled && p.Probability >= prefs.MinProbability
}

// FilterPredictions returns exactly the predictions that pass ShouldNotify,
// preserving the input order. The result is always non-nil and the input
// slice is never modified.
func (e *PolicyEngine) FilterPredictions(user types.UserProfile, preds []types.RainbowPrediction) []types.RainbowPrediction {
	kept := []types.RainbowPrediction{}
	for _, p := range preds {
		if e.ShouldNotify(user, p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// ShouldDeliver applies the delivery-time gates to a prediction that has
// already passed ShouldNotify:
//
//  1. Opportunity already over (window end before now) -> skip.
//  2. Prediction farther than the user's max distance from every favorite
//     location -> skip. A user with no favorites accepts any location.
//
// A malformed max distance fails open.
func (e *PolicyEngine) ShouldDeliver(user types.UserProfile, p types.RainbowPrediction) bool {
	prefs := user.Preferences

	if !p.PredictedEnd.IsZero() && p.PredictedEnd.Before(e.clock.Now()) {
		e.logger.Info("prediction window already over, skipping",
			"user_id", user.ID,
			"predicted_end", p.PredictedEnd,
		)
		return false
	}

	if len(prefs.FavoriteLocations) > 0 && !e.withinReach(prefs, p.Location) {
		return false
	}

	return true
}

// NotifyAt returns the instant a notification for the prediction should be
// delivered: lead-time minutes before the window opens, but never in the
// past. A non-positive lead time means "notify now".
func (e *PolicyEngine) NotifyAt(user types.UserProfile, p types.RainbowPrediction) time.Time {
	now := e.clock.Now()

	lead := user.Preferences.LeadTimeMinutes
	if lead <= 0 {
		return now
	}

	at := p.PredictedStart.Add(-time.Duration(lead) * time.Minute)
	if at.Before(now) {
		return now
	}
	return at
}

// withinReach reports whether the prediction location falls within the user's
// max distance of at least one favorite location. A malformed max distance
// fails open.
func (e *PolicyEngine) withinReach(prefs types.UserPreferences, loc types.GeoPoint) bool {
	maxKM := prefs.MaxDistanceKM
	if maxKM <= 0 || math.IsNaN(maxKM) {
		return true
	}
	for _, fav := range prefs.FavoriteLocations {
		if geo.Distance(fav, loc) <= maxKM {
			return true
		}
	}
	return false
}
