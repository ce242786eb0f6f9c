// Package scheduler implements the recurring prediction cycle: every run it
// walks all notifiable users, evaluates their favorite locations against the
// current forecast, and enqueues alerts for the opportunities that clear each
// user's preference gates.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rainbowfinder/internal/notifications"
	"rainbowfinder/internal/predictor"
	"rainbowfinder/internal/solar"
	"rainbowfinder/internal/types"
)

// CycleConfig holds the collaborators and tuning for a PredictionCycle.
type CycleConfig struct {
	Users     types.UserStore
	Weather   types.WeatherProvider
	Publisher types.AlertPublisher
	Policy    *notifications.PolicyEngine
	Metrics   notifications.Metrics
	Clock     types.Clock
	Logger    *slog.Logger

	// ForecastHours is how far ahead each location is evaluated.
	ForecastHours int
	// SearchRadiusKM bounds the viewing-location search around each favorite.
	SearchRadiusKM float64
	// UserFanout bounds concurrent per-user evaluation.
	UserFanout int
}

// PredictionCycle is the core service behind the predictor Lambda. One Run
// is one cycle; the schedule lives outside (EventBridge).
type PredictionCycle struct {
	users     types.UserStore
	weather   types.WeatherProvider
	publisher types.AlertPublisher
	policy    *notifications.PolicyEngine
	metrics   notifications.Metrics
	clock     types.Clock
	logger    *slog.Logger

	forecastHours  int
	searchRadiusKM float64
	userFanout     int
}

// CycleStats summarizes one cycle for logging and metrics.
type CycleStats struct {
	Users          int
	Locations      int64
	Predictions    int64
	AlertsSent     int64
	ProviderFaults int64
}

// NewPredictionCycle creates a PredictionCycle. Zero tuning values fall back
// to the platform defaults.
func NewPredictionCycle(cfg CycleConfig) *PredictionCycle {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = notifications.NopMetrics{}
	}
	hours := cfg.ForecastHours
	if hours <= 0 {
		hours = 24
	}
	radius := cfg.SearchRadiusKM
	if radius <= 0 {
		radius = types.DefaultNotificationRadiusKM
	}
	fanout := cfg.UserFanout
	if fanout <= 0 {
		fanout = 8
	}
	return &PredictionCycle{
		users:          cfg.Users,
		weather:        cfg.Weather,
		publisher:      cfg.Publisher,
		policy:         cfg.Policy,
		metrics:        metrics,
		clock:          clock,
		logger:         logger,
		forecastHours:  hours,
		searchRadiusKM: radius,
		userFanout:     fanout,
	}
}

// Run executes one prediction cycle. Provider faults degrade to skipped
// locations and are counted, never escalated; the only hard failure is not
// being able to list users at all.
func (c *PredictionCycle) Run(ctx context.Context) (CycleStats, error) {
	traceID := uuid.New().String()
	ctx = types.WithRequestID(ctx, traceID)
	start := c.clock.Now()

	users, err := c.users.ListNotifiable(ctx)
	if err != nil {
		return CycleStats{}, err
	}

	var stats CycleStats
	stats.Users = len(users)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.userFanout)
	for _, user := range users {
		g.Go(func() error {
			c.evaluateUser(gctx, user, &stats)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	c.metrics.RecordPredictionCount(ctx, int(stats.Predictions))
	c.logger.InfoContext(ctx, "prediction cycle complete",
		"trace_id", traceID,
		"duration_ms", c.clock.Now().Sub(start).Milliseconds(),
		"users", stats.Users,
		"locations", stats.Locations,
		"predictions", stats.Predictions,
		"alerts_sent", stats.AlertsSent,
		"provider_faults", stats.ProviderFaults,
	)
	return stats, nil
}

// evaluateUser walks one user's favorite locations. Each location is
// independent; one failing never blocks the rest.
func (c *PredictionCycle) evaluateUser(ctx context.Context, user types.UserProfile, stats *CycleStats) {
	for _, loc := range user.Preferences.FavoriteLocations {
		atomic.AddInt64(&stats.Locations, 1)

		pred, ok := c.evaluateLocation(ctx, loc, stats)
		if !ok {
			continue
		}
		atomic.AddInt64(&stats.Predictions, 1)

		if !c.policy.ShouldNotify(user, pred) || !c.policy.ShouldDeliver(user, pred) {
			continue
		}

		msg := types.AlertMessage{
			UserID:     user.ID,
			EventType:  types.EventRainbowAlert,
			Prediction: pred,
			NotifyAt:   c.policy.NotifyAt(user, pred),
			Ordering: types.OrderingMetadata{
				ForecastTimestamp: pred.Weather.Timestamp,
				EvalTimestamp:     c.clock.Now(),
			},
		}
		if err := c.publisher.Publish(ctx, msg); err != nil {
			c.logger.ErrorContext(ctx, "failed to enqueue alert",
				"user_id", user.ID,
				"location", loc.Name,
				"error", err.Error(),
			)
			continue
		}
		atomic.AddInt64(&stats.AlertsSent, 1)
	}
}

// evaluateLocation fetches the forecast for one location and runs the
// predictor over it. A provider fault is input-absence: log, count, move on.
func (c *PredictionCycle) evaluateLocation(ctx context.Context, loc types.GeoPoint, stats *CycleStats) (types.RainbowPrediction, bool) {
	forecast, err := c.weather.Forecast(ctx, loc, c.forecastHours)
	if err != nil {
		atomic.AddInt64(&stats.ProviderFaults, 1)
		c.logger.WarnContext(ctx, "weather provider fault, skipping location",
			"location", loc.Name,
			"lat", loc.Lat,
			"lon", loc.Lon,
			"error", err.Error(),
		)
		return types.RainbowPrediction{}, false
	}
	if len(forecast) == 0 {
		return types.RainbowPrediction{}, false
	}

	timestamps := make([]time.Time, len(forecast))
	for i, s := range forecast {
		timestamps[i] = s.Timestamp
	}
	suns := solar.Series(loc, timestamps)

	return predictor.Predict(loc, forecast, suns, c.searchRadiusKM)
}
