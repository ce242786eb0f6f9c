package atmosphere

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rainbowfinder/internal/types"
)

func TestFavorable_RainWithOpenSky(t *testing.T) {
	assert.True(t, Favorable(types.WeatherSample{PrecipitationMMH: 0.5, CloudCoverPct: 40}))
}

func TestFavorable_Boundaries(t *testing.T) {
	// Thresholds are inclusive on the favorable side.
	assert.True(t, Favorable(types.WeatherSample{PrecipitationMMH: 0.1, CloudCoverPct: 70}))
	assert.False(t, Favorable(types.WeatherSample{PrecipitationMMH: 0.09, CloudCoverPct: 70}))
	assert.False(t, Favorable(types.WeatherSample{PrecipitationMMH: 0.1, CloudCoverPct: 70.1}))
}

func TestFavorable_NoRain(t *testing.T) {
	assert.False(t, Favorable(types.WeatherSample{PrecipitationMMH: 0, CloudCoverPct: 10}))
}

func TestFavorable_Overcast(t *testing.T) {
	assert.False(t, Favorable(types.WeatherSample{PrecipitationMMH: 2.0, CloudCoverPct: 95}))
}

func TestThresholds_PartialOverride(t *testing.T) {
	// Only the cloud limit is tightened; precipitation keeps the default.
	custom := DefaultThresholds()
	custom.MaxCloudCoverPct = 50

	assert.True(t, custom.Favorable(types.WeatherSample{PrecipitationMMH: 0.1, CloudCoverPct: 50}))
	assert.False(t, custom.Favorable(types.WeatherSample{PrecipitationMMH: 0.1, CloudCoverPct: 60}))
	assert.False(t, custom.Favorable(types.WeatherSample{PrecipitationMMH: 0.05, CloudCoverPct: 10}))
}

func TestThresholds_ZeroLimitsAreLiteral(t *testing.T) {
	// A zero cloud limit means clear sky only, not the platform default.
	strict := NewThresholds(0.1, 0)
	assert.False(t, strict.Favorable(types.WeatherSample{PrecipitationMMH: 0.5, CloudCoverPct: 5}))
	assert.True(t, strict.Favorable(types.WeatherSample{PrecipitationMMH: 0.5, CloudCoverPct: 0}))

	// A zero precipitation floor accepts any rain at all.
	loose := NewThresholds(0, 70)
	assert.True(t, loose.Favorable(types.WeatherSample{PrecipitationMMH: 0.01, CloudCoverPct: 40}))
}
