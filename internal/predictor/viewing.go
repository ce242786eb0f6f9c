package predictor

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"rainbowfinder/internal/geo"
	"rainbowfinder/internal/types"
)

// Candidate generation and ranking parameters.
const (
	// candidateBearingStepDeg spaces candidate points around each ring.
	candidateBearingStepDeg = 30.0

	// viewingScoreFloor drops candidates whose composite score is noise.
	viewingScoreFloor = 0.05

	// proximityWeight controls how much distance from the center discounts
	// a candidate. At the full radius the proximity factor is 1-proximityWeight.
	proximityWeight = 0.5

	// maxScoringConcurrency bounds the candidate-scoring fan-out.
	maxScoringConcurrency = 8
)

// ringFractions are the radii, as fractions of the search radius, on which
// candidates are generated.
var ringFractions = []float64{0.25, 0.5, 0.75, 1.0}

type scoredPoint struct {
	point types.GeoPoint
	score float64
}

// ViewingLocations returns candidate observer positions within radiusKM of
// the precipitation center, ranked best-first. A good position puts the
// observer between the sun and the rain: looking along the antisolar azimuth
// from the candidate should face the precipitation. The composite score is
// predicted probability x sun/rain alignment x proximity.
//
// The empty list (never an error) is returned when the weather or sun rules
// out a rainbow entirely, or when no candidate in range scores above the
// floor. Candidates are scored concurrently; the ranking is restored by a
// final sort rather than relying on completion order.
func ViewingLocations(center types.GeoPoint, sun types.SolarPosition, w types.WeatherSample, radiusKM float64) []types.GeoPoint {
	baseProb := Probability(w, sun)
	if baseProb == 0 || radiusKM < 0 || math.IsNaN(radiusKM) {
		return []types.GeoPoint{}
	}

	candidates := []types.GeoPoint{center}
	for _, frac := range ringFractions {
		ringKM := radiusKM * frac
		if ringKM == 0 {
			continue
		}
		for brng := 0.0; brng < 360; brng += candidateBearingStepDeg {
			candidates = append(candidates, geo.Destination(center, brng, ringKM))
		}
	}

	antisolarAz := math.Mod(sun.Azimuth+180, 360)

	scored := make([]scoredPoint, len(candidates))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(maxScoringConcurrency)
	for i, cand := range candidates {
		g.Go(func() error {
			scored[i] = scoredPoint{
				point: cand,
				score: scoreCandidate(cand, center, antisolarAz, baseProb, radiusKM),
			}
			return nil
		})
	}
	// Scoring goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := []types.GeoPoint{}
	for _, sp := range scored {
		if sp.score < viewingScoreFloor {
			break
		}
		ranked = append(ranked, sp.point)
	}
	return ranked
}

// scoreCandidate computes the composite score for one candidate position.
func scoreCandidate(cand, center types.GeoPoint, antisolarAz, baseProb, radiusKM float64) float64 {
	dist := geo.Distance(cand, center)

	// Alignment: 1 when the rain lies exactly along the candidate's
	// antisolar azimuth, fading to 0 when it sits toward the sun. The
	// center itself has rain on all sides and gets full alignment.
	alignment := 1.0
	if dist > 1e-9 {
		delta := angularSeparation(geo.Bearing(cand, center), antisolarAz)
		alignment = (1 + math.Cos(degToRad(delta))) / 2
	}

	proximity := 1.0
	if radiusKM > 0 {
		proximity = 1 - proximityWeight*types.Clamp01(dist/radiusKM)
	}

	return types.Clamp01(baseProb * alignment * proximity)
}

// angularSeparation returns the absolute difference between two bearings
// in degrees, folded to [0,180].
func angularSeparation(a, b float64) float64 {
	d := math.Abs(math.Mod(a-b, 360))
	if d > 180 {
		d = 360 - d
	}
	return d
}
