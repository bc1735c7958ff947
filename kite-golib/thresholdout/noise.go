package thresholdout

import (
	"math/rand"
	"strings"

	"github.com/kiteco/holdout/kite-golib/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseDistribution is the family the mechanism draws its noise from
type NoiseDistribution int

const (
	// Normal draws Gaussian noise with standard deviation equal to the scale
	Normal NoiseDistribution = iota
	// HeavyTailed draws Laplace noise with the scale as its diversity parameter
	HeavyTailed
)

func (d NoiseDistribution) String() string {
	switch d {
	case Normal:
		return "normal"
	case HeavyTailed:
		return "heavy-tailed"
	default:
		return "unknown"
	}
}

// ParseNoiseDistribution maps a configuration value to a NoiseDistribution
func ParseNoiseDistribution(s string) (NoiseDistribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "gaussian":
		return Normal, nil
	case "heavy-tailed", "heavy_tailed", "heavytailed", "laplace":
		return HeavyTailed, nil
	default:
		return Normal, errors.Errorf("unknown noise distribution %q (want normal or heavy-tailed)", s)
	}
}

// MarshalYAML writes the distribution by name
func (d NoiseDistribution) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML reads the distribution by name
func (d *NoiseDistribution) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseNoiseDistribution(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Sample draws one centered noise value with the given scale by inverting the CDF of a
// uniform draw from rng, so every draw consumes exactly one value of the stream.
func (d NoiseDistribution) Sample(rng *rand.Rand, scale float64) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	switch d {
	case HeavyTailed:
		return distuv.Laplace{Mu: 0, Scale: scale}.Quantile(u)
	default:
		return distuv.Normal{Mu: 0, Sigma: scale}.Quantile(u)
	}
}
