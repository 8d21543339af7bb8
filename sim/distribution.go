package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// TriangularSpec parameterizes a bounded triangular distribution.
// Invariant: Min <= Mode <= Max, all finite.
type TriangularSpec struct {
	Min  float64 `yaml:"min" json:"min"`
	Mode float64 `yaml:"mode" json:"mode"`
	Max  float64 `yaml:"max" json:"max"`
}

// Tri is shorthand for building a TriangularSpec.
func Tri(lo, mode, hi float64) TriangularSpec {
	return TriangularSpec{Min: lo, Mode: mode, Max: hi}
}

// Validate checks finiteness and ordering. field names the parameter in
// the returned error.
func (t TriangularSpec) Validate(field string) error {
	for _, v := range []float64{t.Min, t.Mode, t.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidParam(field, "bounds must be finite numbers, got {min: %g, mode: %g, max: %g}", t.Min, t.Mode, t.Max)
		}
	}
	if t.Min > t.Mode || t.Mode > t.Max {
		return invalidParam(field, "requires min <= mode <= max, got {min: %g, mode: %g, max: %g}", t.Min, t.Mode, t.Max)
	}
	return nil
}

// Mean returns the analytic mean (min + mode + max) / 3.
func (t TriangularSpec) Mean() float64 {
	return (t.Min + t.Mode + t.Max) / 3
}

// Quantile maps u in [0,1] through the inverse CDF. The spec must be
// valid; a zero-width spec always yields Min.
func (t TriangularSpec) Quantile(u float64) float64 {
	if t.Max == t.Min {
		return t.Min
	}
	// Only the quantile is used, so no source is attached; draws come from
	// the caller's stream.
	return distuv.NewTriangle(t.Min, t.Max, t.Mode, nil).Quantile(u)
}

// Sample draws one value. A uniform is consumed even for a degenerate
// spec so stream positions do not depend on parameter values.
func (t TriangularSpec) Sample(rng *rand.Rand) float64 {
	return t.Quantile(rng.Float64())
}

// SampleN draws n independent values in order.
func (t TriangularSpec) SampleN(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t.Sample(rng)
	}
	return out
}

// uniformN draws n independent uniforms on [0,1).
func uniformN(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()
	}
	return out
}
