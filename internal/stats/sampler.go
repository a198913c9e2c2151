package stats

import (
	"math"
	"math/rand/v2"

	derrors "statlab/pkg/domain-errors"
)

// Sampler draws normal variates via the Box-Muller transform.
//
// Src controls entropy: nil uses the process-wide generator, which is the
// default for serving traffic. Tests and parallel simulations inject their
// own source so draws stay independent without locking. Reproducibility
// across runs is not guaranteed with the default source; assertions on
// samples must target statistical properties, never exact values.
type Sampler struct {
	Src *rand.Rand
}

// Generate draws spec.Size independent values from the normal distribution
// with spec.Mean and spec.StdDev.
//
// Each value is mean + sd*sqrt(-2 ln u)*cos(2*pi*v) with u, v uniform in
// the open interval (0,1). The output length always equals spec.Size.
func (s Sampler) Generate(spec SampleSpec) ([]float64, error) {
	if spec.Size < 1 {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "sample size must be at least 1, got %d", spec.Size)
	}
	if !finite(spec.Mean) {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "mean must be finite, got %g", spec.Mean)
	}
	if !finite(spec.StdDev) || spec.StdDev <= 0 {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "standard deviation must be positive, got %g", spec.StdDev)
	}

	sample := make([]float64, spec.Size)
	for i := range sample {
		u := s.uniformOpen()
		v := s.uniformOpen()
		sample[i] = spec.Mean + spec.StdDev*math.Sqrt(-2*math.Log(u))*math.Cos(2*math.Pi*v)
	}
	return sample, nil
}

// uniformOpen draws a uniform variate in the open interval (0,1),
// re-drawing exact zeros so the logarithm in Box-Muller never sees a
// singularity. Isolated here to keep the sampler auditable.
func (s Sampler) uniformOpen() float64 {
	for {
		var u float64
		if s.Src != nil {
			u = s.Src.Float64()
		} else {
			u = rand.Float64()
		}
		if u != 0 {
			return u
		}
	}
}

// GenerateSample draws from the process-wide uniform source.
func GenerateSample(spec SampleSpec) ([]float64, error) {
	return Sampler{}.Generate(spec)
}
