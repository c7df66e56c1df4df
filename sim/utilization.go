package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// UtilizationModel reports the fraction (0..1) of a requested resource
// a workload uses at a given simulation time.
type UtilizationModel interface {
	Utilization(clock float64) float64
}

// UtilizationFull always uses the whole requested capacity.
type UtilizationFull struct{}

func (UtilizationFull) Utilization(_ float64) float64 { return 1 }

// UtilizationDynamic uses a fixed fraction of the requested capacity.
type UtilizationDynamic struct {
	Fraction float64
}

// NewUtilizationDynamic clamps fraction into [0, 1].
func NewUtilizationDynamic(fraction float64) *UtilizationDynamic {
	return &UtilizationDynamic{Fraction: min(1, max(0, fraction))}
}

func (u *UtilizationDynamic) Utilization(_ float64) float64 { return u.Fraction }

// UtilizationStochastic draws a uniform sample in [0, 1) per distinct clock
// value. Repeated queries at the same clock return the same sample.
type UtilizationStochastic struct {
	dist    distuv.Uniform
	history map[float64]float64
}

// NewUtilizationStochastic creates a stochastic model fed by src.
func NewUtilizationStochastic(src rand.Source) *UtilizationStochastic {
	return &UtilizationStochastic{
		dist:    distuv.Uniform{Min: 0, Max: 1, Src: src},
		history: make(map[float64]float64),
	}
}

func (u *UtilizationStochastic) Utilization(clock float64) float64 {
	if v, ok := u.history[clock]; ok {
		return v
	}
	v := u.dist.Rand()
	u.history[clock] = v
	return v
}
