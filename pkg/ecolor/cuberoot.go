package ecolor

import "math"

const (
	// SampleMax is the top of the sensor range; all planes use [0, SampleMax]
	SampleMax      = 65535.0
	CubeRootBuckets = 65536

	labEpsilon     = 0.008856
	labKappaSlope  = 7.787
)

// A CubeRootTable holds the CIE Lab companding function f(t), sampled at
// t = i/65535 for i in [0,65535]. It is built once and then only read, so
// it can be shared across goroutines.
type CubeRootTable struct {
	values []float32
}

func NewCubeRootTable() *CubeRootTable {
	t := CubeRootTable{values: make([]float32, CubeRootBuckets)}
	for i:=0; i<CubeRootBuckets; i++ {
		r := float64(i) / SampleMax
		if r > labEpsilon {
			t.values[i] = float32(math.Cbrt(r))
		} else {
			t.values[i] = float32(labKappaSlope * r + 16.0/116.0)
		}
	}
	return &t
}

func (t *CubeRootTable)Len() int          { return len(t.values) }
func (t *CubeRootTable)At(i int) float32 { return t.values[i] }

// Lookup takes a sample value in [0,65535] (not normalized), clamps it,
// and interpolates linearly between the two nearest entries.
func (t *CubeRootTable)Lookup(x float32) float32 {
	last := len(t.values) - 1
	if !(x > 0) { // also catches NaN
		return t.values[0]
	}
	if x >= float32(last) {
		return t.values[last]
	}

	i := int(x)
	frac := x - float32(i)
	return t.values[i] + (t.values[i+1] - t.values[i]) * frac
}

// Clip pins a sample into [0, SampleMax]
func Clip(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > SampleMax {
		return SampleMax
	}
	return v
}
