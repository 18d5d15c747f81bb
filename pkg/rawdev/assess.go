package rawdev

import(
	"fmt"
	"image"
	"math"

	"github.com/codahale/hdrhistogram"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/stat"

	"github.com/JVision/librtprocess/pkg/ahd"
	"github.com/JVision/librtprocess/pkg/bayer"
	"github.com/JVision/librtprocess/pkg/ecolor"
	"github.com/JVision/librtprocess/pkg/emath"
)

// An Assessment says how closely a demosaic reproduced a known image.
type Assessment struct {
	N             int        // interior pixels compared
	MeanDeltaE    float64    // CIE76, on the usual 0-100 L scale
	StdDevDeltaE  float64
	P50, P95, P99 float64    // percentiles of delta E
	MaxDeltaE     float64
	PSNR          [3]float64 // dB, per channel; +Inf for a perfect match

	Buckets       histogram.Histogram // delta E, in whole units
	Directions    [3]int              // pixels decided horizontal, vertical, tied
}

func (a Assessment)String() string {
	str := fmt.Sprintf("Assessment over %d pixels:\n", a.N)
	str += fmt.Sprintf("  deltaE    : mean %.3f, stddev %.3f, max %.3f\n", a.MeanDeltaE, a.StdDevDeltaE, a.MaxDeltaE)
	str += fmt.Sprintf("  percentile: 50%% %.2f, 95%% %.2f, 99%% %.2f\n", a.P50, a.P95, a.P99)
	str += fmt.Sprintf("  PSNR      : R %.2fdB, G %.2fdB, B %.2fdB\n", a.PSNR[0], a.PSNR[1], a.PSNR[2])
	str += fmt.Sprintf("  direction : %d horizontal, %d vertical, %d tied\n", a.Directions[0], a.Directions[1], a.Directions[2])
	str += fmt.Sprintf("  histogram : %v\n", a.Buckets)
	return str
}

// Assess mosaics ref through the config's CFA, demosaics it, and compares
// the interior against ref. Border pixels come from the simple border
// fill, so they're left out. ref is taken to be sRGB encoded, as PNGs are.
func Assess(cfg Config, ref image.Image) (Assessment, error) {
	raw := bayer.Mosaic(ref, cfg.Pattern)
	w, h := raw.Width(), raw.Height()
	r, g, b := emath.NewPlane(w, h), emath.NewPlane(w, h), emath.NewPlane(w, h)

	e := ahd.NewEngine(cfg.Workers)
	e.DecisionMap = emath.NewPlane(w, h)
	if err := e.Demosaic(raw, r, g, b, cfg.Pattern, emath.Identity3(), nil); err != nil {
		return Assessment{}, fmt.Errorf("assess: %w", err)
	}

	interior := ahd.Interior(w, h)
	if interior.Empty() {
		return Assessment{}, fmt.Errorf("assess: %dx%d image has no interior", w, h)
	}

	a := Assessment{
		Buckets: histogram.Histogram{NumBuckets:20, ValMin:0, ValMax:20},
	}
	hist := newDeltaEHistogram()
	deltas := make([]float64, 0, interior.Dx() * interior.Dy())
	var sqErr [3]float64
	toUnit := func(v float32) float64 { return emath.Clamp01(float64(v) / ecolor.SampleMax) }

	bounds := ref.Bounds()
	for y:=interior.Min.Y; y<interior.Max.Y; y++ {
		for x:=interior.Min.X; x<interior.Max.X; x++ {
			rr, rg, rb, _ := ref.At(bounds.Min.X + x, bounds.Min.Y + y).RGBA()
			want := [3]float32{float32(rr), float32(rg), float32(rb)}
			got := [3]float32{r.Get(y, x), g.Get(y, x), b.Get(y, x)}

			for i:=0; i<3; i++ {
				diff := float64(got[i] - want[i])
				sqErr[i] += diff * diff
			}

			c1 := colorful.Color{R: toUnit(want[0]), G: toUnit(want[1]), B: toUnit(want[2])}
			c2 := colorful.Color{R: toUnit(got[0]), G: toUnit(got[1]), B: toUnit(got[2])}
			de := 100 * c1.DistanceLab(c2)

			deltas = append(deltas, de)
			if err := recordDeltaE(hist, de); err != nil {
				return Assessment{}, fmt.Errorf("assess: %v", err)
			}
			a.Buckets.Add(histogram.ScalarVal(int(de)))
			a.MaxDeltaE = max(a.MaxDeltaE, de)

			switch e.DecisionMap.Get(y, x) {
			case ahd.DecidedHorizontal: a.Directions[0]++
			case ahd.DecidedVertical:   a.Directions[1]++
			default:                    a.Directions[2]++
			}
		}
	}

	a.N = len(deltas)
	a.MeanDeltaE = stat.Mean(deltas, nil)
	a.StdDevDeltaE = stat.StdDev(deltas, nil)
	a.P50 = float64(hist.ValueAtQuantile(50)) / 100
	a.P95 = float64(hist.ValueAtQuantile(95)) / 100
	a.P99 = float64(hist.ValueAtQuantile(99)) / 100

	for i:=0; i<3; i++ {
		mse := sqErr[i] / float64(a.N)
		if mse == 0 {
			a.PSNR[i] = math.Inf(1)
		} else {
			a.PSNR[i] = 10 * math.Log10(ecolor.SampleMax * ecolor.SampleMax / mse)
		}
	}

	return a, nil
}

// newDeltaEHistogram records delta E in hundredths, up to 1000.
func newDeltaEHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, 100000, 3)
}

// recordDeltaE pins values above the histogram's range to its top, so they
// still count towards the high percentiles.
func recordDeltaE(hist *hdrhistogram.Histogram, de float64) error {
	v := int64(math.Round(de * 100))
	v = min(max(v, 0), hist.HighestTrackableValue())
	if err := hist.RecordValue(v); err != nil {
		return fmt.Errorf("delta E %.2f: %v", de, err)
	}
	return nil
}
