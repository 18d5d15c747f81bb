package bayer

import(
	"github.com/JVision/librtprocess/pkg/emath"
)

// BorderDemosaic fills every pixel within `border` of an image edge. A
// photosite keeps its own channel; each missing channel is the mean of
// the same-colored photosites in the surrounding 3x3 window, clipped to
// the image. Interior pixels are left untouched.
func BorderDemosaic(raw, red, green, blue *emath.Plane, cfa CFA, border int) {
	width, height := raw.Width(), raw.Height()
	out := [3]*emath.Plane{red, green, blue}

	for row:=0; row<height; row++ {
		for col:=0; col<width; col++ {
			if row >= border && row < height-border && col == border && col < width-border {
				col = width - border - 1 // skip the interior of this row
				continue
			}

			var sum [3]float32
			var n [3]int
			for r:=row-1; r<=row+1; r++ {
				if r < 0 || r >= height { continue }
				for c:=col-1; c<=col+1; c++ {
					if c < 0 || c >= width { continue }
					clr := cfa.At(r, c)
					sum[clr] += raw.Get(r, c)
					n[clr]++
				}
			}

			own := cfa.At(row, col)
			for clr:=Red; clr<=Blue; clr++ {
				switch {
				case clr == own:
					out[clr].Set(row, col, raw.Get(row, col))
				case n[clr] > 0:
					out[clr].Set(row, col, sum[clr] / float32(n[clr]))
				default:
					out[clr].Set(row, col, 0) // only on 1-pixel-wide images
				}
			}
		}
	}
}
