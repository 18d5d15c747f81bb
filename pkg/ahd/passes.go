package ahd

import(
	"github.com/JVision/librtprocess/pkg/bayer"
	"github.com/JVision/librtprocess/pkg/ecolor"
	"github.com/JVision/librtprocess/pkg/emath"
)

// tileRun is the read-only state shared by every tile of one run, plus
// the output planes (tiles write disjoint parts of them).
type tileRun struct {
	width     int
	height    int
	raw      *emath.Plane
	out       [3]*emath.Plane
	cfa       bayer.CFA
	lab      *ecolor.LabConverter
	decisions *emath.Plane // optional
}

// process runs the four passes over one tile. Each pass completes over
// the whole tile before the next begins.
func (tr *tileRun)process(ws *Workspace, t Tile) {
	tr.interpolateGreen(ws, t)
	tr.interpolateRedBlue(ws, t)
	tr.buildHomogeneity(ws, t)
	tr.combine(ws, t)
}

// interpolateGreen fills in green at red and blue photosites, once using
// only the row (direction 0) and once using only the column (direction 1).
// Each estimate is clamped by a median against the two neighbouring greens
// it was built from, which stops overshoot at edges.
func (tr *tileRun)interpolateGreen(ws *Workspace, t Tile) {
	ts := ws.TileSize
	rowEnd := min(t.Top + ts, tr.height - 2)
	colEnd := min(t.Left + ts, tr.width - 2)
	rgb0, rgb1 := ws.RGB[0], ws.RGB[1]

	for row:=t.Top; row<rowEnd; row++ {
		up2, up1 := tr.raw.Row(row-2), tr.raw.Row(row-1)
		pix      := tr.raw.Row(row)
		dn1, dn2 := tr.raw.Row(row+1), tr.raw.Row(row+2)

		for col:=t.Left; col<colEnd; col++ {
			i := 3*ws.pix(row - t.Top, col - t.Left) + 1

			if tr.cfa.At(row, col) == bayer.Green {
				rgb0[i] = pix[col]
				rgb1[i] = pix[col]
				continue
			}

			val0 := 0.25 * ((pix[col-1] + pix[col] + pix[col+1]) * 2 - pix[col-2] - pix[col+2])
			rgb0[i] = median3(val0, pix[col-1], pix[col+1])

			val1 := 0.25 * ((up1[col] + pix[col] + dn1[col]) * 2 - up2[col] - dn2[col])
			rgb1[i] = median3(val1, up1[col], dn1[col])
		}
	}
}

// interpolateRedBlue fills in the two missing channels for each direction
// independently, using color differences against that direction's green,
// and converts every result to Lab.
func (tr *tileRun)interpolateRedBlue(ws *Workspace, t Tile) {
	ts := ws.TileSize
	rowEnd := min(t.Top + ts - 1, tr.height - 3)
	colEnd := min(t.Left + ts - 1, tr.width - 3)
	up, down := -3*ts, 3*ts // offsets to the pixel above and below, in a volume

	for d:=0; d<2; d++ {
		rgb, lab := ws.RGB[d], ws.Lab[d]

		for row:=t.Top+1; row<rowEnd; row++ {
			// The red/blue color on the next row; the other one is on this row.
			cng  := int(tr.cfa.At(row+1, int(tr.cfa.At(row+1, 0)) & 1))
			prev := tr.raw.Row(row-1)
			pix  := tr.raw.Row(row)
			next := tr.raw.Row(row+1)

			for col:=t.Left+1; col<colEnd; col++ {
				i := 3*ws.pix(row - t.Top, col - t.Left)
				g := i + 1

				if tr.cfa.At(row, col) == bayer.Green {
					rgb[i+2-cng] = ecolor.Clip(pix[col] + 0.5 * (pix[col-1] + pix[col+1] - rgb[g-3] - rgb[g+3]))
					rgb[i+cng]   = ecolor.Clip(pix[col] + 0.5 * (prev[col] + next[col] - rgb[g+up] - rgb[g+down]))
					rgb[g]       = pix[col]
				} else {
					rgb[i+cng]   = ecolor.Clip(rgb[g] + 0.25 * (prev[col-1] + prev[col+1] + next[col-1] + next[col+1] -
						rgb[g+up-3] - rgb[g+up+3] - rgb[g+down-3] - rgb[g+down+3]))
					rgb[i+2-cng] = pix[col]
				}

				lab[i], lab[i+1], lab[i+2] = tr.lab.Lab(rgb[i], rgb[i+1], rgb[i+2])
			}
		}
	}
}

// buildHomogeneity counts, for each pixel and direction, how many of its
// four neighbours are perceptually close. The closeness thresholds are
// shared by both directions: lightness and chroma epsilons take the
// horizontal spread from direction 0 and the vertical spread from
// direction 1, and the smaller of the two.
func (tr *tileRun)buildHomogeneity(ws *Workspace, t Tile) {
	ts := ws.TileSize
	rowEnd := min(t.Top + ts - 2, tr.height - 4)
	colEnd := min(t.Left + ts - 2, tr.width - 4)
	neighbours := [4]int{-3, 3, -3*ts, 3*ts} // left, right, up, down

	for row:=t.Top+2; row<rowEnd; row++ {
		r := row - t.Top

		for col:=t.Left+2; col<colEnd; col++ {
			c := col - t.Left
			i := 3*ws.pix(r, c)
			var ldiff, abdiff [2][4]float32

			for d:=0; d<2; d++ {
				lab := ws.Lab[d]
				for k, off := range neighbours {
					j := i + off
					ldiff[d][k]  = abs32(lab[i] - lab[j])
					abdiff[d][k] = sqr32(lab[i+1] - lab[j+1]) + sqr32(lab[i+2] - lab[j+2])
				}
			}

			leps  := min(max(ldiff[0][0], ldiff[0][1]), max(ldiff[1][2], ldiff[1][3]))
			abeps := min(max(abdiff[0][0], abdiff[0][1]), max(abdiff[1][2], abdiff[1][3]))

			for d:=0; d<2; d++ {
				n := uint16(0)
				for k:=0; k<4; k++ {
					if ldiff[d][k] <= leps && abdiff[d][k] <= abeps {
						n++
					}
				}
				ws.Homo[d][ws.pix(r, c)] = n
			}
		}
	}
}

// combine writes the final pixels of the tile's core.
func (tr *tileRun)combine(ws *Workspace, t Tile) {
	ts := ws.TileSize
	rowEnd := min(t.Top + ts - tileCoreInset, tr.height - Border)
	colEnd := min(t.Left + ts - tileCoreInset, tr.width - Border)
	red, green, blue := tr.out[0].Row, tr.out[1].Row, tr.out[2].Row

	for row:=t.Top+tileCoreInset; row<rowEnd; row++ {
		rr, gg, bb := red(row), green(row), blue(row)

		for col:=t.Left+tileCoreInset; col<colEnd; col++ {
			r, g, b, dir := ws.fuse(row - t.Top, col - t.Left)
			rr[col], gg[col], bb[col] = r, g, b
			if tr.decisions != nil {
				tr.decisions.Set(row, col, dir)
			}
		}
	}
}

// Values recorded in a decision map.
const(
	DecidedHorizontal float32 = 0
	DecidedVertical   float32 = 1
	DecidedTie        float32 = 0.5
)

// fuse votes over the 3x3 neighbourhood of a tile-relative position. The
// more homogeneous direction is copied verbatim; a tie averages the two.
func (ws *Workspace)fuse(row, col int) (float32, float32, float32, float32) {
	hm0, hm1 := 0, 0
	for i:=row-1; i<=row+1; i++ {
		for j:=col-1; j<=col+1; j++ {
			p := ws.pix(i, j)
			hm0 += int(ws.Homo[0][p])
			hm1 += int(ws.Homo[1][p])
		}
	}

	if hm0 != hm1 {
		d, decided := 0, DecidedHorizontal
		if hm1 > hm0 {
			d, decided = 1, DecidedVertical
		}
		r, g, b := ws.RGBAt(d, row, col)
		return r, g, b, decided
	}

	r0, g0, b0 := ws.RGBAt(0, row, col)
	r1, g1, b1 := ws.RGBAt(1, row, col)
	return 0.5 * (r0 + r1), 0.5 * (g0 + g1), 0.5 * (b0 + b1), DecidedTie
}

func median3(a, b, c float32) float32 {
	return max(min(a, b), min(max(a, b), c))
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func sqr32(f float32) float32 { return f * f }
