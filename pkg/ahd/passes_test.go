package ahd

import(
	"testing"

	"github.com/JVision/librtprocess/pkg/bayer"
	"github.com/JVision/librtprocess/pkg/emath"
)

func TestMedian3(t *testing.T) {
	tests := []struct{
		a, b, c, want float32
	}{
		{1, 2, 3, 2},
		{3, 2, 1, 2},
		{2, 3, 1, 2},
		{500, 0, 0, 0},
		{-5, 0, 10, 0},
		{7, 7, 1, 7},
	}
	for _, tt := range tests {
		if got := median3(tt.a, tt.b, tt.c); got != tt.want {
			t.Errorf("median3(%v,%v,%v) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

// A one pixel wide bright column: the horizontal estimate overshoots both
// of its (dark) green neighbours and has to be pulled back to them.
func TestGreenIsClampedToNeighbours(t *testing.T) {
	w, h := 12, 12
	raw := emath.NewPlane(w, h)
	for row:=0; row<h; row++ {
		raw.Set(row, 6, 1000)
	}

	tr := tileRun{width: w, height: h, raw: raw, cfa: bayer.RGGB}
	ws := NewWorkspace(8)
	tile := Tile{Top: 2, Left: 2}
	tr.interpolateGreen(ws, tile)

	// (4,6) is red; its horizontal greens are at cols 5 and 7, both 0
	g := 3*ws.pix(4 - tile.Top, 6 - tile.Left) + 1
	if got := ws.RGB[0][g]; got != 0 {
		t.Errorf("horizontal green = %v, want 0 (unclamped it would be 500)", got)
	}
	if got := ws.RGB[1][g]; got != 1000 {
		t.Errorf("vertical green = %v, want 1000", got)
	}

	// (4,4) is red, two columns left of the line: the estimate undershoots
	// to -250 and gets pulled up to its neighbours
	g = 3*ws.pix(4 - tile.Top, 4 - tile.Left) + 1
	if got := ws.RGB[0][g]; got != 0 {
		t.Errorf("horizontal green beside the line = %v, want 0", got)
	}

	// Green photosites are copied into both directions
	g = 3*ws.pix(4 - tile.Top, 5 - tile.Left) + 1
	if ws.RGB[0][g] != 0 || ws.RGB[1][g] != 0 {
		t.Errorf("green photosite changed: %v %v", ws.RGB[0][g], ws.RGB[1][g])
	}
	g = 3*ws.pix(5 - tile.Top, 6 - tile.Left) + 1
	if ws.RGB[0][g] != 1000 || ws.RGB[1][g] != 1000 {
		t.Errorf("green photosite on the line changed: %v %v", ws.RGB[0][g], ws.RGB[1][g])
	}
}

// setLab puts a Lab triple at a tile-relative position, in one direction.
func setLab(ws *Workspace, d, row, col int, L, a, b float32) {
	i := 3 * ws.pix(row, col)
	ws.Lab[d][i], ws.Lab[d][i+1], ws.Lab[d][i+2] = L, a, b
}

// The thresholds take the horizontal spread from direction 0 and the
// vertical spread from direction 1. Using direction 0 for both would
// give direction 0 two homogeneous neighbours here instead of none.
func TestHomogeneityUsesCrossDirectionEpsilons(t *testing.T) {
	const ts = 8
	r, c := 3, 3
	neighbours := [4][2]int{{r, c-1}, {r, c+1}, {r-1, c}, {r+1, c}} // left, right, up, down

	tests := []struct{
		name     string
		lab      [2][4][3]float32 // [dir][neighbour]{L,a,b}; the centre is all zero
		want     [2]uint16
	}{
		{
			// leps = min(max(3,3), max(2,2)) = 2; with dir 0 vertical it would be 3
			name: "lightness",
			lab: [2][4][3]float32{
				{{3, 0, 0}, {-3, 0, 0}, {4, 0, 0}, {-4, 0, 0}},
				{{1, 0, 0}, {1, 0, 0}, {2, 0, 0}, {-2, 0, 0}},
			},
			want: [2]uint16{0, 4},
		},
		{
			// abeps = min(max(9,9), max(4,4)) = 4; with dir 0 vertical it would be 9
			name: "chroma",
			lab: [2][4][3]float32{
				{{0, 3, 0}, {0, -3, 0}, {0, 0, 4}, {0, 4, 0}},
				{{0, 1, 0}, {0, 0, 1}, {0, 2, 0}, {0, 0, -2}},
			},
			want: [2]uint16{0, 4},
		},
		{
			// leps = min(max(1,5), max(6,0)) = 5, abeps = min(max(0,0), max(0,0)) = 0
			name: "mixed",
			lab: [2][4][3]float32{
				{{1, 0, 0}, {5, 0, 0}, {0, 1, 0}, {9, 0, 0}},
				{{0, 0, 0}, {0, 0, 1}, {6, 0, 0}, {0, 0, 0}},
			},
			want: [2]uint16{2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkspace(ts)
			for d:=0; d<2; d++ {
				for k, n := range neighbours {
					setLab(ws, d, n[0], n[1], tt.lab[d][k][0], tt.lab[d][k][1], tt.lab[d][k][2])
				}
			}

			tr := tileRun{width: 100, height: 100}
			tr.buildHomogeneity(ws, Tile{Top: 10, Left: 10})

			for d:=0; d<2; d++ {
				if got := ws.Homo[d][ws.pix(r, c)]; got != tt.want[d] {
					t.Errorf("direction %d: %d homogeneous neighbours, want %d", d, got, tt.want[d])
				}
			}
		})
	}
}
