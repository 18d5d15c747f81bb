package bayer

import(
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/JVision/librtprocess/pkg/emath"
)

func TestParseCFA(t *testing.T) {
	tests := []struct{
		in      string
		want    CFA
		wantErr bool
	}{
		{"RGGB", RGGB, false},
		{"grbg", GRBG, false},
		{"GbRg", GBRG, false},
		{"BGGR", BGGR, false},
		{"RGBG", CFA{}, true},
		{"RRGB", CFA{}, true},
		{"RGG", CFA{}, true},
		{"RGGX", CFA{}, true},
		{"GGRB", CFA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCFA(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPattern) {
					t.Errorf("ParseCFA(%q) err = %v, want ErrInvalidPattern", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseCFA(%q) = %s, %v", tt.in, got, err)
			}
			if got.String() != upper(tt.in) {
				t.Errorf("String() = %q", got.String())
			}
		})
	}

	if err := (CFA{{Red, Green}, {Green, Color(7)}}).Validate(); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("out of range color accepted")
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func TestAt(t *testing.T) {
	if RGGB.At(0, 0) != Red || RGGB.At(5, 4) != Green || RGGB.At(7, 9) != Blue || GRBG.At(2, 1) != Red {
		t.Errorf("At does not repeat with period two")
	}
}

func TestMosaic(t *testing.T) {
	img := image.NewRGBA64(image.Rect(10, 20, 14, 23))
	for y:=20; y<23; y++ {
		for x:=10; x<14; x++ {
			img.Set(x, y, color.RGBA64{1000, 2000, 3000, 0xFFFF})
		}
	}

	raw := Mosaic(img, BGGR)
	if raw.Width() != 4 || raw.Height() != 3 {
		t.Fatalf("raw is %dx%d", raw.Width(), raw.Height())
	}
	want := map[Color]float32{Red: 1000, Green: 2000, Blue: 3000}
	for row:=0; row<3; row++ {
		for col:=0; col<4; col++ {
			if got := raw.Get(row, col); got != want[BGGR.At(row, col)] {
				t.Errorf("(%d,%d) = %v, want the %s sample", row, col, got, BGGR.At(row, col))
			}
		}
	}
}

func TestBorderDemosaic(t *testing.T) {
	w, h, border := 16, 14, 5
	planes := [3]*emath.Plane{}
	for i := range planes {
		planes[i] = emath.NewPlane(w, h)
		planes[i].Fill(float32(1000 * (i+1)))
	}
	raw := MosaicPlanes(planes[0], planes[1], planes[2], RGGB)

	out := [3]*emath.Plane{emath.NewPlane(w, h), emath.NewPlane(w, h), emath.NewPlane(w, h)}
	for i := range out {
		out[i].Fill(-1)
	}
	BorderDemosaic(raw, out[0], out[1], out[2], RGGB, border)

	for row:=0; row<h; row++ {
		for col:=0; col<w; col++ {
			interior := row >= border && row < h-border && col >= border && col < w-border
			for i := range out {
				got := out[i].Get(row, col)
				switch {
				case interior && got != -1:
					t.Fatalf("interior (%d,%d) was written", row, col)
				case !interior && got != float32(1000 * (i+1)):
					t.Fatalf("border (%d,%d) channel %d = %v", row, col, i, got)
				}
			}
		}
	}
}

func TestBorderDemosaicAverages(t *testing.T) {
	// RGGB corner: (0,0) is red, with greens at (0,1),(1,0) and blue at (1,1)
	raw, _ := emath.NewPlaneFromSlice(3, 3, []float32{
		10, 20, 30,
		40, 50, 60,
		70, 80, 90,
	})
	r, g, b := emath.NewPlane(3, 3), emath.NewPlane(3, 3), emath.NewPlane(3, 3)
	BorderDemosaic(raw, r, g, b, RGGB, 5)

	if r.Get(0, 0) != 10 || g.Get(0, 0) != 30 || b.Get(0, 0) != 50 {
		t.Errorf("corner = (%v,%v,%v), want (10,30,50)", r.Get(0, 0), g.Get(0, 0), b.Get(0, 0))
	}
	// centre is blue; reds at the four corners, greens on the four edges
	if r.Get(1, 1) != 50 || g.Get(1, 1) != 50 || b.Get(1, 1) != 50 {
		t.Errorf("centre = (%v,%v,%v), want (50,50,50)", r.Get(1, 1), g.Get(1, 1), b.Get(1, 1))
	}
}
