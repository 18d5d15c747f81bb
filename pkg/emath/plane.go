package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A Plane is a dense grid of float32 samples, indexed [row][col]. The
// raw sensor mosaic and each demosaiced color channel live in one.
type Plane struct {
	width  int
	height int
	values []float32
}

func NewPlane(w, h int) *Plane {
	return &Plane{
		width:  w,
		height: h,
		values: make([]float32, w*h),
	}
}

// NewPlaneFromSlice wraps `vals`, which must hold w*h samples in row order.
func NewPlaneFromSlice(w, h int, vals []float32) (*Plane, error) {
	if w < 0 || h < 0 || len(vals) != w*h {
		return nil, fmt.Errorf("plane %dx%d needs %d samples, got %d", w, h, w*h, len(vals))
	}
	return &Plane{width: w, height: h, values: vals}, nil
}

func (p *Plane)Width() int                  { return p.width }
func (p *Plane)Height() int                 { return p.height }
func (p *Plane)Get(row, col int) float32    { return p.values[p.width*row + col] }
func (p *Plane)Set(row, col int, v float32) { p.values[p.width*row + col] = v }
func (p *Plane)Values() []float32           { return p.values }

// Row returns the backing samples of one row; writes go through to the plane.
func (p *Plane)Row(row int) []float32 {
	return p.values[p.width*row : p.width*(row+1) : p.width*(row+1)]
}

func (p *Plane)Fill(v float32) {
	for i := range p.values {
		p.values[i] = v
	}
}

func (p *Plane)SameSize(p2 *Plane) bool {
	return p2 != nil && p.width == p2.width && p.height == p2.height
}

// Equal is a bitwise comparison, so NaNs compare equal to themselves.
func (p *Plane)Equal(p2 *Plane) bool {
	if !p.SameSize(p2) {
		return false
	}
	for i := range p.values {
		if math.Float32bits(p.values[i]) != math.Float32bits(p2.values[i]) {
			return false
		}
	}
	return true
}

func (p *Plane)Copy() *Plane {
	p2 := NewPlane(p.width, p.height)
	copy(p2.values, p.values)
	return p2
}

func (p *Plane)MinMax() (float32, float32) {
	min := float32(math.MaxFloat32)
	max := -1.0 * min
	for _, v := range p.values {
		if v > max { max = v }
		if v < min { min = v }
	}
	return min, max
}

func (p *Plane)Stats() string {
	min, max := p.MinMax()
	return fmt.Sprintf("plane[%dx%d, vals{%f,%f}]", p.width, p.height, min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the plane, and gamma scaling the
// gray to look normal for human vision
func (p *Plane)ToImg(title, filename string) error {
	min, max := p.MinMax()
	span := float64(max - min)
	if span == 0 { span = 1 }

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{p.width, p.height}})
	for y:=0; y<p.height; y++ {
		for x:=0; x<p.width; x++ {
			gray := GammaExpand_F64(float64(p.Get(y,x) - min) / span)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,0,0)
	dc.DrawString(title, 10, 20)
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("plane.ToImg '%s': %v", filename, err)
	}
	return nil
}
