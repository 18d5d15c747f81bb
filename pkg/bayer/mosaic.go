package bayer

import(
	"image"

	"github.com/JVision/librtprocess/pkg/emath"
)

// Mosaic samples an image through the color filter array, returning a
// raw plane with values in [0, 0xFFFF]. It is the inverse of demosaicing,
// and is how synthetic sensor data gets made.
func Mosaic(img image.Image, cfa CFA) *emath.Plane {
	b := img.Bounds()
	raw := emath.NewPlane(b.Dx(), b.Dy())

	for row:=0; row<b.Dy(); row++ {
		for col:=0; col<b.Dx(); col++ {
			r, g, bl, _ := img.At(b.Min.X + col, b.Min.Y + row).RGBA()
			var v uint32
			switch cfa.At(row, col) {
			case Red:   v = r
			case Green: v = g
			case Blue:  v = bl
			}
			raw.Set(row, col, float32(v))
		}
	}

	return raw
}

// MosaicPlanes is Mosaic for data that is already split into float planes.
func MosaicPlanes(red, green, blue *emath.Plane, cfa CFA) *emath.Plane {
	in := [3]*emath.Plane{red, green, blue}
	raw := emath.NewPlane(red.Width(), red.Height())

	for row:=0; row<raw.Height(); row++ {
		for col:=0; col<raw.Width(); col++ {
			raw.Set(row, col, in[cfa.At(row, col)].Get(row, col))
		}
	}

	return raw
}
