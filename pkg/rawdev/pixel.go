package rawdev

import(
	"fmt"
	"image"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/JVision/librtprocess/pkg/ahd"
	"github.com/JVision/librtprocess/pkg/bayer"
)

// A Pixel gathers everything we know about one output pixel, for debugging.
type Pixel struct {
	Pos           image.Point
	Raw           float32         // The linearized sensor value
	Color         bayer.Color     // Which filter sat over the photosite

	Camera        [3]float32      // Demosaiced, camera native RGB in [0,65535]
	DevelopedRGB  hdrcolor.RGB    // After the camera->sRGB matrix
	Decision      float32         // Which direction the demosaic picked; -1 on the border or if not recorded
}

// Pix gathers up a Pixel; only call it after Develop.
func (d *Developer)Pix(x, y int) Pixel {
	p := Pixel{
		Pos:          image.Point{x, y},
		Raw:          d.Raw.Get(y, x),
		Color:        d.Pattern.At(y, x),
		Camera:       [3]float32{d.Image.R.Get(y, x), d.Image.G.Get(y, x), d.Image.B.Get(y, x)},
		DevelopedRGB: d.Image.RGBAt(x, y),
		Decision:     -1,
	}
	if d.Decisions != nil {
		p.Decision = d.Decisions.Get(y, x)
	}
	return p
}

func (p Pixel)String() string {
	str := fmt.Sprintf("----- Pixel @(%d,%d)-----\n", p.Pos.X, p.Pos.Y)

	str += fmt.Sprintf("Raw (%s)            : %12.2f\n", p.Color, p.Raw)
	str += fmt.Sprintf("Camera             : [%12.2f, %12.2f, %12.2f]\n", p.Camera[0], p.Camera[1], p.Camera[2])
	str += fmt.Sprintf("DevelopedRGB       : [%12.10f, %12.10f, %12.10f]\n",
		p.DevelopedRGB.R, p.DevelopedRGB.G, p.DevelopedRGB.B)

	switch p.Decision {
	case ahd.DecidedHorizontal: str += "Decision           : horizontal\n"
	case ahd.DecidedVertical:   str += "Decision           : vertical\n"
	case ahd.DecidedTie:        str += "Decision           : tie\n"
	default:                    str += "Decision           : none (border)\n"
	}
	str += fmt.Sprintf("\n")

	return str
}
