// Package rawdev develops raw Bayer sensor data into finished images. It
// loads a mosaic and its config, demosaics it with pkg/ahd, and writes out
// HDR, 16-bit TIFF, and tone mapped previews. It can also measure how well
// the demosaic reproduces a known image.
package rawdev

import(
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/JVision/librtprocess/pkg/ahd"
	"github.com/JVision/librtprocess/pkg/bayer"
	"github.com/JVision/librtprocess/pkg/ecolor"
	"github.com/JVision/librtprocess/pkg/emath"
)

// Developer holds the sensor data, and the image developed from it.
type Developer struct {
	Config

	Source      *Source
	Raw         *emath.Plane     // linearized mosaic, in [0,65535]
	Image       *DevelopedImage
	Decisions   *emath.Plane     // only if Config.DecisionMapFile or DebugPixels is set

	preview     image.Image
}

func NewDeveloper() Developer {
	return Developer{
		Config: NewConfig(),
	}
}

func (d Developer)String() string {
	str := "Developer ["
	if d.Source != nil {
		str += fmt.Sprintf("%s, ", d.Source)
	}
	return str + fmt.Sprintf("CFA %s, levels %.0f-%.0f]", d.Pattern, d.BlackLevel, d.WhiteLevel)
}

// DevelopedImage is the demosaiced result, still in camera native RGB;
// ToSRGB gets applied as pixels are read out. Implements image.Image and
// hdr.Image, with channels scaled to [0,1].
type DevelopedImage struct {
	R, G, B  *emath.Plane
	ToSRGB   emath.Mat3
}

func NewDevelopedImage(w, h int, toSRGB emath.Mat3) *DevelopedImage {
	return &DevelopedImage{
		R:      emath.NewPlane(w, h),
		G:      emath.NewPlane(w, h),
		B:      emath.NewPlane(w, h),
		ToSRGB: toSRGB,
	}
}

// Implement image.Image
func (di DevelopedImage)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (di DevelopedImage)Bounds() image.Rectangle       { return image.Rect(0, 0, di.R.Width(), di.R.Height()) }
func (di DevelopedImage)At(x, y int) color.Color       { return di.HDRAt(x,y) }

// Implement hdr.Image
func (di DevelopedImage)HDRAt(x, y int) hdrcolor.Color { return di.RGBAt(x,y) }
func (di DevelopedImage)Size() int                     { return di.R.Width() * di.R.Height() }

func (di DevelopedImage)RGBAt(x, y int) hdrcolor.RGB {
	v := emath.Vec3{
		float64(di.R.Get(y, x)) / ecolor.SampleMax,
		float64(di.G.Get(y, x)) / ecolor.SampleMax,
		float64(di.B.Get(y, x)) / ecolor.SampleMax,
	}
	v = di.ToSRGB.Apply(v)
	return hdrcolor.RGB{R: max(v[0], 0), G: max(v[1], 0), B: max(v[2], 0)}
}

// Mosaic turns the loaded sensor data into a linear raw plane, in d.Raw.
func (d *Developer)Mosaic() error {
	if d.Source == nil {
		return errors.New("no sensor data loaded")
	}

	var raw *emath.Plane
	if mf := d.Source.MosaicFile; mf != nil {
		if mf.CFA != d.Pattern {
			log.Printf("Using CFA %s from %s, not %s from config", mf.CFA, d.Source.Filename(), d.Pattern)
			d.Pattern = mf.CFA
			d.CFA = mf.CFA.String()
		}
		raw = mf.Raw.Copy()
	} else {
		raw = bayer.Mosaic(d.Source.LoadedImage, d.Pattern)
	}

	d.Raw = Linearize(raw, d.BlackLevel, d.WhiteLevel)
	if d.Verbosity > 0 {
		log.Printf("Linearized mosaic: %s", d.Raw.Stats())
	}
	return nil
}

// Linearize maps [black,white] onto [0,65535] in place, clipping anything
// outside. The default levels leave raw alone.
func Linearize(raw *emath.Plane, black, white float64) *emath.Plane {
	if black == 0 && white == ecolor.SampleMax {
		return raw
	}
	scale := ecolor.SampleMax / (white - black)
	vals := raw.Values()
	for i, v := range vals {
		vals[i] = ecolor.Clip(float32((float64(v) - black) * scale))
	}
	return raw
}

// Develop demosaics the sensor data. Cancelling ctx stops it between tiles.
func (d *Developer)Develop(ctx context.Context) error {
	if err := d.Mosaic(); err != nil {
		return fmt.Errorf("develop: %w", err)
	}
	w, h := d.Raw.Width(), d.Raw.Height()

	e := ahd.NewEngine(d.Workers)
	if d.MaxScratchMB > 0 {
		e.Allocator = ahd.NewBudgetAllocator(int64(d.MaxScratchMB) << 20)
	}
	if d.DecisionMapFile != "" || len(d.DebugPixels) > 0 {
		d.Decisions = emath.NewPlane(w, h)
		d.Decisions.Fill(-1) // border pixels never get a decision
		e.DecisionMap = d.Decisions
	}

	log.Printf("Demosaicing %dx%d mosaic (%s)", w, h, d.Pattern)
	d.Image = NewDevelopedImage(w, h, d.RGBCam)

	lastLogged := 0.0
	progress := func(p float64) bool {
		if d.Verbosity > 0 && (p == 1.0 || p - lastLogged >= 0.1) {
			log.Printf(" ... %3.0f%%", p * 100)
			lastLogged = p
		}
		return ctx.Err() != nil
	}

	err := e.Demosaic(d.Raw, d.Image.R, d.Image.G, d.Image.B, d.Pattern, d.RGBCam, progress)
	if errors.Is(err, ahd.ErrCancelled) && ctx.Err() != nil {
		return fmt.Errorf("develop: %w (%v)", err, ctx.Err())
	} else if err != nil {
		return fmt.Errorf("develop: %w", err)
	}

	for _, pt := range d.DebugPixels {
		if !pt.In(d.Image.Bounds()) {
			log.Printf("Debug pixel %s is outside the image", pt)
			continue
		}
		log.Printf("%s", d.Pix(pt.X, pt.Y))
	}

	if d.DecisionMapFile != "" {
		title := fmt.Sprintf("AHD directions: black=border, gray=horizontal, white=vertical (%s)", d.Pattern)
		if err := d.Decisions.ToImg(title, d.DecisionMapFile); err != nil {
			return fmt.Errorf("develop: %v", err)
		}
	}

	return nil
}
