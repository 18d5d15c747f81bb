package rawdev

import(
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/tmo"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/JVision/librtprocess/pkg/emath"
)

type writerFunc func(d *Developer, filename string) error

var(
	writers = map[string]writerFunc{
		".hdr":  (*Developer).writeHDR,
		".tif":  (*Developer).writeTIFF,
		".tiff": (*Developer).writeTIFF,
		".png":  (*Developer).writePNG,
		".qoi":  (*Developer).writeQOI,
		".mzst": (*Developer).writeMosaic,
	}

	tonemappers = map[string]func(hdr.Image) tmo.ToneMappingOperator{
		"drago03":    func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewDefaultDrago03(m) },
		"linear":     func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewLinear(m) },
		"reinhard05": func(m hdr.Image) tmo.ToneMappingOperator { return tmo.NewDefaultReinhard05(m) },
	}
)

func ListTonemappers() string    { return fmt.Sprintf("%v", sortedKeys(tonemappers)) }
func ListOutputFormats() string  { return fmt.Sprintf("%v", sortedKeys(writers)) }

func sortedKeys[V any](m map[string]V) []string {
	keys := []string{}
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteOutputs writes the developed image to each of Config.Outputs.
func (d *Developer)WriteOutputs() error {
	for _, filename := range d.Outputs {
		write, ok := writers[strings.ToLower(filepath.Ext(filename))]
		if !ok {
			return fmt.Errorf("output '%s': unknown format, wanted %s", filename, ListOutputFormats())
		}
		log.Printf("Writing %s", filename)
		if err := write(d, filename); err != nil {
			return fmt.Errorf("output '%s': %v", filename, err)
		}
	}
	return nil
}

// writeHDR outputs a Radiance HDR image. You can load this into photoshop or other HDR tools.
func (d *Developer)writeHDR(filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return rgbe.Encode(writer, d.Image)
	}
}

// writeTIFF outputs 16 bits per channel sRGB, linear, clipped to [0,1].
func (d *Developer)writeTIFF(filename string) error {
	b := d.Image.Bounds()
	img := image.NewRGBA64(b)
	for y:=b.Min.Y; y<b.Max.Y; y++ {
		for x:=b.Min.X; x<b.Max.X; x++ {
			c := d.Image.RGBAt(x, y)
			img.SetRGBA64(x, y, color.RGBA64{
				uint16(emath.Clamp01(c.R) * 0xFFFF),
				uint16(emath.Clamp01(c.G) * 0xFFFF),
				uint16(emath.Clamp01(c.B) * 0xFFFF),
				0xFFFF,
			})
		}
	}

	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
}

func (d *Developer)writePNG(filename string) error { return WritePNG(d.Preview(), filename) }
func (d *Developer)writeQOI(filename string) error { return WriteQOI(d.Preview(), filename) }

func (d *Developer)writeMosaic(filename string) error {
	return WriteMosaicFile(filename, MosaicFile{CFA: d.Pattern, Raw: d.Raw})
}

// Preview tone maps the developed image down to LDR, and scales it to
// Config.PreviewWidth. The result is cached.
func (d *Developer)Preview() image.Image {
	if d.preview != nil {
		return d.preview
	}

	log.Printf("Tonemapping: %s", d.Tonemapper)
	op := tonemappers[d.Tonemapper](d.Image)
	img := op.Perform()

	if d.Tonemapper == "linear" {
		img = gammaExpand(img) // linear output is far too dark otherwise
	}

	d.preview = scaleToWidth(img, d.PreviewWidth)
	return d.preview
}

func gammaExpand(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA64(b)
	gam := func(v uint32) uint16 {
		return uint16(emath.GammaExpand_F64(float64(v) / 0xFFFF) * 0xFFFF)
	}

	for y:=b.Min.Y; y<b.Max.Y; y++ {
		for x:=b.Min.X; x<b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			dst.SetRGBA64(x, y, color.RGBA64{gam(r), gam(g), gam(bl), uint16(a)})
		}
	}
	return dst
}

func scaleToWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	if width <= 0 || width >= b.Dx() {
		return src
	}
	height := max(1, b.Dy() * width / b.Dx())

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

func WriteQOI(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return qoi.Encode(writer, img)
	}
}
