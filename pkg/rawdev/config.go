package rawdev

import(
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/JVision/librtprocess/pkg/bayer"
	"github.com/JVision/librtprocess/pkg/ecolor"
	"github.com/JVision/librtprocess/pkg/emath"
)

type Config struct {
	Verbosity       int
	Workers         int          // goroutines for the demosaic; 0 means one per CPU

	CFA             string       // e.g. "RGGB"; a .mzst file carries its own
	BlackLevel      float64      // raw value that means no light
	WhiteLevel      float64      // raw value that means saturated; 0 means 65535
	CameraMatrix    emath.Mat3   // camera native RGB -> linear sRGB; all zero means identity
	ColorMatrix     emath.Mat3   // DNG style XYZ -> camera native; if set, CameraMatrix is derived from it

	MaxScratchMB    int          // cap on demosaic workspace memory; 0 means no cap
	Outputs         []string     // filenames, the extension picks the format
	PreviewWidth    int          // PNG/QOI previews get scaled down to this; 0 means full size
	Tonemapper      string
	DecisionMapFile string       // if set, a PNG of which direction won at each pixel
	DebugPixels     []image.Point // log everything about these pixels after developing

	// Values we figure out in Finalize, for the rest of the app
	Pattern         bayer.CFA
	RGBCam          emath.Mat3
}

var zeroMat3 emath.Mat3

func NewConfig() Config {
	return Config{
		CFA:        "RGGB",
		Tonemapper: "reinhard05",
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Finalize checks the config, and fills in the derived values.
func (c *Config)Finalize() error {
	cfa, err := bayer.ParseCFA(c.CFA)
	if err != nil {
		return fmt.Errorf("config CFA: %w", err)
	}
	c.Pattern = cfa

	switch {
	case c.ColorMatrix != zeroMat3:
		if c.RGBCam, err = ecolor.RGBCamFromColorMatrix(c.ColorMatrix); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		c.CameraMatrix = c.RGBCam
	case c.CameraMatrix == zeroMat3:
		c.RGBCam = emath.Identity3()
	default:
		c.RGBCam = c.CameraMatrix
	}

	if c.WhiteLevel == 0 {
		c.WhiteLevel = ecolor.SampleMax
	}
	if c.BlackLevel < 0 || c.WhiteLevel <= c.BlackLevel {
		return fmt.Errorf("config: black level %.0f must be below white level %.0f", c.BlackLevel, c.WhiteLevel)
	}

	if c.MaxScratchMB < 0 || c.PreviewWidth < 0 {
		return fmt.Errorf("config: MaxScratchMB and PreviewWidth can't be negative")
	}

	if _, ok := tonemappers[c.Tonemapper]; !ok {
		return fmt.Errorf("config: tonemapper %q not recognized, wanted %s", c.Tonemapper, ListTonemappers())
	}

	for _, out := range c.Outputs {
		if _, ok := writers[strings.ToLower(filepath.Ext(out))]; !ok {
			return fmt.Errorf("config: output %q: unknown extension, wanted %s", out, ListOutputFormats())
		}
	}

	return nil
}
