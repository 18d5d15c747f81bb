package rawdev

import (
	"fmt"
	"image"
	"path/filepath"
)

// A Source is the sensor data loaded from an input file, plus whatever
// the file could tell us about the camera that took it.
type Source struct {
	LoadFilename string
	Make         string
	Model        string
	ISO          int64

	// Exactly one of these is set. A TIFF has to be run through the CFA
	// (which might only be known once the config is loaded); a mosaic
	// dump is ready to go.
	LoadedImage  image.Image
	*MosaicFile
}

func (s Source)String() string {
	camera := "unknown camera"
	if s.Model != "" {
		camera = fmt.Sprintf("%s %s, ISO %d", s.Make, s.Model, s.ISO)
	}

	b := image.Rectangle{}
	switch {
	case s.LoadedImage != nil: b = s.LoadedImage.Bounds()
	case s.MosaicFile != nil:  b = image.Rect(0, 0, s.Raw.Width(), s.Raw.Height())
	}
	return fmt.Sprintf("%s: %dx%d, %s", s.Filename(), b.Dx(), b.Dy(), camera)
}

func (s Source)Filename() string {
	return filepath.Base(s.LoadFilename)
}
