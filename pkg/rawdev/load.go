package rawdev

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"
)

// LoadFilesAndDirs loads config (.yaml) and sensor data (.tif, .tiff,
// .mzst) from the args, recursing into directories. Other files are
// ignored. Only one sensor data file is allowed.
func (d *Developer)LoadFilesAndDirs(args ...string) (error) {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := d.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %w", arg, err)
				}
			}

		default: // is a file, load it
			if err := d.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %w", arg, err)
			}
		}
	}

	return nil
}

func (d *Developer)loadFile(filename string) error {
	ext := filepath.Ext(filename)

	switch strings.ToLower(ext) {

	case ".tif", ".tiff", ".mzst":
		if d.Source != nil {
			return fmt.Errorf("already loaded sensor data from %s", d.Source.LoadFilename)
		}
		load := loadTIFF
		if strings.ToLower(ext) == ".mzst" {
			load = loadMosaic
		}
		src, err := load(filename)
		if err != nil {
			return fmt.Errorf("Loading %s failed: %w", filename, err)
		}
		d.Source = &src
		log.Printf("Loaded %s\n", src)

	case ".yaml":
		cfg, err := loadConfig(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %v", filename, err)
		}
		d.Config = cfg
		log.Printf("Loaded base configuration from %s\n", filename)
	}

	return nil
}

func loadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}

	return newConfigFromYaml(contents)
}

func loadMosaic(filename string) (Source, error) {
	mf, err := ReadMosaicFile(filename)
	if err != nil {
		return Source{}, err
	}
	return Source{LoadFilename: filename, MosaicFile: &mf}, nil
}

// loadTIFF expects a single channel 16-bit TIFF of raw sensor values. An
// RGB TIFF also loads; it gets sampled through the CFA, which is handy for
// making test data.
func loadTIFF(filename string) (Source, error) {
	s := Source{LoadFilename: filename}

	// EXIF is optional; plenty of raw dumps have none.
	if reader, err := os.Open(filename); err != nil {
		return s, fmt.Errorf("open+r exif '%s': %v", filename, err)

	} else {
		defer reader.Close()
		if ex, err := exif.Decode(reader); err == nil {
			if tag, err := ex.Get(exif.Make); err == nil {
				s.Make, _ = tag.StringVal()
			}
			if tag, err := ex.Get(exif.Model); err == nil {
				s.Model, _ = tag.StringVal()
			}
			if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
				s.ISO, _ = tag.Int64(0)
			}
		}
	}

	// Re-open the file, now for the image data
	if reader, err := os.Open(filename); err != nil {
		return s, fmt.Errorf("open+r img '%s': %v", filename, err)
	} else {
		defer reader.Close()
		if img, err := tiff.Decode(reader); err != nil {
			return s, fmt.Errorf("tiff loading '%s': %v", filename, err)
		} else {
			s.LoadedImage = img
		}
	}

	return s, nil
}
