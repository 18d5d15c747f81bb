package main

import(
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"log"
	"os"
	"os/signal"
	"strings"

	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/tiff"

	"github.com/JVision/librtprocess/pkg/rawdev"
)

var(
	fVerbosity int
	fWorkers int
	fCFA string
	fOutputs string
	fPreviewWidth int
	fTonemapper string
	fScratchMB int
	fDecisionMap string
	fAssess string
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.IntVar(&fWorkers, "workers", 0, "demosaic goroutines; 0 means one per CPU")
	flag.StringVar(&fCFA, "cfa", "RGGB", "layout of the color filter array (RGGB, GRBG, GBRG, BGGR)")
	flag.StringVar(&fOutputs, "o", "developed.hdr", "comma separated output files: "+rawdev.ListOutputFormats())
	flag.IntVar(&fPreviewWidth, "preview", 0, "width of PNG/QOI previews; 0 means full size")
	flag.StringVar(&fTonemapper, "tonemapper", "reinhard05", "how to tonemap previews from HDR to LDR: "+rawdev.ListTonemappers())
	flag.IntVar(&fScratchMB, "scratchmb", 0, "cap on demosaic scratch memory, in MB; 0 means no cap")
	flag.StringVar(&fDecisionMap, "decisionmap", "", "write a PNG showing which interpolation direction won")
	flag.StringVar(&fAssess, "assess", "", "instead of developing, measure how well a reference image survives mosaic+demosaic")
	flag.Parse()

	log.Printf("ahd-demosaic starting\n")
}

// applyFlags overrides the config with any flags given on the command line.
func applyFlags(cfg *rawdev.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":           cfg.Verbosity = fVerbosity
		case "workers":     cfg.Workers = fWorkers
		case "cfa":         cfg.CFA = fCFA
		case "o":           cfg.Outputs = strings.Split(fOutputs, ",")
		case "preview":     cfg.PreviewWidth = fPreviewWidth
		case "tonemapper":  cfg.Tonemapper = fTonemapper
		case "scratchmb":   cfg.MaxScratchMB = fScratchMB
		case "decisionmap": cfg.DecisionMapFile = fDecisionMap
		}
	})
	if len(cfg.Outputs) == 0 {
		cfg.Outputs = strings.Split(fOutputs, ",")
	}
}

func main() {
	dev := rawdev.NewDeveloper()
	if err := dev.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}

	applyFlags(&dev.Config)
	if err := dev.Config.Finalize(); err != nil {
		log.Fatal(err)
	}

	if dev.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", dev.Config.AsYaml())
	}

	if fAssess != "" {
		if err := assess(dev.Config, fAssess); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := dev.Develop(ctx); err != nil {
		log.Fatal(err)
	}
	if err := dev.WriteOutputs(); err != nil {
		log.Fatal(err)
	}
}

func assess(cfg rawdev.Config, filename string) error {
	reader, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	ref, format, err := image.Decode(reader)
	if err != nil {
		return fmt.Errorf("decode '%s': %v", filename, err)
	}
	log.Printf("Assessing against %s (%s, %s)", filename, format, ref.Bounds())

	a, err := rawdev.Assess(cfg, ref)
	if err != nil {
		return err
	}
	fmt.Printf("%s", a)
	return nil
}
