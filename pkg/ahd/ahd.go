// Package ahd implements Adaptive Homogeneity-Directed demosaicing of
// Bayer sensor data.
//
// Green is interpolated twice, along rows and along columns; red and blue
// follow from color differences against each green estimate. Both
// candidate images are converted to CIE Lab, and at each pixel the
// candidate whose neighbourhood is more homogeneous wins. Work is split
// into overlapping 144x144 tiles that a pool of goroutines processes in
// any order; each tile writes a disjoint part of the output.
//
// Adaptive Homogeneity-Directed interpolation is based on the work of
// Keigo Hirakawa, Thomas Parks, and Paul Lee.
package ahd

import(
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/JVision/librtprocess/pkg/bayer"
	"github.com/JVision/librtprocess/pkg/ecolor"
	"github.com/JVision/librtprocess/pkg/emath"
)

var(
	ErrInvalidPattern = bayer.ErrInvalidPattern
	ErrMemory         = errors.New("could not allocate demosaic workspace")
	ErrDimensions     = errors.New("plane dimensions do not match")
	ErrCancelled      = errors.New("demosaic cancelled")
)

// An Engine runs demosaics. The zero value is usable: one worker per CPU,
// workspaces from the heap.
type Engine struct {
	Workers     int        // goroutines processing tiles; <=0 means runtime.NumCPU()
	Allocator   Allocator  // nil means HeapAllocator

	// If set, must be the size of the image; each interior pixel gets one
	// of DecidedHorizontal, DecidedVertical or DecidedTie.
	DecisionMap *emath.Plane
}

func NewEngine(workers int) *Engine {
	return &Engine{Workers: workers}
}

// Demosaic runs with a default Engine.
func Demosaic(raw, red, green, blue *emath.Plane, cfa bayer.CFA, rgbCam emath.Mat3, progress ProgressFunc) error {
	return NewEngine(0).Demosaic(raw, red, green, blue, cfa, rgbCam, progress)
}

// Demosaic fills red, green and blue (which must be the same size as raw)
// from the mosaic in raw. rgbCam maps camera RGB to linear sRGB; it only
// steers the Lab conversion used to judge homogeneity, the output stays in
// camera space. progress may be nil.
//
// On success progress has been told 1.0 exactly once. On ErrMemory or
// ErrCancelled the output planes hold a mix of old and new values.
func (e *Engine)Demosaic(raw, red, green, blue *emath.Plane, cfa bayer.CFA, rgbCam emath.Mat3, progress ProgressFunc) error {
	if err := cfa.Validate(); err != nil {
		return err
	}
	if raw == nil || !raw.SameSize(red) || !raw.SameSize(green) || !raw.SameSize(blue) {
		return ErrDimensions
	}
	if e.DecisionMap != nil && !raw.SameSize(e.DecisionMap) {
		return fmt.Errorf("%w: decision map", ErrDimensions)
	}

	tracker := newProgressTracker(progress)
	tracker.start()
	if tracker.isCancelled() {
		return ErrCancelled
	}

	run := tileRun{
		width:     raw.Width(),
		height:    raw.Height(),
		raw:       raw,
		out:       [3]*emath.Plane{red, green, blue},
		cfa:       cfa,
		lab:       ecolor.NewLabConverter(rgbCam, ecolor.NewCubeRootTable()),
		decisions: e.DecisionMap,
	}

	bayer.BorderDemosaic(raw, red, green, blue, cfa, Border)

	if err := e.processTiles(&run, tracker); err != nil {
		return err
	}
	if tracker.isCancelled() {
		return ErrCancelled
	}

	tracker.finish()
	return nil
}

func (e *Engine)workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.NumCPU()
}

func (e *Engine)allocator() Allocator {
	if e.Allocator != nil {
		return e.Allocator
	}
	return HeapAllocator{}
}

// processTiles feeds tiles to a pool of workers. Every worker allocates
// its workspace, then waits for the rest; if any allocation failed they
// all give up before touching a tile.
func (e *Engine)processTiles(run *tileRun, tracker *progressTracker) error {
	tiles := Tiles(run.width, run.height)
	if len(tiles) == 0 {
		return nil
	}

	nWorkers := min(e.workers(), len(tiles))
	alloc := e.allocator()
	progressStep := float64(ProgressEvery) * coreArea() / float64(run.width * run.height)

	var(
		wg        sync.WaitGroup
		allocated sync.WaitGroup
		mu        sync.Mutex
		allocErr  error
	)
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return allocErr != nil
	}

	jobsChan := make(chan Tile)
	allocated.Add(nWorkers)

	for i:=0; i<nWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ws, err := alloc.Allocate(TileSize)
			if err != nil {
				mu.Lock()
				if allocErr == nil {
					allocErr = err
				}
				mu.Unlock()
			} else {
				defer alloc.Release(ws)
			}

			allocated.Done()
			allocated.Wait()
			if failed() {
				return
			}

			nDone := 0
			for t := range jobsChan {
				run.process(ws, t)
				nDone++
				if nDone % ProgressEvery == 0 {
					tracker.advance(progressStep)
				}
			}
		}()
	}

	allocated.Wait()
	if failed() {
		close(jobsChan)
		wg.Wait()
		if errors.Is(allocErr, ErrMemory) {
			return allocErr
		}
		return fmt.Errorf("%w: %v", ErrMemory, allocErr)
	}

	// Feed in jobs, until someone asks us to stop
	for _, t := range tiles {
		if tracker.isCancelled() {
			break
		}
		jobsChan <- t
	}

	close(jobsChan)
	wg.Wait()

	return nil
}
