package ahd

import(
	"fmt"
	"sync"
)

// A Workspace is the scratch memory one worker uses for one tile at a
// time. Index 0 of each pair holds the horizontally interpolated
// hypothesis, index 1 the vertical one.
type Workspace struct {
	TileSize int

	RGB      [2][]float32 // [dir][(row*TileSize + col)*3 + channel]
	Lab      [2][]float32 // [dir][(row*TileSize + col)*3 + {L,a,b}]
	Homo     [2][]uint16  // [dir][row*TileSize + col], homogeneity count 0..4
}

func NewWorkspace(tileSize int) *Workspace {
	n := tileSize * tileSize
	ws := Workspace{TileSize: tileSize}
	for d:=0; d<2; d++ {
		ws.RGB[d]  = make([]float32, 3*n)
		ws.Lab[d]  = make([]float32, 3*n)
		ws.Homo[d] = make([]uint16, n)
	}
	return &ws
}

// WorkspaceBytes is how much scratch memory one worker needs.
func WorkspaceBytes(tileSize int) int64 {
	n := int64(tileSize) * int64(tileSize)
	return 2 * (3*n*4 + 3*n*4 + n*2)
}

// pix is the offset of (row,col) in a per-pixel volume; tile-relative coords.
func (ws *Workspace)pix(row, col int) int { return row*ws.TileSize + col }

// RGBAt returns direction d's hypothesis at a tile-relative position.
func (ws *Workspace)RGBAt(d, row, col int) (float32, float32, float32) {
	i := 3 * ws.pix(row, col)
	return ws.RGB[d][i], ws.RGB[d][i+1], ws.RGB[d][i+2]
}

func (ws *Workspace)SetRGB(d, row, col int, r, g, b float32) {
	i := 3 * ws.pix(row, col)
	ws.RGB[d][i], ws.RGB[d][i+1], ws.RGB[d][i+2] = r, g, b
}

func (ws *Workspace)SetHomo(d, row, col int, n uint16) { ws.Homo[d][ws.pix(row, col)] = n }


// An Allocator hands out per-worker workspaces. Allocate may fail, in
// which case the whole run is abandoned with ErrMemory.
type Allocator interface {
	Allocate(tileSize int) (*Workspace, error)
	Release(*Workspace)
}

// HeapAllocator just uses make(); it never fails.
type HeapAllocator struct{}

func (HeapAllocator)Allocate(tileSize int) (*Workspace, error) { return NewWorkspace(tileSize), nil }
func (HeapAllocator)Release(*Workspace)                        {}

// A BudgetAllocator refuses to hand out more than Budget bytes of
// workspace at once, which is how a scratch memory limit is enforced.
type BudgetAllocator struct {
	Budget int64

	mu     sync.Mutex
	inUse  int64
}

func NewBudgetAllocator(budget int64) *BudgetAllocator {
	return &BudgetAllocator{Budget: budget}
}

func (a *BudgetAllocator)Allocate(tileSize int) (*Workspace, error) {
	need := WorkspaceBytes(tileSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inUse + need > a.Budget {
		return nil, fmt.Errorf("%w: workspace needs %d bytes, %d of %d in use",
			ErrMemory, need, a.inUse, a.Budget)
	}
	a.inUse += need
	return NewWorkspace(tileSize), nil
}

func (a *BudgetAllocator)Release(ws *Workspace) {
	if ws == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inUse -= WorkspaceBytes(ws.TileSize)
}

func (a *BudgetAllocator)InUse() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}
