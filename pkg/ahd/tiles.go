package ahd

import "image"

const(
	TileSize      = 144 // edge length of a square tile, in pixels
	TileOverlap   = 6   // adjacent tiles share this many rows/cols of halo
	Border        = 5   // margin filled by the border demosaic, never touched by tiles
	ProgressEvery = 32  // tiles a worker completes between progress reports

	tileStart     = 2   // first tile origin; stencils reach two pixels back
	tileCoreInset = 3   // a tile owns [3, TileSize-3) relative to its origin
)

// A Tile is identified by the image coordinate of its top-left corner.
type Tile struct {
	Top  int
	Left int
}

// Tiles lists the tile origins that cover the interior of a width x height
// image. Their halos overlap; their cores don't.
func Tiles(width, height int) []Tile {
	tiles := []Tile{}
	for top:=tileStart; top<height-Border; top += TileSize-TileOverlap {
		for left:=tileStart; left<width-Border; left += TileSize-TileOverlap {
			tiles = append(tiles, Tile{top, left})
		}
	}
	return tiles
}

// Core is the region of the image this tile writes final pixels into.
// It can be empty for tiles abutting the bottom or right edge.
func (t Tile)Core(width, height int) image.Rectangle {
	r := image.Rectangle{
		Min: image.Point{t.Left + tileCoreInset, t.Top + tileCoreInset},
		Max: image.Point{
			min(t.Left + TileSize - tileCoreInset, width - Border),
			min(t.Top + TileSize - tileCoreInset, height - Border),
		},
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}

// Interior is the region the tiles cover between them.
func Interior(width, height int) image.Rectangle {
	if width <= 2*Border || height <= 2*Border {
		return image.Rectangle{}
	}
	return image.Rect(Border, Border, width-Border, height-Border)
}

// coreArea is the nominal number of pixels a full tile writes, used for
// progress accounting.
func coreArea() float64 {
	edge := float64(TileSize - TileOverlap)
	return edge * edge
}
