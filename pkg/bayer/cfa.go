package bayer

import(
	"errors"
	"fmt"
	"strings"
)

type Color uint8

const (
	Red   Color = 0
	Green Color = 1
	Blue  Color = 2
)

var ErrInvalidPattern = errors.New("invalid bayer CFA pattern")

func (c Color)String() string {
	switch c {
	case Red:   return "R"
	case Green: return "G"
	case Blue:  return "B"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// A CFA names which color sits at each (row mod 2, col mod 2) position.
type CFA [2][2]Color

var(
	RGGB = CFA{{Red, Green}, {Green, Blue}}
	GRBG = CFA{{Green, Red}, {Blue, Green}}
	GBRG = CFA{{Green, Blue}, {Red, Green}}
	BGGR = CFA{{Blue, Green}, {Green, Red}}
)

// At returns the color of the photosite at (row,col).
func (c CFA)At(row, col int) Color {
	return c[row&1][col&1]
}

// Validate checks this is a true Bayer layout: both greens on one
// diagonal, red and blue on the other.
func (c CFA)Validate() error {
	for _, row := range c {
		for _, col := range row {
			if col > Blue {
				return fmt.Errorf("%w: color %d out of range", ErrInvalidPattern, col)
			}
		}
	}

	switch {
	case c[0][0] == Green && c[1][1] == Green:
		if (c[0][1] == Red && c[1][0] == Blue) || (c[0][1] == Blue && c[1][0] == Red) {
			return nil
		}
	case c[0][1] == Green && c[1][0] == Green:
		if (c[0][0] == Red && c[1][1] == Blue) || (c[0][0] == Blue && c[1][1] == Red) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidPattern, c)
}

func (c CFA)String() string {
	return c[0][0].String() + c[0][1].String() + c[1][0].String() + c[1][1].String()
}

// ParseCFA accepts the usual four-letter names, e.g. "RGGB" or "bggr".
func ParseCFA(s string) (CFA, error) {
	if len(s) != 4 {
		return CFA{}, fmt.Errorf("%w: %q is not four letters", ErrInvalidPattern, s)
	}

	ret := CFA{}
	for i, r := range strings.ToUpper(s) {
		var col Color
		switch r {
		case 'R': col = Red
		case 'G': col = Green
		case 'B': col = Blue
		default:
			return CFA{}, fmt.Errorf("%w: bad color %q in %q", ErrInvalidPattern, r, s)
		}
		ret[i/2][i%2] = col
	}

	return ret, ret.Validate()
}
