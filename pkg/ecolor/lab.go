package ecolor

import(
	"github.com/JVision/librtprocess/pkg/emath"
)

var(
	// Linear sRGB(D65) primaries to XYZ.
	// http://www.brucelindbloom.com/index.html?Eqn_RGB_XYZ_Matrix.html
	XYZFromRGB = emath.Mat3{
		0.412453, 0.357580, 0.180423,
		0.212671, 0.715160, 0.072169,
		0.019334, 0.119193, 0.950227,
	}

	// The D65 reference white, in XYZ with Y=1
	D65White = emath.Vec3{0.950456, 1, 1.088754}
)

// CameraToXYZ builds the matrix that takes camera-native RGB straight to
// XYZ, relative to D65 white: XYZFromRGB * rgbCam, with each row divided by
// the matching white point component. rgbCam maps camera RGB to linear
// sRGB; identity means "the camera already is sRGB".
func CameraToXYZ(rgbCam emath.Mat3) emath.Mat3 {
	return XYZFromRGB.Mult(rgbCam).ScaleRows(D65White.Reciprocal())
}

// A LabConverter turns camera RGB samples in [0,65535] into CIE Lab. It
// is read-only once built.
type LabConverter struct {
	camToXYZ [3][3]float32
	cbrt     *CubeRootTable
}

func NewLabConverter(rgbCam emath.Mat3, cbrt *CubeRootTable) *LabConverter {
	lc := LabConverter{cbrt: cbrt}
	m := CameraToXYZ(rgbCam)
	for i:=0; i<3; i++ {
		for j:=0; j<3; j++ {
			lc.camToXYZ[i][j] = float32(m.At(i, j))
		}
	}
	return &lc
}

// Lab returns L in [0,100] for in-gamut input, and a/b on the usual scale.
func (lc *LabConverter)Lab(r, g, b float32) (float32, float32, float32) {
	m := &lc.camToXYZ

	fx := lc.cbrt.Lookup(m[0][0]*r + m[0][1]*g + m[0][2]*b)
	fy := lc.cbrt.Lookup(m[1][0]*r + m[1][1]*g + m[1][2]*b)
	fz := lc.cbrt.Lookup(m[2][0]*r + m[2][1]*g + m[2][2]*b)

	return 116.0*fy - 16.0, 500.0 * (fx - fy), 200.0 * (fy - fz)
}
