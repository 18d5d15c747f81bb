package ecolor

import(
	"fmt"

	"github.com/JVision/librtprocess/pkg/emath"
)

// RGBCamFromColorMatrix derives the camera-native RGB -> linear sRGB
// matrix from a DNG style ColorMatrix (which maps XYZ into camera space).
//
// The ColorMatrix is first chained with sRGB->XYZ, to get sRGB->camera. Each
// row is normalized to sum to one, so that sRGB white lands on camera
// white (i.e. no white balance is baked in). Inverting that gives
// camera->sRGB.
func RGBCamFromColorMatrix(xyzToCam emath.Mat3) (emath.Mat3, error) {
	camRGB := xyzToCam.Mult(XYZFromRGB)

	norm := emath.Vec3{}
	for i:=0; i<3; i++ {
		sum := camRGB.At(i, 0) + camRGB.At(i, 1) + camRGB.At(i, 2)
		if sum == 0 {
			return emath.Mat3{}, fmt.Errorf("ColorMatrix row %d maps white to zero", i)
		}
		norm[i] = 1.0 / sum
	}
	camRGB = camRGB.ScaleRows(norm)

	rgbCam, err := camRGB.Inverse()
	if err != nil {
		return emath.Mat3{}, fmt.Errorf("ColorMatrix: %v", err)
	}
	return rgbCam, nil
}
