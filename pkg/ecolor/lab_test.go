package ecolor

import(
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/JVision/librtprocess/pkg/emath"
)

func TestCubeRootTable(t *testing.T) {
	cbrt := NewCubeRootTable()

	if cbrt.Len() != CubeRootBuckets {
		t.Fatalf("table has %d entries, want %d", cbrt.Len(), CubeRootBuckets)
	}
	if got := cbrt.At(cbrt.Len()-1); got != 1.0 {
		t.Errorf("f(1.0) = %v, want 1", got)
	}
	if got, want := cbrt.At(0), float32(16.0/116.0); got != want {
		t.Errorf("f(0) = %v, want %v", got, want)
	}
	for i:=1; i<cbrt.Len(); i++ {
		if cbrt.At(i) < cbrt.At(i-1) {
			t.Fatalf("table not monotone at %d", i)
		}
	}

	tests := []struct{
		name string
		in   float32
		want float32
	}{
		{"negative clamps", -100, cbrt.At(0)},
		{"NaN clamps", float32(math.NaN()), cbrt.At(0)},
		{"above range clamps", 1e9, cbrt.At(cbrt.Len()-1)},
		{"exact entry", 27000, cbrt.At(27000)},
		{"midpoint", 27000.5, 0.5 * (cbrt.At(27000) + cbrt.At(27001))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cbrt.Lookup(tt.in); math.Abs(float64(got - tt.want)) > 1e-6 {
				t.Errorf("Lookup(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClip(t *testing.T) {
	if Clip(-1) != 0 || Clip(70000) != SampleMax || Clip(1234.5) != 1234.5 {
		t.Errorf("Clip does not pin to [0,%v]", SampleMax)
	}
}

func TestCameraToXYZ(t *testing.T) {
	m := CameraToXYZ(emath.Identity3())

	// sRGB white should map to the D65 white, i.e. (1,1,1) after the row scaling
	white := m.Apply(emath.Vec3{1, 1, 1})
	for i:=0; i<3; i++ {
		if math.Abs(white[i] - 1.0) > 1e-3 {
			t.Errorf("white maps to %v, want (1,1,1)", white)
		}
	}
}

// Compares against go-colorful's Lab, which is on a [0,1] scale for L.
func TestLabMatchesReference(t *testing.T) {
	lc := NewLabConverter(emath.Identity3(), NewCubeRootTable())

	samples := [][3]float32{
		{0, 0, 0},
		{65535, 65535, 65535},
		{32768, 32768, 32768},
		{65535, 0, 0},
		{0, 65535, 0},
		{0, 0, 65535},
		{12000, 30000, 5000},
		{100, 200, 50},
		{50000, 1000, 40000},
	}

	for _, s := range samples {
		L, a, b := lc.Lab(s[0], s[1], s[2])
		ref := colorful.LinearRgb(float64(s[0])/SampleMax, float64(s[1])/SampleMax, float64(s[2])/SampleMax)
		rL, ra, rb := ref.Lab()

		if math.Abs(float64(L) - 100*rL) > 0.5 ||
			math.Abs(float64(a) - 100*ra) > 1.0 ||
			math.Abs(float64(b) - 100*rb) > 1.0 {
			t.Errorf("Lab%v = (%.2f,%.2f,%.2f), reference (%.2f,%.2f,%.2f)", s, L, a, b, 100*rL, 100*ra, 100*rb)
		}
	}
}

func TestRGBCamFromColorMatrix(t *testing.T) {
	// A ColorMatrix that says "the camera sees sRGB" gives back the identity
	xyzToRGB, err := XYZFromRGB.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	rgbCam, err := RGBCamFromColorMatrix(xyzToRGB)
	if err != nil {
		t.Fatalf("RGBCamFromColorMatrix: %v", err)
	}
	id := emath.Identity3()
	for i := range rgbCam {
		if math.Abs(rgbCam[i] - id[i]) > 1e-6 {
			t.Fatalf("got %s, want identity", rgbCam)
		}
	}

	// Rows are normalized, so camera white always lands on sRGB white
	cm := emath.Mat3{
		0.6722, -0.0635, -0.0963,
		-0.4287, 1.2460, 0.2028,
		-0.0908, 0.2162, 0.5668,
	}
	rgbCam, err = RGBCamFromColorMatrix(cm)
	if err != nil {
		t.Fatalf("RGBCamFromColorMatrix: %v", err)
	}
	white := rgbCam.Apply(emath.Vec3{1, 1, 1})
	for i:=0; i<3; i++ {
		if math.Abs(white[i] - 1) > 1e-9 {
			t.Errorf("camera white maps to %v, want (1,1,1)", white)
		}
	}

	if _, err := RGBCamFromColorMatrix(emath.Mat3{}); err == nil {
		t.Errorf("zero ColorMatrix accepted")
	}
}
