package emath

import(
	"math"
	"testing"
)

func TestMat3(t *testing.T) {
	m := Mat3{
		2, 0, 1,
		1, 3, 0,
		0, 1, 4,
	}

	if got := Identity3().Mult(m); got != m {
		t.Errorf("I*m = %s, want %s", got, m)
	}
	if got := m.Apply(Vec3{1, 2, 3}); got != (Vec3{5, 7, 14}) {
		t.Errorf("m*v = %s", got)
	}
	if got := m.ScaleRows(Vec3{1, 2, 0.5}); got.At(1, 1) != 6 || got.At(2, 2) != 2 || got.At(0, 2) != 1 {
		t.Errorf("ScaleRows gave %s", got)
	}

	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	id := Identity3()
	for i, v := range m.Mult(inv) {
		if math.Abs(v - id[i]) > 1e-12 {
			t.Fatalf("m * m^-1 = %s", m.Mult(inv))
		}
	}

	if _, err := (Mat3{1, 2, 3, 2, 4, 6, 0, 0, 1}).Inverse(); err == nil {
		t.Errorf("singular matrix inverted without error")
	}

	if got := (Vec3{2, 4, 0.5}).InvertDiag().Apply(Vec3{2, 4, 0.5}); got != (Vec3{1, 1, 1}) {
		t.Errorf("InvertDiag gave %s", got)
	}
}

func TestPlane(t *testing.T) {
	p := NewPlane(4, 3)
	p.Set(2, 3, 7)
	p.Row(1)[2] = -1

	if p.Get(2, 3) != 7 || p.Get(1, 2) != -1 || p.Values()[1*4+2] != -1 {
		t.Errorf("Set/Row did not land where Get looks")
	}
	if min, max := p.MinMax(); min != -1 || max != 7 {
		t.Errorf("MinMax = %v,%v", min, max)
	}

	p2 := p.Copy()
	if !p.Equal(p2) {
		t.Errorf("copy differs")
	}
	p2.Set(0, 0, 1)
	if p.Equal(p2) || p.Get(0, 0) != 0 {
		t.Errorf("copy shares storage")
	}

	nan := float32(math.NaN())
	p.Fill(nan)
	p2.Fill(nan)
	if !p.Equal(p2) {
		t.Errorf("NaN planes should be bitwise equal")
	}

	if p.SameSize(NewPlane(3, 4)) || p.SameSize(nil) {
		t.Errorf("SameSize is too lenient")
	}

	if _, err := NewPlaneFromSlice(2, 2, make([]float32, 3)); err == nil {
		t.Errorf("short slice accepted")
	}
	if q, err := NewPlaneFromSlice(2, 2, []float32{1, 2, 3, 4}); err != nil || q.Get(1, 0) != 3 {
		t.Errorf("NewPlaneFromSlice: %v", err)
	}
}

func TestGamma(t *testing.T) {
	if GammaExpand_F64(0) != 0 || math.Abs(GammaExpand_F64(1) - 1) > 1e-12 {
		t.Errorf("gamma does not fix the endpoints")
	}
	if v := GammaExpand_sRGB(Vec3{0, 0.001, 1}); v[0] != 0 || math.Abs(v[1] - 0.01292) > 1e-12 || math.Abs(v[2] - 1) > 1e-12 {
		t.Errorf("GammaExpand_sRGB gave %s", v)
	}
	if Clamp01(-2) != 0 || Clamp01(3) != 1 || Clamp01(0.25) != 0.25 {
		t.Errorf("Clamp01")
	}
}
