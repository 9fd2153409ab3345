package race

import (
	"math"
	"testing"
)

func TestReflectAboutNormal(t *testing.T) {
	v := NewVec2(3, 4)
	r := v.Reflect(NewVec2(0, -1))
	if r != NewVec2(3, -4) {
		t.Errorf("reflect = %+v, want (3,-4)", r)
	}
	if math.Abs(r.Magnitude()-v.Magnitude()) > 1e-12 {
		t.Errorf("reflection changed length: %.6f -> %.6f", v.Magnitude(), r.Magnitude())
	}
}

func TestNormalizeZero(t *testing.T) {
	if n := (Vec2{}).Normalize(); !n.IsZero() {
		t.Errorf("normalize(0) = %+v", n)
	}
	if n := NewVec2(0, 5).Normalize(); n != NewVec2(0, 1) {
		t.Errorf("normalize((0,5)) = %+v", n)
	}
}
