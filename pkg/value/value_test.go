package value

import "testing"

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Null, false},
		{True, true},
		{False, false},
		{Int(0), false},
		{Int(1), true},
		{Float(0), false},
		{Float(0.1), true},
		{Char(0), false},
		{Char('a'), true},
		{String(""), false},
		{String("x"), true},
	}
	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestEqualNumericPromotion(t *testing.T) {
	if !Int(2).Equal(Float(2.0)) {
		t.Error("Int(2) should equal Float(2.0)")
	}
	if !Float(2.0).Equal(Int(2)) {
		t.Error("Float(2.0) should equal Int(2)")
	}
	if Int(2).Equal(Float(2.5)) {
		t.Error("Int(2) should not equal Float(2.5)")
	}
}

func TestEqualCrossTypeIsTotalNotError(t *testing.T) {
	pairs := []struct{ a, b Value }{
		{Null, Int(0)},
		{String(""), Bool(false)},
		{Char('a'), String("a")},
		{Bool(true), Int(1)},
	}
	for _, p := range pairs {
		if p.a.Equal(p.b) {
			t.Errorf("%#v should not equal %#v", p.a, p.b)
		}
	}
}

func TestEqualStructural(t *testing.T) {
	if !String("abc").Equal(String("abc")) {
		t.Error("equal strings should compare equal")
	}
	if String("abc").Equal(String("abd")) {
		t.Error("different strings should not compare equal")
	}
}

func TestTypeTag(t *testing.T) {
	tests := []struct {
		v    Value
		want int
	}{
		{True, 0},
		{Char('a'), 1},
		{Float(1), 2},
		{Int(1), 3},
		{Null, 4},
		{String("x"), 5},
	}
	for _, tt := range tests {
		if got := tt.v.TypeTag(); got != tt.want {
			t.Errorf("TypeTag(%#v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{True, "true"},
		{False, "false"},
		{Int(42), "42"},
		{Float(1.5), "1.5"},
		{Char('z'), "z"},
		{String("hi"), "hi"},
	}
	for _, tt := range tests {
		if got := tt.v.Inspect(); got != tt.want {
			t.Errorf("Inspect(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestNameHashStableAndDistinct(t *testing.T) {
	if NameHash("main") != NameHash("main") {
		t.Error("NameHash should be deterministic")
	}
	if NameHash("main") == NameHash("add") {
		t.Error("distinct names should (almost certainly) hash distinctly")
	}
}
