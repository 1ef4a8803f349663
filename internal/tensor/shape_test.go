package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{4, 1, 2}, 8},
		{Shape{3, 0}, 0},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{0, 2}).Validate(); err != nil {
		t.Errorf("zero dimension should be valid: %v", err)
	}
	if err := (Shape{2, -1}).Validate(); err == nil {
		t.Error("negative dimension should be rejected")
	}
}

func TestShapeStrides(t *testing.T) {
	s := Shape{2, 3, 4}

	c := s.ComputeStrides()
	if !Shape(c).Equal(Shape{12, 4, 1}) {
		t.Errorf("ComputeStrides() = %v, want [12 4 1]", c)
	}

	f := s.ComputeFortranStrides()
	if !Shape(f).Equal(Shape{1, 2, 6}) {
		t.Errorf("ComputeFortranStrides() = %v, want [1 2 6]", f)
	}

	if len(Shape{}.ComputeFortranStrides()) != 0 {
		t.Error("scalar should have no strides")
	}
}

func TestShapeCloneIsIndependent(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 9
	if s[0] != 2 {
		t.Error("Clone should not alias the original")
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		text string
		want Shape
	}{
		{"", Shape{}},
		{"5", Shape{5}},
		{"2,3", Shape{2, 3}},
		{" 4, 1 ,2 ", Shape{4, 1, 2}},
	}

	for _, tt := range tests {
		got, err := ParseShape(tt.text)
		if err != nil {
			t.Fatalf("ParseShape(%q) failed: %v", tt.text, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseShape(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}

	for _, bad := range []string{"2,x", "-1", "2,,3"} {
		if _, err := ParseShape(bad); err == nil {
			t.Errorf("ParseShape(%q) should fail", bad)
		}
	}
}
