package sierpinski

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSolveVectors(t *testing.T) {
	cases := []struct {
		name string
		tt   []int
		want []int64
	}{
		{"n=2 a", []int{0, 1, 0, 1}, []int64{0, 0, -1, 0, 1}},
		{"n=2 b", []int{1, 0, 1, 1}, []int64{-1, 0, 1, -1, 1}},
		{"n=3 a", []int{1, 1, 1, 0, 1, 1, 1, 0}, []int64{0, 0, 0, 0, 1, 0, 0, -1, 1}},
		{"n=3 b", []int{1, 1, 0, 0, 0, 0, 1, 0}, []int64{1, -2, 0, 1, 0, 1, 0, -1, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Solve(c.tt)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("Solve(%v) mismatch (-want +got):\n%s", c.tt, diff)
			}
		})
	}
}

func TestSolveRejectsNonPowerOfTwoLength(t *testing.T) {
	if _, err := Solve([]int{0, 1, 1}); err == nil {
		t.Fatal("expected an error for a non-power-of-two truth table length")
	}
}

func TestSolveRejectsTooManyVariables(t *testing.T) {
	tt := make([]int, 1<<(MaxVars+1))
	if _, err := Solve(tt); err == nil {
		t.Fatal("expected an error exceeding MaxVars")
	}
}

func TestSubmasksIncludesZeroAndSelf(t *testing.T) {
	got := submasks(0b101)
	want := []int{0b101, 0b100, 0b001, 0b000}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submasks(0b101) mismatch (-want +got):\n%s", diff)
	}
}
