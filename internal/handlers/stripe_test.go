package handlers

import "testing"

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{12.34, 1234},
		{0.1, 10},
		{99.999, 10000},
		{100, 10000},
	}
	for _, tc := range cases {
		if got := toMinorUnits(tc.amount); got != tc.want {
			t.Fatalf("toMinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
