package apportion

import (
	"slices"
	"testing"
)

func TestLargestRemainder(t *testing.T) {
	tests := []struct {
		name    string
		support []float64
		total   int
		want    []int
	}{
		{"exact", []float64{50, 30, 20}, 10, []int{5, 3, 2}},
		{"skewed", []float64{34, 33, 33}, 10, []int{4, 3, 3}},
		{"tie keeps order", []float64{1, 1, 1}, 100, []int{34, 33, 33}},
		{"zero support", []float64{0, 0}, 3, []int{2, 1}},
		{"single", []float64{12}, 100, []int{100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LargestRemainder(tt.support, tt.total)
			if !slices.Equal(got, tt.want) {
				t.Errorf("LargestRemainder(%v, %d) = %v, want %v", tt.support, tt.total, got, tt.want)
			}
			if Sum(got) != tt.total {
				t.Errorf("sum = %d, want %d", Sum(got), tt.total)
			}
		})
	}
}

func TestLargestRemainderConservesSeats(t *testing.T) {
	cases := [][]float64{
		{40, 15.2, 22.9, 7.7, 14.2},
		{99.9, 0.05, 0.05},
		{3, 3, 3, 3, 3, 3, 3},
		{0.1, 0, 0, 80},
	}
	for _, support := range cases {
		if got := Sum(LargestRemainder(support, 100)); got != 100 {
			t.Errorf("support %v allocated %d seats", support, got)
		}
	}
}

func TestTransferConfiscate(t *testing.T) {
	seats := []int{40, 30, 20, 10}
	Transfer(seats, []int{1}, -10)
	// 10 seats over a pool of 70: 5.71→6, 2.86→3, 1.43→1.
	want := []int{46, 20, 23, 11}
	if !slices.Equal(seats, want) {
		t.Errorf("seats = %v, want %v", seats, want)
	}
	if Sum(seats) != 100 {
		t.Errorf("sum = %d", Sum(seats))
	}
}

func TestTransferClampsAtZero(t *testing.T) {
	seats := []int{40, 5, 55}
	Transfer(seats, []int{1}, -20)
	if seats[1] != 0 {
		t.Errorf("target seats = %d, want 0", seats[1])
	}
	if Sum(seats) != 100 {
		t.Errorf("sum = %d, want 100", Sum(seats))
	}
}

func TestTransferGrantRemainderToFirst(t *testing.T) {
	seats := []int{50, 25, 25}
	Transfer(seats, []int{0}, 3)
	// -3 spread over 25/25: each -1.5 rounds to -1, remainder -1 to index 1.
	want := []int{53, 23, 24}
	if !slices.Equal(seats, want) {
		t.Errorf("seats = %v, want %v", seats, want)
	}
}

func TestReconcile(t *testing.T) {
	seats := []int{40, 30, 29}
	if d := Reconcile(seats, 100, 0); d != 1 {
		t.Errorf("diff = %d, want 1", d)
	}
	if seats[0] != 41 {
		t.Errorf("anchor = %d, want 41", seats[0])
	}
	if d := Reconcile(seats, 100, 0); d != 0 {
		t.Errorf("second reconcile diff = %d", d)
	}
}

func TestReconcileSpreadsWhatTheAnchorCannotCover(t *testing.T) {
	seats := []int{0, 45, 40, 35}
	if d := Reconcile(seats, 100, 0); d != -20 {
		t.Errorf("diff = %d, want -20", d)
	}
	want := []int{0, 25, 40, 35}
	for i := range want {
		if seats[i] != want[i] {
			t.Fatalf("seats = %v, want %v", seats, want)
		}
	}

	// The deficit runs past the largest party into the next one.
	seats = []int{3, 60, 50}
	Reconcile(seats, 40, 0)
	if Sum(seats) != 40 || seats[0] != 0 || seats[1] != 0 || seats[2] != 40 {
		t.Errorf("seats = %v", seats)
	}
}

func TestRoundHalfUp(t *testing.T) {
	for in, want := range map[float64]int{2.5: 3, -2.5: -2, 1.49: 1, -1.5: -1} {
		if got := roundHalfUp(in); got != want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}
