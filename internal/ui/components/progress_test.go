package components

import "testing"

func TestQueueBarCells(t *testing.T) {
	tests := []struct {
		name     string
		counts   []int
		width    int
		wantSum  int
		nonEmpty []int
	}{
		{name: "even split", counts: []int{1, 1, 1, 1}, width: 20, wantSum: 20, nonEmpty: []int{0, 1, 2, 3}},
		{name: "tiny segment keeps a cell", counts: []int{1, 0, 0, 99}, width: 10, wantSum: 10, nonEmpty: []int{0, 3}},
		{name: "single segment", counts: []int{0, 5, 0, 0}, width: 12, wantSum: 12, nonEmpty: []int{1}},
		{name: "empty", counts: []int{0, 0, 0, 0}, width: 12, wantSum: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueueBar("", tt.counts[0], tt.counts[1], tt.counts[2], tt.counts[3], tt.width)
			cells := q.cells(tt.width)

			sum := 0
			for _, c := range cells {
				sum += c
			}
			if sum != tt.wantSum {
				t.Errorf("cells sum = %d, want %d (%v)", sum, tt.wantSum, cells)
			}
			for _, i := range tt.nonEmpty {
				if cells[i] < 1 {
					t.Errorf("segment %d has no cells: %v", i, cells)
				}
			}
			for i, c := range tt.counts {
				if c == 0 && cells[i] != 0 {
					t.Errorf("empty segment %d got %d cells", i, cells[i])
				}
			}
		})
	}
}

func TestQueueBarTotal(t *testing.T) {
	q := NewQueueBar("mandarin", 2, 3, 4, 1, 40)
	if q.Total() != 10 {
		t.Errorf("Total() = %d, want 10", q.Total())
	}
	if q.View() == "" {
		t.Error("expected a rendered bar")
	}
}
