package tempo

import "testing"

func outcomes(correct, total int) []bool {
	out := make([]bool, total)
	for i := range out {
		out[i] = i < correct
	}
	return out
}

func TestNextOnlyAdjustsOnInterval(t *testing.T) {
	a := NewAdapter()
	recent := outcomes(5, 5)

	for answered := 1; answered < Interval; answered++ {
		if got := a.Next(100, answered, recent); got != 100 {
			t.Errorf("answered=%d: tempo = %d, want unchanged 100", answered, got)
		}
	}
	if got := a.Next(100, Interval, recent); got != 105 {
		t.Errorf("answered=%d: tempo = %d, want 105", Interval, got)
	}
	if got := a.Next(105, Interval+1, recent); got != 105 {
		t.Errorf("answered=%d: tempo = %d, want unchanged 105", Interval+1, got)
	}
}

func TestNextAccuracyBands(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		want    int
	}{
		{"perfect raises", 5, 105},
		{"four of five raises", 4, 105},
		{"three of five holds", 3, 100},
		{"two of five lowers", 2, 95},
		{"none correct lowers", 0, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter()
			got := a.Next(100, Interval, outcomes(tt.correct, Interval))
			if got != tt.want {
				t.Errorf("tempo = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextClampsToBounds(t *testing.T) {
	a := &Adapter{Step: 10, Min: 60, Max: 160}

	if got := a.Next(155, Interval, outcomes(5, Interval)); got != 160 {
		t.Errorf("tempo = %d, want clamped 160", got)
	}
	if got := a.Next(62, Interval, outcomes(0, Interval)); got != 60 {
		t.Errorf("tempo = %d, want clamped 60", got)
	}
}

func TestNextUsesOnlyTheLastFive(t *testing.T) {
	a := NewAdapter()
	// Older history is all wrong; the last five are all right.
	recent := append(outcomes(0, 20), outcomes(5, 5)...)
	if got := a.Next(100, 25, recent); got != 105 {
		t.Errorf("tempo = %d, want 105", got)
	}
}

func TestNextShortHistoryIsNoop(t *testing.T) {
	a := NewAdapter()
	if got := a.Next(100, Interval, outcomes(3, 3)); got != 100 {
		t.Errorf("tempo = %d, want unchanged 100", got)
	}
}
