package reward

import "testing"

func TestCompute(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		name string
		in   Input
		want int
	}{
		{
			// ceil(10 * 1.2) + 2*1 = 14; tempo 80 earns no tempo bonus.
			name: "first attempt at moderate tempo",
			in:   Input{Correct: true, Tempo: 80, PlayCount: 1, Level: 1},
			want: 14,
		},
		{
			// ceil(10 * 1.3) = 13, ceil(13 * 1.2) = 16, + 2*3 = 22.
			name: "first attempt above tempo threshold",
			in:   Input{Correct: true, Tempo: 110, PlayCount: 1, Level: 3},
			want: 22,
		},
		{
			// Tempo exactly 100 is not "above".
			name: "tempo at threshold",
			in:   Input{Correct: true, Tempo: 100, PlayCount: 1, Level: 1},
			want: 14,
		},
		{
			// Replayed pattern loses the first-attempt bonus: 10 + 2*2 = 14.
			name: "replayed pattern",
			in:   Input{Correct: true, Tempo: 80, PlayCount: 2, Level: 2},
			want: 14,
		},
		{
			// ceil(10 * 1.2) = 12, floor(12 * 0.5) = 6, + 2*1 = 8.
			name: "hint halves the multiplied amount",
			in:   Input{Correct: true, Tempo: 80, PlayCount: 1, UsedHint: true, Level: 1},
			want: 8,
		},
		{
			// 14 + floor(0.5 * 12) = 20.
			name: "streak bonus at twelve",
			in:   Input{Correct: true, Tempo: 80, PlayCount: 1, Level: 1, PerfectStreak: 12},
			want: 20,
		},
		{
			// Streak of nine earns nothing extra.
			name: "streak below bonus minimum",
			in:   Input{Correct: true, Tempo: 80, PlayCount: 1, Level: 1, PerfectStreak: 9},
			want: 14,
		},
		{
			// floor(0.3 * 10) = 3, no other modifiers apply.
			name: "incorrect earns participation credit",
			in:   Input{Correct: false, Tempo: 120, PlayCount: 1, UsedHint: true, Level: 5, PerfectStreak: 20},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Compute(tt.in); got != tt.want {
				t.Errorf("Compute(%+v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestComputeZeroValueUsesDefaultBase(t *testing.T) {
	var c Calculator
	got := c.Compute(Input{Correct: true, Tempo: 80, PlayCount: 1, Level: 1})
	if got != 14 {
		t.Errorf("Compute = %d, want 14", got)
	}
}

func TestComputeCustomBase(t *testing.T) {
	c := &Calculator{Base: 20}
	// ceil(20 * 1.2) + 2 = 26.
	if got := c.Compute(Input{Correct: true, Tempo: 80, PlayCount: 1, Level: 1}); got != 26 {
		t.Errorf("correct = %d, want 26", got)
	}
	// floor(0.3 * 20) = 6.
	if got := c.Compute(Input{Correct: false}); got != 6 {
		t.Errorf("incorrect = %d, want 6", got)
	}
}
