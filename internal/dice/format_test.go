package dice

import "testing"

func TestFormat(t *testing.T) {
	tcs := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{
			name:    "single die",
			outcome: Outcome{Dice: []int{4}, Modifier: 2, Sum: 4, Advantage: 4, Disadvantage: 4},
			want:    "sum: 6 | dice: [4]",
		},
		{
			name:    "single die negative modifier",
			outcome: Outcome{Dice: []int{1}, Modifier: -3, Sum: 1, Advantage: 1, Disadvantage: 1},
			want:    "sum: -2 | dice: [1]",
		},
		{
			name:    "batch keeps raw dice",
			outcome: Outcome{Dice: []int{6, 1, 6}, Modifier: -1, Sum: 13, Advantage: 6, Disadvantage: 1},
			want:    "sum: 12 | advantage: 5 | disadvantage: 0 | dice: [6, 1, 6]",
		},
		{
			name:    "batch without modifier",
			outcome: Outcome{Dice: []int{3, 5}, Sum: 8, Advantage: 5, Disadvantage: 3},
			want:    "sum: 8 | advantage: 5 | disadvantage: 3 | dice: [3, 5]",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.outcome); got != tc.want {
				t.Fatalf("Format() = %q, want %q", got, tc.want)
			}
		})
	}
}
