package dice

import (
	"strconv"
	"strings"
)

// Format renders an outcome as a one-line chat response.
//
// A single die reports only the sum; larger batches also report the highest
// and lowest die. The modifier shifts the reported scalars but never the
// listed dice.
func Format(outcome Outcome) string {
	var b strings.Builder
	b.WriteString("sum: ")
	b.WriteString(strconv.FormatInt(outcome.Total(), 10))
	if len(outcome.Dice) > 1 {
		b.WriteString(" | advantage: ")
		b.WriteString(strconv.FormatInt(outcome.High(), 10))
		b.WriteString(" | disadvantage: ")
		b.WriteString(strconv.FormatInt(outcome.Low(), 10))
	}
	b.WriteString(" | dice: [")
	for i, value := range outcome.Dice {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(value))
	}
	b.WriteString("]")
	return b.String()
}
