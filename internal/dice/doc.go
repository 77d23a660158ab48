// Package dice interprets dice notation such as "2d6" or "1d8+1" and renders
// the outcome of rolling it.
//
// A roll runs in three steps: Parse finds the first notation in the input
// text, Roll throws the dice against an injected Source, and Format renders
// the totals. Evaluate composes the three and is what chat handlers call.
package dice
