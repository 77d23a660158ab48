package dice

import "errors"

const (
	// DefaultMaxDice bounds a single roll when no other limit is configured.
	DefaultMaxDice = 100
	// MaxDiceLimit is the largest limit a process may configure.
	MaxDiceLimit = 10000
)

// ErrInvalidSpec indicates a spec with a non-positive count or die size.
var ErrInvalidSpec = errors.New("dice must have positive sides and count")

// ErrTooManyDice indicates a spec asks for more dice than the configured limit.
var ErrTooManyDice = errors.New("too many dice requested")

// Source supplies the random values behind each die.
//
// Sources from math/rand/v2 (PCG, ChaCha8) satisfy it. A Source is used by a
// single roll at a time; callers that roll concurrently need one per call.
type Source interface {
	Uint64() uint64
}

// Outcome captures a single batch roll.
//
// Sum, Advantage, and Disadvantage are raw statistics over Dice; the
// modifier is applied by Total, High, and Low.
type Outcome struct {
	Dice         []int
	Modifier     int
	Sum          int64
	Advantage    int64
	Disadvantage int64
}

// Total returns the sum of all dice plus the modifier.
func (o Outcome) Total() int64 {
	return o.Sum + int64(o.Modifier)
}

// High returns the highest single die plus the modifier.
func (o Outcome) High() int64 {
	return o.Advantage + int64(o.Modifier)
}

// Low returns the lowest single die plus the modifier.
func (o Outcome) Low() int64 {
	return o.Disadvantage + int64(o.Modifier)
}

// Roll throws spec.Count independent dice of spec.Sides faces against src.
//
// Each die is drawn as an unsigned value reduced modulo the die size, so
// every result lies in [1, Sides]. Dice appear in the order they were rolled.
// A maxDice of zero or less applies DefaultMaxDice.
func Roll(src Source, spec Spec, maxDice int) (Outcome, error) {
	if spec.Count < 1 || spec.Sides < 1 {
		return Outcome{}, ErrInvalidSpec
	}
	if maxDice <= 0 {
		maxDice = DefaultMaxDice
	}
	if spec.Count > maxDice {
		return Outcome{}, ErrTooManyDice
	}
	if src == nil {
		return Outcome{}, errors.New("random source is required")
	}

	outcome := Outcome{
		Dice:     make([]int, spec.Count),
		Modifier: spec.Modifier,
	}
	sides := uint64(spec.Sides)
	for i := range outcome.Dice {
		value := int64(src.Uint64()%sides) + 1
		outcome.Dice[i] = int(value)
		outcome.Sum += value
		if value > outcome.Advantage {
			outcome.Advantage = value
		}
		if i == 0 || value < outcome.Disadvantage {
			outcome.Disadvantage = value
		}
	}

	return outcome, nil
}
