package dice

import (
	"errors"
	"fmt"

	"github.com/louisbranch/rollbot/internal/random"
)

// HelpMessage is returned when the input holds no dice notation.
const HelpMessage = "Please provide a set of dice (e.g., 2d6 or 1d8+1)"

// TooManyDiceMessage is returned when a roll exceeds the dice limit.
func TooManyDiceMessage(maxDice int) string {
	if maxDice <= 0 {
		maxDice = DefaultMaxDice
	}
	return fmt.Sprintf("Too many dice requested (maximum is %d)", maxDice)
}

// Evaluate parses text, rolls it against src, and returns the response text.
//
// Unrecognized notation and oversized rolls produce fixed messages rather
// than errors, so the result can always be sent back to the caller.
func Evaluate(text string, src Source, maxDice int) string {
	spec, ok := Parse(text)
	if !ok {
		return HelpMessage
	}
	outcome, err := Roll(src, spec, maxDice)
	if err != nil {
		return messageForError(err, maxDice)
	}
	return Format(outcome)
}

func messageForError(err error, maxDice int) string {
	if errors.Is(err, ErrTooManyDice) {
		return TooManyDiceMessage(maxDice)
	}
	return HelpMessage
}

// Result is the full record of one Roller call.
type Result struct {
	Text       string
	Recognized bool
	Spec       Spec
	Outcome    Outcome
	Seed       int64
}

// Roller evaluates chat text against a freshly seeded source per call.
//
// It is safe for concurrent use: no generator state is shared between calls.
type Roller struct {
	maxDice  int
	seedFunc func() (int64, error) // Generates per-roll random seeds.
}

// NewRoller creates a Roller bounded to maxDice dice per roll.
func NewRoller(maxDice int) *Roller {
	return NewRollerWithSeed(maxDice, random.NewSeed)
}

// NewRollerWithSeed creates a Roller that draws seeds from seedFunc.
func NewRollerWithSeed(maxDice int, seedFunc func() (int64, error)) *Roller {
	if maxDice <= 0 {
		maxDice = DefaultMaxDice
	}
	if seedFunc == nil {
		seedFunc = random.NewSeed
	}
	return &Roller{maxDice: maxDice, seedFunc: seedFunc}
}

// MaxDice reports the per-roll dice limit.
func (r *Roller) MaxDice() int {
	return r.maxDice
}

// Roll evaluates text with a new seed.
//
// The only error is a failure to generate the seed; notation problems are
// reported through Result.Text.
func (r *Roller) Roll(text string) (Result, error) {
	spec, ok := Parse(text)
	if !ok {
		return Result{Text: HelpMessage}, nil
	}

	seed, err := r.seedFunc()
	if err != nil {
		return Result{}, fmt.Errorf("generate seed: %w", err)
	}
	return r.rollSeeded(spec, seed), nil
}

// RollWithSeed evaluates text against the source derived from seed.
//
// Identical seeds and text always yield identical results.
func (r *Roller) RollWithSeed(text string, seed int64) Result {
	spec, ok := Parse(text)
	if !ok {
		return Result{Text: HelpMessage}
	}
	return r.rollSeeded(spec, seed)
}

func (r *Roller) rollSeeded(spec Spec, seed int64) Result {
	result := Result{Recognized: true, Spec: spec, Seed: seed}
	outcome, err := Roll(random.NewSource(seed), spec, r.maxDice)
	if err != nil {
		result.Text = messageForError(err, r.maxDice)
		return result
	}
	result.Outcome = outcome
	result.Text = Format(outcome)
	return result
}
