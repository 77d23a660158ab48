// Package rolls wraps the dice roller with tracing for transport adapters.
package rolls

import (
	"context"
	"fmt"

	"github.com/louisbranch/rollbot/internal/dice"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/rollbot/internal/services/rollbot/rolls"

// Service evaluates roll commands and records a span per roll.
type Service struct {
	roller *dice.Roller
	tracer trace.Tracer
}

// New creates a Service bounded to maxDice dice per roll.
func New(maxDice int) *Service {
	return NewWithRoller(dice.NewRoller(maxDice))
}

// NewWithRoller creates a Service around an existing roller.
func NewWithRoller(roller *dice.Roller) *Service {
	if roller == nil {
		roller = dice.NewRoller(dice.DefaultMaxDice)
	}
	return &Service{
		roller: roller,
		tracer: otel.Tracer(tracerName),
	}
}

// MaxDice reports the per-roll dice limit.
func (s *Service) MaxDice() int {
	return s.roller.MaxDice()
}

// Roll evaluates text with a freshly generated seed.
func (s *Service) Roll(ctx context.Context, text string) (dice.Result, error) {
	_, span := s.tracer.Start(ctx, "rollbot.roll")
	defer span.End()

	result, err := s.roller.Roll(text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "roll failed")
		return dice.Result{}, fmt.Errorf("roll: %w", err)
	}
	annotate(span, result)
	return result, nil
}

// RollWithSeed evaluates text against a caller-chosen seed.
func (s *Service) RollWithSeed(ctx context.Context, text string, seed int64) dice.Result {
	_, span := s.tracer.Start(ctx, "rollbot.roll")
	defer span.End()

	result := s.roller.RollWithSeed(text, seed)
	annotate(span, result)
	return result
}

func annotate(span trace.Span, result dice.Result) {
	span.SetAttributes(attribute.Bool("dice.recognized", result.Recognized))
	if !result.Recognized {
		return
	}
	span.SetAttributes(
		attribute.Int("dice.count", result.Spec.Count),
		attribute.Int("dice.sides", result.Spec.Sides),
		attribute.Int("dice.modifier", result.Spec.Modifier),
		attribute.Int64("dice.seed", result.Seed),
		attribute.Int("dice.rolled", len(result.Outcome.Dice)),
	)
}
