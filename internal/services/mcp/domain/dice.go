package domain

import (
	"context"

	"github.com/louisbranch/rollbot/internal/dice"
	"github.com/louisbranch/rollbot/internal/services/rollbot/rolls"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RollDiceInput represents the MCP tool input for rolling dice.
type RollDiceInput struct {
	Notation string `json:"notation" jsonschema:"dice notation such as 2d6 or 1d8+1; surrounding text is ignored"`
	Seed     *int64 `json:"seed,omitempty" jsonschema:"optional seed that makes the roll reproducible"`
}

// RollDiceResult represents the MCP tool output for rolling dice.
type RollDiceResult struct {
	Text         string `json:"text" jsonschema:"chat-formatted roll summary"`
	Recognized   bool   `json:"recognized" jsonschema:"whether dice notation was found in the input"`
	Count        int    `json:"count" jsonschema:"number of dice rolled"`
	Sides        int    `json:"sides" jsonschema:"number of sides per die"`
	Modifier     int    `json:"modifier" jsonschema:"flat modifier added to the totals"`
	Dice         []int  `json:"dice" jsonschema:"individual die results in roll order"`
	Sum          int64  `json:"sum" jsonschema:"sum of all dice plus the modifier"`
	Advantage    int64  `json:"advantage" jsonschema:"highest die plus the modifier"`
	Disadvantage int64  `json:"disadvantage" jsonschema:"lowest die plus the modifier"`
	Seed         int64  `json:"seed" jsonschema:"seed used for the roll"`
}

// RollDiceTool defines the MCP tool schema for rolling dice.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls dice from notation like 2d6 or 1d8+1 and reports sum, highest and lowest die",
	}
}

// RollDiceHandler executes a dice roll from notation.
func RollDiceHandler(rollService *rolls.Service) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		var result dice.Result
		if input.Seed != nil {
			result = rollService.RollWithSeed(ctx, input.Notation, *input.Seed)
		} else {
			var err error
			result, err = rollService.Roll(ctx, input.Notation)
			if err != nil {
				return nil, RollDiceResult{}, err
			}
		}
		return nil, rollDiceResultFrom(result), nil
	}
}

func rollDiceResultFrom(result dice.Result) RollDiceResult {
	out := RollDiceResult{
		Text:       result.Text,
		Recognized: result.Recognized,
		Dice:       []int{},
	}
	if !result.Recognized {
		return out
	}
	out.Count = result.Spec.Count
	out.Sides = result.Spec.Sides
	out.Modifier = result.Spec.Modifier
	out.Seed = result.Seed
	if len(result.Outcome.Dice) == 0 {
		return out
	}
	out.Dice = result.Outcome.Dice
	out.Sum = result.Outcome.Total()
	out.Advantage = result.Outcome.High()
	out.Disadvantage = result.Outcome.Low()
	return out
}
