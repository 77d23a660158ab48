// Package errors provides structured errors that carry a machine-readable
// code and convert to gRPC statuses with error details.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeRollRequestMissing Code = "ROLL_REQUEST_MISSING"
	CodeRollTextTooLong    Code = "ROLL_TEXT_TOO_LONG"

	// Roller errors
	CodeRollerUnavailable Code = "ROLLER_UNAVAILABLE"
	CodeSeedUnavailable   Code = "SEED_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeRollRequestMissing,
		CodeRollTextTooLong:
		return codes.InvalidArgument

	case CodeSeedUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
