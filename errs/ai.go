package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// AI Generation Pipeline Errors
//
// Malformed responses, schema violations and transport failures are
// recoverable: the orchestrator swallows them and retries up to its budget.
// Only exhaustion, persistence failures and caller-input problems surface to
// the API layer.
var (
	ErrEmptyResponse       = errors.New("empty model response")
	ErrMalformedResponse   = errors.New("malformed model response")
	ErrSchemaViolation     = errors.New("response schema violation")
	ErrGenerationExhausted = errors.New("generation attempts exhausted")
	ErrPersistenceFailure  = errors.New("generated structure persistence failed")
	ErrBoardNotAIManaged   = errors.New("board was not created by plan generation")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// Networking & Transport Errors
var (
	ErrTransport          = errors.New("transport error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

func NewMalformedResponseError(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, reason)
}

func NewSchemaViolationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrSchemaViolation, reason)
}

// NewGenerationExhaustedError is surfaced when fallback generation is
// disabled and every attempt against the model failed.
func NewGenerationExhaustedError(attempts int, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrGenerationExhausted,
		Details:    fmt.Sprintf("Generation failed after %d attempts", attempts),
		Cause:      cause,
		Field:      "generation",
	}
}

func NewPersistenceFailureError(step string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrPersistenceFailure,
		Details:    fmt.Sprintf("Failed while persisting generated structure (%s)", step),
		Cause:      cause,
		Field:      "persistence",
	}
}

func NewBoardNotAIManagedError(boardPublicID string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrBoardNotAIManaged,
		Details:    fmt.Sprintf("Board %s has no stored project idea and cannot be revised", boardPublicID),
		Field:      "boardPublicId",
	}
}

func NewConfigMissingError(name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration value %s is not set", name),
		Field:      name,
	}
}

func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

func IsSchemaViolation(err error) bool {
	return errors.Is(err, ErrSchemaViolation)
}

func IsGenerationExhausted(err error) bool {
	return errors.Is(err, ErrGenerationExhausted)
}

func IsPersistenceFailure(err error) bool {
	return errors.Is(err, ErrPersistenceFailure)
}

func IsBoardNotAIManaged(err error) bool {
	return errors.Is(err, ErrBoardNotAIManaged)
}
