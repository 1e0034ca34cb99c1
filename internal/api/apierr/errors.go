package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidPosition  = "INVALID_POSITION"
	CodeInvalidGameSize  = "INVALID_GAME_SIZE"
	CodeInvalidMineCount = "INVALID_MINE_COUNT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeGameOver         = "GAME_OVER"
	CodeCellRevealed     = "CELL_REVEALED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusCode returns the HTTP status an error maps to
func StatusCode(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeGameOver, "Game is already over"}}
	case errors.Is(err, model.ErrCellRevealed):
		return &httpError{http.StatusConflict, APIError{CodeCellRevealed, "Cell is already revealed"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Invalid board position"}}
	case errors.Is(err, model.ErrInvalidGameSize):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGameSize, "Width and height must be between 1 and 64"}}
	case errors.Is(err, model.ErrInvalidMineCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMineCount, "Mine count must leave at least one safe cell"}}
	case errors.Is(err, model.ErrInvalidAction):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Unknown action"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid control token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// FromCode maps an error code from a response back to the model error it
// came from, for API clients. Unknown codes yield nil.
func FromCode(code string) error {
	switch code {
	case CodeGameNotFound:
		return model.ErrGameNotFound
	case CodeGameOver:
		return model.ErrGameOver
	case CodeCellRevealed:
		return model.ErrCellRevealed
	case CodeInvalidPosition:
		return model.ErrInvalidPosition
	case CodeInvalidGameSize:
		return model.ErrInvalidGameSize
	case CodeInvalidMineCount:
		return model.ErrInvalidMineCount
	case CodeUnauthorized:
		return auth.ErrInvalidToken
	default:
		return nil
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Control token required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
