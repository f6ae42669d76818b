package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/scoreboard/internal/model"
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
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeBoardNotFound   = "BOARD_NOT_FOUND"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeIndexOutOfRange = "INDEX_OUT_OF_RANGE"
	CodeBlankName       = "BLANK_NAME"
	CodeInvalidDelta    = "INVALID_DELTA"
	CodeDuplicatePlayer = "DUPLICATE_PLAYER"
	CodeInternalError   = "INTERNAL_ERROR"
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

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrBoardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeBoardNotFound, "Board not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrIndexOutOfRange):
		return &httpError{http.StatusNotFound, APIError{CodeIndexOutOfRange, "No player at that position"}}
	case errors.Is(err, model.ErrBlankName):
		return &httpError{http.StatusBadRequest, APIError{CodeBlankName, "Player name is required"}}
	case errors.Is(err, model.ErrInvalidDelta):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDelta, "Score change must be non-zero"}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusConflict, APIError{CodeDuplicatePlayer, "Player already on the board"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
