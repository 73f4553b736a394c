package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with the HTTP status it should be answered with.
// Its message is safe to show to clients.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, msg string) error {
	return &Error{code, errors.New(msg)}
}

var (
	ErrNoImage           = NewError(http.StatusBadRequest, "No image file provided.")
	ErrNotAnImage        = NewError(http.StatusBadRequest, "Invalid file type. Please upload an image.")
	ErrNoVideo           = NewError(http.StatusBadRequest, "No video file provided.")
	ErrNotAVideo         = NewError(http.StatusBadRequest, "Invalid file type. Allowed: mp4, avi, mov, mkv, flv, wmv.")
	ErrInvalidForm       = NewError(http.StatusBadRequest, "Invalid form data. severity_threshold must be Low, Medium or High and sample_rate a positive number.")
	ErrModelNotLoaded    = NewError(http.StatusServiceUnavailable, "Model not loaded. Please add model file.")
	ErrPredictionFailed  = NewError(http.StatusInternalServerError, "Prediction failed. Please try again.")
	ErrNoFramesExtracted = NewError(http.StatusInternalServerError, "Could not extract frames from video.")
	ErrVideoAnalysis     = NewError(http.StatusInternalServerError, "Video analysis failed. Please try again.")
	ErrInternalServer    = NewError(http.StatusInternalServerError, "Internal server error.")
)

// ErrTooLarge is the client error for an upload above limit bytes.
func ErrTooLarge(limit int64) error {
	if limit < 1<<20 {
		return NewError(http.StatusBadRequest, fmt.Sprintf("File too large. Maximum size is %dKB.", limit>>10))
	}
	return NewError(http.StatusBadRequest, fmt.Sprintf("File too large. Maximum size is %dMB.", limit>>20))
}
