package util

import (
	"errors"
	"fmt"

	"github.com/0xERR0R/zonegen/log"
)

// AbortError stops the program with an exit code.
// Shown is set when the reason was already logged.
type AbortError struct {
	Code  int
	Shown bool
	Err   error
}

func (e *AbortError) Error() string {
	return e.Err.Error()
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// NewAbortError wraps err in an AbortError with exit code 1
func NewAbortError(err error) *AbortError {
	return &AbortError{Code: 1, Err: err}
}

// Abort logs the reason and returns an AbortError flagged as shown
func Abort(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)

	log.Log().Error(err)

	return &AbortError{Code: 1, Shown: true, Err: err}
}

// ExitCode returns the exit code carried by err, 1 for other errors and 0 for nil
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var abortErr *AbortError
	if errors.As(err, &abortErr) {
		return abortErr.Code
	}

	return 1
}

// WasShown reports whether err was already logged
func WasShown(err error) bool {
	var abortErr *AbortError

	return errors.As(err, &abortErr) && abortErr.Shown
}

// FatalOnError logs the error and exits, if err is not nil
func FatalOnError(message string, err error) {
	if err != nil {
		log.Log().Fatal(message, err)
	}
}
