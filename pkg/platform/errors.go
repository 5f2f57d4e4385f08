package platform

import (
	"errors"
	"fmt"
)

// Error kinds returned by platform operations. They form a small closed
// set so callers can switch on them regardless of backend.
var (
	// ErrNotInitialized indicates an operation that requires prior
	// initialization was called on an uninitialized backend.
	ErrNotInitialized = errors.New("platform not initialized")

	// ErrInvalidParam indicates a parameter outside its valid domain.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrTimeout indicates a hardware operation did not complete in time.
	ErrTimeout = errors.New("operation timed out")

	// ErrNotFound indicates a device or resource was not present.
	ErrNotFound = errors.New("not found")
)

// Result is the stable integer form of an operation outcome, kept for
// callers linked across a plain calling convention.
type Result int

const (
	ResultOK            Result = 0
	ResultError         Result = -1
	ResultErrorInit     Result = -2
	ResultErrorParam    Result = -3
	ResultErrorTimeout  Result = -4
	ResultErrorNotFound Result = -5
)

// ResultOf maps an error returned by a platform operation to its Result
// code. A nil error maps to ResultOK; unrecognized errors map to the
// generic ResultError.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ErrNotInitialized):
		return ResultErrorInit
	case errors.Is(err, ErrInvalidParam):
		return ResultErrorParam
	case errors.Is(err, ErrTimeout):
		return ResultErrorTimeout
	case errors.Is(err, ErrNotFound):
		return ResultErrorNotFound
	default:
		return ResultError
	}
}

// PlatformError pairs an error kind with the operation that produced it.
// The human-readable detail lives in the backend's error slot; rendering
// it for logs is the caller's concern.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s failed: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

func newOpError(op string, err error) *PlatformError {
	return &PlatformError{Op: op, Err: err}
}
