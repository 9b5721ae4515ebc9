// Package halerr defines the stable, versioned error taxonomy shared by every
// HRCLS component. The numeric values are part of the wire contract — a
// major version bump is required before any of them change.
package halerr

import (
	"errors"
	"fmt"
)

// Code is a stable numeric error code. Values never change without a major
// version bump (see pkg/jobmodel.Version).
type Code int32

const (
	Success      Code = 0
	InvalidParam Code = -1
	NoMemory     Code = -2
	Timeout      Code = -3
	Hardware     Code = -4
	Busy         Code = -5
	NotSupported Code = -6
	LaneOffline  Code = -7
)

func (c Code) String() string {
	switch c {
	case Success:
		return "Success"
	case InvalidParam:
		return "InvalidParam"
	case NoMemory:
		return "NoMemory"
	case Timeout:
		return "Timeout"
	case Hardware:
		return "Hardware"
	case Busy:
		return "Busy"
	case NotSupported:
		return "NotSupported"
	case LaneOffline:
		return "LaneOffline"
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}

// Error pairs a stable Code with a short, static human-readable message.
// The message is a static string — callers must not rely on it being unique
// per failure, only the Code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New constructs an *Error for the given code and static message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the Code from err if it is (or wraps) an *Error. ok is
// false if err carries no Code at all, distinguishing "not an HRCLS error"
// from Success.
func CodeOf(err error) (code Code, ok bool) {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Code, true
	}
	return 0, false
}

// ErrUnknownJob is a distinct sentinel for a job id that was never submitted
// (or was already reaped by a prior wait). It still carries
// halerr.InvalidParam as its wire-level Code — the numeric codes are frozen
// by versioning rules — but callers that need to tell the two situations
// apart can use errors.Is(err, ErrUnknownJob).
var ErrUnknownJob = New(InvalidParam, "unknown job id")
