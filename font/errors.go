package font

import (
	"errors"
	"fmt"
)

// Sentinel causes a caller can match with errors.Is regardless of which
// subsystem produced the wrapping error.
var (
	ErrEndOfStream        = errors.New("end of stream")
	ErrUnsupportedFont    = errors.New("unsupported font")
	ErrMissingFontIndex   = errors.New("missing font index")
	ErrBadMagicNumber     = errors.New("bad magic number")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrBadChecksum        = errors.New("bad checksum")
	ErrMalformedVarint    = errors.New("malformed variable-length integer")
	ErrMalformedTransform = errors.New("malformed transform")
	ErrCountMismatch      = errors.New("structural count mismatch")
	ErrInvalidTag         = errors.New("invalid tag")
)

// sfntError names the subsystem responsible for a failure, the way the
// source's single SfntError class does.
type sfntError struct {
	subsystem string
	cause     error
}

func (e *sfntError) Error() string {
	if e.subsystem == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("[%s] %s", e.subsystem, e.cause.Error())
}

func (e *sfntError) Unwrap() error {
	return e.cause
}

// newError wraps cause with the subsystem that detected it, so callers can
// still errors.Is against the sentinel while reading a useful message.
func newError(subsystem string, cause error) error {
	return &sfntError{subsystem, cause}
}

// newErrorf is newError for a one-off message with no existing sentinel.
func newErrorf(subsystem, format string, args ...any) error {
	return &sfntError{subsystem, fmt.Errorf(format, args...)}
}
