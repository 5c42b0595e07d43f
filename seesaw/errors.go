package seesaw

import "fmt"

// ErrorKind attributes a failed transaction to the bus phase that broke it.
// Kinds are ordered (WriteReadError < WriteError < ReadError) so sets of
// errors sort deterministically in logs and tests.
type ErrorKind uint8

const (
	// WriteReadError covers fused write-read transfers. The register
	// protocol issues separate write and read phases, so the driver never
	// produces it; transports that fuse both into one transaction may.
	WriteReadError ErrorKind = iota
	// WriteError means the register pointer write failed; no data was read.
	WriteError
	// ReadError means the data read failed after a successful pointer write.
	ReadError
)

func (k ErrorKind) String() string {
	switch k {
	case WriteReadError:
		return "write-read"
	case WriteError:
		return "write"
	case ReadError:
		return "read"
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// Kind sentinels for errors.Is selection by phase.
var (
	ErrWriteRead = &Error{Kind: WriteReadError}
	ErrWrite     = &Error{Kind: WriteError}
	ErrRead      = &Error{Kind: ReadError}
)

// Error is a failed bus transaction attributed to one phase. Cause carries
// the transport error when the transport supplied one.
type Error struct {
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("seesaw: bus %s failed", e.Kind)
	}
	return fmt.Sprintf("seesaw: bus %s failed: %s", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrRead)
// selects by phase regardless of cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
