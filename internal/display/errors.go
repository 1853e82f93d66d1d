package display

import "errors"

// ErrorKind categorises failures so callers can decide how to degrade
// without string-matching messages.
type ErrorKind int

const (
	// ErrorTransport covers lost or refused connections to the display
	// server or session bus.
	ErrorTransport ErrorKind = iota + 1
	// ErrorProtocol covers malformed or failed protocol exchanges.
	ErrorProtocol
	// ErrorDecode covers failures turning captured bytes into an image.
	ErrorDecode
	// ErrorCapability covers expected degraded states: the window manager
	// or compositor simply cannot do what was asked.
	ErrorCapability
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorTransport:
		return "transport"
	case ErrorProtocol:
		return "protocol"
	case ErrorDecode:
		return "decode"
	case ErrorCapability:
		return "capability"
	default:
		return "unknown"
	}
}

// Error is the unified error type for the capture core.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrWindowListUnsupported reports a WM without _NET_CLIENT_LIST_STACKING.
	ErrWindowListUnsupported = errors.New("window manager does not support _NET_CLIENT_LIST_STACKING")
	// ErrFrameExtentsUnsupported reports a WM without _NET_FRAME_EXTENTS.
	ErrFrameExtentsUnsupported = errors.New("window manager does not support _NET_FRAME_EXTENTS")
	// ErrScreenshotFailed reports that no root screen matched the pointer.
	ErrScreenshotFailed = errors.New("failed to take screenshot")
	// ErrWindowsFailed reports that no root screen matched the pointer.
	ErrWindowsFailed = errors.New("failed to get windows")
)

func transportErr(op string, err error) error {
	return &Error{Kind: ErrorTransport, Op: op, Err: err}
}

func protocolErr(op string, err error) error {
	return &Error{Kind: ErrorProtocol, Op: op, Err: err}
}

func decodeErr(op string, err error) error {
	return &Error{Kind: ErrorDecode, Op: op, Err: err}
}

func capabilityErr(op string, err error) error {
	return &Error{Kind: ErrorCapability, Op: op, Err: err}
}

// KindOf returns the category of err, or zero when err did not originate
// in this package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
