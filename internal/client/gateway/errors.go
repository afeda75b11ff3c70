package gateway

import (
	"errors"
	"fmt"
)

// NetworkUnreachableMessage is shown for every transport failure, whatever
// the operation was.
const NetworkUnreachableMessage = "Cannot connect to backend server. Please ensure the server is running."

// Kind classifies a failed call. Every failure has exactly one kind.
type Kind uint8

const (
	// KindNetworkUnreachable: no response reached us (refused, DNS, reset).
	KindNetworkUnreachable Kind = iota + 1
	// KindServerRejected: a response arrived with success:false or a non-2xx status.
	KindServerRejected
	// KindUnclassified: anything else (bad request build, undecodable 2xx body,
	// cancelled context, timeout).
	KindUnclassified
)

func (k Kind) String() string {
	switch k {
	case KindNetworkUnreachable:
		return "network_unreachable"
	case KindServerRejected:
		return "server_rejected"
	case KindUnclassified:
		return "unclassified"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; only the Kind is compared.
var (
	ErrNetworkUnreachable = &Error{Kind: KindNetworkUnreachable, Message: NetworkUnreachableMessage}
	ErrServerRejected     = &Error{Kind: KindServerRejected}
	ErrUnclassified       = &Error{Kind: KindUnclassified}
)

// Op carries the per-operation fallback messages.
type Op struct {
	// Rejected is used when the server rejected the call without a message.
	Rejected string
	// Unclassified is used for failures of any other shape.
	Unclassified string
}

// NewOp derives both fallback messages from an activity such as "fetching doctors".
func NewOp(activity string) Op {
	return Op{
		Rejected:     "Error " + activity,
		Unclassified: "An error occurred while " + activity,
	}
}

// Error is the single error channel of the gateway. Message is the
// human-readable text handed to the notifier.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, zero when no response arrived
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or zero when err is not a gateway error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

// MessageOf returns the notification text for err.
func MessageOf(err error, op Op) string {
	var ge *Error
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	return op.Unclassified
}

func networkUnreachable(err error) *Error {
	return &Error{Kind: KindNetworkUnreachable, Message: NetworkUnreachableMessage, Err: err}
}

func serverRejected(op Op, status int, message string) *Error {
	if message == "" {
		message = op.Rejected
	}
	return &Error{Kind: KindServerRejected, Status: status, Message: message}
}

func unclassified(op Op, err error) *Error {
	return &Error{Kind: KindUnclassified, Message: op.Unclassified, Err: err}
}
