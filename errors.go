package stagehand

import "errors"

// Sentinel errors surfaced across the ask/tell protocol. Checked with
// errors.Is, mirroring the teacher's own bollywood.ErrTimeout convention.
var (
	// ErrCancelled is returned by Ask when the request was superseded by
	// cleanupCancelledMessages or resolved against a lost destination.
	// It is never wrapped around a value: an ask either yields a value,
	// a UserError-wrapping error, or ErrCancelled — never more than one.
	ErrCancelled = errors.New("stagehand: request cancelled")

	// ErrTimeout is returned by AskTimeout when no response or
	// cancellation arrives within the caller-supplied duration.
	ErrTimeout = errors.New("stagehand: ask timed out")

	// ErrInvalidRef is reported by GracefulStop, in the result slot of
	// a nil reference or of one that belongs to a different System.
	// Stop returns no error and ignores a nil reference; Reincarnate
	// takes an address and reports ErrActorNotFound for an unknown one.
	ErrInvalidRef = errors.New("stagehand: invalid actor reference")

	// ErrUnknownAction reports that an addressed actor has no handler for
	// the action's type. The mappedMethods adapter (installMethods)
	// resolves a message whose type is absent from Methods() with an
	// error wrapping it; receive and setupReceive actors may return it
	// themselves.
	ErrUnknownAction = errors.New("stagehand: actor has no handler for action")

	// ErrDuplicateMessageID resolves spec.md §9's open question: a
	// second concurrent Ask reusing an in-flight messageID fails
	// fast instead of silently clobbering the first waiter's
	// correlation channel.
	ErrDuplicateMessageID = errors.New("stagehand: messageID already in flight")

	// ErrMultiplePatterns resolves spec.md §9's open question about
	// conflicting pattern adapters: for an actor implementing more than
	// one of ReceiveHandler/MethodHandler/StreamHandler, installPattern
	// installs no adapter and returns this error at registration time
	// rather than arbitrating at dispatch time. ActorOf logs it; the
	// actor stays registered and its mailbox is never drained.
	ErrMultiplePatterns = errors.New("stagehand: actor implements more than one pattern adapter")

	// ErrNoPattern is returned when an actor implements none of the
	// recognized pattern adapters.
	ErrNoPattern = errors.New("stagehand: actor implements no pattern adapter")

	// ErrSystemStopping names the state of a System that has begun
	// shutting down. No function in this package returns it: ActorOf
	// returns a nil *PID in that state.
	ErrSystemStopping = errors.New("stagehand: system is stopping")

	// ErrActorNotFound is returned by Reincarnate when no prior record
	// exists at the given address.
	ErrActorNotFound = errors.New("stagehand: no actor registered at address")
)

// UserError wraps a panic or error value raised by actor code so it can
// travel as MessageResponse.Errors[0] and surface to the originating Ask
// as a failure, per spec.md §7.
type UserError struct {
	Cause interface{}
}

func (e *UserError) Error() string {
	if err, ok := e.Cause.(error); ok {
		return "stagehand: actor error: " + err.Error()
	}
	return "stagehand: actor error"
}

func (e *UserError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
