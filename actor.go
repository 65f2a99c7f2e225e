package stagehand

// Actor is a marker interface: an actor body implements at least one of
// the pattern-adapter interfaces below (ReceiveHandler, MethodHandler,
// StreamHandler) and, optionally, any of the lifecycle hook interfaces.
// spec.md §9's design note resolves Go's lack of duck typing exactly
// this way: "model actors as a closed sum type... or as a common
// capability trait... detect hook presence at registration time rather
// than at dispatch time."
type Actor interface{}

// Factory constructs an actor body given its freshly allocated address
// and capability Context, per spec.md §6: "factory(address, context)".
type Factory func(address string, ctx Context) Actor

// ReceiveHandler is the "receive" pattern of spec.md §4.4: a single
// callback-style handler invoked once per incoming message.
type ReceiveHandler interface {
	Receive(actionType string, payload interface{}, respond func(value interface{}), sender *PID)
}

// MethodHandler is the "mappedMethods" pattern of spec.md §4.4: one
// stream-transforming function per recognized action type.
type MethodHandler interface {
	Methods() map[string]func(<-chan EnrichedMessage) <-chan MessageResponse
}

// StreamHandler is the "setupReceive" pattern of spec.md §4.4: the actor
// owns the entire incoming mailbox stream and emits {messageID, resp}
// pairs as StreamReply values.
type StreamHandler interface {
	SetupReceive(in <-chan IncomingMessage) <-chan StreamReply
}

// StreamReply is the {messageID, resp} shape spec.md §4.4 names for the
// setupReceive pattern.
type StreamReply struct {
	MessageID string
	Resp      interface{}
	Err       error
}

// PreStarter/PostStarter/PreRestarter/PostRestarter/PostStopper are the
// optional lifecycle hooks of spec.md §4.5/§6, detected via type
// assertion at registration time.
type PreStarter interface{ PreStart(ctx Context) }
type PostStarter interface{ PostStart(ctx Context) }
type PreRestarter interface{ PreRestart(ctx Context) }
type PostRestarter interface{ PostRestart(ctx Context) }
type PostStopper interface{ PostStop(ctx Context) }
