package stagehand

// Action is the sole dispatch key/value pair an actor receives, per
// spec.md §6: "{ type: string, payload?: any }".
type Action struct {
	Type    string
	Payload interface{}
}

// IncomingMessage is the envelope the arbiter places on an actor's
// mailbox.incoming, per spec.md §3. ContextCreator carries sender
// provenance (the address the replying actor should address a
// constructed sender ActorRef to) and is preserved verbatim end to end.
type IncomingMessage struct {
	MessageID      string
	Address        string
	Action         Action
	ContextCreator string
}

// MessageResponse is the envelope published onto responses/cancelations,
// per spec.md §3. State is opaque passthrough (spec.md §9 open question
// 3): the core never reads it.
type MessageResponse struct {
	RespID    string
	Response  interface{}
	State     interface{}
	Errors    []error
	Cancelled bool
}

// EnrichedMessage is an IncomingMessage as handed to pattern-adapter user
// code: materialised sender and a bound respond function, per spec.md
// §4.4's description of what mappedMethods/receive pass to user
// callbacks.
type EnrichedMessage struct {
	IncomingMessage
	Sender  *PID
	Respond func(value interface{})
}
