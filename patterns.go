package stagehand

import (
	"fmt"
	"sync"
)

// installPattern detects which single pattern-adapter interface actor
// implements and wires its goroutines to rec.mailbox, per spec.md §9's
// resolved design note: Go's lack of duck typing is handled by
// detecting hook/pattern presence via type assertion at registration
// time rather than dispatch time. Implementing more than one of
// ReceiveHandler/MethodHandler/StreamHandler is rejected with
// ErrMultiplePatterns (spec.md §9's resolved open question: conflicting
// adapters are a static registration error, not a first-wins race).
func (s *System) installPattern(rec *actorRecord, actorVal Actor) error {
	_, isReceive := actorVal.(ReceiveHandler)
	_, isMethods := actorVal.(MethodHandler)
	_, isStream := actorVal.(StreamHandler)

	count := 0
	for _, v := range []bool{isReceive, isMethods, isStream} {
		if v {
			count++
		}
	}
	switch {
	case count == 0:
		rec.stopPattern = func() {}
		return ErrNoPattern
	case count > 1:
		rec.stopPattern = func() {}
		return ErrMultiplePatterns
	}

	switch a := actorVal.(type) {
	case ReceiveHandler:
		s.installReceive(rec, a)
	case MethodHandler:
		s.installMethods(rec, a)
	case StreamHandler:
		s.installStream(rec, a)
	}
	return nil
}

// installReceive wires the "receive" pattern: one callback invoked per
// message, publishing directly to the response plane rather than
// through mailbox.outgoing. Grounded on game/ball_actor.go's
// type-switch Receive(ctx bollywood.Context) body.
func (s *System) installReceive(rec *actorRecord, a ReceiveHandler) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range rec.mailbox.incoming {
			s.dispatchReceive(rec, a, msg)
		}
	}()
	rec.stopPattern = func() { <-done }
}

func (s *System) dispatchReceive(rec *actorRecord, a ReceiveHandler, msg IncomingMessage) {
	defer s.recoverPanic(rec, msg.MessageID)
	var sender *PID
	if msg.ContextCreator != "" {
		sender = s.refFor(msg.ContextCreator, "")
	}
	respond := func(value interface{}) {
		s.publishResponse(MessageResponse{RespID: msg.MessageID, Response: value})
	}
	a.Receive(msg.Action.Type, msg.Action.Payload, respond, sender)
}

// installMethods wires the "mappedMethods" pattern: messages are
// demultiplexed by action.type onto a per-type EnrichedMessage channel,
// each of which is handed to the actor's own stream-transform function;
// every returned MessageResponse is routed through mailbox.outgoing, per
// spec.md §4.4. A message of an action.type absent from Methods()
// resolves with ErrUnknownAction (spec.md §7's UnknownActionError),
// rather than hanging any waiting Ask forever.
func (s *System) installMethods(rec *actorRecord, a MethodHandler) {
	methods := a.Methods()
	typeChans := make(map[string]chan EnrichedMessage, len(methods))
	for t := range methods {
		typeChans[t] = make(chan EnrichedMessage)
	}

	demuxDone := make(chan struct{})
	go func() {
		defer func() {
			for _, ch := range typeChans {
				close(ch)
			}
			close(demuxDone)
		}()
		for msg := range rec.mailbox.incoming {
			ch, ok := typeChans[msg.Action.Type]
			if !ok {
				s.publishResponse(MessageResponse{
					RespID: msg.MessageID,
					Errors: []error{fmt.Errorf("%w: %s", ErrUnknownAction, msg.Action.Type)},
				})
				continue
			}
			ch <- s.enrich(msg)
		}
	}()

	var wg sync.WaitGroup
	for actionType, fn := range methods {
		wg.Add(1)
		go func(actionType string, fn func(<-chan EnrichedMessage) <-chan MessageResponse) {
			defer wg.Done()
			defer s.recoverPanic(rec, "")
			for resp := range fn(typeChans[actionType]) {
				rec.mailbox.outgoing <- resp
			}
		}(actionType, fn)
	}

	rec.stopPattern = func() {
		<-demuxDone
		wg.Wait()
	}
}

// installStream wires the "setupReceive" pattern: the actor owns the
// entire incoming mailbox stream and emits StreamReply values, each
// lifted into a MessageResponse and forwarded to mailbox.outgoing, per
// spec.md §4.4.
func (s *System) installStream(rec *actorRecord, a StreamHandler) {
	out := a.SetupReceive(rec.mailbox.incoming)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for reply := range out {
			resp := MessageResponse{RespID: reply.MessageID, Response: reply.Resp}
			if reply.Err != nil {
				resp.Errors = []error{reply.Err}
			}
			rec.mailbox.outgoing <- resp
		}
	}()
	rec.stopPattern = func() { <-done }
}

// recoverPanic turns an actor panic into a wrapped UserError response
// instead of killing the pattern's goroutine, per spec.md §7's
// "exceptions thrown... are caught at the actor boundary and surfaced
// as UserError, never as an uncaught exception." When messageID is
// empty (no single message to blame, e.g. a mappedMethods stream
// crashing outside any one iteration) the panic is only logged.
func (s *System) recoverPanic(rec *actorRecord, messageID string) {
	if r := recover(); r != nil {
		s.logger.Printf("actor %s panicked: %v", rec.address, r)
		if messageID != "" {
			s.publishResponse(MessageResponse{RespID: messageID, Errors: []error{&UserError{Cause: r}}})
		}
	}
}
