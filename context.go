package stagehand

import (
	"log"
	"sync"
)

// Context is the per-actor capability object passed to user code, per
// spec.md §4.6: "{ self, parent, actorOf, actorSelection, stop,
// gracefulStop, cleanupCancelledMessages, messageScheduler,
// timeScheduler }". Logger is an (ambient) addition so actor bodies
// never need to import log/os directly, matching the teacher's own
// every-actor-logs-itself texture.
type Context interface {
	Self() *PID
	Parent() *PID

	// ActorOf spawns a child: the resulting address joins this actor's
	// own address with localName (a UUID if localName is empty), and
	// the returned PID carries this actor's address as contextCreator,
	// per spec.md §4.6: "record contextCreator = parentAddress so
	// replies know sender."
	ActorOf(f Factory, localName string) *PID

	// ActorSelection looks up every currently-registered address
	// matching pattern, anchored against prefix (or this actor's own
	// address if prefix is omitted), per spec.md §4.7.
	ActorSelection(pattern string, prefix ...string) []*PID

	Stop(ref *PID)
	GracefulStop(refs ...*PID) []error

	// CleanupCancelledMessages implements the supersession rule of
	// spec.md §4.4.1 over an already type-filtered, enriched stream
	// (e.g. one arm of a MethodHandler, or FilterAndEnrich applied to a
	// raw mailbox view): userFn is expected to internally apply its own
	// "latest wins" operator; every earlier in-flight message that
	// loses to a later emission is published as a cancellation before
	// the winner is forwarded downstream unchanged.
	CleanupCancelledMessages(in <-chan EnrichedMessage, userFn func(<-chan EnrichedMessage) <-chan MessageResponse) <-chan MessageResponse

	MessageScheduler() Scheduler
	TimeScheduler() Scheduler
	Logger() *log.Logger
}

// actorContext is the concrete Context handed to a single actor
// incarnation. Grounded on vendor/.../bollywood/context.go's
// {engine, self, sender, message} struct, extended with the
// spawn/select/stop/cleanup capabilities spec.md §4.6 adds.
type actorContext struct {
	system *System
	self   string
}

func newActorContext(sys *System, self string) *actorContext {
	return &actorContext{system: sys, self: self}
}

func (c *actorContext) Self() *PID { return c.system.refFor(c.self, c.self) }

func (c *actorContext) Parent() *PID {
	return c.system.refFor(parentAddress(c.self), c.self)
}

func (c *actorContext) ActorOf(f Factory, localName string) *PID {
	address := joinChildAddress(c.self, localName)
	return c.system.spawn(f, address, c.self)
}

func (c *actorContext) ActorSelection(pattern string, prefix ...string) []*PID {
	anchor := c.self
	if len(prefix) > 0 && prefix[0] != "" {
		anchor = prefix[0]
	}
	return c.system.selectRefs(pattern, anchor, c.self)
}

func (c *actorContext) Stop(ref *PID) { c.system.Stop(ref) }

func (c *actorContext) GracefulStop(refs ...*PID) []error { return c.system.GracefulStop(refs...) }

func (c *actorContext) MessageScheduler() Scheduler { return c.system.messageScheduler }
func (c *actorContext) TimeScheduler() Scheduler    { return c.system.timeScheduler }
func (c *actorContext) Logger() *log.Logger         { return c.system.logger }

// CleanupCancelledMessages implements spec.md §4.4.1 steps 2-4 (step 1,
// filtering by action type, is the caller's responsibility — satisfied
// automatically by MethodHandler's per-type dispatch, or manually via
// FilterAndEnrich for receive/setupReceive-based actors).
func (c *actorContext) CleanupCancelledMessages(
	in <-chan EnrichedMessage,
	userFn func(<-chan EnrichedMessage) <-chan MessageResponse,
) <-chan MessageResponse {
	var mu sync.Mutex
	var all []string

	tracked := make(chan EnrichedMessage)
	go func() {
		defer close(tracked)
		for msg := range in {
			mu.Lock()
			all = append(all, msg.MessageID)
			mu.Unlock()
			tracked <- msg
		}
	}()

	output := userFn(tracked)
	out := make(chan MessageResponse)
	go func() {
		defer close(out)
		for resp := range output {
			mu.Lock()
			remaining := all[:0]
			var toCancel []string
			for _, id := range all {
				if id == resp.RespID {
					remaining = append(remaining, id)
					continue
				}
				toCancel = append(toCancel, id)
			}
			all = remaining
			mu.Unlock()

			for _, id := range toCancel {
				c.system.publishCancellation(id)
			}
			out <- resp
		}
	}()
	return out
}

// FilterAndEnrich is the step-1 helper of spec.md §4.4.1 ("Filter
// incomingStream to messages of the given action.type") for actors that
// want to drive CleanupCancelledMessages directly off a raw mailbox
// view rather than through MethodHandler's built-in per-type dispatch.
func FilterAndEnrich(sys *System, in <-chan IncomingMessage, actionType string) <-chan EnrichedMessage {
	out := make(chan EnrichedMessage)
	go func() {
		defer close(out)
		for msg := range in {
			if msg.Action.Type != actionType {
				continue
			}
			out <- sys.enrich(msg)
		}
	}()
	return out
}
