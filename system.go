package stagehand

import (
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lguibr/stagehand/internal/idgen"
)

// System is stagehand's registry + arbiter, per spec.md §4.1: the single
// global ingress for outgoing messages, the address → record directory,
// and the entry points ActorOf/ActorSelection/Ask/Tell/Stop/
// GracefulStop/Reincarnate. Grounded on bollywood/engine.go's Engine.
type System struct {
	messageScheduler Scheduler
	timeScheduler    Scheduler
	logger           *log.Logger
	mailboxSize      int

	registryObj *registry
	arbiterCh   chan IncomingMessage

	waitersMu sync.RWMutex
	waiters   map[string]*waiter

	stopping atomic.Bool
	wg       sync.WaitGroup
}

// waiter is the correlation-table entry for a single in-flight Ask,
// grounded on the hollywood-lineage Request/Response correlation
// pattern (other_examples/.../hollywood__actor-engine.go.go), rendered
// as a channel-per-waiter instead of a spawned correlation actor.
type waiter struct {
	ch   chan MessageResponse
	once sync.Once
}

func (w *waiter) resolve(resp MessageResponse) {
	w.once.Do(func() {
		w.ch <- resp
		close(w.ch)
	})
}

// Option configures a System, realizing spec.md §6's
// createSystem(options) as idiomatic Go functional options.
type Option func(*System)

// WithMessageScheduler overrides the default message scheduler.
func WithMessageScheduler(s Scheduler) Option {
	return func(sys *System) { sys.messageScheduler = s }
}

// WithTimeScheduler overrides the default time scheduler.
func WithTimeScheduler(s Scheduler) Option {
	return func(sys *System) { sys.timeScheduler = s }
}

// WithLogger overrides the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(sys *System) { sys.logger = l }
}

// WithMailboxSize overrides the default per-actor mailbox buffer size.
func WithMailboxSize(n int) Option {
	return func(sys *System) { sys.mailboxSize = n }
}

// NewSystem builds a System with the given options applied over the
// spec.md §5 defaults (goroutine-backed message scheduler, serial-worker
// time scheduler).
func NewSystem(opts ...Option) *System {
	sys := &System{
		messageScheduler: NewMessageScheduler(),
		timeScheduler:    NewTimeScheduler(),
		logger:           log.New(os.Stderr, "stagehand: ", log.LstdFlags),
		mailboxSize:      defaultMailboxSize,
		registryObj:      newRegistry(),
		arbiterCh:        make(chan IncomingMessage, 4096),
		waiters:          make(map[string]*waiter),
	}
	for _, opt := range opts {
		opt(sys)
	}
	sys.wg.Add(1)
	go sys.runArbiter()
	return sys
}

// runArbiter is the single global ingress described in spec.md §4.1: it
// looks up message.address in the current registry snapshot and pushes
// the envelope onto that actor's mailbox, dropping it (and resolving any
// waiting Ask as cancelled) when no such actor exists. No error from a
// downstream actor or adapter can ever reach this loop — panics are
// recovered inside each pattern's per-message dispatch (patterns.go),
// matching spec.md §7's closing guarantee that the arbiter survives
// arbitrary downstream failures.
func (s *System) runArbiter() {
	defer s.wg.Done()
	for env := range s.arbiterCh {
		rec := s.registryObj.lookup(env.Address)
		if rec == nil {
			s.logger.Printf("lost destination %s for messageID %s", env.Address, env.MessageID)
			s.publishCancellation(env.MessageID)
			continue
		}
		if !rec.mailbox.deliver(env) {
			s.logger.Printf("mailbox full for %s, dropping messageID %s", env.Address, env.MessageID)
			s.publishCancellation(env.MessageID)
		}
	}
}

func (s *System) refFor(address, contextCreator string) *PID {
	if address == "" {
		return nil
	}
	return &PID{address: address, system: s, contextCreator: contextCreator}
}

func (s *System) enrich(msg IncomingMessage) EnrichedMessage {
	var sender *PID
	if msg.ContextCreator != "" {
		sender = s.refFor(msg.ContextCreator, "")
	}
	return EnrichedMessage{
		IncomingMessage: msg,
		Sender:          sender,
		Respond: func(value interface{}) {
			s.publishResponse(MessageResponse{RespID: msg.MessageID, Response: value})
		},
	}
}

// registerWaiter implements spec.md §9's resolved open question: a
// second Ask reusing an in-flight messageID fails fast with
// ErrDuplicateMessageID instead of silently displacing the first
// waiter.
func (s *System) registerWaiter(id string) (*waiter, error) {
	s.waitersMu.Lock()
	defer s.waitersMu.Unlock()
	if _, exists := s.waiters[id]; exists {
		return nil, ErrDuplicateMessageID
	}
	w := &waiter{ch: make(chan MessageResponse, 1)}
	s.waiters[id] = w
	return w, nil
}

func (s *System) removeWaiter(id string) {
	s.waitersMu.Lock()
	delete(s.waiters, id)
	s.waitersMu.Unlock()
}

// publishResponse resolves the waiter registered under resp.RespID, if
// any (there is none on the tell path, or once a waiter has already
// been resolved once — first of response/cancellation wins, per
// spec.md §4.3's "A cancellation envelope wins over a late response
// with the same respId if it arrives first on the merged stream").
func (s *System) publishResponse(resp MessageResponse) {
	s.waitersMu.RLock()
	w := s.waiters[resp.RespID]
	s.waitersMu.RUnlock()
	if w != nil {
		w.resolve(resp)
	}
}

func (s *System) publishCancellation(messageID string) {
	s.publishResponse(MessageResponse{RespID: messageID, Cancelled: true})
}

// ActorOf implements spec.md §4.1: allocate an address, build its
// context, construct the actor via factory, attach a mailbox, fire
// preStart, register, fire postStart, install the declared pattern, and
// return an ActorRef. Returns nil if the System is stopping.
func (s *System) ActorOf(f Factory, path string) *PID {
	if s.stopping.Load() {
		return nil
	}
	return s.spawn(f, NewAddress(path), "")
}

// spawn is shared by ActorOf (top-level) and Context.ActorOf (child
// spawns, which pass parentAddr as the contextCreator stamped onto the
// returned ref).
func (s *System) spawn(f Factory, address, parentAddr string) *PID {
	if s.stopping.Load() {
		return nil
	}
	ctx := newActorContext(s, address)
	actorVal := f(address, ctx)

	rec := s.newRecord(address, f, actorVal, ctx)

	if hook, ok := actorVal.(PreStarter); ok {
		hook.PreStart(ctx)
	}

	s.registryObj.register(rec)

	if hook, ok := actorVal.(PostStarter); ok {
		hook.PostStart(ctx)
	}

	if err := s.installPattern(rec, actorVal); err != nil {
		s.logger.Printf("%s: %v", address, err)
	}

	return s.refFor(address, parentAddr)
}

func (s *System) newRecord(address string, f Factory, actorVal Actor, ctx *actorContext) *actorRecord {
	mailbox := NewMailbox(s.mailboxSize)
	rec := &actorRecord{address: address, mailbox: mailbox, factory: f, actor: actorVal, ctx: ctx}
	s.startForwarder(rec)
	return rec
}

// startForwarder drains mailbox.outgoing into the system's response
// plane, per spec.md §4.4's "publishes... onto mailbox.outgoing →
// responses" (mappedMethods/setupReceive path).
func (s *System) startForwarder(rec *actorRecord) {
	done := make(chan struct{})
	rec.forwarderDone = done
	go func() {
		defer close(done)
		for resp := range rec.mailbox.outgoing {
			s.publishResponse(resp)
		}
	}()
}

// Tell sends action fire-and-forget, per spec.md §4.1/§6. Completes
// once delivery is queued on the message scheduler; never blocks on the
// target.
func (s *System) Tell(ref *PID, action Action, messageID ...string) {
	if ref == nil {
		return
	}
	s.tellFrom(ref.address, action, ref.contextCreator, firstOrEmpty(messageID))
}

func (s *System) tellFrom(address string, action Action, contextCreator, messageID string) {
	if messageID == "" {
		messageID = idgen.New()
	}
	env := IncomingMessage{MessageID: messageID, Address: address, Action: action, ContextCreator: contextCreator}
	s.messageScheduler.Schedule(func() {
		if s.stopping.Load() {
			return
		}
		s.arbiterCh <- env
	})
}

// Ask sends action and blocks for exactly one of: a value, a wrapped
// UserError, or ErrCancelled — never more than one (spec.md §8 invariant
// 1). It never resolves within the caller's current execution turn
// (spec.md §5, §8 invariant 5): the send is always queued on the
// message scheduler first.
func (s *System) Ask(ref *PID, action Action, messageID ...string) (interface{}, error) {
	if ref == nil {
		return nil, ErrCancelled
	}
	return s.askFrom(ref.address, action, ref.contextCreator, firstOrEmpty(messageID))
}

func (s *System) askFrom(address string, action Action, contextCreator, messageID string) (interface{}, error) {
	if messageID == "" {
		messageID = idgen.New()
	}
	w, err := s.registerWaiter(messageID)
	if err != nil {
		return nil, err
	}
	env := IncomingMessage{MessageID: messageID, Address: address, Action: action, ContextCreator: contextCreator}
	s.messageScheduler.Schedule(func() {
		if s.stopping.Load() {
			s.publishCancellation(messageID)
			return
		}
		s.arbiterCh <- env
	})

	resp := <-w.ch
	s.removeWaiter(messageID)

	if resp.Cancelled {
		return nil, ErrCancelled
	}
	if len(resp.Errors) > 0 {
		return nil, resp.Errors[0]
	}
	return resp.Response, nil
}

// AskTimeout races Ask against a wall-clock time.After timer (not the
// configured time scheduler), mirroring the teacher's own
// engine.Ask(pid, msg, timeout) convenience (server/handlers.go). On
// timeout the underlying Ask is left running until it resolves.
func (s *System) AskTimeout(ref *PID, action Action, timeout time.Duration, messageID ...string) (interface{}, error) {
	type result struct {
		value interface{}
		err   error
	}
	resCh := make(chan result, 1)
	go func() {
		v, err := s.Ask(ref, action, messageID...)
		resCh <- result{v, err}
	}()
	select {
	case r := <-resCh:
		return r.value, r.err
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

// Stop synchronously schedules the stop sequence, per spec.md §4.1:
// tell the actor {type:'stop'}, invoke postStop, deregister. Does not
// wait for the 'stop' action to actually be processed by the actor.
func (s *System) Stop(ref *PID) {
	if ref == nil {
		return
	}
	rec := s.registryObj.lookup(ref.address)
	if rec == nil {
		return
	}
	s.tellFrom(ref.address, Action{Type: "stop"}, "", "")
	s.finalizeStop(rec)
}

// GracefulStop runs, serially per ref, ask {type:'stop'} → postStop →
// deregister, aggregating per-ref outcomes, per spec.md §4.1/§4.5.
// Invalid refs (nil, or belonging to a different System) yield
// ErrInvalidRef without touching the registry.
func (s *System) GracefulStop(refs ...*PID) []error {
	errs := make([]error, len(refs))
	for i, ref := range refs {
		if ref == nil || ref.system != s {
			errs[i] = ErrInvalidRef
			continue
		}
		rec := s.registryObj.lookup(ref.address)
		if rec == nil {
			errs[i] = ErrActorNotFound
			continue
		}
		_, err := s.askFrom(ref.address, Action{Type: "stop"}, "", "")
		if err != nil && err != ErrCancelled {
			errs[i] = err
		}
		s.finalizeStop(rec)
	}
	return errs
}

// finalizeStop runs postStop, deregisters, and tears down the actor's
// mailbox and pattern goroutines, in that order so no goroutine ever
// observes a removed-but-still-running actor.
func (s *System) finalizeStop(rec *actorRecord) {
	if hook, ok := rec.actor.(PostStopper); ok {
		hook.PostStop(rec.ctx)
	}
	s.registryObj.deregister(rec.address)
	s.teardownRecord(rec)
}

// teardownRecord stops the installed pattern's goroutines and drains
// the forwarder, without touching the registry — shared by finalizeStop
// and Reincarnate (which replaces the registry entry itself).
func (s *System) teardownRecord(rec *actorRecord) {
	rec.mailbox.close()
	if rec.stopPattern != nil {
		rec.stopPattern()
	}
	close(rec.mailbox.outgoing)
	if rec.forwarderDone != nil {
		<-rec.forwarderDone
	}
}

// Reincarnate implements spec.md §4.1/§4.5: preRestart on the doomed
// record, construct a new record at the same address from f, fire
// postRestart, replace in the registry.
func (s *System) Reincarnate(address string, f Factory) (*PID, error) {
	old := s.registryObj.lookup(address)
	if old == nil {
		return nil, ErrActorNotFound
	}

	if hook, ok := old.actor.(PreRestarter); ok {
		hook.PreRestart(old.ctx)
	}
	s.teardownRecord(old)

	ctx := newActorContext(s, address)
	actorVal := f(address, ctx)
	rec := s.newRecord(address, f, actorVal, ctx)

	if err := s.installPattern(rec, actorVal); err != nil {
		s.logger.Printf("%s: %v", address, err)
	}

	if hook, ok := actorVal.(PostRestarter); ok {
		hook.PostRestart(ctx)
	}

	s.registryObj.register(rec)
	return s.refFor(address, ""), nil
}

// Shutdown stops every currently-registered actor and waits for the
// arbiter to drain, bounding the wait by timeout. Not named in spec.md's
// library surface, but provided the way the teacher's own
// Engine.Shutdown is: ambient operational necessity for tests and
// long-running hosts, not a spec.md operation in its own right.
func (s *System) Shutdown(timeout time.Duration) {
	if !s.stopping.CompareAndSwap(false, true) {
		return
	}
	deadline := time.Now().Add(timeout)
	for _, rec := range s.registryObj.all() {
		s.finalizeStop(rec)
	}
	for time.Now().Before(deadline) && s.registryObj.size() > 0 {
		time.Sleep(5 * time.Millisecond)
	}
	close(s.arbiterCh)
	s.wg.Wait()
}
