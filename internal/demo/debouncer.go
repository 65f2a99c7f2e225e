package demo

import (
	"sync"
	"time"

	stagehand "github.com/lguibr/stagehand"
)

// Debouncer answers "set" with the latest payload only, after delay has
// elapsed with no further "set" in flight — every earlier in-flight
// "set" is cancelled when the latest one is answered. Grounded on
// game/ball_actor.go's SetPhasingCommand/stopPhasingCommand
// (a.phasingTimer.Stop() before rearming via time.AfterFunc),
// generalized via Context.CleanupCancelledMessages and directly
// implementing spec.md §8 Scenario B.
type Debouncer struct {
	ctx   stagehand.Context
	delay time.Duration
}

// NewDebouncer builds a Debouncer Factory with the given settle delay.
func NewDebouncer(delay time.Duration) stagehand.Factory {
	return func(address string, ctx stagehand.Context) stagehand.Actor {
		return &Debouncer{ctx: ctx, delay: delay}
	}
}

func (d *Debouncer) Methods() map[string]func(<-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	return map[string]func(<-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse{
		"set": func(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
			return d.ctx.CleanupCancelledMessages(in, d.settle)
		},
	}
}

// settle stops and rearms a single timer per new "set", exactly like
// ball_actor.go's phasingTimer: only the most recently armed timer ever
// fires, so at most one response is ever emitted per run of
// supersessions. Context.CleanupCancelledMessages then publishes a
// cancellation for every earlier "set" that this stop-and-rearm
// prevented from ever completing, unblocking any caller waiting on it.
func (d *Debouncer) settle(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	out := make(chan stagehand.MessageResponse)
	go func() {
		var mu sync.Mutex
		var timer *time.Timer
		closed := false
		send := func(resp stagehand.MessageResponse) {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			out <- resp
		}

		for msg := range in {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			respID, value := msg.MessageID, msg.Action.Payload
			timer = time.AfterFunc(d.delay, func() {
				send(stagehand.MessageResponse{RespID: respID, Response: value})
			})
			mu.Unlock()
		}

		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		closed = true
		mu.Unlock()
		close(out)
	}()
	return out
}
