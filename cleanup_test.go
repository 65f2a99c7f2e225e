package stagehand

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// superseding is Scenario B's actor: a "set" handler that stops and
// rearms a single timer per new message (mirroring the teacher's
// phasingTimer idiom), wrapped in CleanupCancelledMessages so every
// superseded in-flight ask resolves as cancelled instead of hanging.
type superseding struct {
	ctx Context
}

func (s *superseding) Methods() map[string]func(<-chan EnrichedMessage) <-chan MessageResponse {
	return map[string]func(<-chan EnrichedMessage) <-chan MessageResponse{
		"set": func(in <-chan EnrichedMessage) <-chan MessageResponse {
			return s.ctx.CleanupCancelledMessages(in, s.delayed)
		},
	}
}

func (s *superseding) delayed(in <-chan EnrichedMessage) <-chan MessageResponse {
	out := make(chan MessageResponse)
	go func() {
		var mu sync.Mutex
		var timer *time.Timer
		closed := false
		send := func(resp MessageResponse) {
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
			timer = time.AfterFunc(10*time.Millisecond, func() {
				send(MessageResponse{RespID: respID, Response: value})
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

// TestScenarioB_Supersession verifies spec.md §8 invariant 3 and Scenario
// B: of a FIFO burst of N same-type asks through cleanupCancelledMessages,
// exactly one yields a value and N-1 yield cancellations.
func TestScenarioB_Supersession(t *testing.T) {
	sys := NewSystem()
	defer sys.Shutdown(time.Second)

	ref := sys.ActorOf(func(address string, ctx Context) Actor {
		return &superseding{ctx: ctx}
	}, "debounce")

	type outcome struct {
		value interface{}
		err   error
	}
	results := make([]outcome, 3)
	var wg sync.WaitGroup
	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := sys.Ask(ref, Action{Type: "set", Payload: i})
			results[i-1] = outcome{v, err}
		}(i)
		time.Sleep(3 * time.Millisecond)
	}
	wg.Wait()

	assert.ErrorIs(t, results[0].err, ErrCancelled)
	assert.Nil(t, results[0].value)
	assert.ErrorIs(t, results[1].err, ErrCancelled)
	assert.Nil(t, results[1].value)
	assert.NoError(t, results[2].err)
	assert.Equal(t, 3, results[2].value)
}
