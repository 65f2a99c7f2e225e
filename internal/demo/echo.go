// Package demo supplies small illustrative actors, all built on the
// mappedMethods pattern adapter, grounded on the teacher's own test-double
// actors and supervisor actors (game/ball_actor_test.go's
// MockGameActor, game/room_manager.go's RoomManagerActor).
package demo

import (
	"fmt"
	"sync"

	stagehand "github.com/lguibr/stagehand"
)

// Echo is the smallest mappedMethods actor: it answers "echo" with its
// payload and records a history line per call, grounded on
// game/ball_actor_test.go's MockGameActor (a tiny actor whose only job
// is to record/answer messages for tests).
type Echo struct {
	mu      sync.Mutex
	history []string
}

// NewEcho is an Echo actor's Factory.
func NewEcho(address string, ctx stagehand.Context) stagehand.Actor {
	return &Echo{}
}

func (e *Echo) Methods() map[string]func(<-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	return map[string]func(<-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse{
		"echo": e.handleEcho,
		"stop": e.handleStop,
	}
}

func (e *Echo) handleEcho(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	out := make(chan stagehand.MessageResponse)
	go func() {
		defer close(out)
		for msg := range in {
			e.mu.Lock()
			e.history = append(e.history, fmt.Sprint(msg.Action.Payload))
			e.mu.Unlock()
			out <- stagehand.MessageResponse{RespID: msg.MessageID, Response: msg.Action.Payload}
		}
	}()
	return out
}

func (e *Echo) handleStop(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	out := make(chan stagehand.MessageResponse)
	go func() {
		defer close(out)
		for msg := range in {
			out <- stagehand.MessageResponse{RespID: msg.MessageID, Response: "stopping"}
		}
	}()
	return out
}

// History returns every payload Echo has answered, in arrival order.
func (e *Echo) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.history...)
}
