package demo

import (
	"sync"

	stagehand "github.com/lguibr/stagehand"
)

// FindChildRequest asks Dispatcher for the child with Name, spawning it
// via the configured child factory on first request.
type FindChildRequest struct{ Name string }

// ListChildrenRequest asks Dispatcher for every currently-tracked child
// name.
type ListChildrenRequest struct{}

// ChildEmptyNotice tells Dispatcher a child is done and should be
// dropped from tracking (the child is not stopped by this notice; the
// caller decides whether to also Stop it).
type ChildEmptyNotice struct{ Name string }

// Dispatcher is a supervisor-style actor: spawns and tracks named
// children on demand, grounded on game/room_manager.go's
// RoomManagerActor (rooms map[string]*RoomInfo,
// handleFindRoom/handleGameRoomEmpty/handleGetRoomList).
type Dispatcher struct {
	ctx     stagehand.Context
	factory stagehand.Factory

	mu       sync.RWMutex
	children map[string]*stagehand.PID
}

// NewDispatcher builds a Dispatcher Factory; childFactory constructs
// each spawned child.
func NewDispatcher(childFactory stagehand.Factory) stagehand.Factory {
	return func(address string, ctx stagehand.Context) stagehand.Actor {
		return &Dispatcher{
			ctx:      ctx,
			factory:  childFactory,
			children: make(map[string]*stagehand.PID),
		}
	}
}

func (d *Dispatcher) Methods() map[string]func(<-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	return map[string]func(<-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse{
		"find_child":    d.handleFind,
		"list_children": d.handleList,
		"child_empty":   d.handleChildEmpty,
		"stop":          d.handleStop,
	}
}

func (d *Dispatcher) handleFind(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	out := make(chan stagehand.MessageResponse)
	go func() {
		defer close(out)
		for msg := range in {
			req, _ := msg.Action.Payload.(FindChildRequest)
			out <- stagehand.MessageResponse{RespID: msg.MessageID, Response: d.findOrSpawn(req.Name)}
		}
	}()
	return out
}

func (d *Dispatcher) findOrSpawn(name string) *stagehand.PID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ref, ok := d.children[name]; ok {
		return ref
	}
	ref := d.ctx.ActorOf(d.factory, name)
	d.children[name] = ref
	return ref
}

func (d *Dispatcher) handleList(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	out := make(chan stagehand.MessageResponse)
	go func() {
		defer close(out)
		for msg := range in {
			d.mu.RLock()
			names := make([]string, 0, len(d.children))
			for name := range d.children {
				names = append(names, name)
			}
			d.mu.RUnlock()
			out <- stagehand.MessageResponse{RespID: msg.MessageID, Response: names}
		}
	}()
	return out
}

func (d *Dispatcher) handleChildEmpty(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	out := make(chan stagehand.MessageResponse)
	go func() {
		defer close(out)
		for msg := range in {
			notice, _ := msg.Action.Payload.(ChildEmptyNotice)
			d.mu.Lock()
			delete(d.children, notice.Name)
			d.mu.Unlock()
			out <- stagehand.MessageResponse{RespID: msg.MessageID, Response: true}
		}
	}()
	return out
}

func (d *Dispatcher) handleStop(in <-chan stagehand.EnrichedMessage) <-chan stagehand.MessageResponse {
	out := make(chan stagehand.MessageResponse)
	go func() {
		defer close(out)
		for msg := range in {
			d.mu.RLock()
			refs := make([]*stagehand.PID, 0, len(d.children))
			for _, ref := range d.children {
				refs = append(refs, ref)
			}
			d.mu.RUnlock()
			d.ctx.GracefulStop(refs...)
			out <- stagehand.MessageResponse{RespID: msg.MessageID, Response: "stopped"}
		}
	}()
	return out
}
