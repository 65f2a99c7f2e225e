package demo

import (
	"sync"
	"testing"
	"time"

	stagehand "github.com/lguibr/stagehand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoAnswersAndRecordsHistory(t *testing.T) {
	sys := stagehand.NewSystem()
	defer sys.Shutdown(time.Second)

	var echo *Echo
	ref := sys.ActorOf(func(address string, ctx stagehand.Context) stagehand.Actor {
		echo = NewEcho(address, ctx).(*Echo)
		return echo
	}, "echo")
	value, err := sys.Ask(ref, stagehand.Action{Type: "echo", Payload: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
	assert.Equal(t, []string{"hello"}, echo.History())
}

func TestDispatcherSpawnsAndTracksChildrenOnce(t *testing.T) {
	sys := stagehand.NewSystem()
	defer sys.Shutdown(time.Second)

	ref := sys.ActorOf(NewDispatcher(NewEcho), "dispatcher")

	first, err := sys.Ask(ref, stagehand.Action{Type: "find_child", Payload: FindChildRequest{Name: "room-1"}})
	require.NoError(t, err)
	firstRef, ok := first.(*stagehand.PID)
	require.True(t, ok)

	second, err := sys.Ask(ref, stagehand.Action{Type: "find_child", Payload: FindChildRequest{Name: "room-1"}})
	require.NoError(t, err)
	secondRef, ok := second.(*stagehand.PID)
	require.True(t, ok)

	assert.Equal(t, firstRef.Address(), secondRef.Address())

	names, err := sys.Ask(ref, stagehand.Action{Type: "list_children", Payload: nil})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"room-1"}, names)
}

func TestDebouncerOnlyAnswersLatestSet(t *testing.T) {
	sys := stagehand.NewSystem()
	defer sys.Shutdown(time.Second)

	ref := sys.ActorOf(NewDebouncer(10*time.Millisecond), "debounced")

	type outcome struct {
		value interface{}
		err   error
	}
	results := make([]outcome, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := sys.Ask(ref, stagehand.Action{Type: "set", Payload: i})
			results[i] = outcome{v, err}
		}(i)
		time.Sleep(3 * time.Millisecond)
	}
	wg.Wait()

	assert.Error(t, results[0].err)
	assert.Error(t, results[1].err)
	assert.NoError(t, results[2].err)
	assert.Equal(t, 2, results[2].value)
}

func TestBroadcastJoinsAllResults(t *testing.T) {
	sys := stagehand.NewSystem()
	defer sys.Shutdown(time.Second)

	refs := []*stagehand.PID{
		sys.ActorOf(NewEcho, "bcast-1"),
		sys.ActorOf(NewEcho, "bcast-2"),
	}

	values, err := Broadcast(sys, refs, stagehand.Action{Type: "echo", Payload: "ping"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"ping", "ping"}, values)
}
