package stagehand

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestGoroutineSchedulerRunsAsynchronously(t *testing.T) {
	s := NewMessageScheduler()
	done := make(chan struct{})
	ran := false
	s.Schedule(func() {
		ran = true
		close(done)
	})
	assert.False(t, ran, "Schedule must not run fn synchronously")
	<-done
	assert.True(t, ran)
}

func TestSerialSchedulerRunsInSubmissionOrder(t *testing.T) {
	s := NewTimeScheduler()
	var order []int
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		i := i
		s.Schedule(func() {
			order = append(order, i)
			if i == 2 {
				close(done)
			}
		})
	}
	<-done
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestVirtualSchedulerDrainRunsQueuedAndNewlyQueuedWork(t *testing.T) {
	v := NewVirtualScheduler(clockwork.NewFakeClock())
	var ran []int
	v.Schedule(func() {
		ran = append(ran, 1)
		v.Schedule(func() { ran = append(ran, 2) })
	})
	assert.Equal(t, 1, v.Pending())

	v.Drain()

	assert.Equal(t, []int{1, 2}, ran)
	assert.Equal(t, 0, v.Pending())
}

func TestVirtualSchedulerClockAdvances(t *testing.T) {
	clock := clockwork.NewFakeClock()
	v := NewVirtualScheduler(clock)

	done := make(chan struct{})
	go func() {
		<-v.Clock().After(time.Second)
		close(done)
	}()

	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)
	<-done
}
