package stagehand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailboxDeliverAndReceive(t *testing.T) {
	m := NewMailbox(1)
	msg := IncomingMessage{MessageID: "m1", Address: "/system/a", Action: Action{Type: "ping"}}

	assert.True(t, m.deliver(msg))

	got := <-m.incoming
	assert.Equal(t, msg, got)
}

func TestMailboxDeliverDropsWhenFull(t *testing.T) {
	m := NewMailbox(1)
	assert.True(t, m.deliver(IncomingMessage{MessageID: "m1"}))
	assert.False(t, m.deliver(IncomingMessage{MessageID: "m2"}))
}
