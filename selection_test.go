package stagehand

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioE_SelectionWithGlob verifies spec.md §8 Scenario E.
func TestScenarioE_SelectionWithGlob(t *testing.T) {
	sys := NewSystem()
	defer sys.Shutdown(time.Second)

	sys.ActorOf(greeterFactory, "a/1")
	sys.ActorOf(greeterFactory, "a/2")
	sys.ActorOf(greeterFactory, "b/1")

	refs := sys.ActorSelection("/system/a/*")
	require.Len(t, refs, 2)

	var addrs []string
	for _, ref := range refs {
		addrs = append(addrs, ref.Address())
	}
	assert.ElementsMatch(t, []string{"/system/a/1", "/system/a/2"}, addrs)
}

func TestActorSelectionAnchorsRelativePatterns(t *testing.T) {
	sys := NewSystem()
	defer sys.Shutdown(time.Second)

	sys.ActorOf(greeterFactory, "parent/child-1")
	sys.ActorOf(greeterFactory, "parent/child-2")

	refs := sys.ActorSelection("child-*", "/system/parent")
	assert.Len(t, refs, 2)
}
