package stagehand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRegistryAtMostOneRecordPerAddress verifies spec.md §8 invariant 2.
func TestRegistryAtMostOneRecordPerAddress(t *testing.T) {
	r := newRegistry()
	first := &actorRecord{address: "/system/x"}
	second := &actorRecord{address: "/system/x"}

	r.register(first)
	r.register(second)

	assert.Equal(t, 1, r.size())
	assert.Same(t, second, r.lookup("/system/x"))
}

func TestRegistryDeregisterAndSnapshot(t *testing.T) {
	r := newRegistry()
	r.register(&actorRecord{address: "/system/a"})
	r.register(&actorRecord{address: "/system/b"})

	assert.ElementsMatch(t, []string{"/system/a", "/system/b"}, r.snapshot())

	r.deregister("/system/a")
	assert.Nil(t, r.lookup("/system/a"))
	assert.Equal(t, 1, r.size())
}
