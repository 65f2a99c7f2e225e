package stagehand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAddressPrependsSystemPrefix(t *testing.T) {
	assert.Equal(t, "/system/child-01", NewAddress("child-01"))
	assert.Equal(t, "/system/child-01", NewAddress("/child-01"))
	assert.Equal(t, "/system/a/b", NewAddress("a//b"))
}

func TestNewAddressGeneratesUUIDWhenEmpty(t *testing.T) {
	a := NewAddress("")
	b := NewAddress("")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, SystemPrefix+"/")
}

func TestJoinChildAddress(t *testing.T) {
	assert.Equal(t, "/system/parent/child", joinChildAddress("/system/parent", "child"))
	assert.NotEmpty(t, joinChildAddress("/system/parent", ""))
}

func TestParentAddress(t *testing.T) {
	assert.Equal(t, "/system/a", parentAddress("/system/a/b"))
	assert.Equal(t, SystemPrefix, parentAddress("/system/a"))
	assert.Equal(t, SystemPrefix, parentAddress(SystemPrefix))
}
