package stagehand

import (
	"strings"

	"github.com/lguibr/stagehand/internal/idgen"
)

// SystemPrefix anchors every canonical address, per spec.md §3: "a
// forward-slash-separated path beginning with the system prefix
// (/system/…)".
const SystemPrefix = "/system"

// NewAddress implements spec.md §4.7's createActorAddress: generate a
// UUID if path is empty, prepend SystemPrefix if missing, and return the
// canonical (duplicate-slash-collapsed) path.
func NewAddress(path string) string {
	if path == "" {
		path = idgen.New()
	}
	if !strings.HasPrefix(path, SystemPrefix) {
		path = SystemPrefix + "/" + strings.TrimPrefix(path, "/")
	}
	return canonicalize(path)
}

// canonicalize collapses duplicate slashes and strips a single trailing
// slash, so addresses built by concatenation never accumulate "//".
func canonicalize(path string) string {
	segments := strings.Split(path, "/")
	kept := segments[:0]
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		kept = append(kept, seg)
	}
	return "/" + strings.Join(kept, "/")
}

// joinChildAddress builds a child address by concatenating a parent
// address and a local name (spec.md §3: "Nested spawns produce child
// addresses by concatenation"), generating a UUID for the local name
// when absent.
func joinChildAddress(parent, localName string) string {
	if localName == "" {
		localName = idgen.New()
	}
	return canonicalize(parent + "/" + localName)
}

// parentAddress drops the last path segment, per spec.md §4.6 ("parent
// is derived from the actor's address by dropping the last segment; the
// root's parent is the system prefix").
func parentAddress(address string) string {
	trimmed := strings.TrimPrefix(address, SystemPrefix)
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return SystemPrefix
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) <= 1 {
		return SystemPrefix
	}
	return canonicalize(SystemPrefix + "/" + strings.Join(segments[:len(segments)-1], "/"))
}
