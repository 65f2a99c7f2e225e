package stagehand

import (
	"strings"

	"github.com/lguibr/stagehand/internal/addrmatch"
)

// ActorSelection resolves pattern against the system's registry
// snapshot, anchored to SystemPrefix unless prefix is given, per
// spec.md §4.7.
func (s *System) ActorSelection(pattern string, prefix ...string) []*PID {
	anchor := SystemPrefix
	if len(prefix) > 0 && prefix[0] != "" {
		anchor = prefix[0]
	}
	return s.selectRefs(pattern, anchor, "")
}

// selectRefs implements spec.md §4.7's actorSelection: an absolute
// pattern (leading "/") is matched as-is; a relative one is anchored to
// anchor. Every returned ref is stamped with contextCreator so replies
// sent via it carry correct sender provenance, mirroring ActorOf/Self/
// Parent's stamping rule.
func (s *System) selectRefs(pattern, anchor, contextCreator string) []*PID {
	full := anchorPattern(pattern, anchor)
	pred, err := addrmatch.Compile(full)
	if err != nil {
		s.logger.Printf("invalid selection pattern %q: %v", full, err)
		return nil
	}
	var refs []*PID
	for _, addr := range s.registryObj.snapshot() {
		if pred(addr) {
			refs = append(refs, s.refFor(addr, contextCreator))
		}
	}
	return refs
}

// anchorPattern strips a single trailing slash and, for relative
// patterns, prefixes anchor before canonicalizing — spec.md §4.7:
// "strip one trailing slash... anchor relative patterns to prefix (or
// the system prefix)."
func anchorPattern(pattern, anchor string) string {
	pattern = strings.TrimSuffix(pattern, "/")
	if strings.HasPrefix(pattern, "/") {
		return canonicalize(pattern)
	}
	return canonicalize(anchor + "/" + pattern)
}
