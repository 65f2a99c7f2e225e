// Package addrmatch compiles glob-style address patterns into predicates
// over strings. This is the "glob-based wildcard address matching"
// spec.md §1 lists as assumed available externally; we back it with a
// real glob library rather than hand-rolling matching logic.
package addrmatch

import "github.com/gobwas/glob"

// Predicate reports whether an address matches a compiled pattern.
type Predicate func(address string) bool

// Compile turns a glob pattern (e.g. "/system/a/*") into a Predicate.
// '/' is treated as an ordinary path separator, not a special glob
// delimiter, so "*" matches across segments the way spec.md's examples
// expect ("/system/a/*" matches both "/system/a/1" and "/system/a/1/2").
func Compile(pattern string) (Predicate, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return func(address string) bool { return g.Match(address) }, nil
}
