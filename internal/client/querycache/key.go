package querycache

import (
	"strconv"
	"strings"
)

// Key identifies a cached resource. Keys are compared structurally, so two
// Key values with the same fields address the same entry.
type Key struct {
	Resource string
	ID       string
	Sub      string
}

// K is shorthand for building a key from its non-empty parts.
func K(resource string, parts ...string) Key {
	k := Key{Resource: resource}
	if len(parts) > 0 {
		k.ID = parts[0]
	}
	if len(parts) > 1 {
		k.Sub = parts[1]
	}
	return k
}

// String renders the key the way it appears in logs: ["users","42"].
func (k Key) String() string {
	parts := []string{strconv.Quote(k.Resource)}
	if k.ID != "" || k.Sub != "" {
		parts = append(parts, strconv.Quote(k.ID))
	}
	if k.Sub != "" {
		parts = append(parts, strconv.Quote(k.Sub))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Matcher selects entries for invalidation.
type Matcher interface {
	Match(Key) bool
}

// Match makes a Key an exact matcher.
func (k Key) Match(other Key) bool { return k == other }

type prefix string

func (p prefix) Match(k Key) bool { return k.Resource == string(p) }

// Prefix matches every key of a resource regardless of ID and Sub.
func Prefix(resource string) Matcher { return prefix(resource) }

// MatchFunc adapts a predicate to Matcher.
type MatchFunc func(Key) bool

func (f MatchFunc) Match(k Key) bool { return f(k) }
