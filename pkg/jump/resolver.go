package jump

import (
	"unicode/utf8"
)

// TrimResult is the outcome of feeding one keystroke to a Resolver.
type TrimResult int

const (
	// TrimNoChange means the input did not affect the candidate set.
	TrimNoChange TrimResult = iota
	// TrimChanged means the label set narrowed but more input is needed.
	TrimChanged
	// TrimFound means the typed prefix now equals exactly one label.
	TrimFound
	// TrimErr means the key is not a valid continuation of any remaining
	// label; the operation is over.
	TrimErr
)

// String returns a human-readable label for the result.
func (r TrimResult) String() string {
	switch r {
	case TrimChanged:
		return "changed"
	case TrimFound:
		return "found"
	case TrimErr:
		return "err"
	default:
		return "no-change"
	}
}

// Resolver narrows a Trie one keystroke at a time. The trie itself is never
// mutated; the resolver only accumulates the typed prefix.
type Resolver struct {
	trie   *Trie
	prefix []rune
}

// NewResolver starts resolution over a freshly built trie.
func NewResolver(t *Trie) *Resolver {
	return &Resolver{trie: t}
}

// Consume feeds one keystroke. key is the keystroke's string form; named
// keys ("enter", "tab") and empty input never contribute and yield
// TrimNoChange. On TrimFound the matched candidate is returned.
func (r *Resolver) Consume(key string) (TrimResult, Candidate) {
	ch, size := utf8.DecodeRuneInString(key)
	if key == "" || size != len(key) || ch == utf8.RuneError {
		return TrimNoChange, Candidate{}
	}

	next := string(append(append([]rune{}, r.prefix...), ch))
	if e, ok := r.trie.Lookup(next); ok {
		// Prefix-freeness guarantees nothing extends a complete label.
		return TrimFound, e.Candidate
	}
	if len(r.trie.WithPrefix(next)) > 0 {
		r.prefix = append(r.prefix, ch)
		return TrimChanged, Candidate{}
	}
	return TrimErr, Candidate{}
}

// Prefix returns the keys typed so far.
func (r *Resolver) Prefix() string {
	return string(r.prefix)
}

// Remaining returns the entries still reachable from the typed prefix, in
// priority order.
func (r *Resolver) Remaining() []Entry {
	return r.trie.WithPrefix(string(r.prefix))
}

// Trie returns the full trie the resolver was started with.
func (r *Resolver) Trie() *Trie {
	return r.trie
}
