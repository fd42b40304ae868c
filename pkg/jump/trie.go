package jump

import (
	"errors"
	"strings"
)

// Builder failure modes. An empty candidate list is not a failure; it builds
// an empty trie, the "no matches" terminal.
var (
	// ErrEmptyAlphabet is returned when no label keys are configured.
	ErrEmptyAlphabet = errors.New("jump: empty label alphabet")
	// ErrAlphabetTooSmall is returned when a single-key alphabet is asked
	// to label more than one candidate. One key cannot form a prefix-free
	// set of two labels.
	ErrAlphabetTooSmall = errors.New("jump: alphabet too small to label candidates")
)

// Entry is one label assignment in a Trie.
type Entry struct {
	Label     string
	Candidate Candidate
}

// Trie is the complete label-to-candidate assignment for one operation.
// Entries are stored in candidate priority order, which is also their
// lexicographic label order under the alphabet: the two orders coincide by
// construction. A Trie is immutable once built; narrowing during resolution
// is the Resolver's accumulated prefix, not node removal.
type Trie struct {
	alphabet []rune
	entries  []Entry
}

// Build assigns a prefix-free label to every candidate, shortest labels
// first. Candidates must already be in priority order (see SortByDistance
// and SortByPixelDistance); the i-th candidate receives the i-th label.
//
// The assignment is greedy shortest-first: as many candidates as possible
// get single-key labels while the rest stay reachable through deeper
// subtrees headed by the alphabet's trailing keys. With alphabet "asdf" and
// five candidates the labels are a, s, d, fa, fs: three immediate leaves,
// one prefix key carrying the remaining two.
func Build(alphabet []rune, candidates []Candidate) (*Trie, error) {
	keys := dedupeRunes(alphabet)
	if len(keys) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if len(keys) == 1 && len(candidates) > 1 {
		return nil, ErrAlphabetTooSmall
	}

	t := &Trie{alphabet: keys}
	if len(candidates) == 0 {
		return t, nil
	}

	labels := make([][]int, 0, len(candidates))
	labels = appendLabels(labels, nil, len(keys), len(candidates))

	t.entries = make([]Entry, len(candidates))
	var b strings.Builder
	for i, label := range labels {
		b.Reset()
		for _, k := range label {
			b.WriteRune(keys[k])
		}
		t.entries[i] = Entry{Label: b.String(), Candidate: candidates[i]}
	}
	return t, nil
}

// appendLabels emits n labels (as key indices under prefix) in priority
// order, from an alphabet of k keys.
//
// When n fits in the alphabet every label is the prefix plus one key. When
// it does not, the front of the alphabet becomes immediate leaves and the
// back becomes subtree prefixes, keeping every label within the minimum
// possible depth. The leaf count is the largest value for which the
// remaining candidates still fit under the remaining keys at that depth;
// slot shortfall is absorbed by prefix keys, since a prefix can still
// branch below itself while a leaf cannot.
func appendLabels(out [][]int, prefix []int, k, n int) [][]int {
	if n <= k {
		for i := 0; i < n; i++ {
			out = append(out, appendIdx(prefix, i))
		}
		return out
	}

	// Smallest depth whose capacity covers n, and the capacity of one
	// subtree rooted at a prefix key (one level less).
	capacity := k
	for capacity < n {
		capacity *= k
	}
	sub := capacity / k

	leaves := (capacity - n) / (sub - 1)
	if leaves > k-1 {
		leaves = k - 1
	}
	for i := 0; i < leaves; i++ {
		out = append(out, appendIdx(prefix, i))
	}

	// Later subtrees fill to capacity so the shallow, alphabet-earlier
	// labels land on the higher-priority candidates in front.
	rem := n - leaves
	subtrees := k - leaves
	for i := 0; i < subtrees; i++ {
		size := sub
		if i == 0 {
			size = rem - (subtrees-1)*sub
		}
		out = appendLabels(out, appendIdx(prefix, leaves+i), k, size)
	}
	return out
}

// appendIdx copies prefix with one more key index; labels must not share
// backing arrays across recursion branches.
func appendIdx(prefix []int, i int) []int {
	label := make([]int, len(prefix)+1)
	copy(label, prefix)
	label[len(prefix)] = i
	return label
}

func dedupeRunes(rs []rune) []rune {
	seen := make(map[rune]bool, len(rs))
	out := make([]rune, 0, len(rs))
	for _, r := range rs {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// Len returns the number of labeled candidates.
func (t *Trie) Len() int {
	return len(t.entries)
}

// Entries returns every label assignment in priority order. The slice is
// shared; callers must not modify it.
func (t *Trie) Entries() []Entry {
	return t.entries
}

// Alphabet returns the deduplicated label alphabet.
func (t *Trie) Alphabet() []rune {
	return t.alphabet
}

// WithPrefix returns the entries whose label starts with prefix, in
// priority order. An empty prefix returns every entry.
func (t *Trie) WithPrefix(prefix string) []Entry {
	if prefix == "" {
		return t.entries
	}
	var out []Entry
	for _, e := range t.entries {
		if strings.HasPrefix(e.Label, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns the entry whose label equals s exactly.
func (t *Trie) Lookup(s string) (Entry, bool) {
	for _, e := range t.entries {
		if e.Label == s {
			return e, true
		}
	}
	return Entry{}, false
}
