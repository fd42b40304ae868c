package jump

import (
	"sync"
	"testing"
)

// Fakes for the host-side collaborators. Discovery results are canned per
// view; the presenter records everything it is told to draw.

type fakeSource struct {
	views  []ViewInfo
	active ViewID
}

func (f *fakeSource) Views() []ViewInfo { return f.views }
func (f *fakeSource) Active() ViewID    { return f.active }

type fakeDiscoverer struct {
	words  map[ViewID][]Candidate
	rows   map[ViewID][]Candidate
	search map[ViewID][]Candidate

	mu       sync.Mutex
	searched []string
}

func (f *fakeDiscoverer) WordStarts(view ViewID, kind WordKind, dir Direction) []Candidate {
	return f.words[view]
}

func (f *fakeDiscoverer) RowStarts(view ViewID, dir Direction) []Candidate {
	return f.rows[view]
}

func (f *fakeDiscoverer) Search(view ViewID, query string, dir Direction) []Candidate {
	f.mu.Lock()
	f.searched = append(f.searched, query)
	f.mu.Unlock()
	return f.search[view]
}

type jumpCall struct {
	view  ViewID
	point Point
}

type fakePresenter struct {
	overlays map[ViewID][]Overlay
	dims     map[ViewID]*DimRange
	layers   map[ViewID]bool
	jumps    []jumpCall
	clears   int
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{
		overlays: make(map[ViewID][]Overlay),
		dims:     make(map[ViewID]*DimRange),
		layers:   make(map[ViewID]bool),
	}
}

func (f *fakePresenter) ShowOverlays(view ViewID, overlays []Overlay, dim *DimRange) {
	f.overlays[view] = overlays
	if dim != nil {
		f.dims[view] = dim
	}
}

func (f *fakePresenter) Clear(view ViewID) {
	delete(f.overlays, view)
	delete(f.dims, view)
	f.clears++
}

func (f *fakePresenter) SetInputLayer(view ViewID, on bool) {
	f.layers[view] = on
}

func (f *fakePresenter) Jump(view ViewID, p Point) {
	f.jumps = append(f.jumps, jumpCall{view: view, point: p})
}

func singleViewFixture(words []Candidate) (*Controller, *fakeDiscoverer, *fakePresenter) {
	src := &fakeSource{
		views: []ViewInfo{
			{ID: 1, Cursor: Point{Row: 5, Col: 0}, End: Point{Row: 99, Col: 0}},
		},
		active: 1,
	}
	disc := &fakeDiscoverer{
		words:  map[ViewID][]Candidate{1: words},
		rows:   map[ViewID][]Candidate{},
		search: map[ViewID][]Candidate{},
	}
	pres := newFakePresenter()
	cfg := Config{Keys: []rune("asdf"), Dim: true}
	return NewController(cfg, src, disc, pres), disc, pres
}

func viewCandidates(view ViewID, rows ...int) []Candidate {
	out := make([]Candidate, len(rows))
	for i, r := range rows {
		out[i] = Candidate{Point: Point{Row: r}, View: view}
	}
	return out
}

func TestWordActivatesAndResolves(t *testing.T) {
	c, _, pres := singleViewFixture(viewCandidates(1, 5, 6, 7))
	if cmd := c.Word(WholeWord, BiDirectional); cmd != nil {
		t.Fatal("single-view word jump must be synchronous")
	}

	if !c.InputActive() {
		t.Fatal("controller should claim keys while labels are shown")
	}
	if got := len(pres.overlays[1]); got != 3 {
		t.Fatalf("%d overlays shown, want 3", got)
	}
	if !pres.layers[1] {
		t.Fatal("input layer not installed")
	}
	if pres.dims[1] == nil {
		t.Fatal("dimming range not set")
	}

	// Closest candidate (the cursor row) owns the first alphabet key.
	handled, _ := c.HandleKey("a")
	if !handled {
		t.Fatal("label key not consumed")
	}
	if len(pres.jumps) != 1 || pres.jumps[0].point.Row != 5 {
		t.Fatalf("jumps = %+v, want row 5", pres.jumps)
	}
	if c.InputActive() {
		t.Fatal("session must end after a jump")
	}
	if pres.layers[1] {
		t.Fatal("input layer not removed after a jump")
	}
}

func TestWordNoCandidatesStaysIdle(t *testing.T) {
	c, _, pres := singleViewFixture(nil)
	c.Word(WholeWord, Forwards)

	if c.InputActive() {
		t.Fatal("no candidates must leave the controller idle")
	}
	if len(pres.overlays[1]) != 0 {
		t.Fatal("no overlays may be shown for an empty candidate set")
	}
	if pres.layers[1] {
		t.Fatal("no input layer may be installed for an empty candidate set")
	}
}

func TestInvalidKeyCancelsOperation(t *testing.T) {
	c, _, pres := singleViewFixture(viewCandidates(1, 5, 6, 7))
	c.Word(WholeWord, BiDirectional)

	handled, _ := c.HandleKey("z")
	if !handled {
		t.Fatal("invalid key still belongs to the session")
	}
	if c.InputActive() {
		t.Fatal("invalid key must end the session")
	}
	if len(pres.overlays[1]) != 0 || pres.layers[1] {
		t.Fatal("overlays/input layer must be torn down on invalid key")
	}
	if len(pres.jumps) != 0 {
		t.Fatal("no jump may happen on invalid key")
	}
}

func TestNamedKeyLeavesSessionUntouched(t *testing.T) {
	c, _, pres := singleViewFixture(viewCandidates(1, 5, 6, 7))
	c.Word(WholeWord, BiDirectional)

	handled, _ := c.HandleKey("enter")
	if !handled {
		t.Fatal("session should swallow named keys")
	}
	if !c.InputActive() || len(pres.overlays[1]) != 3 {
		t.Fatal("named key must not change the session")
	}
}

func TestNarrowingRedrawsOwnedSubset(t *testing.T) {
	c, _, pres := singleViewFixture(viewCandidates(1, 5, 6, 7, 8, 9))
	c.Word(WholeWord, BiDirectional)

	dimBefore := pres.dims[1]
	if dimBefore == nil {
		t.Fatal("activation must set a dim range")
	}

	c.HandleKey("f")
	got := pres.overlays[1]
	if len(got) != 3 {
		t.Fatalf("%d overlays after narrowing, want 3", len(got))
	}
	for _, o := range got {
		if o.Typed != 1 || o.Label[0] != 'f' {
			t.Fatalf("narrowed overlay = %+v", o)
		}
	}
	// Narrowing redraws labels only; the dim range stays in place.
	if pres.dims[1] != dimBefore {
		t.Fatal("narrowing must leave the dim range unchanged")
	}
}

func TestRowJump(t *testing.T) {
	c, disc, pres := singleViewFixture(nil)
	disc.rows[1] = viewCandidates(1, 0, 1, 2)
	c.Row(Forwards)

	if len(pres.overlays[1]) != 3 {
		t.Fatalf("%d overlays, want 3", len(pres.overlays[1]))
	}
	// Forwards dimming starts at the cursor.
	if d := pres.dims[1]; d == nil || d.Start.Row != 5 {
		t.Fatalf("dim = %+v, want start at cursor row 5", pres.dims[1])
	}
}

func TestNCharCollectsThenSearches(t *testing.T) {
	c, disc, pres := singleViewFixture(nil)
	disc.search[1] = viewCandidates(1, 3, 4)

	c.NChar(BiDirectional, 2)
	if !c.InputActive() {
		t.Fatal("collecting state must claim keys")
	}

	handled, cmd := c.HandleKey("g")
	if !handled || cmd != nil {
		t.Fatal("first char should be recorded without dispatch")
	}
	handled, cmd = c.HandleKey("o")
	if !handled || cmd == nil {
		t.Fatal("final char must dispatch the search")
	}

	// While the search is outstanding keys are swallowed.
	if handled, _ := c.HandleKey("x"); !handled {
		t.Fatal("keys during a pending search belong to the session")
	}

	msg := cmd()
	if !c.Update(msg) {
		t.Fatal("controller did not recognize its own search result")
	}
	if disc.searched[0] != "go" {
		t.Fatalf("searched for %q, want \"go\"", disc.searched[0])
	}
	if len(pres.overlays[1]) != 2 {
		t.Fatalf("%d overlays after search, want 2", len(pres.overlays[1]))
	}
}

func TestStaleSearchResultDropped(t *testing.T) {
	c, disc, pres := singleViewFixture(nil)
	disc.search[1] = viewCandidates(1, 3, 4)

	c.NChar(BiDirectional, 1)
	_, cmd := c.HandleKey("g")
	if cmd == nil {
		t.Fatal("expected search dispatch")
	}

	// Cancel while the search is in flight; its result must be discarded.
	c.Cancel()
	msg := cmd()
	c.Update(msg)

	if c.InputActive() {
		t.Fatal("cancelled session must stay idle")
	}
	if len(pres.overlays[1]) != 0 || pres.layers[1] {
		t.Fatal("stale result must not produce overlays or an input layer")
	}
}

func TestNewOperationSupersedesPendingSearch(t *testing.T) {
	c, disc, pres := singleViewFixture(viewCandidates(1, 5, 6))
	disc.search[1] = viewCandidates(1, 3, 4)

	c.NChar(BiDirectional, 1)
	_, cmd := c.HandleKey("g")

	// A new word jump replaces the outstanding search.
	c.Word(WholeWord, BiDirectional)
	c.Update(cmd())

	st, ok := c.state(1).(Active)
	if !ok {
		t.Fatalf("state = %T, want Active from the word jump", c.state(1))
	}
	if st.Resolver.Trie().Len() != 2 {
		t.Fatalf("trie has %d entries, want the word jump's 2", st.Resolver.Trie().Len())
	}
	if len(pres.overlays[1]) != 2 {
		t.Fatalf("%d overlays, want the word jump's 2", len(pres.overlays[1]))
	}
}

func TestPatternFlow(t *testing.T) {
	c, disc, pres := singleViewFixture(nil)
	disc.search[1] = viewCandidates(1, 8)

	c.Pattern(Forwards)
	if !c.PatternActive() {
		t.Fatal("pattern collection must be flagged for the host prompt")
	}
	// The prompt owns ordinary keys while collecting.
	if handled, _ := c.HandleKey("x"); handled {
		t.Fatal("pattern keys belong to the host prompt")
	}

	cmd := c.PatternSubmit(`fn \w+`)
	if cmd == nil {
		t.Fatal("submit must dispatch the search")
	}
	c.Update(cmd())

	if disc.searched[0] != `fn \w+` {
		t.Fatalf("searched %q", disc.searched[0])
	}
	if len(pres.overlays[1]) != 1 {
		t.Fatalf("%d overlays, want 1", len(pres.overlays[1]))
	}
	if c.PatternActive() {
		t.Fatal("pattern collection should be over")
	}
}

func TestEmptyPatternCancels(t *testing.T) {
	c, _, _ := singleViewFixture(nil)
	c.Pattern(Forwards)
	if cmd := c.PatternSubmit(""); cmd != nil {
		t.Fatal("empty query must not search")
	}
	if c.InputActive() {
		t.Fatal("empty query must cancel the operation")
	}
}

func TestViewClosedDropsState(t *testing.T) {
	c, _, _ := singleViewFixture(viewCandidates(1, 5, 6))
	c.Word(WholeWord, BiDirectional)
	c.ViewClosed(1)
	if c.InputActive() {
		t.Fatal("closing the owning view must drop its session")
	}
}

func TestOverlayTiers(t *testing.T) {
	entries := []Entry{
		{Label: "a"},
		{Label: "fs"},
		{Label: "fja"},
	}
	ovs := Overlays(entries, 0)
	for i, want := range []int{0, 1, 2} {
		if ovs[i].Tier != want {
			t.Fatalf("tier of %q = %d, want %d", ovs[i].Label, ovs[i].Tier, want)
		}
	}
}
