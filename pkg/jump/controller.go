package jump

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/leapkey/pkg/debug"
)

// Config is the per-operation configuration, captured when an operation
// starts. Mid-operation changes only affect the next operation.
type Config struct {
	// Keys is the ordered, deduplicated label alphabet.
	Keys []rune
	// Dim fades non-candidate text while labels are shown.
	Dim bool
}

// Controller owns every jump session: one State per view plus one shared
// slot for operations spanning all visible views. It is created once at
// startup and handed to the host; there is no package-level instance.
//
// All methods run on the UI goroutine. Methods returning a tea.Cmd hand the
// slow half of an operation to the bubbletea runtime; the command's message
// must be fed back through Update.
type Controller struct {
	cfg  Config
	src  ViewSource
	disc Discoverer
	pres Presenter

	states map[ViewID]State
	// multi is the cross-view session. While set it takes precedence over
	// any per-view state so a keystroke is never interpreted twice.
	multi State
	// gen stamps async dispatches; completions with an older stamp are
	// discarded. Bumped by every operation start and by Cancel.
	gen uint64
}

// NewController wires the controller to its collaborators.
func NewController(cfg Config, src ViewSource, disc Discoverer, pres Presenter) *Controller {
	return &Controller{
		cfg:    cfg,
		src:    src,
		disc:   disc,
		pres:   pres,
		states: make(map[ViewID]State),
	}
}

// SetConfig replaces the configuration used by subsequent operations.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
}

// InputActive reports whether the controller currently claims keystrokes.
func (c *Controller) InputActive() bool {
	if c.multi != nil && controlled(c.multi) {
		return true
	}
	return controlled(c.state(c.src.Active()))
}

// PatternActive reports whether a pattern query is being collected; the
// host routes keys to its query prompt while this holds.
func (c *Controller) PatternActive() bool {
	if _, ok := c.multi.(PatternInput); ok {
		return true
	}
	_, ok := c.state(c.src.Active()).(PatternInput)
	return ok
}

// Word starts a word jump. BiDirectional with several visible views becomes
// a cross-view operation; otherwise the active view is searched on the
// spot. The returned command is nil for the synchronous path.
func (c *Controller) Word(kind WordKind, dir Direction) tea.Cmd {
	c.Cancel()
	views := c.src.Views()
	if dir == BiDirectional && len(views) > 1 {
		return c.collectMulti(views, func(v ViewInfo) []Candidate {
			return c.disc.WordStarts(v.ID, kind, dir)
		})
	}
	info, ok := c.viewInfo(c.src.Active())
	if !ok {
		return nil
	}
	cands := c.disc.WordStarts(info.ID, kind, dir)
	SortByDistance(cands, info.Cursor)
	c.setState(info.ID, c.activate(info, cands, dir))
	return nil
}

// Row starts a jump to row starts, routed like Word.
func (c *Controller) Row(dir Direction) tea.Cmd {
	c.Cancel()
	views := c.src.Views()
	if dir == BiDirectional && len(views) > 1 {
		return c.collectMulti(views, func(v ViewInfo) []Candidate {
			return c.disc.RowStarts(v.ID, dir)
		})
	}
	info, ok := c.viewInfo(c.src.Active())
	if !ok {
		return nil
	}
	cands := c.disc.RowStarts(info.ID, dir)
	SortByDistance(cands, info.Cursor)
	c.setState(info.ID, c.activate(info, cands, dir))
	return nil
}

// NChar starts collecting n literal characters to search for.
func (c *Controller) NChar(dir Direction, n int) {
	c.Cancel()
	if n <= 0 {
		return
	}
	st := NCharInput{Dir: dir, Want: n}
	views := c.src.Views()
	if dir == BiDirectional && len(views) > 1 {
		c.multi = st
		for _, v := range views {
			c.pres.SetInputLayer(v.ID, true)
		}
		return
	}
	id := c.src.Active()
	c.setState(id, st)
	c.pres.SetInputLayer(id, true)
}

// Pattern starts collecting a free-form query. The host shows its prompt
// while PatternActive holds and calls PatternSubmit (or Cancel) when done.
func (c *Controller) Pattern(dir Direction) {
	c.Cancel()
	views := c.src.Views()
	if dir == BiDirectional && len(views) > 1 {
		c.multi = PatternInput{Dir: BiDirectional}
		for _, v := range views {
			c.pres.SetInputLayer(v.ID, true)
		}
		return
	}
	id := c.src.Active()
	c.setState(id, PatternInput{Dir: dir})
	c.pres.SetInputLayer(id, true)
}

// PatternSubmit dispatches the collected query as a background search.
func (c *Controller) PatternSubmit(query string) tea.Cmd {
	if query == "" {
		c.Cancel()
		return nil
	}
	if _, ok := c.multi.(PatternInput); ok {
		return c.dispatchSearchMulti(query)
	}
	id := c.src.Active()
	if st, ok := c.state(id).(PatternInput); ok {
		return c.dispatchSearch(id, query, st.Dir)
	}
	return nil
}

// Cancel tears down every session: overlays, dimming, and input layers are
// removed from all touched views, and any in-flight search is orphaned.
func (c *Controller) Cancel() {
	c.gen++
	for _, v := range c.src.Views() {
		c.pres.Clear(v.ID)
		c.pres.SetInputLayer(v.ID, false)
	}
	for id := range c.states {
		c.pres.Clear(id)
		c.pres.SetInputLayer(id, false)
		delete(c.states, id)
	}
	c.multi = nil
}

// ViewClosed drops any session owned by a view that no longer exists.
func (c *Controller) ViewClosed(id ViewID) {
	delete(c.states, id)
}

// HandleKey routes one keystroke. The cross-view slot wins when present.
// Returns whether the key was consumed, plus any follow-up command.
func (c *Controller) HandleKey(key string) (bool, tea.Cmd) {
	if c.multi != nil && controlled(c.multi) {
		return c.handleKeyMulti(key)
	}
	id := c.src.Active()
	st := c.state(id)
	if !controlled(st) {
		return false, nil
	}

	switch s := st.(type) {
	case NCharInput:
		next, done := recordChar(s, key)
		if !done {
			c.setState(id, next)
			return true, nil
		}
		return true, c.dispatchSearch(id, string(next.Typed), next.Dir)
	case PatternInput:
		// The host's query prompt owns keys in this state.
		return false, nil
	case PendingSearch:
		// Swallow input while a search is outstanding.
		return true, nil
	case Active:
		c.trim(id, s, key)
		return true, nil
	default:
		return false, nil
	}
}

// Update applies background search completions. Returns whether the
// message belonged to this controller.
func (c *Controller) Update(msg tea.Msg) bool {
	m, ok := msg.(searchDoneMsg)
	if !ok {
		return false
	}
	if m.multi {
		c.applyMulti(m)
	} else {
		c.applySingle(m)
	}
	return true
}

// searchDoneMsg delivers ordered candidates from a background search or a
// multi-view discovery join.
type searchDoneMsg struct {
	gen   uint64
	multi bool
	dir   Direction
	info  ViewInfo // single-view: snapshot taken at dispatch
	cands []Candidate
}

// dispatchSearch runs a single-view search in the background.
func (c *Controller) dispatchSearch(id ViewID, query string, dir Direction) tea.Cmd {
	info, ok := c.viewInfo(id)
	if !ok {
		c.setState(id, Idle{})
		return nil
	}
	c.gen++
	gen := c.gen
	c.setState(id, PendingSearch{Gen: gen})
	return func() tea.Msg {
		cands := c.disc.Search(id, query, dir)
		SortByDistance(cands, info.Cursor)
		return searchDoneMsg{gen: gen, dir: dir, info: info, cands: cands}
	}
}

func (c *Controller) applySingle(m searchDoneMsg) {
	id := m.info.ID
	st, ok := c.state(id).(PendingSearch)
	if !ok || st.Gen != m.gen {
		debug.Log("jump: dropping stale search result for view %d (gen %d)", id, m.gen)
		return
	}
	c.setState(id, c.activate(m.info, m.cands, m.dir))
}

// activate builds the trie for ordered candidates and shows it in one view.
// An empty candidate set (or an unusable alphabet) ends the operation.
func (c *Controller) activate(info ViewInfo, cands []Candidate, dir Direction) State {
	if len(cands) == 0 {
		c.pres.Clear(info.ID)
		c.pres.SetInputLayer(info.ID, false)
		return Idle{}
	}
	trie, err := Build(c.cfg.Keys, cands)
	if err != nil {
		debug.Log("jump: %v", err)
		c.pres.Clear(info.ID)
		c.pres.SetInputLayer(info.ID, false)
		return Idle{}
	}
	var dim *DimRange
	if c.cfg.Dim {
		d := dimRangeFor(dir, info.Cursor, info.End)
		dim = &d
	}
	c.pres.ShowOverlays(info.ID, Overlays(trie.Entries(), 0), dim)
	c.pres.SetInputLayer(info.ID, true)
	return Active{Resolver: NewResolver(trie), Dir: dir}
}

// trim feeds one key to a single-view Active session.
func (c *Controller) trim(id ViewID, s Active, key string) {
	res, cand := s.Resolver.Consume(key)
	switch res {
	case TrimFound:
		c.pres.Jump(cand.View, cand.Point)
		c.pres.Clear(id)
		c.pres.SetInputLayer(id, false)
		c.setState(id, Idle{})
	case TrimChanged:
		typed := utf8.RuneCountInString(s.Resolver.Prefix())
		c.pres.ShowOverlays(id, Overlays(s.Resolver.Remaining(), typed), nil)
		c.setState(id, s)
	case TrimErr:
		c.pres.Clear(id)
		c.pres.SetInputLayer(id, false)
		c.setState(id, Idle{})
	case TrimNoChange:
		c.setState(id, s)
	}
}

func (c *Controller) state(id ViewID) State {
	if st, ok := c.states[id]; ok {
		return st
	}
	return Idle{}
}

func (c *Controller) setState(id ViewID, st State) {
	if _, ok := st.(Idle); ok {
		delete(c.states, id)
		return
	}
	c.states[id] = st
}

func (c *Controller) viewInfo(id ViewID) (ViewInfo, bool) {
	for _, v := range c.src.Views() {
		if v.ID == id {
			return v, true
		}
	}
	return ViewInfo{}, false
}

// recordChar appends one contributing keystroke; done reports whether the
// wanted count is reached.
func recordChar(s NCharInput, key string) (next NCharInput, done bool) {
	ch, size := utf8.DecodeRuneInString(key)
	if key == "" || size != len(key) || ch == utf8.RuneError {
		return s, false
	}
	typed := make([]rune, len(s.Typed), len(s.Typed)+1)
	copy(typed, s.Typed)
	s.Typed = append(typed, ch)
	return s, len(s.Typed) >= s.Want
}
