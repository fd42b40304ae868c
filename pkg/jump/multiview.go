package jump

import (
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/leapkey/pkg/debug"
)

// Cross-view coordination: discovery fans out to every visible view
// concurrently, results are joined and sorted off the UI goroutine, and a
// single shared trie spans all views. The shared session lives in the
// Controller's multi slot; keystrokes are resolved once, globally, and the
// result routed to whichever view owns the winning candidate.

// collectMulti dispatches discover for every view inside one background
// command. The join waits for every view; a view that panics or yields
// nothing contributes an empty list, never an error. The merge is a pure
// function of the per-view results and the reference pixel, so identical
// inputs produce an identical trie.
func (c *Controller) collectMulti(views []ViewInfo, discover func(ViewInfo) []Candidate) tea.Cmd {
	ref := Pixel{}
	if info, ok := c.viewInfo(c.src.Active()); ok {
		ref = info.CursorPixel
	}
	gen := c.gen
	c.multi = PendingSearch{Gen: gen}

	snapshot := append([]ViewInfo(nil), views...)
	return func() tea.Msg {
		start := time.Now()
		var g errgroup.Group
		results := make([][]Candidate, len(snapshot))
		for i, v := range snapshot {
			g.Go(func() error {
				defer func() {
					if r := recover(); r != nil {
						debug.Log("jump: discovery panic in view %d: %v", v.ID, r)
						results[i] = nil
					}
				}()
				results[i] = discover(v)
				return nil
			})
		}
		_ = g.Wait()

		var merged []Candidate
		for _, r := range results {
			merged = append(merged, r...)
		}
		SortByPixelDistance(merged, ref)
		debug.LogTiming("jump: multi-view discovery", time.Since(start))
		return searchDoneMsg{gen: gen, multi: true, dir: BiDirectional, cands: merged}
	}
}

// dispatchSearchMulti searches every visible view for the query.
func (c *Controller) dispatchSearchMulti(query string) tea.Cmd {
	c.gen++
	return c.collectMulti(c.src.Views(), func(v ViewInfo) []Candidate {
		return c.disc.Search(v.ID, query, BiDirectional)
	})
}

// applyMulti installs the joined result as the shared session, unless the
// operation was cancelled or superseded while the search was in flight.
func (c *Controller) applyMulti(m searchDoneMsg) {
	st, ok := c.multi.(PendingSearch)
	if !ok || st.Gen != m.gen {
		debug.Log("jump: dropping stale multi-view result (gen %d)", m.gen)
		return
	}

	views := c.src.Views()
	if len(m.cands) == 0 {
		c.teardownMulti(views)
		return
	}
	trie, err := Build(c.cfg.Keys, m.cands)
	if err != nil {
		debug.Log("jump: %v", err)
		c.teardownMulti(views)
		return
	}

	parts := PartitionByView(Overlays(trie.Entries(), 0))
	for _, v := range views {
		var dim *DimRange
		if c.cfg.Dim {
			d := dimRangeFor(BiDirectional, v.Cursor, v.End)
			dim = &d
		}
		c.pres.ShowOverlays(v.ID, parts[v.ID], dim)
		c.pres.SetInputLayer(v.ID, true)
	}
	c.multi = Active{Resolver: NewResolver(trie), Dir: BiDirectional}
}

// handleKeyMulti is the keystroke dispatch for the shared session.
func (c *Controller) handleKeyMulti(key string) (bool, tea.Cmd) {
	switch s := c.multi.(type) {
	case NCharInput:
		next, done := recordChar(s, key)
		if !done {
			c.multi = next
			return true, nil
		}
		return true, c.dispatchSearchMulti(string(next.Typed))
	case PatternInput:
		return false, nil
	case PendingSearch:
		return true, nil
	case Active:
		c.trimMulti(s, key)
		return true, nil
	default:
		return false, nil
	}
}

// trimMulti feeds one key to the shared session. Found and Err terminate
// the operation for every involved view together.
func (c *Controller) trimMulti(s Active, key string) {
	res, cand := s.Resolver.Consume(key)
	switch res {
	case TrimFound:
		c.pres.Jump(cand.View, cand.Point)
		c.teardownMulti(c.src.Views())
	case TrimChanged:
		typed := utf8.RuneCountInString(s.Resolver.Prefix())
		parts := PartitionByView(Overlays(s.Resolver.Remaining(), typed))
		for _, v := range c.src.Views() {
			c.pres.ShowOverlays(v.ID, parts[v.ID], nil)
		}
		c.multi = s
	case TrimErr:
		c.teardownMulti(c.src.Views())
	case TrimNoChange:
		c.multi = s
	}
}

func (c *Controller) teardownMulti(views []ViewInfo) {
	for _, v := range views {
		c.pres.Clear(v.ID)
		c.pres.SetInputLayer(v.ID, false)
	}
	c.multi = nil
}
