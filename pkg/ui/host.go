package ui

import (
	"sync"

	"github.com/vanderheijden86/leapkey/pkg/debug"
	"github.com/vanderheijden86/leapkey/pkg/jump"
	"github.com/vanderheijden86/leapkey/pkg/motion"
)

// host adapts the pager's panes to the jump controller's three interfaces.
// Panes are addressed by ViewID; a pane that has been closed simply stops
// resolving, so calls aimed at it fall through as empty results or no-ops.
//
// The discovery methods are called from background search goroutines, so
// they only ever operate on a paneView snapshot; mu guards the pane list
// against a close happening while a background search resolves a view.
type host struct {
	mu     sync.Mutex
	panes  []*pane
	active int
}

var (
	_ jump.ViewSource = (*host)(nil)
	_ jump.Discoverer = (*host)(nil)
	_ jump.Presenter  = (*host)(nil)
)

func (h *host) Views() []jump.ViewInfo {
	out := make([]jump.ViewInfo, len(h.panes))
	for i, p := range h.panes {
		out[i] = p.info()
	}
	return out
}

func (h *host) Active() jump.ViewID {
	if len(h.panes) == 0 {
		return 0
	}
	return h.panes[h.active].id
}

func (h *host) activePane() *pane {
	if len(h.panes) == 0 {
		return nil
	}
	return h.panes[h.active]
}

func (h *host) pane(id jump.ViewID) *pane {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.panes {
		if p.id == id {
			return p
		}
	}
	return nil
}

// view resolves a pane to a discovery snapshot.
func (h *host) view(id jump.ViewID) (paneView, bool) {
	p := h.pane(id)
	if p == nil {
		return paneView{}, false
	}
	return p.snapshot(), true
}

// candidates converts document points to candidates with screen positions,
// filtered to the wanted side of the snapshot's cursor.
func candidates(v paneView, pts []jump.Point, dir jump.Direction) []jump.Candidate {
	pts = motion.FilterDirection(pts, v.cursor, dir)
	out := make([]jump.Candidate, len(pts))
	for i, pt := range pts {
		out[i] = jump.Candidate{Point: pt, View: v.id, Pixel: v.pixelAt(pt)}
	}
	return out
}

func (h *host) WordStarts(view jump.ViewID, kind jump.WordKind, dir jump.Direction) []jump.Candidate {
	v, ok := h.view(view)
	if !ok {
		return nil
	}
	return candidates(v, motion.WordStarts(v.lines, v.span, kind), dir)
}

func (h *host) RowStarts(view jump.ViewID, dir jump.Direction) []jump.Candidate {
	v, ok := h.view(view)
	if !ok {
		return nil
	}
	return candidates(v, motion.RowStarts(v.lines, v.span), dir)
}

// Search tries the query as a regular expression first and falls back to a
// literal (smart-case) search when it does not compile or matches nothing.
func (h *host) Search(view jump.ViewID, query string, dir jump.Direction) []jump.Candidate {
	v, ok := h.view(view)
	if !ok {
		debug.Log("ui: search aimed at closed view %d", view)
		return nil
	}
	pts := motion.SearchPattern(v.lines, v.span, query)
	if pts == nil {
		pts = motion.SearchLiteral(v.lines, v.span, query)
	}
	return candidates(v, pts, dir)
}

func (h *host) ShowOverlays(view jump.ViewID, overlays []jump.Overlay, dim *jump.DimRange) {
	p := h.pane(view)
	if p == nil {
		return
	}
	p.overlays = overlays
	if dim != nil {
		p.dim = dim
	}
}

func (h *host) Clear(view jump.ViewID) {
	p := h.pane(view)
	if p == nil {
		return
	}
	p.overlays = nil
	p.dim = nil
}

func (h *host) SetInputLayer(view jump.ViewID, on bool) {
	p := h.pane(view)
	if p == nil {
		return
	}
	p.input = on
}

// Jump moves the cursor, switching focus to the owning pane first.
func (h *host) Jump(view jump.ViewID, pt jump.Point) {
	for i, p := range h.panes {
		if p.id == view {
			h.active = i
			p.moveCursorTo(pt)
			return
		}
	}
	debug.Log("ui: jump aimed at closed view %d", view)
}

// closePane removes a pane, keeping the active index valid.
func (h *host) closePane(id jump.ViewID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.panes) <= 1 {
		return false
	}
	for i, p := range h.panes {
		if p.id == id {
			h.panes = append(h.panes[:i], h.panes[i+1:]...)
			if h.active >= len(h.panes) {
				h.active = len(h.panes) - 1
			}
			return true
		}
	}
	return false
}
