package ui

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/leapkey/pkg/jump"
	"github.com/vanderheijden86/leapkey/pkg/motion"
)

// pane is one read-only text view of the split pager. It owns its scroll
// window, cursor, and the overlay state the jump controller pushes at it.
//
// Background searches read pane state while the UI goroutine keeps
// scrolling, so the mutable fields are guarded: writers go through the
// locked mutators below, and discovery reads a paneView snapshot taken
// under the same lock. lines and id never change after construction.
type pane struct {
	id    jump.ViewID
	title string
	lines []string

	mu sync.Mutex
	// top is the first visible row; the window is [top, top+height).
	top    int
	width  int
	height int
	cursor jump.Point
	// originX is the pane's left edge in screen cells, the base for the
	// pixel coordinates used to order candidates across panes.
	originX int

	overlays []jump.Overlay
	dim      *jump.DimRange
	input    bool
}

// paneView is a consistent snapshot of the state discovery needs: document,
// visible span, cursor, and the geometry for pixel coordinates. Safe to use
// from any goroutine.
type paneView struct {
	id      jump.ViewID
	lines   []string
	span    motion.Span
	cursor  jump.Point
	top     int
	originX int
}

func newPane(id jump.ViewID, title string, lines []string) *pane {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &pane{id: id, title: title, lines: lines}
}

// snapshot captures the pane state under the lock.
func (p *pane) snapshot() paneView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return paneView{
		id:      p.id,
		lines:   p.lines,
		span:    motion.Span{Top: p.top, Bottom: p.top + p.height},
		cursor:  p.cursor,
		top:     p.top,
		originX: p.originX,
	}
}

// end is the last addressable position of the document.
func (p *pane) end() jump.Point {
	last := len(p.lines) - 1
	return jump.Point{Row: last, Col: len([]rune(p.lines[last]))}
}

// pixelAt converts a document point to screen cell coordinates. The column
// is measured in display cells so wide runes keep cross-pane distances
// honest.
func (v paneView) pixelAt(pt jump.Point) jump.Pixel {
	x := v.originX
	if pt.Row >= 0 && pt.Row < len(v.lines) {
		runes := []rune(v.lines[pt.Row])
		if pt.Col < len(runes) {
			x += runewidth.StringWidth(string(runes[:pt.Col]))
		} else {
			x += runewidth.StringWidth(v.lines[pt.Row])
		}
	}
	return jump.Pixel{X: float64(x), Y: float64(pt.Row - v.top)}
}

// info snapshots the pane for the jump controller.
func (p *pane) info() jump.ViewInfo {
	v := p.snapshot()
	return jump.ViewInfo{
		ID:          p.id,
		Cursor:      v.cursor,
		CursorPixel: v.pixelAt(v.cursor),
		End:         p.end(),
	}
}

// moveCursorTo places the cursor and scrolls it into view.
func (p *pane) moveCursorTo(pt jump.Point) {
	if pt.Row < 0 {
		pt.Row = 0
	}
	if pt.Row >= len(p.lines) {
		pt.Row = len(p.lines) - 1
	}
	runes := len([]rune(p.lines[pt.Row]))
	if pt.Col < 0 {
		pt.Col = 0
	}
	if pt.Col > runes {
		pt.Col = runes
	}
	p.mu.Lock()
	p.cursor = pt
	p.scrollIntoView()
	p.mu.Unlock()
}

// moveCursor shifts the cursor by whole rows.
func (p *pane) moveCursor(rows int) {
	p.moveCursorTo(jump.Point{Row: p.cursor.Row + rows, Col: p.cursor.Col})
}

// resize sets the pane's geometry, keeping the cursor on screen.
func (p *pane) resize(width, height, originX int) {
	p.mu.Lock()
	p.width = width
	p.height = height
	p.originX = originX
	p.clampScroll()
	p.scrollIntoView()
	p.mu.Unlock()
}

// scrollIntoView and clampScroll mutate the window; callers hold mu.
func (p *pane) scrollIntoView() {
	if p.height <= 0 {
		return
	}
	if p.cursor.Row < p.top {
		p.top = p.cursor.Row
	}
	if p.cursor.Row >= p.top+p.height {
		p.top = p.cursor.Row - p.height + 1
	}
	p.clampScroll()
}

func (p *pane) clampScroll() {
	max := len(p.lines) - p.height
	if max < 0 {
		max = 0
	}
	if p.top > max {
		p.top = max
	}
	if p.top < 0 {
		p.top = 0
	}
}

// dimColumns returns the dimmed rune-column range [lo, hi) of one row, or
// ok=false when the row is outside the dim range.
func (p *pane) dimColumns(row, rowLen int) (lo, hi int, ok bool) {
	d := p.dim
	if d == nil || row < d.Start.Row || row > d.End.Row {
		return 0, 0, false
	}
	lo, hi = 0, rowLen
	if row == d.Start.Row {
		lo = d.Start.Col
	}
	if row == d.End.Row {
		hi = d.End.Col
	}
	if lo > rowLen {
		lo = rowLen
	}
	if hi > rowLen {
		hi = rowLen
	}
	if lo >= hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// render draws the pane body: one styled string per visible row, padded to
// height. Overlays overwrite document text at their anchor; the untyped
// part of each label is what the user still has to press.
func (p *pane) render(t Theme, active bool) string {
	rows := make([]string, 0, p.height)
	for row := p.top; row < p.top+p.height; row++ {
		if row >= len(p.lines) {
			rows = append(rows, "")
			continue
		}
		rows = append(rows, p.renderRow(t, row, active))
	}
	return strings.Join(rows, "\n")
}

func (p *pane) renderRow(t Theme, row int, active bool) string {
	runes := []rune(p.lines[row])
	labels := p.rowOverlays(row)
	dimLo, dimHi, dimmed := p.dimColumns(row, len(runes))

	var b strings.Builder
	cells := 0
	for col := 0; col < len(runes); {
		if ov, ok := labels[col]; ok {
			suffix := []rune(ov.Label)[ov.Typed:]
			styled := t.LabelStyle(ov.Tier).Render(string(suffix))
			if ov.Typed > 0 {
				typed := []rune(ov.Label)[:ov.Typed]
				styled = t.Typed.Render(string(typed)) + styled
				cells += runewidth.StringWidth(string(typed))
			}
			b.WriteString(styled)
			cells += runewidth.StringWidth(string(suffix))
			// The label hides as many document runes as it paints cells.
			col += len(suffix) + ov.Typed
			if cells >= p.width {
				break
			}
			continue
		}

		ch := string(runes[col])
		w := runewidth.StringWidth(ch)
		if cells+w > p.width {
			break
		}
		switch {
		case active && p.cursor.Row == row && p.cursor.Col == col:
			b.WriteString(t.Cursor.Render(ch))
		case dimmed && col >= dimLo && col < dimHi:
			b.WriteString(t.Dimmed.Render(ch))
		default:
			b.WriteString(t.Base.Render(ch))
		}
		cells += w
		col++
	}
	return b.String()
}

// rowOverlays indexes this row's overlays by anchor column.
func (p *pane) rowOverlays(row int) map[int]jump.Overlay {
	if len(p.overlays) == 0 {
		return nil
	}
	out := make(map[int]jump.Overlay)
	for _, o := range p.overlays {
		if o.Point.Row == row {
			out[o.Point.Col] = o
		}
	}
	return out
}
