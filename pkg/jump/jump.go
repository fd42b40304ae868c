// Package jump implements label-jump navigation: every candidate position on
// screen is tagged with a short unique key sequence, and typing a sequence
// moves the cursor to its candidate.
//
// The package is host-agnostic. It owns label assignment (a prefix-free code
// over a configured alphabet, shortest labels closest to the cursor), the
// keystroke-by-keystroke resolution of a label set, and the per-view session
// lifecycle, including operations that span every visible view at once.
// Rendering, keystroke capture, and cursor movement stay behind the
// Discoverer, Presenter, and ViewSource interfaces.
//
// All Controller methods must be called from the UI goroutine (a bubbletea
// Update loop). Long-running discovery runs inside tea.Cmd closures and comes
// back as messages handled by Controller.Update.
package jump

// Direction restricts an operation to one side of the cursor.
type Direction int

const (
	// BiDirectional considers the whole visible text.
	BiDirectional Direction = iota
	// Forwards considers only positions after the cursor.
	Forwards
	// Backwards considers only positions before the cursor.
	Backwards
)

// String returns a human-readable label for the direction.
func (d Direction) String() string {
	switch d {
	case Forwards:
		return "forwards"
	case Backwards:
		return "backwards"
	default:
		return "bidirectional"
	}
}

// WordKind selects the word-boundary flavor for word jumps.
type WordKind int

const (
	// WholeWord starts at identifier-style word boundaries.
	WholeWord WordKind = iota
	// SubWord additionally starts at camelCase humps and after underscores.
	SubWord
	// FullWord starts at whitespace-delimited words only.
	FullWord
)

// String returns a human-readable label for the word kind.
func (k WordKind) String() string {
	switch k {
	case SubWord:
		return "subword"
	case FullWord:
		return "full-word"
	default:
		return "word"
	}
}

// ViewID identifies one visible view. The zero value is never a valid view.
type ViewID int64

// Point is a position in a view's document, in rows and rune columns.
type Point struct {
	Row int
	Col int
}

// Before reports whether p comes before q in document order.
func (p Point) Before(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Pixel is an on-screen position used to compare candidates across views.
// For terminal hosts these are cell coordinates.
type Pixel struct {
	X float64
	Y float64
}

// Candidate is one jumpable position: a document point plus the view that
// owns it. Pixel is the candidate's on-screen position and is only consulted
// for operations spanning multiple views. Candidates are immutable once
// produced by discovery.
type Candidate struct {
	Point Point
	View  ViewID
	Pixel Pixel
}

// ViewInfo is a snapshot of one visible view taken at operation start.
type ViewInfo struct {
	ID     ViewID
	Cursor Point
	// CursorPixel is the cursor's on-screen position, the reference point
	// for multi-view candidate ordering.
	CursorPixel Pixel
	// End is the last position of the view's document, used to bound
	// dimming ranges.
	End Point
}

// ViewSource exposes the host's visible views. Implementations resolve view
// identity through their own registry; a view that has disappeared simply
// stops being listed.
type ViewSource interface {
	// Views returns a snapshot of every visible view.
	Views() []ViewInfo
	// Active returns the view holding the cursor.
	Active() ViewID
}

// Discoverer produces candidates. WordStarts and RowStarts are synchronous
// and cheap; Search may be slow and is only ever called off the UI
// goroutine. An unknown view or a failed search yields an empty slice,
// never an error.
type Discoverer interface {
	WordStarts(view ViewID, kind WordKind, dir Direction) []Candidate
	RowStarts(view ViewID, dir Direction) []Candidate
	Search(view ViewID, query string, dir Direction) []Candidate
}

// DimRange is the span of text to fade while labels are visible.
type DimRange struct {
	Start Point
	End   Point
}

// Presenter renders the operation's visible side effects. Calls referencing
// a view that no longer exists must be ignored by the implementation.
type Presenter interface {
	// ShowOverlays replaces the view's label overlays. A nil dim leaves
	// the current dimming unchanged, so narrowing redraws only labels;
	// dimming is removed by Clear.
	ShowOverlays(view ViewID, overlays []Overlay, dim *DimRange)
	// Clear removes the view's overlays and dimming.
	Clear(view ViewID)
	// SetInputLayer installs or removes the input context that shadows the
	// host's normal key bindings while a jump is in progress.
	SetInputLayer(view ViewID, on bool)
	// Jump moves the cursor to the point, switching focus to the view if
	// necessary.
	Jump(view ViewID, p Point)
}

// dimRangeFor bounds the dimmed span by the operation's direction.
func dimRangeFor(dir Direction, cursor, end Point) DimRange {
	switch dir {
	case Forwards:
		return DimRange{Start: cursor, End: end}
	case Backwards:
		return DimRange{Start: Point{}, End: cursor}
	default:
		return DimRange{Start: Point{}, End: end}
	}
}
