package jump

// Overlay is the display-only projection of one label assignment. It is
// rebuilt whenever the visible label set changes and never stored beyond
// the current frame.
type Overlay struct {
	// Label is the candidate's full label.
	Label string
	// Typed is how many leading keys of Label have been typed already;
	// presenters render the untyped suffix and fade or hide the rest.
	Typed int
	// Tier is the style bucket derived from label length: 0 for one key,
	// 1 for two, 2 for three or more.
	Tier int
	// Point is where the overlay is anchored in the owning view.
	Point Point
	// View routes the overlay to the view that owns the candidate.
	View ViewID
}

func tierFor(labelLen int) int {
	switch {
	case labelLen <= 1:
		return 0
	case labelLen == 2:
		return 1
	default:
		return 2
	}
}

// Overlays projects trie entries into overlays with typed keys so far.
func Overlays(entries []Entry, typed int) []Overlay {
	out := make([]Overlay, len(entries))
	for i, e := range entries {
		out[i] = Overlay{
			Label: e.Label,
			Typed: typed,
			Tier:  tierFor(len([]rune(e.Label))),
			Point: e.Candidate.Point,
			View:  e.Candidate.View,
		}
	}
	return out
}

// PartitionByView splits overlays by owning view so each view redraws only
// its own subset.
func PartitionByView(overlays []Overlay) map[ViewID][]Overlay {
	out := make(map[ViewID][]Overlay)
	for _, o := range overlays {
		out[o.View] = append(out[o.View], o)
	}
	return out
}
