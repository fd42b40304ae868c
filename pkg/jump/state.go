package jump

// State is the lifecycle of one jump operation within a view (or across all
// views for the shared slot). Exactly one State value exists per slot;
// transitions replace it wholesale on the UI goroutine, never mutate it
// across an async boundary.
//
// The variants form a closed sum matched exhaustively at the keystroke
// dispatch site in Controller.HandleKey.
type State interface {
	isState()
}

// Idle means no jump operation is in progress. A missing map entry reads as
// Idle; storing Idle deletes the entry.
type Idle struct{}

// NCharInput is collecting a fixed number of literal characters to search
// for once complete.
type NCharInput struct {
	Dir   Direction
	Want  int
	Typed []rune
}

// PatternInput is collecting a free-form query; the host owns the prompt
// and calls PatternSubmit when the user confirms.
type PatternInput struct {
	Dir Direction
}

// PendingSearch means a background search was dispatched and no trie exists
// yet. Gen ties the eventual completion message to this dispatch; a
// completion with a stale generation is discarded.
type PendingSearch struct {
	Gen uint64
}

// Active holds a built trie under incremental resolution.
type Active struct {
	Resolver *Resolver
	Dir      Direction
}

func (Idle) isState()          {}
func (NCharInput) isState()    {}
func (PatternInput) isState()  {}
func (PendingSearch) isState() {}
func (Active) isState()        {}

// controlled reports whether the state claims keystrokes from the host.
func controlled(s State) bool {
	switch s.(type) {
	case NCharInput, PatternInput, PendingSearch, Active:
		return true
	default:
		return false
	}
}
