package state

import (
	"time"

	"github.com/mxm07/sample-server/internal/api"
)

// Entry mirrors api.Entry so UI/state code can rely on a stable type.
type Entry = api.Entry

type ServerStatus string

const (
	ServerStatusUnknown      ServerStatus = ""
	ServerStatusConnected    ServerStatus = "connected"
	ServerStatusDisconnected ServerStatus = "disconnected"
)

// Player is the playback surface the reducer drives. Exactly one entry is
// active at a time; SetActive(nil, false) clears the preview.
type Player interface {
	SetActive(entry *Entry, autoplay bool)
	PlayPause()
}

// ===== STATE DEFINITIONS =====

// AppState is the single source of truth
type AppState struct {
	// Server connection
	ServerStatus ServerStatus

	// Navigation & entry cache
	CurrentPath string
	Entries     []Entry // Browsable entries of the current listing or search
	pathIndex   map[string]int

	// Selection & viewport
	ActiveIndex       int
	LastSelectedIndex int // Range anchor for shift-clicks
	SelectedPaths     map[string]struct{}
	ScrollOffset      int

	// Search
	SearchActive   bool
	SearchFocus    bool
	SearchQuery    string
	SearchID       int // Unique ID for current search (to drop stale results)
	SearchPending  bool
	SearchDeadline time.Time
	LastBrowsePath string

	// Playback
	AutoplayEnabled  bool
	ActiveEntry      *Entry
	Playing          bool
	PlaybackDuration time.Duration

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Status line
	StatusMessage string
	StatusOK      bool

	// Error state
	LastError error

	// Async collaborators
	Loader   ListingLoader
	Searcher Searcher
	Player   Player

	listingToken   int
	dispatchAction func(Action)
}

// NewAppState returns a state ready for the first listing load.
func NewAppState() *AppState {
	return &AppState{
		ActiveIndex:       -1,
		LastSelectedIndex: -1,
		SelectedPaths:     make(map[string]struct{}),
		pathIndex:         make(map[string]int),
		AutoplayEnabled:   true,
	}
}

// ===== HELPER METHODS =====

func (s *AppState) setDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

func (s *AppState) getDispatch() func(Action) {
	return s.dispatchAction
}

// SetDispatch exposes the reducer dispatch hook to other packages.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.setDispatch(fn)
}

// EntryAt returns a pointer into the entry cache, or nil when idx is out of
// range.
func (s *AppState) EntryAt(idx int) *Entry {
	if idx < 0 || idx >= len(s.Entries) {
		return nil
	}
	return &s.Entries[idx]
}

// EntryByPath looks an entry up through the path index.
func (s *AppState) EntryByPath(path string) *Entry {
	idx, ok := s.pathIndex[path]
	if !ok {
		return nil
	}
	return &s.Entries[idx]
}

// IsSelected reports whether path is part of the current selection.
func (s *AppState) IsSelected(path string) bool {
	_, ok := s.SelectedPaths[path]
	return ok
}

// SelectionCount returns the number of selected files.
func (s *AppState) SelectionCount() int {
	return len(s.SelectedPaths)
}

// SelectedEntries returns the selected files in display order.
func (s *AppState) SelectedEntries() []Entry {
	if len(s.SelectedPaths) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(s.SelectedPaths))
	for _, e := range s.Entries {
		if !e.IsDir && s.IsSelected(e.Path) {
			out = append(out, e)
		}
	}
	return out
}

// nextListingToken mints the token for a new listing request. Results
// carrying any other token are stale and dropped by the reducer.
func (s *AppState) nextListingToken() int {
	s.listingToken++
	return s.listingToken
}

// ActiveListingToken returns the token of the most recent listing request.
func (s *AppState) ActiveListingToken() int {
	return s.listingToken
}

// applyEntries replaces the entry cache wholesale: filters to browsable
// entries, rebuilds the path index, and clears everything keyed by the old
// cache (selection, anchor, active row, scroll).
func (s *AppState) applyEntries(entries []Entry) {
	filtered := entries[:0:0]
	for _, e := range entries {
		if e.Browsable() {
			filtered = append(filtered, e)
		}
	}
	s.Entries = filtered
	s.pathIndex = make(map[string]int, len(filtered))
	for i, e := range filtered {
		s.pathIndex[e.Path] = i
	}
	s.SelectedPaths = make(map[string]struct{})
	s.ActiveIndex = -1
	s.LastSelectedIndex = -1
	s.ScrollOffset = 0
	s.ActiveEntry = nil
	s.Playing = false
	s.PlaybackDuration = 0
}

// VisibleRows returns how many list rows fit on screen given the fixed
// chrome (header, preview panel, status line, optional search bar).
func (s *AppState) VisibleRows() int {
	chrome := 6
	if s.SearchActive || s.SearchFocus {
		chrome++
	}
	rows := s.ScreenHeight - chrome
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ListTop returns the screen row where the entry list starts.
func (s *AppState) ListTop() int {
	if s.SearchActive || s.SearchFocus {
		return 2
	}
	return 1
}

// updateScrollVisibility keeps the active row inside the viewport.
func (s *AppState) updateScrollVisibility() {
	if s.ActiveIndex < 0 {
		return
	}
	rows := s.VisibleRows()
	if s.ActiveIndex < s.ScrollOffset {
		s.ScrollOffset = s.ActiveIndex
	} else if s.ActiveIndex >= s.ScrollOffset+rows {
		s.ScrollOffset = s.ActiveIndex - rows + 1
	}
}
