package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/mxm07/sample-server/internal/api"
)

const searchDebounceDelay = 150 * time.Millisecond

// StateReducer applies actions to AppState.
type StateReducer struct{}

func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies an action to state and returns new state. Side effects are
// limited to the injected Loader/Searcher/Player collaborators; their results
// come back as actions through the dispatch hook.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== LISTINGS =====

	case LoadDirectoryAction:
		r.startListing(state, a.Path)

	case ListingResultAction:
		// Stale token: a newer load superseded this one.
		if a.Token != state.ActiveListingToken() {
			return state, nil
		}
		if a.Err != nil {
			state.LastError = a.Err
			state.StatusMessage = a.Err.Error()
			state.StatusOK = false
			return state, nil
		}
		state.CurrentPath = a.Path
		state.applyEntries(a.Entries)
		state.SearchActive = false
		state.SearchFocus = false
		state.SearchQuery = ""
		state.SearchPending = false
		state.LastError = nil
		state.StatusMessage = ""
		state.StatusOK = true
		if state.Player != nil {
			state.Player.SetActive(nil, false)
		}

	case GoUpAction:
		if state.SearchActive || state.CurrentPath == "" {
			return state, nil
		}
		r.startListing(state, api.ParentPath(state.CurrentPath))

	// ===== NAVIGATION =====

	case NavigateDownAction:
		if len(state.Entries) == 0 {
			return state, nil
		}
		idx := 0
		if state.ActiveIndex >= 0 {
			idx = min(state.ActiveIndex+1, len(state.Entries)-1)
		}
		r.setActiveIndex(state, idx, true, state.AutoplayEnabled)

	case NavigateUpAction:
		if len(state.Entries) == 0 {
			return state, nil
		}
		idx := len(state.Entries) - 1
		if state.ActiveIndex >= 0 {
			idx = max(state.ActiveIndex-1, 0)
		}
		r.setActiveIndex(state, idx, true, state.AutoplayEnabled)

	case OpenActiveAction:
		entry := state.EntryAt(state.ActiveIndex)
		if entry == nil {
			return state, nil
		}
		if entry.IsDir {
			if state.SearchActive {
				r.exitSearch(state, entry.Path)
			} else {
				r.startListing(state, entry.Path)
			}
			return state, nil
		}
		r.setActiveIndex(state, state.ActiveIndex, true, state.AutoplayEnabled)

	case SetActiveIndexAction:
		r.setActiveIndex(state, a.Index, a.Select, a.Autoplay)

	// ===== SELECTION =====

	case ClickEntryAction:
		r.clickEntry(state, a)

	case SelectAllAction:
		if len(state.Entries) == 0 {
			return state, nil
		}
		state.clearSelection()
		for i := range state.Entries {
			if !state.Entries[i].IsDir {
				state.SelectedPaths[state.Entries[i].Path] = struct{}{}
			}
		}

	case ClearSelectionAction:
		state.clearSelection()
		state.LastSelectedIndex = -1

	// ===== SEARCH =====

	case SearchBeginAction:
		state.SearchFocus = true

	case SearchCharAction:
		state.SearchFocus = true
		state.SearchQuery += string(a.Char)
		r.searchInputChanged(state)

	case SearchBackspaceAction:
		if state.SearchQuery == "" {
			return state, nil
		}
		runes := []rune(state.SearchQuery)
		state.SearchQuery = string(runes[:len(runes)-1])
		r.searchInputChanged(state)

	case SearchCommitAction:
		state.SearchFocus = false

	case SearchStartAction:
		if a.ID != state.SearchID || !state.SearchPending {
			return state, nil
		}
		state.SearchPending = false
		query := strings.TrimSpace(state.SearchQuery)
		if query == "" || state.Searcher == nil {
			return state, nil
		}
		dispatch := state.getDispatch()
		state.Searcher.Search(SearchRequest{
			ID:    a.ID,
			Query: query,
			Limit: SearchResultLimit,
			Callback: func(res SearchResultsAction) {
				if dispatch != nil {
					dispatch(res)
				}
			},
		})

	case SearchResultsAction:
		// Stale ID: the query changed while this search was in flight.
		if a.ID != state.SearchID {
			return state, nil
		}
		if a.Err != nil {
			state.LastError = a.Err
			state.StatusMessage = a.Err.Error()
			state.StatusOK = false
			return state, nil
		}
		state.applyEntries(a.Results)
		state.StatusMessage = fmt.Sprintf("%d results", len(state.Entries))
		state.StatusOK = true
		if state.Player != nil {
			state.Player.SetActive(nil, false)
		}

	case ExitSearchAction:
		if !state.SearchActive {
			// A focused input that never activated has nothing to restore:
			// drop the focus without touching the current listing.
			state.SearchID++
			state.SearchFocus = false
			state.SearchQuery = ""
			state.SearchPending = false
			return state, nil
		}
		r.exitSearch(state, a.TargetPath)

	// ===== PLAYBACK =====

	case ToggleAutoplayAction:
		state.AutoplayEnabled = !state.AutoplayEnabled
		if state.AutoplayEnabled {
			state.StatusMessage = "Autoplay on"
		} else {
			state.StatusMessage = "Autoplay off"
		}
		state.StatusOK = true

	case PlayPauseAction:
		if state.Player != nil {
			state.Player.PlayPause()
		}

	case PlaybackStatusAction:
		state.Playing = a.Playing
		state.PlaybackDuration = a.Duration

	case WaveformReadyAction:
		// Render-only: the renderer reads the waveform cache directly, and
		// failed rows draw their placeholder.

	// ===== APPLICATION =====

	case HealthResultAction:
		if a.Err != nil {
			state.ServerStatus = ServerStatusDisconnected
			state.LastError = a.Err
			state.StatusMessage = "Server unreachable: " + a.Err.Error()
			state.StatusOK = false
		} else {
			state.ServerStatus = ServerStatusConnected
		}

	case StatusAction:
		state.StatusMessage = a.Message
		state.StatusOK = a.OK

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.updateScrollVisibility()
	}

	return state, nil
}

// ===== HANDLERS =====

// startListing mints a fresh token, cancels the previous request and starts
// the new one. The result comes back as a ListingResultAction.
func (r *StateReducer) startListing(state *AppState, path string) {
	prev := state.ActiveListingToken()
	token := state.nextListingToken()
	if state.Loader == nil {
		return
	}
	if prev != 0 {
		state.Loader.Cancel(prev)
	}
	dispatch := state.getDispatch()
	state.Loader.Start(ListingRequest{
		Token: token,
		Path:  path,
		Callback: func(res ListingResultAction) {
			if dispatch != nil {
				dispatch(res)
			}
		},
	})
}

// setActiveIndex is the single funnel for changing the active row. Select
// replaces the selection with the row's file; autoplay is forwarded to the
// player only for audio files.
func (r *StateReducer) setActiveIndex(state *AppState, idx int, selectEntry, autoplay bool) {
	entry := state.EntryAt(idx)
	if entry == nil {
		return
	}
	state.ActiveIndex = idx
	if selectEntry {
		state.selectOnly(*entry)
		if entry.IsDir {
			state.LastSelectedIndex = -1
		} else {
			state.LastSelectedIndex = idx
		}
	}
	r.preview(state, entry, autoplay)
	state.updateScrollVisibility()
}

// clickEntry implements the click modifier semantics: shift extends from the
// anchor, ctrl/cmd toggles, plain click replaces. Directory clicks navigate
// instead (and leave search mode when active).
func (r *StateReducer) clickEntry(state *AppState, a ClickEntryAction) {
	entry := state.EntryAt(a.Index)
	if entry == nil {
		return
	}

	if entry.IsDir {
		if state.SearchActive {
			r.exitSearch(state, entry.Path)
		} else {
			r.startListing(state, entry.Path)
		}
		return
	}

	switch a.Modifier {
	case ModifierRange:
		if state.LastSelectedIndex >= 0 {
			state.selectRange(state.LastSelectedIndex, a.Index)
		} else {
			state.selectOnly(*entry)
		}
	case ModifierToggle:
		state.toggleSelection(*entry)
	default:
		state.selectOnly(*entry)
	}

	state.LastSelectedIndex = a.Index
	state.ActiveIndex = a.Index
	r.preview(state, entry, state.AutoplayEnabled)
	state.updateScrollVisibility()
}

// preview points the player at entry (nil or a directory clears it).
func (r *StateReducer) preview(state *AppState, entry *Entry, autoplay bool) {
	var target *Entry
	if entry != nil && !entry.IsDir {
		target = entry
	}
	state.ActiveEntry = target
	if target == nil {
		state.Playing = false
		state.PlaybackDuration = 0
	}
	if state.Player != nil {
		state.Player.SetActive(target, autoplay && target != nil && target.IsAudio)
	}
}

// searchInputChanged runs after every query edit: it bumps the search ID so
// in-flight responses become stale, then arms the debounce window. A query
// that trims to empty drops back to browsing.
func (r *StateReducer) searchInputChanged(state *AppState) {
	if strings.TrimSpace(state.SearchQuery) == "" {
		if state.SearchActive {
			r.exitSearch(state, "")
		} else {
			state.SearchID++
			state.SearchPending = false
		}
		return
	}
	if !state.SearchActive {
		state.LastBrowsePath = state.CurrentPath
		state.SearchActive = true
	}
	state.SearchID++
	state.SearchPending = true
	state.SearchDeadline = time.Now().Add(searchDebounceDelay)
}

// exitSearch invalidates any in-flight search and loads target (or the
// directory that was showing before search started).
func (r *StateReducer) exitSearch(state *AppState, target string) {
	state.SearchID++
	state.SearchActive = false
	state.SearchFocus = false
	state.SearchQuery = ""
	state.SearchPending = false
	if target == "" {
		target = state.LastBrowsePath
	}
	r.startListing(state, target)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
