package state

import (
	"testing"
	"time"
)

// ===== SEARCH TESTS =====

func TestFirstCharEntersSearchMode(t *testing.T) {
	state := newTestState(audioEntry("a.wav"))
	state.CurrentPath = "drums"
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchBeginAction{})
	reducer.Reduce(state, SearchCharAction{Char: 'k'})

	if !state.SearchActive {
		t.Fatal("Expected search mode after first character")
	}
	if state.LastBrowsePath != "drums" {
		t.Errorf("Expected lastBrowsePath=drums, got %q", state.LastBrowsePath)
	}
	if !state.SearchPending {
		t.Error("Expected a pending debounced search")
	}
	if time.Until(state.SearchDeadline) <= 0 {
		t.Error("Debounce deadline should be in the future")
	}
}

func TestEveryEditBumpsSearchID(t *testing.T) {
	state := newTestState()
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: 'a'})
	first := state.SearchID
	reducer.Reduce(state, SearchCharAction{Char: 'b'})

	if state.SearchID == first {
		t.Error("Query edit must invalidate the previous search ID")
	}
}

func TestSearchStartTriggersSearcher(t *testing.T) {
	state := newTestState()
	searcher := &fakeSearcher{}
	state.Searcher = searcher
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: 'k'})
	reducer.Reduce(state, SearchCharAction{Char: 'i'})
	reducer.Reduce(state, SearchStartAction{ID: state.SearchID})

	if len(searcher.requests) != 1 {
		t.Fatalf("Expected one search request, got %d", len(searcher.requests))
	}
	req := searcher.requests[0]
	if req.Query != "ki" || req.ID != state.SearchID || req.Limit != SearchResultLimit {
		t.Errorf("Unexpected request: %+v", req)
	}
	if state.SearchPending {
		t.Error("Pending flag should clear once the search starts")
	}
}

func TestStaleSearchStartIsNoOp(t *testing.T) {
	state := newTestState()
	searcher := &fakeSearcher{}
	state.Searcher = searcher
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: 'a'})
	stale := state.SearchID
	reducer.Reduce(state, SearchCharAction{Char: 'b'})

	reducer.Reduce(state, SearchStartAction{ID: stale})

	if len(searcher.requests) != 0 {
		t.Errorf("Stale debounce fire must not search, got %+v", searcher.requests)
	}
}

func TestStaleSearchResultsDropped(t *testing.T) {
	state := newTestState()
	reducer := NewStateReducer()

	// "a" is typed, then "ab"; the response for "a" lands last.
	reducer.Reduce(state, SearchCharAction{Char: 'a'})
	idA := state.SearchID
	reducer.Reduce(state, SearchCharAction{Char: 'b'})
	idAB := state.SearchID

	reducer.Reduce(state, SearchResultsAction{
		ID:      idAB,
		Results: []Entry{audioEntry("match-ab.wav")},
	})
	reducer.Reduce(state, SearchResultsAction{
		ID:      idA,
		Results: []Entry{audioEntry("match-a.wav")},
	})

	if len(state.Entries) != 1 || state.Entries[0].Path != "match-ab.wav" {
		t.Errorf("Late response for the older query won, entries=%+v", state.Entries)
	}
}

func TestSearchResultsClearSelection(t *testing.T) {
	state := newTestState(audioEntry("a.wav"))
	reducer := NewStateReducer()

	reducer.Reduce(state, ClickEntryAction{Index: 0})
	reducer.Reduce(state, SearchCharAction{Char: 'x'})
	reducer.Reduce(state, SearchResultsAction{
		ID:      state.SearchID,
		Results: []Entry{audioEntry("x1.wav"), audioEntry("x2.wav")},
	})

	if state.SelectionCount() != 0 || state.ActiveIndex != -1 {
		t.Errorf("Result set swap must reset selection, got %v active=%d",
			state.SelectedPaths, state.ActiveIndex)
	}
	if len(state.Entries) != 2 {
		t.Errorf("Expected 2 results, got %d", len(state.Entries))
	}
}

func TestExitSearchRestoresBrowsePath(t *testing.T) {
	state := newTestState()
	state.CurrentPath = "drums"
	loader := &fakeLoader{}
	state.Loader = loader
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: 'k'})
	inFlight := state.SearchID
	reducer.Reduce(state, ExitSearchAction{})

	if state.SearchActive || state.SearchQuery != "" {
		t.Error("Exit should clear search mode and query")
	}
	if state.SearchID == inFlight {
		t.Error("Exit must invalidate in-flight searches")
	}
	if len(loader.requests) != 1 || loader.requests[0].Path != "drums" {
		t.Fatalf("Expected reload of drums, got %+v", loader.requests)
	}
}

func TestDirectoryClickInSearchExitsIntoIt(t *testing.T) {
	state := newTestState()
	state.CurrentPath = "drums"
	loader := &fakeLoader{}
	state.Loader = loader
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: 'l'})
	reducer.Reduce(state, SearchResultsAction{
		ID:      state.SearchID,
		Results: []Entry{dirEntry("drums/loops"), audioEntry("drums/loop1.wav")},
	})
	reducer.Reduce(state, ClickEntryAction{Index: 0})

	if state.SearchActive {
		t.Error("Directory click should leave search mode")
	}
	if len(loader.requests) != 1 || loader.requests[0].Path != "drums/loops" {
		t.Fatalf("Expected load of clicked directory, got %+v", loader.requests)
	}
}

func TestClearedQueryExitsSearch(t *testing.T) {
	state := newTestState()
	state.CurrentPath = "drums"
	loader := &fakeLoader{}
	state.Loader = loader
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: 'k'})
	reducer.Reduce(state, SearchBackspaceAction{})

	if state.SearchActive {
		t.Error("Empty query should drop back to browsing")
	}
	if len(loader.requests) != 1 || loader.requests[0].Path != "drums" {
		t.Fatalf("Expected reload of drums, got %+v", loader.requests)
	}
}

func TestEscapeOnEmptySearchInputKeepsListing(t *testing.T) {
	state := newTestState(audioEntry("music/sub/a.wav"))
	state.CurrentPath = "music/sub"
	state.LastBrowsePath = "music" // left over from an earlier search
	loader := &fakeLoader{}
	state.Loader = loader
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchBeginAction{})
	reducer.Reduce(state, ExitSearchAction{})

	if len(loader.requests) != 0 {
		t.Fatalf("Dismissing an empty search input must not navigate, got %+v", loader.requests)
	}
	if state.CurrentPath != "music/sub" || len(state.Entries) != 1 {
		t.Error("Dismissing an empty search input disturbed the listing")
	}
	if state.SearchFocus {
		t.Error("Expected focus dropped")
	}
}

func TestWhitespaceQueryNeverSearches(t *testing.T) {
	state := newTestState()
	searcher := &fakeSearcher{}
	state.Searcher = searcher
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: ' '})
	reducer.Reduce(state, SearchStartAction{ID: state.SearchID})

	if state.SearchActive {
		t.Error("Whitespace-only query should not enter search mode")
	}
	if len(searcher.requests) != 0 {
		t.Errorf("Whitespace-only query must not hit the server, got %+v", searcher.requests)
	}
}

func TestSearchErrorKeepsEntries(t *testing.T) {
	state := newTestState(audioEntry("a.wav"))
	reducer := NewStateReducer()

	reducer.Reduce(state, SearchCharAction{Char: 'z'})
	reducer.Reduce(state, SearchResultsAction{ID: state.SearchID, Err: errTest})

	if len(state.Entries) != 1 {
		t.Errorf("Search failure should keep prior entries, got %d", len(state.Entries))
	}
	if state.StatusOK || state.StatusMessage == "" {
		t.Error("Search failure should surface in the status line")
	}
}
