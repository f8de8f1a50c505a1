package state

import "time"

// Action is the base interface for all state mutations
type Action interface{}

// ClickModifier describes the modifier keys held during an entry click.
type ClickModifier int

const (
	ModifierNone   ClickModifier = iota
	ModifierToggle               // ctrl/cmd click
	ModifierRange                // shift click
)

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type OpenActiveAction struct{} // Enter on the active row
type GoUpAction struct{}

type LoadDirectoryAction struct {
	Path string
}

// ListingResultAction carries a finished listing back to the reducer.
// Token must match the most recent request or the result is dropped.
type ListingResultAction struct {
	Token   int
	Path    string
	Entries []Entry
	Err     error
}

// ===== SELECTION ACTIONS =====

type ClickEntryAction struct {
	Index    int
	Modifier ClickModifier
}

type SetActiveIndexAction struct {
	Index    int
	Select   bool
	Autoplay bool
}

type SelectAllAction struct{}
type ClearSelectionAction struct{}

// ===== SEARCH ACTIONS =====

type SearchBeginAction struct{} // focus the search input
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}
type SearchCommitAction struct{} // Enter: drop focus, keep results

// SearchStartAction is dispatched by the debounce timer. Stale IDs no-op.
type SearchStartAction struct {
	ID int
}

type SearchResultsAction struct {
	ID      int
	Results []Entry
	Err     error
}

// ExitSearchAction leaves search mode. TargetPath "" restores the directory
// shown before search started.
type ExitSearchAction struct {
	TargetPath string
}

// ===== PLAYBACK ACTIONS =====

type ToggleAutoplayAction struct{}
type PlayPauseAction struct{}

type PlaybackStatusAction struct {
	Playing  bool
	Duration time.Duration
}

// WaveformReadyAction only triggers a re-render; the renderer reads the
// pipeline's cache directly.
type WaveformReadyAction struct {
	Path string
	Err  error
}

// ===== APPLICATION ACTIONS =====

type HealthResultAction struct {
	Err error
}

type BulkDownloadAction struct{}

type StatusAction struct {
	Message string
	OK      bool
}

type ResizeAction struct {
	Width  int
	Height int
}

type QuitAction struct{}
