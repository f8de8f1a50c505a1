package app

import (
	"time"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/mxm07/sample-server/internal/state"
)

func (app *Application) Run() {
	app.renderer.Render(app.state)
	app.pushVisibleRows()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			eventChan <- app.screen.PollEvent()
		}
	}()

	// Debounce timer for search input: armed whenever the state carries a
	// pending search, fired as a SearchStartAction for that ID.
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	debounceID := 0

	armDebounce := func() {
		if !app.state.SearchPending || debounceID == app.state.SearchID {
			return
		}
		debounceID = app.state.SearchID
		wait := time.Until(app.state.SearchDeadline)
		if wait < 0 {
			wait = 0
		}
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(wait)
		} else {
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(wait)
		}
		debounceCh = debounceTimer.C
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			app.pushVisibleRows()
			renderPending = false
		}
		armDebounce()

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-debounceCh:
			debounceCh = nil
			if app.handleAction(statepkg.SearchStartAction{ID: debounceID}) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize, *tcell.EventMouse:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
		return true
	default:
		return false
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// pushVisibleRows tells the pipeline which rows are on screen so their
// waveforms get queued.
func (app *Application) pushVisibleRows() {
	lo := app.state.ScrollOffset
	hi := lo + app.state.VisibleRows() - 1
	app.pipeline.RowsVisible(app.state.Entries, lo, hi)
}
