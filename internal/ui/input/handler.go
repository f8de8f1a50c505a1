package input

import (
	"github.com/gdamore/tcell/v2"

	statepkg "github.com/mxm07/sample-server/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. Returns false when the
// application should exit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventMouse:
		ih.processMouseEvent(ev)
		return true
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	searchFocus := ih.state != nil && ih.state.SearchFocus
	searchActive := ih.state != nil && ih.state.SearchActive

	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false

	case tcell.KeyEscape:
		if searchActive || searchFocus {
			ih.actionChan <- statepkg.ExitSearchAction{}
		} else {
			ih.actionChan <- statepkg.ClearSelectionAction{}
		}
		return true

	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
		return true

	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
		return true

	case tcell.KeyEnter:
		if searchFocus {
			ih.actionChan <- statepkg.SearchCommitAction{}
		} else {
			ih.actionChan <- statepkg.OpenActiveAction{}
		}
		return true

	case tcell.KeyLeft:
		if !searchActive && !searchFocus {
			ih.actionChan <- statepkg.GoUpAction{}
		}
		return true

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if searchFocus {
			ih.actionChan <- statepkg.SearchBackspaceAction{}
		} else if !searchActive {
			ih.actionChan <- statepkg.GoUpAction{}
		}
		return true

	case tcell.KeyCtrlA:
		ih.actionChan <- statepkg.SelectAllAction{}
		return true

	case tcell.KeyCtrlD:
		ih.actionChan <- statepkg.ClearSelectionAction{}
		return true

	case tcell.KeyRune:
		r := ev.Rune()

		// A focused search input swallows every printable rune.
		if searchFocus {
			ih.actionChan <- statepkg.SearchCharAction{Char: r}
			return true
		}

		switch r {
		case 'q', 'Q':
			ih.actionChan <- statepkg.QuitAction{}
			return false

		case '/':
			ih.actionChan <- statepkg.SearchBeginAction{}
			return true

		case ' ':
			ih.actionChan <- statepkg.PlayPauseAction{}
			return true

		case 'a', 'A':
			ih.actionChan <- statepkg.ToggleAutoplayAction{}
			return true

		case 'd', 'D':
			ih.actionChan <- statepkg.BulkDownloadAction{}
			return true

		case 'j':
			ih.actionChan <- statepkg.NavigateDownAction{}
			return true

		case 'k':
			ih.actionChan <- statepkg.NavigateUpAction{}
			return true
		}
		return true

	default:
		return true
	}
}

// processMouseEvent maps clicks on list rows to entry clicks, carrying the
// modifier keys: shift extends from the anchor, ctrl/cmd toggles.
func (ih *InputHandler) processMouseEvent(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 || ih.state == nil {
		return
	}

	_, y := ev.Position()
	top := ih.state.ListTop()
	if y < top || y >= top+ih.state.VisibleRows() {
		return
	}
	index := ih.state.ScrollOffset + (y - top)
	if index >= len(ih.state.Entries) {
		return
	}

	modifier := statepkg.ModifierNone
	switch {
	case ev.Modifiers()&tcell.ModShift != 0:
		modifier = statepkg.ModifierRange
	case ev.Modifiers()&(tcell.ModCtrl|tcell.ModMeta) != 0:
		modifier = statepkg.ModifierToggle
	}

	ih.actionChan <- statepkg.ClickEntryAction{Index: index, Modifier: modifier}
}
