package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	statepkg "github.com/mxm07/sample-server/internal/state"
	"github.com/mxm07/sample-server/internal/waveform"
)

const waveColumnWidth = waveform.PeakBuckets

// Renderer handles all UI rendering
type Renderer struct {
	screen   tcell.Screen
	pipeline *waveform.Pipeline
	theme    ColorTheme
}

// NewRenderer creates a new renderer. The pipeline supplies per-row waveform
// state; it may be nil in tests.
func NewRenderer(screen tcell.Screen, pipeline *waveform.Pipeline) *Renderer {
	return &Renderer{
		screen:   screen,
		pipeline: pipeline,
		theme:    GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()

	r.drawHeader(state, w)
	if state.SearchActive || state.SearchFocus {
		r.drawSearchBar(state, w)
	}
	r.drawEntryList(state, w, h)
	r.drawPreviewPanel(state, w, h)
	r.drawStatusLine(state, w, h)

	r.screen.Show()
}

// drawHeader renders the breadcrumb and connection indicator.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	title := "samplebrowse"
	location := "/"
	if state.SearchActive {
		location = "Search results"
	} else if state.CurrentPath != "" {
		location = "/" + strings.ReplaceAll(state.CurrentPath, "/", " › ")
	}
	x := r.drawText(0, 0, w, title+"  ", style.Bold(true))
	x = r.drawText(x, 0, w-x, location, style)

	indicator := "○ Disconnected"
	indicatorStyle := style.Foreground(r.theme.DisconnectFg)
	if state.ServerStatus == statepkg.ServerStatusConnected {
		indicator = "● Connected"
		indicatorStyle = style.Foreground(r.theme.ConnectedFg)
	}
	startX := w - runewidth.StringWidth(indicator) - 1
	if startX > x {
		r.drawText(startX, 0, w-startX, indicator, indicatorStyle)
	}
}

func (r *Renderer) drawSearchBar(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Foreground(r.theme.Foreground)
	prompt := "Search: " + state.SearchQuery
	x := r.drawText(0, 1, w, prompt, style)
	if state.SearchFocus && x < w {
		r.screen.SetContent(x, 1, '▌', nil, style)
	}
}

func (r *Renderer) drawEntryList(state *statepkg.AppState, w, h int) {
	top := state.ListTop()
	rows := state.VisibleRows()

	if len(state.Entries) == 0 {
		message := "Empty folder"
		if state.SearchActive {
			message = "No results"
		}
		r.drawText(2, top, w-2, message, tcell.StyleDefault.Foreground(r.theme.MetaFg))
		return
	}

	for row := 0; row < rows; row++ {
		idx := state.ScrollOffset + row
		if idx >= len(state.Entries) {
			break
		}
		r.drawEntryRow(state, idx, top+row, w)
	}
}

func (r *Renderer) drawEntryRow(state *statepkg.AppState, idx, y, w int) {
	entry := state.Entries[idx]

	style := tcell.StyleDefault.Foreground(r.theme.Foreground)
	if entry.IsDir {
		style = style.Foreground(r.theme.DirectoryFg)
	}
	if state.IsSelected(entry.Path) {
		style = style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}
	if idx == state.ActiveIndex {
		style = style.Background(r.theme.ActiveBg).Foreground(r.theme.ActiveFg).Bold(true)
	}

	marker := "♪ "
	if entry.IsDir {
		marker = "▸ "
	}

	// Layout: marker+name | waveform | metadata label.
	waveWidth := 0
	if !entry.IsDir && w > 60 {
		waveWidth = waveColumnWidth
	}

	rowState, cached := r.rowWaveform(entry.Path)
	label := EntryLabel(entry, cached.Duration)
	labelWidth := runewidth.StringWidth(label)

	nameWidth := w - 2 - waveWidth - labelWidth - 4
	if nameWidth < 8 {
		nameWidth = 8
	}
	name := runewidth.Truncate(entry.Name, nameWidth, "…")

	x := r.drawText(0, y, w, marker+name, style)
	for ; x < w-waveWidth-labelWidth-2; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}

	if waveWidth > 0 {
		waveStyle := style.Foreground(r.theme.WaveformFg)
		var wave string
		switch rowState {
		case waveform.RowReady:
			wave = Sparkline(cached.Peaks, waveWidth)
		case waveform.RowFailed:
			wave = PlaceholderLine(waveWidth)
			waveStyle = style.Foreground(r.theme.WaveformDim)
		default:
			wave = PendingLine(waveWidth)
			waveStyle = style.Foreground(r.theme.WaveformDim)
		}
		x = r.drawText(x, y, waveWidth, wave, waveStyle)
	}

	if x < w {
		r.drawText(w-labelWidth-1, y, labelWidth, label, style.Foreground(r.theme.MetaFg))
	}
}

func (r *Renderer) rowWaveform(path string) (waveform.RowStatus, waveform.Waveform) {
	if r.pipeline == nil {
		return waveform.RowIdle, waveform.Waveform{}
	}
	return r.pipeline.RowState(path)
}

// drawPreviewPanel renders the four fixed lines above the status line.
func (r *Renderer) drawPreviewPanel(state *statepkg.AppState, w, h int) {
	top := h - 5
	meta := tcell.StyleDefault.Foreground(r.theme.MetaFg)

	for x := 0; x < w; x++ {
		r.screen.SetContent(x, top, tcell.RuneHLine, nil, meta)
	}

	entry := state.ActiveEntry
	if entry == nil {
		r.drawText(2, top+2, w-2, "Select a sample to preview", meta)
		return
	}

	r.drawText(2, top+1, w-2, entry.Name,
		tcell.StyleDefault.Foreground(r.theme.Foreground).Bold(true))

	duration := state.PlaybackDuration
	if duration == 0 {
		if _, cached := r.rowWaveform(entry.Path); cached.Duration > 0 {
			duration = cached.Duration
		}
	}
	details := EntryLabel(*entry, duration) + "  ·  modified " + FormatTimestamp(entry.Modified)
	r.drawText(2, top+2, w-2, details, meta)

	playback := "stopped"
	if state.Playing {
		playback = "▶ playing"
	} else if duration > 0 {
		playback = "⏸ ready"
	}
	if duration > 0 {
		playback += "  " + FormatDuration(duration)
	}
	r.drawText(2, top+3, w-2, playback, meta)
}

func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	y := h - 1
	style := tcell.StyleDefault.Foreground(r.theme.MetaFg)

	left := state.StatusMessage
	if left == "" {
		left = SelectionInfo(state.SelectionCount())
	}
	if left != "" && !state.StatusOK && state.StatusMessage != "" {
		style = style.Foreground(r.theme.ErrorFg)
	}
	r.drawText(1, y, w-1, left, style)

	right := "autoplay off"
	if state.AutoplayEnabled {
		right = "autoplay on"
	}
	startX := w - runewidth.StringWidth(right) - 1
	if startX > 0 {
		r.drawText(startX, y, w-startX, right, tcell.StyleDefault.Foreground(r.theme.MetaFg))
	}
}

// drawText writes s starting at (x, y), clipped to maxWidth columns, and
// returns the x position after the last cell written.
func (r *Renderer) drawText(x, y, maxWidth int, s string, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	width := 0
	for _, ru := range s {
		rw := runewidth.RuneWidth(ru)
		if rw == 0 {
			rw = 1
		}
		if width+rw > maxWidth {
			break
		}
		r.screen.SetContent(x+width, y, ru, nil, style)
		width += rw
	}
	return x + width
}
