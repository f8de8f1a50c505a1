package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mxm07/sample-server/internal/api"
	"github.com/mxm07/sample-server/internal/prefs"
	statepkg "github.com/mxm07/sample-server/internal/state"
)

// downloadStagger spaces out bulk download starts so the server is not hit
// with the whole selection at once.
const downloadStagger = 150 * time.Millisecond

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.savePrefs()
		app.shouldQuit = true
		return false

	case statepkg.BulkDownloadAction:
		return app.handleBulkDownload()

	case statepkg.ToggleAutoplayAction:
		app.reduce(action)
		app.savePrefs()
		return true
	}

	app.reduce(action)
	return true
}

func (app *Application) reduce(action statepkg.Action) {
	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
}

func (app *Application) savePrefs() {
	if err := prefs.Save(prefs.Prefs{Autoplay: app.state.AutoplayEnabled}); err != nil {
		app.log.Warn("saving preferences failed", zap.Error(err))
	}
}

// handleBulkDownload fetches every selected file into the download
// directory, staggering the starts.
func (app *Application) handleBulkDownload() bool {
	files := app.state.SelectedEntries()
	if len(files) == 0 {
		app.reduce(statepkg.StatusAction{Message: "No files selected"})
		return true
	}

	app.reduce(statepkg.StatusAction{
		Message: fmt.Sprintf("Downloading %d files to %s", len(files), app.downloadDir),
		OK:      true,
	})

	dispatch := func(a statepkg.Action) {
		select {
		case app.actionCh <- a:
		default:
			go func() { app.actionCh <- a }()
		}
	}

	var done atomic.Int32
	total := len(files)
	for i, entry := range files {
		go func(delay time.Duration, entry api.Entry) {
			time.Sleep(delay)
			_, err := app.client.Download(context.Background(), entry.Path, app.downloadDir)
			if err != nil {
				dispatch(statepkg.StatusAction{
					Message: fmt.Sprintf("Download failed: %s: %v", entry.Name, err),
				})
				return
			}
			dispatch(statepkg.StatusAction{
				Message: fmt.Sprintf("Downloaded %s (%d/%d)", entry.Name, done.Add(1), total),
				OK:      true,
			})
		}(time.Duration(i)*downloadStagger, entry)
	}
	return true
}
