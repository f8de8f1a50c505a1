// Package app wires the client, state machine, pipelines and UI together.
package app

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/mxm07/sample-server/internal/api"
	playerpkg "github.com/mxm07/sample-server/internal/player"
	"github.com/mxm07/sample-server/internal/prefs"
	statepkg "github.com/mxm07/sample-server/internal/state"
	inputui "github.com/mxm07/sample-server/internal/ui/input"
	renderui "github.com/mxm07/sample-server/internal/ui/render"
	"github.com/mxm07/sample-server/internal/waveform"
)

// Config carries the launch parameters from main.
type Config struct {
	ServerURL   string
	DownloadDir string
	Logger      *zap.Logger
}

// Application represents the running app.
type Application struct {
	screen      tcell.Screen
	state       *statepkg.AppState
	reducer     *statepkg.StateReducer
	renderer    *renderui.Renderer
	input       *inputui.InputHandler
	actionCh    chan statepkg.Action
	client      *api.Client
	pipeline    *waveform.Pipeline
	player      *playerpkg.Controller
	log         *zap.Logger
	downloadDir string
	shouldQuit  bool
}

func NewApplication(cfg Config) (*Application, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	client := api.New(cfg.ServerURL, log)

	state := statepkg.NewAppState()
	state.AutoplayEnabled = prefs.Load().Autoplay
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	actionCh := make(chan statepkg.Action, 10)
	dispatch := func(action statepkg.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	}
	state.SetDispatch(dispatch)

	pipeline := waveform.New(client, waveform.NewBeepDecoder(), func(r waveform.Result) {
		dispatch(statepkg.WaveformReadyAction{Path: r.Path, Err: r.Err})
	}, log)

	speakerErr := playerpkg.InitSpeaker()
	if speakerErr != nil {
		log.Warn("speaker unavailable, previews will stay silent", zap.Error(speakerErr))
	}
	controller := playerpkg.New(client, speakerErr == nil, func(playing bool, duration time.Duration) {
		dispatch(statepkg.PlaybackStatusAction{Playing: playing, Duration: duration})
	}, log)

	state.Loader = statepkg.NewAsyncListingLoader(client)
	state.Searcher = statepkg.NewAsyncSearcher(client)
	state.Player = controller

	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	app := &Application{
		screen:      screen,
		state:       state,
		reducer:     statepkg.NewStateReducer(),
		renderer:    renderui.NewRenderer(screen, pipeline),
		input:       inputHandler,
		actionCh:    actionCh,
		client:      client,
		pipeline:    pipeline,
		player:      controller,
		log:         log,
		downloadDir: cfg.DownloadDir,
	}

	// Health check and the root listing kick off concurrently; both report
	// back through actions.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dispatch(statepkg.HealthResultAction{Err: client.Health(ctx)})
	}()
	dispatch(statepkg.LoadDirectoryAction{Path: ""})

	return app, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.player.Stop()
	app.screen.Fini()
	return nil
}
