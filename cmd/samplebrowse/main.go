package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	apppkg "github.com/mxm07/sample-server/internal/app"
)

const defaultServerURL = "http://localhost:8000"

func main() {
	server := flag.String("server", "", "sample server base URL (default $SAMPLE_SERVER_URL or "+defaultServerURL+")")
	downloads := flag.String("downloads", defaultDownloadDir(), "directory for downloaded samples")
	logFile := flag.String("log-file", defaultLogFile(), "log file path (empty disables logging)")
	flag.Parse()

	if *server == "" {
		*server = os.Getenv("SAMPLE_SERVER_URL")
	}
	if *server == "" {
		*server = defaultServerURL
	}

	log := newLogger(*logFile)
	defer log.Sync()

	// Set UTF-8 as fallback encoding so sample names render everywhere.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(apppkg.Config{
		ServerURL:   *server,
		DownloadDir: *downloads,
		Logger:      log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
}

func defaultDownloadDir() string {
	if xdg.UserDirs.Download != "" {
		return filepath.Join(xdg.UserDirs.Download, "samples")
	}
	return "downloads"
}

func defaultLogFile() string {
	return filepath.Join(xdg.StateHome, "samplebrowse", "samplebrowse.log")
}

// newLogger writes JSON logs to a file; stdout belongs to the terminal UI.
// Any setup failure degrades to a nop logger rather than breaking the UI.
func newLogger(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
