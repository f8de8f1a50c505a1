// Package prefs persists the handful of user preferences between sessions.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Prefs is the persisted preference set.
type Prefs struct {
	Autoplay bool `json:"autoplay"`
}

// Defaults returns the preferences of a fresh install.
func Defaults() Prefs {
	return Prefs{Autoplay: true}
}

// Path returns the preference file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "samplebrowse", "prefs.json")
}

// Load reads the preference file. A missing or unreadable file yields the
// defaults.
func Load() Prefs {
	return loadFrom(Path())
}

func loadFrom(path string) Prefs {
	p := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Defaults()
	}
	return p
}

// Save writes the preference file, creating its directory if needed.
func Save(p Prefs) error {
	return saveTo(Path(), p)
}

func saveTo(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
