package api

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Entry represents one node returned by the listing/search endpoints.
// Size and Modified are pointers because the server omits them for some
// directories.
type Entry struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	IsDir    bool   `json:"is_dir"`
	IsAudio  bool   `json:"is_audio"`
	Size     *int64 `json:"size"`
	Modified *int64 `json:"modified"`
}

// Browsable reports whether the entry belongs in the entry cache.
// Plain non-audio files are filtered out of every listing.
func (e Entry) Browsable() bool {
	return e.IsDir || e.IsAudio
}

// normalizeName applies NFC so names from different filesystems compare and
// render consistently.
func (e *Entry) normalizeName() {
	e.Name = norm.NFC.String(e.Name)
}

// ParentPath returns the parent of a server-relative path, or "" for
// top-level entries. Server paths always use forward slashes.
func ParentPath(path string) string {
	parts := strings.Split(path, "/")
	keep := parts[:0]
	for _, p := range parts {
		if p != "" {
			keep = append(keep, p)
		}
	}
	if len(keep) <= 1 {
		return ""
	}
	return strings.Join(keep[:len(keep)-1], "/")
}

// BaseName returns the last segment of a server-relative path.
func BaseName(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
