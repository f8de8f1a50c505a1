package render

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mxm07/sample-server/internal/api"
)

// FormatDuration renders a clip length as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatSize renders an optional byte count, "-" when the server omitted it.
func FormatSize(size *int64) string {
	if size == nil || *size < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(*size))
}

// FormatTimestamp renders an optional unix timestamp.
func FormatTimestamp(ts *int64) string {
	if ts == nil {
		return "-"
	}
	return time.Unix(*ts, 0).Format("2006-01-02 15:04")
}

// EntryLabel builds the metadata column for a list row: the file type and
// size, plus the duration once the waveform pipeline has resolved it.
func EntryLabel(e api.Entry, duration time.Duration) string {
	if e.IsDir {
		return "Folder"
	}
	kind := strings.ToUpper(strings.TrimPrefix(path.Ext(e.Name), "."))
	if kind == "" {
		kind = "Audio"
	}
	label := kind + " - " + FormatSize(e.Size)
	if duration > 0 {
		label += " - " + FormatDuration(duration)
	}
	return label
}

// SelectionInfo renders the status-line selection summary.
func SelectionInfo(count int) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "1 file selected"
	default:
		return fmt.Sprintf("%d files selected", count)
	}
}
