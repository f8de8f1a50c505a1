package state

// ===== SELECTION HELPERS =====

func (s *AppState) clearSelection() {
	s.SelectedPaths = make(map[string]struct{})
}

// selectOnly replaces the selection with a single file. Directories are
// never selectable, so clicking one just clears the selection.
func (s *AppState) selectOnly(e Entry) {
	s.clearSelection()
	if !e.IsDir {
		s.SelectedPaths[e.Path] = struct{}{}
	}
}

func (s *AppState) toggleSelection(e Entry) {
	if e.IsDir {
		return
	}
	if _, ok := s.SelectedPaths[e.Path]; ok {
		delete(s.SelectedPaths, e.Path)
	} else {
		s.SelectedPaths[e.Path] = struct{}{}
	}
}

// selectRange replaces the selection with every file between start and end
// inclusive, in either direction. Directories inside the range are skipped.
func (s *AppState) selectRange(start, end int) {
	lo, hi := start, end
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.Entries) {
		hi = len(s.Entries) - 1
	}
	s.clearSelection()
	for i := lo; i <= hi; i++ {
		if !s.Entries[i].IsDir {
			s.SelectedPaths[s.Entries[i].Path] = struct{}{}
		}
	}
}
