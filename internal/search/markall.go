package search

import "github.com/standardbeagle/scite-core/internal/matchmarker"

// MarkAll drives a matchmarker.Task to completion over doc/sink using the
// Searcher's current find text and options, implementing spec §4.4's
// `mark_all(mode)` in terms of the bounded restartable scanner (spec §4.5).
// bookmark is ignored unless mode is ModeBookmarks.
func (s *Searcher) MarkAll(doc matchmarker.Document, sink matchmarker.Sink, mode Mode, indicator, bookmark int) error {
	re, err := s.compile()
	if err != nil {
		return err
	}
	useBookmark := -1
	if mode == ModeBookmarks {
		useBookmark = bookmark
	}
	task := matchmarker.New()
	task.Start(doc, sink, re, -1, indicator, useBookmark)
	for !task.Complete() {
		// A QuotaError means the budget was exceeded; matchmarker has
		// already cleared indicators and emptied the pending ranges, so
		// Complete() is now true and the loop exits normally (spec §7:
		// QuotaError is silent).
		_ = task.Continue()
	}
	return nil
}
