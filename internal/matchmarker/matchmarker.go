// Package matchmarker implements MatchMarker, the bounded-time restartable
// text scanner that paints indicators/bookmarks over every match of a
// string in a document (spec §4.5). It is included, per spec §1, as the
// exemplar of the engine's bounded-work restartable scanning pattern.
package matchmarker

import (
	"regexp"
	"time"
	"unicode/utf8"

	scerrors "github.com/standardbeagle/scite-core/internal/errors"
)

// segmentLines bounds how many lines one Continue call processes (spec §4.5).
const segmentLines = 200

// surroundLines pads the initial viewport range on each side (spec §4.5).
const surroundLines = 40

// budget is the wall-time limit for one Continue call (spec §4.5, §5).
const budget = 250 * time.Millisecond

// LineRange is a half-open [Start, End) span of document line numbers.
type LineRange struct {
	Start int
	End   int
}

func (r LineRange) length() int { return r.End - r.Start }

// Document is the minimal surface MatchMarker needs from whatever document
// it operates over. The text-editing widget itself is out of scope
// (spec §1); callers adapt their buffer to this interface.
type Document struct {
	LineCount        int
	FirstVisibleLine int
	LinesOnScreen    int
	Length           int
	PositionFromLine func(line int) int
	LineFromPosition func(pos int) int
	TextAt           func(start, end int) string
	StyleAt          func(pos int) int
}

// Sink receives indicator/bookmark paint calls.
type Sink interface {
	ClearIndicatorRange(start, end int)
	FillIndicatorRange(start, end int)
	AddBookmark(line int)
}

// Task holds one marking run's state (spec §3 "MatchMarker task").
type Task struct {
	doc        Document
	sink       Sink
	text       string
	re         *regexp.Regexp
	styleRestriction int // -1 means no restriction
	indicator  int
	bookmark   int // -1 means no bookmarks

	pending []LineRange
}

// New creates an idle Task. Call Start to begin a run.
func New() *Task {
	return &Task{bookmark: -1, styleRestriction: -1}
}

// linesBreak computes the initial three pending sub-ranges: viewport ±
// surround first, then post-viewport to end, then start to pre-viewport
// (spec §4.5), mirroring the original's LinesBreak.
func linesBreak(doc Document) []LineRange {
	lineEnd := doc.LineCount
	docLineStartVisible := doc.FirstVisibleLine
	priority := LineRange{
		Start: docLineStartVisible - surroundLines,
		End:   docLineStartVisible + doc.LinesOnScreen + surroundLines,
	}
	if priority.Start < 0 {
		priority.Start = 0
	}
	if priority.End > lineEnd {
		priority.End = lineEnd
	}
	ranges := []LineRange{priority}
	if priority.End < lineEnd {
		ranges = append(ranges, LineRange{priority.End, lineEnd})
	}
	if priority.Start > 0 {
		ranges = append(ranges, LineRange{0, priority.Start})
	}
	return ranges
}

// Start begins a new marking run for re over doc, painting through sink.
// styleRestriction < 0 means "match regardless of style"; bookmark < 0
// means "do not add bookmarks". It performs the first Continue immediately,
// mirroring the original's "avoid flashing" comment.
func (t *Task) Start(doc Document, sink Sink, re *regexp.Regexp, styleRestriction, indicator, bookmark int) {
	t.doc = doc
	t.sink = sink
	t.re = re
	t.styleRestriction = styleRestriction
	t.indicator = indicator
	t.bookmark = bookmark
	t.pending = linesBreak(doc)
	t.Continue()
}

// Complete reports whether every pending range has been processed.
func (t *Task) Complete() bool {
	return len(t.pending) == 0
}

// Continue processes one ≤200-line segment from the head of the pending
// ranges, painting matches via sink. If processing exceeds the 250ms
// budget, every indicator is cleared and all pending ranges are dropped
// (spec §4.5, §7 QuotaError — silent).
func (t *Task) Continue() error {
	if t.Complete() {
		return nil
	}
	rangeSearch := t.pending[0]
	lineEndSegment := rangeSearch.Start + segmentLines
	if lineEndSegment > rangeSearch.End {
		lineEndSegment = rangeSearch.End
	}

	positionStart := t.doc.PositionFromLine(rangeSearch.Start)
	positionEnd := t.doc.PositionFromLine(lineEndSegment)
	t.sink.ClearIndicatorRange(positionStart, positionEnd)

	start := time.Now()
	pos := positionStart
	for pos < positionEnd {
		if time.Since(start) > budget {
			t.sink.ClearIndicatorRange(0, t.doc.Length)
			t.pending = nil
			return scerrors.NewQuotaError(budget, time.Since(start))
		}
		segment := t.doc.TextAt(pos, positionEnd)
		loc := t.re.FindStringIndex(segment)
		if loc == nil {
			break
		}
		foundStart := pos + loc[0]
		foundEnd := pos + loc[1]

		if t.styleRestriction < 0 || t.doc.StyleAt(foundStart) == t.styleRestriction {
			t.sink.FillIndicatorRange(foundStart, foundEnd)
			if t.bookmark >= 0 {
				t.sink.AddBookmark(t.doc.LineFromPosition(foundStart))
			}
		}
		if foundEnd == foundStart {
			_, size := utf8.DecodeRuneInString(segment)
			if size == 0 {
				size = 1
			}
			foundEnd = foundStart + size
		}
		pos = foundEnd
	}

	if lineEndSegment >= rangeSearch.End {
		t.pending = t.pending[1:]
	} else {
		t.pending[0].Start = lineEndSegment
	}
	return nil
}

// PendingLength returns sum(pending_ranges.length) for invariant testing
// (spec §8 invariant 7).
func (t *Task) PendingLength() int {
	total := 0
	for _, r := range t.pending {
		total += r.length()
	}
	return total
}

// Stop clears all state, abandoning the current run.
func (t *Task) Stop() {
	t.doc = Document{}
	t.sink = nil
	t.pending = nil
}
