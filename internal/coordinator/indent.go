package coordinator

import (
	"strings"

	"github.com/standardbeagle/scite-core/internal/props"
)

// braceMatches pairs every opener to its closer, mirroring the fixed set
// Scintilla's brace-match command recognises.
var braceMatches = map[rune]rune{'(': ')', '[': ']', '{': '}'}
var braceOpeners = map[rune]rune{')': '(', ']': '[', '}': '{'}

// FindMatchingBrace scans text for the brace at pos and returns the index
// of its partner, mirroring the original's FindMatchingBracePosition
// (nesting-depth scan, no escaping/quote awareness — that lives in a lexer,
// out of scope per spec §1).
func FindMatchingBrace(text string, pos int) (int, bool) {
	runes := []rune(text)
	if pos < 0 || pos >= len(runes) {
		return 0, false
	}
	ch := runes[pos]
	if closer, ok := braceMatches[ch]; ok {
		depth := 1
		for i := pos + 1; i < len(runes); i++ {
			switch runes[i] {
			case ch:
				depth++
			case closer:
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
		return 0, false
	}
	if opener, ok := braceOpeners[ch]; ok {
		depth := 1
		for i := pos - 1; i >= 0; i-- {
			switch runes[i] {
			case ch:
				depth++
			case opener:
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
		return 0, false
	}
	return 0, false
}

// FoldRange is one foldable span, inclusive of both endpoints, in line
// numbers (spec §4.9 "Fold/unfold").
type FoldRange struct {
	StartLine int
	EndLine   int
}

// ComputeFolds walks lines looking for the language's block.start/block.end
// markers (per-language properties, e.g. "block.start.cpp=\\{") and returns
// one FoldRange per balanced region, the way the original's lexer-driven
// fold state machine does it minus the lexer (spec §1 Non-goals: no
// lexers — markers are matched as plain substrings here, not tokens).
func ComputeFolds(lines []string, ps *props.Store, lang string) []FoldRange {
	start := ps.Get("block.start." + lang)
	end := ps.Get("block.end." + lang)
	if start == "" || end == "" {
		return nil
	}

	var ranges []FoldRange
	var stack []int
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, start) {
			stack = append(stack, i)
		}
		if strings.Contains(trimmed, end) && len(stack) > 0 {
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if i > open {
				ranges = append(ranges, FoldRange{StartLine: open, EndLine: i})
			}
		}
	}
	return ranges
}

// ComputeAutoIndent returns the leading whitespace a new line following
// prevLine should receive, combining the previous line's own indent with
// one extra unit of statement.indent.<lang> when prevLine opens a block
// (ends with block.start.<lang>) — the automatic-indentation-on-newline
// behaviour named in spec §4.9.
func ComputeAutoIndent(prevLine string, ps *props.Store, lang string) string {
	indent := leadingWhitespace(prevLine)
	unit := ps.Get("statement.indent." + lang)
	if unit == "" {
		unit = "\t"
	}
	blockStart := ps.Get("block.start." + lang)
	trimmed := strings.TrimSpace(prevLine)
	if blockStart != "" && strings.HasSuffix(trimmed, blockStart) {
		indent += unit
	}
	return indent
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}
