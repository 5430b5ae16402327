package props

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// logicalLines splits data into logical lines, joining lines whose
// terminator is escaped with a trailing backslash — unless that backslash
// is itself followed by a second, blank newline, which cancels the
// continuation and leaves the backslash in the line. Mirrors PropSetFile's
// GetFullLine. Handles \n, \r and \r\n terminators.
func logicalLines(data []byte) []string {
	var lines []string
	var cur strings.Builder
	i := 0
	n := len(data)
	continuation := false
	for i < n {
		ch := data[i]
		switch {
		case ch == '\r' || ch == '\n':
			consumed := 1
			if ch == '\r' && i+1 < n && data[i+1] == '\n' {
				consumed = 2
			}
			if continuation {
				// Continuation holds unless this newline is itself blank
				// (i.e. immediately followed by another newline): handled
				// by the lookahead below before we got here.
				i += consumed
				continuation = false
				continue
			}
			lines = append(lines, cur.String())
			cur.Reset()
			i += consumed
		case ch == '\\' && i+1 < n && (data[i+1] == '\r' || data[i+1] == '\n'):
			// Look ahead: does a blank line immediately follow the
			// escaped newline? If so the continuation is cancelled: the
			// backslash is kept and this line terminates normally.
			rest := i + 1
			var firstLen int
			if data[rest] == '\r' && rest+1 < n && data[rest+1] == '\n' {
				firstLen = 2
			} else {
				firstLen = 1
			}
			after := rest + firstLen
			blankFollows := after < n && (data[after] == '\r' || data[after] == '\n')
			if blankFollows {
				cur.WriteByte(ch)
				i++
			} else {
				continuation = true
				i++
			}
		default:
			cur.WriteByte(ch)
			i++
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func isSpaceOrTab(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func isCommentLine(line string) bool {
	i := 0
	for i < len(line) && isSpaceOrTab(line[i]) {
		i++
	}
	return i < len(line) && line[i] == '#'
}

// ReadMemory parses property data held in memory, mirroring
// PropSetFile::ReadFromMemory/ReadLine. importDir, when non-empty, is the
// base directory "import <stem>" directives resolve against. Returns the
// list of import paths followed, in file order, without duplicates.
func (s *Store) ReadMemory(data []byte, importDir string) []string {
	var imports []string
	ifIsTrue := true
	for _, line := range logicalLines(data) {
		if s.lowerKeys {
			line = lowerKeyPortion(line)
		}
		ifIsTrue = s.readLine(line, ifIsTrue, importDir, &imports)
	}
	return imports
}

// lowerKeyPortion lowercases the characters preceding the first '=',
// matching ReadFromMemory's lowerKeys handling (applied before ReadLine so
// "if"/"import" prefixes are unaffected by value casing).
func lowerKeyPortion(line string) string {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return strings.ToLower(line)
	}
	return strings.ToLower(line[:idx]) + line[idx:]
}

func (s *Store) readLine(line string, ifIsTrue bool, importDir string, imports *[]string) bool {
	if len(line) == 0 || !isSpaceOrTab(line[0]) {
		// If clause ends with the first non-indented line.
		ifIsTrue = true
	}
	switch {
	case strings.HasPrefix(line, "if "):
		expr := strings.TrimSpace(line[len("if "):])
		ifIsTrue = s.GetInt(expr, 0) != 0
	case strings.HasPrefix(line, "import ") && importDir != "":
		stem := strings.TrimSpace(line[len("import "):])
		importPath := filepath.Join(importDir, stem+".properties")
		if s.readFileInto(importPath, importDir) {
			already := false
			for _, p := range *imports {
				if p == importPath {
					already = true
					break
				}
			}
			if !already {
				*imports = append(*imports, importPath)
			}
		}
	case ifIsTrue && !isCommentLine(line):
		s.SetLine(line)
	}
	return ifIsTrue
}

// ReadFile reads and parses a properties file, stripping a UTF-8 BOM if
// present. Returns the imports it followed and whether the file was read
// successfully (a missing file is not an error — spec §4.2's "failure:
// ... a missing import is silently skipped").
func (s *Store) ReadFile(path, importDir string) ([]string, bool) {
	var imports []string
	ok := s.readFileIntoCollecting(path, importDir, &imports)
	return imports, ok
}

func (s *Store) readFileInto(path, importDir string) bool {
	var imports []string
	return s.readFileIntoCollecting(path, importDir, &imports)
}

func (s *Store) readFileIntoCollecting(path, importDir string, imports *[]string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})
	followed := s.ReadMemory(data, importDir)
	*imports = append(*imports, followed...)
	return true
}
