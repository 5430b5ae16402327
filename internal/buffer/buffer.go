// Package buffer implements Buffer and BufferSet, the engine's multi-document
// model (spec §3, §4.3).
package buffer

import (
	"time"

	"github.com/standardbeagle/scite-core/internal/pathmodel"
	"github.com/standardbeagle/scite-core/internal/props"
)

// EOLMode identifies a detected line-ending convention.
type EOLMode int

const (
	EOLUnknown EOLMode = iota
	EOLCRLF
	EOLCR
	EOLLF
)

// Encoding identifies a detected text encoding.
type Encoding int

const (
	Encoding8Bit Encoding = iota
	EncodingUTF8BOM
	EncodingUTF8Cookie
	EncodingUTF16LE
	EncodingUTF16BE
)

// DocHandle is the opaque, widget-owned document identity a Buffer wraps.
// The text-editing widget itself is out of this module's scope (spec §1);
// callers supply and interpret this value.
type DocHandle uintptr

// SelectionRange is a caret/anchor pair into document text.
type SelectionRange struct {
	Start int
	End   int
}

// Buffer aggregates the state of one open document (spec §3, §4.3).
type Buffer struct {
	Path        pathmodel.Path
	Doc         DocHandle
	Dirty       bool
	ModTime     time.Time
	Selection   SelectionRange
	ScrollTop   int
	EOL         EOLMode
	Encoding    Encoding
	PendingSave bool

	// Overlay holds per-buffer local properties (e.g. a file's own
	// tab-width override), layered on top of whatever base store the
	// BufferSet wires in for this buffer.
	Overlay *props.Store
}

// NewEmpty returns an untitled, clean buffer with a fresh property overlay.
func NewEmpty(base *props.Store) *Buffer {
	return &Buffer{
		Path:    pathmodel.Untitled,
		Overlay: props.NewLayered(base, false),
	}
}

// IsUntitled reports whether the buffer has never been saved to a path.
func (b *Buffer) IsUntitled() bool {
	return b.Path.IsUntitled()
}

// NeedsSave reports whether the buffer has unsaved edits or a save in flight.
func (b *Buffer) NeedsSave() bool {
	return b.Dirty || b.PendingSave
}

// DetectEOL counts CRLF/CR/LF occurrences in text and returns the majority
// mode, mirroring the original's line-ending auto-detection (spec §4.3).
// Ties go to CRLF, then CR; a document with no line ends yields LF.
func DetectEOL(text []byte) EOLMode {
	var crlf, cr, lf int
	i := 0
	n := len(text)
	for i < n {
		switch text[i] {
		case '\r':
			if i+1 < n && text[i+1] == '\n' {
				crlf++
				i += 2
				continue
			}
			cr++
		case '\n':
			lf++
		}
		i++
	}
	switch {
	case crlf >= cr && crlf >= lf && crlf > 0:
		return EOLCRLF
	case cr >= lf && cr > 0:
		return EOLCR
	default:
		return EOLLF
	}
}

// DetectEncoding implements the BOM/UTF-8-cookie/8-bit decision from spec
// §4.3. utf8AutoCheck mirrors the `utf8.auto.check` property.
func DetectEncoding(data []byte, utf8AutoCheck bool) Encoding {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return EncodingUTF8BOM
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return EncodingUTF16LE
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return EncodingUTF16BE
	case utf8AutoCheck && isValidUTF8(data):
		return EncodingUTF8Cookie
	default:
		return Encoding8Bit
	}
}

func isValidUTF8(data []byte) bool {
	i := 0
	n := len(data)
	for i < n {
		b := data[i]
		switch {
		case b < 0x80:
			i++
		case b&0xE0 == 0xC0:
			if i+1 >= n || data[i+1]&0xC0 != 0x80 {
				return false
			}
			i += 2
		case b&0xF0 == 0xE0:
			if i+2 >= n || data[i+1]&0xC0 != 0x80 || data[i+2]&0xC0 != 0x80 {
				return false
			}
			i += 3
		case b&0xF8 == 0xF0:
			if i+3 >= n || data[i+1]&0xC0 != 0x80 || data[i+2]&0xC0 != 0x80 || data[i+3]&0xC0 != 0x80 {
				return false
			}
			i += 4
		default:
			return false
		}
	}
	return true
}
