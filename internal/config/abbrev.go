package config

import (
	"github.com/standardbeagle/scite-core/internal/debug"
	"github.com/standardbeagle/scite-core/internal/props"
)

// LoadAbbreviations reads a plain properties file mapping abbreviation word
// to expansion text and installs it as a layer of ps (spec §C
// "Abbreviations file"). A missing file is not an error — there may simply
// be none configured yet.
func LoadAbbreviations(ps *props.Store, path string) {
	if _, ok := ps.ReadFile(path, ""); !ok {
		debug.LogProps("no abbreviations file at %s", path)
	}
}

// ExpandAbbreviation looks up word in the abbreviations layer and returns
// its expansion, or "" if word is not a known abbreviation.
func ExpandAbbreviation(ps *props.Store, word string) string {
	return ps.Get(word)
}
