package props

import "strings"

// matchWild tests fileName against pattern, allowing a single leading or
// trailing '*' (suffix/prefix match) or an exact match, mirroring
// PropSetFile's MatchWild.
func matchWild(pattern, fileName string) bool {
	if !CaseSensitiveFilenames {
		pattern = strings.ToLower(pattern)
		fileName = strings.ToLower(fileName)
	}
	if pattern == fileName {
		return true
	}
	if len(pattern) == 0 {
		return false
	}
	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(fileName, pattern[1:])
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(fileName, pattern[:len(pattern)-1])
	}
	return false
}

// GetWild performs the wildcard lookup described in spec §3/§4.2: among
// keys of the form "stem.*.<pattern>", returns the value of the first
// (insertion order) whose pattern matches filename; falls back to the
// literal "stem.*" entry; otherwise recurses into the base layer.
func (s *Store) GetWild(stem, filename string) string {
	return s.getWildFrom(s, stem, filename)
}

func (s *Store) getWildFrom(root *Store, stem, filename string) string {
	prefix := stem + ".*."
	for _, key := range s.order {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		pattern := key[len(prefix):]
		if strings.HasPrefix(pattern, "$(") {
			if end := strings.IndexByte(pattern, ')'); end >= 0 {
				varName := pattern[2:end]
				pattern = root.GetExpanded(varName)
			}
		}
		for _, segment := range strings.Split(pattern, ";") {
			if matchWild(segment, filename) {
				return s.values[key]
			}
		}
	}
	if v, ok := s.localGet(stem + ".*"); ok {
		return v
	}
	if s.base != nil {
		return s.base.getWildFrom(root, stem, filename)
	}
	return ""
}

// GetNewExpand performs GetWild followed by recursive $(var) expansion,
// where each variable reference is itself resolved via GetWild(var,
// filename) rather than plain Get — mirroring PropSetFile::GetNewExpand,
// since a wildcard property may itself reference another per-file-pattern
// property.
func (s *Store) GetNewExpand(stem, filename string) string {
	base := s.GetWild(stem, filename)
	return s.expand(base, stem, func(varName string) string {
		return s.GetWild(varName, filename)
	})
}
