package config

import "strings"

// symbolSet matches fully-qualified symbols, with ".*" suffix entries acting
// as package or type prefixes
type symbolSet struct {
	exact    map[string]bool
	prefixes []string
}

func newSymbolSet(symbols []string) *symbolSet {
	result := &symbolSet{exact: make(map[string]bool)}
	for _, symbol := range symbols {
		if name, ok := strings.CutSuffix(symbol, ".*"); ok {
			result.prefixes = append(result.prefixes, name+".")
			continue
		}
		result.exact[symbol] = true
	}
	return result
}

// Contains reports whether the symbol belongs to the set
func (s *symbolSet) Contains(symbol string) bool {
	if s == nil || symbol == "" {
		return false
	}
	if s.exact[symbol] {
		return true
	}
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(symbol, prefix) {
			return true
		}
	}
	return false
}
