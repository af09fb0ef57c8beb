// SPDX-License-Identifier: MIT

package label

import (
	"fmt"
	"sort"
	"sync"
)

// ClosedSet describes a fixed inventory. Groups[i] lists the aliases that
// map to code i; Groups[i][0] is the canonical token.
type ClosedSet struct {
	Name   string
	Groups [][]string
}

// Built-in inventory names.
const (
	TIMIT61 = "timit61"
	TIMIT39 = "timit39"
	CMU39   = "cmu39"
)

var timit61 = []string{
	"iy", "ih", "eh", "ey", "ae", "aa", "aw", "ay", "ah", "ao",
	"oy", "ow", "uh", "uw", "ux", "er", "ax", "ix", "axr", "ax-h",
	"jh", "ch", "b", "d", "g", "p", "t", "k", "dx", "s",
	"sh", "z", "zh", "f", "th", "v", "dh", "m", "n", "ng",
	"em", "nx", "en", "eng", "l", "r", "w", "y", "hh", "hv",
	"el", "bcl", "dcl", "gcl", "pcl", "tcl", "kcl", "q", "pau", "epi",
	"h#",
}

// timit39 is the Lee–Hon folding of timit61; the glottal stop q has no
// folded class and stays unknown.
var timit39 = [][]string{
	{"iy"}, {"ih", "ix"}, {"eh"}, {"ey"}, {"ae"}, {"aa", "ao"}, {"aw"}, {"ay"},
	{"ah", "ax", "ax-h"}, {"oy"}, {"ow"}, {"uh"}, {"uw", "ux"}, {"er", "axr"},
	{"jh"}, {"ch"}, {"b"}, {"d"}, {"g"}, {"p"}, {"t"}, {"k"}, {"dx"},
	{"s"}, {"sh", "zh"}, {"z"}, {"f"}, {"th"}, {"v"}, {"dh"},
	{"m", "em"}, {"n", "en", "nx"}, {"ng", "eng"}, {"l", "el"}, {"r"}, {"w"}, {"y"},
	{"hh", "hv"},
	{"sil", "h#", "pau", "epi", "bcl", "dcl", "gcl", "pcl", "tcl", "kcl"},
}

var cmu39 = []string{
	"AA", "AE", "AH", "AO", "AW", "AY", "B", "CH", "D", "DH",
	"EH", "ER", "EY", "F", "G", "HH", "IH", "IY", "JH", "K",
	"L", "M", "N", "NG", "OW", "OY", "P", "R", "S", "SH",
	"T", "TH", "UH", "UW", "V", "W", "Y", "Z", "ZH",
}

var (
	registryMu sync.RWMutex
	registry   = map[string]ClosedSet{
		TIMIT61: singletons(TIMIT61, timit61),
		TIMIT39: {Name: TIMIT39, Groups: timit39},
		CMU39:   singletons(CMU39, cmu39),
	}
)

func singletons(name string, tokens []string) ClosedSet {
	groups := make([][]string, len(tokens))
	for i, tok := range tokens {
		groups[i] = []string{tok}
	}
	return ClosedSet{Name: name, Groups: groups}
}

// Register adds or replaces a named closed set. The set is validated by
// building a table from it.
func Register(set ClosedSet) error {
	if _, err := FromClosedSet(set); err != nil {
		return err
	}
	registryMu.Lock()
	registry[set.Name] = set
	registryMu.Unlock()

	return nil
}

// Closed builds a fresh table from the registered set called name.
func Closed(name string) (*Table, error) {
	registryMu.RLock()
	set, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return FromClosedSet(set)
}

// IsClosedSet reports whether name refers to a registered closed set.
func IsClosedSet(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// ClosedSets returns the registered set names in sorted order.
func ClosedSets() []string {
	registryMu.RLock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	registryMu.RUnlock()
	sort.Strings(names)

	return names
}

// FromClosedSet builds a closed table. Every alias must resolve to exactly
// one code; an alias listed under two codes is ErrAmbiguousLabel.
// Complexity: O(total aliases).
func FromClosedSet(set ClosedSet) (*Table, error) {
	if len(set.Groups) > MaxCodes {
		return nil, fmt.Errorf("%w: closed set %q has %d codes", ErrTableFull, set.Name, len(set.Groups))
	}
	t := &Table{
		name:   set.Name,
		closed: true,
		codes:  make(map[string]Code),
		tokens: make([]string, 0, len(set.Groups)),
	}
	for i, group := range set.Groups {
		if len(group) == 0 {
			return nil, fmt.Errorf("%w: closed set %q code %d has no token", ErrAmbiguousLabel, set.Name, i)
		}
		for _, alias := range group {
			if alias == "" {
				return nil, fmt.Errorf("%w: closed set %q code %d", ErrEmptyToken, set.Name, i)
			}
			if prev, dup := t.codes[alias]; dup {
				return nil, fmt.Errorf("%w: %q maps to both %d and %d in %q",
					ErrAmbiguousLabel, alias, prev, i, set.Name)
			}
			t.codes[alias] = Code(i)
		}
		t.tokens = append(t.tokens, group[0])
	}

	return t, nil
}
