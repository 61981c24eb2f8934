package cyd

import (
	"strconv"
	"strings"
)

// Step is one hop of a Path: either a mapping key or a sequence index.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path locates a node in a Value tree as the steps from the root. The zero
// Path is the root itself.
type Path []Step

func (p Path) withKey(k string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, Step{Key: k})
}

func (p Path) withIndex(i int) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, Step{Index: i, IsIndex: true})
}

// String renders the path as $.key[index].key. Keys containing characters
// that would be ambiguous in that syntax are single-quoted.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		if s.Key != "" && strings.IndexAny(s.Key, "'.$[] \t") == -1 {
			b.WriteString(s.Key)
			continue
		}
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(s.Key, "'", `\'`))
		b.WriteByte('\'')
	}
	return b.String()
}
