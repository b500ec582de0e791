// Package contig holds named sequence sets and their FASTA/FASTG adapters.
package contig

import (
	"errors"
	"fmt"
	"sort"
)

var ErrDuplicate = errors.New("duplicate contig name")

// Map is a set of contigs keyed by name. Sequences keep their letter case.
type Map map[string][]byte

// Names returns the contig names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m Map) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Add inserts a new contig and refuses a name already present.
func (m Map) Add(name string, seq []byte) error {
	if m.Has(name) {
		return fmt.Errorf("[Add] %w: %s", ErrDuplicate, name)
	}
	m[name] = seq
	return nil
}

// Put stores seq under name, replacing any previous sequence.
func (m Map) Put(name string, seq []byte) {
	m[name] = seq
}

func (m Map) Delete(name string) {
	delete(m, name)
}

// Len returns the sequence length of name, -1 when absent.
func (m Map) Len(name string) int {
	s, ok := m[name]
	if !ok {
		return -1
	}
	return len(s)
}

// TotalLen sums the lengths of all contigs.
func (m Map) TotalLen() (n int) {
	for _, s := range m {
		n += len(s)
	}
	return
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	c := make(Map, len(m))
	for n, s := range m {
		c[n] = append([]byte(nil), s...)
	}
	return c
}

// NameSet is a set of contig names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s NameSet) Add(name string) {
	s[name] = struct{}{}
}

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
