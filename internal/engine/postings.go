package engine

import (
	"sort"

	"JiebaSearch/internal/indexing"
)

// PostingsIterator iterates over a postings list in document ID order.
type PostingsIterator interface {
	// Next advances to the next document. Returns false when exhausted.
	Next() bool

	// DocID returns the current document ID. Valid only after Next() returns true.
	DocID() uint32

	// Freq returns the term frequency in the current document.
	Freq() uint32

	// Positions returns the ascending term positions in the current
	// document, or nil when the field has no positions.
	Positions() []uint32

	// Advance moves to the first document >= target. Returns false if no such document.
	Advance(target uint32) bool

	// Cost returns an estimate of remaining documents.
	Cost() int64
}

// EntryIterator iterates over the entries of a write buffer postings list.
type EntryIterator struct {
	entries []indexing.PostingEntry
	pos     int
}

// NewEntryIterator creates an iterator over entries sorted by DocID.
func NewEntryIterator(entries []indexing.PostingEntry) *EntryIterator {
	return &EntryIterator{entries: entries, pos: -1}
}

func (it *EntryIterator) Next() bool {
	if it.pos < len(it.entries) {
		it.pos++
	}
	return it.pos < len(it.entries)
}

func (it *EntryIterator) DocID() uint32 {
	return it.entries[it.pos].DocID
}

func (it *EntryIterator) Freq() uint32 {
	return it.entries[it.pos].Freq
}

func (it *EntryIterator) Positions() []uint32 {
	return it.entries[it.pos].Positions
}

func (it *EntryIterator) Advance(target uint32) bool {
	if it.pos >= 0 && it.pos < len(it.entries) && it.entries[it.pos].DocID >= target {
		return true
	}
	start := it.pos + 1
	it.pos = start + sort.Search(len(it.entries)-start, func(i int) bool {
		return it.entries[start+i].DocID >= target
	})
	return it.pos < len(it.entries)
}

func (it *EntryIterator) Cost() int64 {
	remaining := len(it.entries) - it.pos - 1
	if remaining < 0 {
		return 0
	}
	return int64(remaining)
}

// containsPosition reports whether the ascending positions hold p.
func containsPosition(positions []uint32, p uint32) bool {
	i := sort.Search(len(positions), func(i int) bool { return positions[i] >= p })
	return i < len(positions) && positions[i] == p
}
