package engine

import "sort"

// ConjunctionIterator yields the documents every child contains. The
// lowest-cost child leads and the others are advanced to it.
type ConjunctionIterator struct {
	children []PostingsIterator
	sorted   []PostingsIterator
	lead     PostingsIterator
	current  uint32
}

// NewConjunctionIterator creates an AND iterator over the given children.
// Children must not be empty. Child keeps the caller's order.
func NewConjunctionIterator(children []PostingsIterator) *ConjunctionIterator {
	sorted := make([]PostingsIterator, len(children))
	copy(sorted, children)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cost() < sorted[j].Cost()
	})

	return &ConjunctionIterator{
		children: children,
		sorted:   sorted,
		lead:     sorted[0],
	}
}

// Child returns the i-th child as passed to NewConjunctionIterator.
// It is positioned on DocID after a successful Next or Advance.
func (c *ConjunctionIterator) Child(i int) PostingsIterator {
	return c.children[i]
}

func (c *ConjunctionIterator) Next() bool {
	if !c.lead.Next() {
		return false
	}
	return c.align(c.lead.DocID())
}

func (c *ConjunctionIterator) DocID() uint32 {
	return c.current
}

// Freq returns the lead's frequency.
func (c *ConjunctionIterator) Freq() uint32 {
	return c.lead.Freq()
}

// Positions returns the lead's positions.
func (c *ConjunctionIterator) Positions() []uint32 {
	return c.lead.Positions()
}

func (c *ConjunctionIterator) Advance(target uint32) bool {
	if !c.lead.Advance(target) {
		return false
	}
	return c.align(c.lead.DocID())
}

func (c *ConjunctionIterator) Cost() int64 {
	return c.lead.Cost()
}

// align advances the followers until every child sits on the same document.
func (c *ConjunctionIterator) align(target uint32) bool {
	for {
		aligned := true
		for _, child := range c.sorted[1:] {
			if !child.Advance(target) {
				return false
			}
			if child.DocID() > target {
				if !c.lead.Advance(child.DocID()) {
					return false
				}
				// The lead may land past the follower.
				target = c.lead.DocID()
				aligned = false
				break
			}
		}
		if aligned {
			c.current = target
			return true
		}
	}
}
