package segment

import "sort"

// assignPositions numbers the atomic pieces and derives the position range
// of every compound piece. Output order follows the input order.
//
// A piece is atomic when no strictly shorter piece lies inside its byte span.
// Atomic spans are numbered in (start, end) order; identical spans share a
// number. A compound piece covers [min, max+1) of the atomic numbers inside it.
func assignPositions(pieces []Piece) []Word {
	n := len(pieces)
	if n == 0 {
		return nil
	}

	// Start ascending, longer first, so everything nested in a piece
	// follows it and starts before its end.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := pieces[order[a]], pieces[order[b]]
		if pa.Start != pb.Start {
			return pa.Start < pb.Start
		}
		return pa.End > pb.End
	})

	compound := make([]bool, n)
	for k, i := range order {
		p := pieces[i]
		for _, j := range order[k+1:] {
			q := pieces[j]
			if q.Start >= p.End {
				break
			}
			if q.End <= p.End && q.End-q.Start < p.End-p.Start {
				compound[i] = true
				break
			}
		}
	}

	atom := make([]int, n)
	next := 0
	prev := -1
	for _, i := range order {
		if compound[i] {
			continue
		}
		if prev >= 0 && pieces[prev].Start == pieces[i].Start && pieces[prev].End == pieces[i].End {
			atom[i] = atom[prev]
		} else {
			atom[i] = next
			next++
		}
		prev = i
	}

	words := make([]Word, n)
	for k, i := range order {
		p := pieces[i]
		w := Word{Text: p.Text, Start: p.Start, End: p.End}
		if !compound[i] {
			w.StartPos = atom[i]
			w.EndPos = atom[i] + 1
		} else {
			lo, hi := -1, -1
			for _, j := range order[k+1:] {
				q := pieces[j]
				if q.Start >= p.End {
					break
				}
				if compound[j] || q.End > p.End {
					continue
				}
				if lo < 0 || atom[j] < lo {
					lo = atom[j]
				}
				if atom[j] > hi {
					hi = atom[j]
				}
			}
			w.StartPos = lo
			w.EndPos = hi + 1
		}
		words[i] = w
	}
	return words
}
