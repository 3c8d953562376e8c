package huff

import (
	"fmt"
)

// Stats summarizes one compressed stream.
type Stats struct {
	// Symbols is the number of bytes on the uncompressed side.
	Symbols uint64

	// Bits is the number of payload bits on the compressed side, excluding
	// the header and padding.
	Bits uint64

	// Bytes is the size of the compressed stream, header and padding
	// included.
	Bytes uint64

	// Nodes is the number of nodes in the final code tree.
	Nodes int

	// Distinct is the number of distinct symbols seen.
	Distinct int

	// Depth is the length of the longest final codeword.
	Depth int

	// MostFrequent and LeastFrequent are the symbols with the highest and
	// lowest final weights, ties broken by rank.  Both are InvalidSymbol
	// for an empty stream.
	MostFrequent  Symbol
	LeastFrequent Symbol
}

// Ratio returns compressed size over uncompressed size, or 0 for an empty
// stream.
func (s Stats) Ratio() float64 {
	if s.Symbols == 0 {
		return 0
	}
	return float64(s.Bytes) / float64(s.Symbols)
}

// BitsPerSymbol returns the average payload bits spent per input byte.
func (s Stats) BitsPerSymbol() float64 {
	if s.Symbols == 0 {
		return 0
	}
	return float64(s.Bits) / float64(s.Symbols)
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("%d symbols, %d payload bits, %d bytes, %d nodes", s.Symbols, s.Bits, s.Bytes, s.Nodes)
}

var _ fmt.Stringer = Stats{}

func treeStats(t *Tree) Stats {
	s := Stats{
		Symbols:       t.Weight(t.Root()),
		Nodes:         t.Len(),
		Distinct:      t.Seen(),
		Depth:         t.Depth(),
		MostFrequent:  InvalidSymbol,
		LeastFrequent: InvalidSymbol,
	}
	for rank := maxRank; rank >= 0; rank-- {
		n := t.order[rank]
		if n == NoNode {
			break
		}
		symbol := t.nodes[n].symbol
		if symbol == InvalidSymbol {
			continue
		}
		if s.MostFrequent == InvalidSymbol {
			s.MostFrequent = symbol
		}
		s.LeastFrequent = symbol
	}
	return s
}
