package huff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// type Node + type nodeData {{{

// Node is a stable handle to one node of a Tree.  Handles survive exchanges;
// they are invalidated only by Tree.Reset.
type Node int32

// NoNode is the absent parent of the root and the absent children of a leaf.
const NoNode = Node(-1)

const (
	maxNodes = 2*NumSymbols - 1
	maxRank  = maxNodes - 1
)

type nodeData struct {
	parent Node
	child  [2]Node
	weight uint64
	symbol Symbol
	rank   int
}

// }}}

// Tree is an adaptive Huffman code tree over the byte alphabet.
//
// Every node carries a weight (the number of symbols counted in its subtree)
// and a rank.  Listing the nodes by ascending rank yields non-decreasing
// weights, siblings occupy adjacent ranks with the 1-child above the 0-child,
// and every parent outranks its children.  This is the sibling property, and
// it makes the tree a Huffman code for the symbol counts seen so far.
//
// The zero-weight leaf without a symbol is the NYT ("not yet transmitted")
// node, which stands for every symbol not seen yet.  It disappears once all
// NumSymbols symbols have been seen.
//
// A Tree is not safe for concurrent use.
//
type Tree struct {
	nodes  []nodeData
	order  []Node
	leaves [NumSymbols]Node
	root   Node
	nyt    Node
	seen   int

	verifyEachUpdate bool
}

// NewTree returns a Tree holding only the NYT node.
func NewTree() *Tree {
	t := &Tree{
		nodes: make([]nodeData, 0, maxNodes),
		order: make([]Node, maxNodes),
	}
	t.Reset()
	return t
}

// Reset discards every node and starts over with a lone NYT root.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
	for i := range t.order {
		t.order[i] = NoNode
	}
	for i := range t.leaves {
		t.leaves[i] = NoNode
	}
	t.root = t.newNode(NoNode, InvalidSymbol, maxRank)
	t.nyt = t.root
	t.seen = 0
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return t.root
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Seen returns the number of distinct symbols observed.
func (t *Tree) Seen() int {
	return t.seen
}

// NYT returns the NYT node.  The second result is false once every symbol of
// the alphabet has been seen.
func (t *Tree) NYT() (Node, bool) {
	return t.nyt, t.nyt != NoNode
}

// FindLeaf returns the leaf holding symbol, or false if symbol has never been
// seen.
func (t *Tree) FindLeaf(symbol Symbol) (Node, bool) {
	if !symbol.Valid() {
		return NoNode, false
	}
	n := t.leaves[symbol]
	return n, n != NoNode
}

// Weight returns the weight of n.
func (t *Tree) Weight(n Node) uint64 {
	return t.get(n).weight
}

// Symbol returns the symbol held by n, or InvalidSymbol.
func (t *Tree) Symbol(n Node) Symbol {
	return t.get(n).symbol
}

// Rank returns the position of n in the sibling ordering.  The root always
// holds the highest rank.
func (t *Tree) Rank(n Node) int {
	return t.get(n).rank
}

// Parent returns the parent of n, or NoNode for the root.
func (t *Tree) Parent(n Node) Node {
	return t.get(n).parent
}

// Child returns the 0-child or 1-child of n, or NoNode if n is a leaf.
func (t *Tree) Child(n Node, bit uint) Node {
	assert.Assertf(bit <= 1, "child index %d is not 0 or 1", bit)
	return t.get(n).child[bit]
}

// IsLeaf returns true iff n has no children.
func (t *Tree) IsLeaf(n Node) bool {
	return t.get(n).child[0] == NoNode
}

// PathTo returns the path from the root to n.  This is the codeword for n's
// symbol (or for "new symbol", if n is the NYT node) at this point in time.
func (t *Tree) PathTo(n Node) Code {
	var reversed Code
	for {
		p := t.get(n).parent
		if p == NoNode {
			break
		}
		reversed.Append(t.childIndex(n))
		n = p
	}
	return reversed.Reversed()
}

// Depth returns the length of the longest codeword.
func (t *Tree) Depth() int {
	var max int
	for n := range t.nodes {
		if !t.IsLeaf(Node(n)) {
			continue
		}
		depth := 0
		for p := t.nodes[n].parent; p != NoNode; p = t.nodes[p].parent {
			depth++
		}
		if depth > max {
			max = depth
		}
	}
	return max
}

// Dump writes a programmer-readable debugging dump of the Tree's current state
// to the given writer.  Nodes are listed from the highest rank down.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	fmt.Fprintf(&buf, "\tLen() = %d\n", t.Len())
	fmt.Fprintf(&buf, "\tSeen() = %d\n", t.seen)
	for rank := maxRank; rank >= 0; rank-- {
		n := t.order[rank]
		if n == NoNode {
			break
		}
		nd := &t.nodes[n]
		switch {
		case n == t.nyt:
			fmt.Fprintf(&buf, "\t%d: NYT %d %s\n", rank, nd.weight, t.PathTo(n))
		case nd.child[0] == NoNode:
			fmt.Fprintf(&buf, "\t%d: Leaf(%d) %d %s\n", rank, nd.symbol, nd.weight, t.PathTo(n))
		default:
			fmt.Fprintf(&buf, "\t%d: Node %d %s\n", rank, nd.weight, t.PathTo(n))
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// DebugString returns the output of Dump as a string.
func (t *Tree) DebugString() string {
	var buf bytes.Buffer
	_, _ = t.Dump(&buf)
	return buf.String()
}

// Verify checks every structural invariant of the tree and returns an error
// wrapping ErrInvariant describing the first violation found.
func (t *Tree) Verify() error {
	fail := func(format string, args ...interface{}) error {
		return errors.Wrapf(ErrInvariant, format, args...)
	}

	numNodes := len(t.nodes)
	lowRank := maxRank - numNodes + 1
	if t.root == NoNode || t.nodes[t.root].parent != NoNode {
		return fail("root %d has a parent", t.root)
	}
	if t.nodes[t.root].rank != maxRank {
		return fail("root holds rank %d, want %d", t.nodes[t.root].rank, maxRank)
	}

	// Ranks: a contiguous range ending at maxRank, each owned by exactly
	// one node, with weights non-decreasing upward.
	for rank := 0; rank <= maxRank; rank++ {
		n := t.order[rank]
		if rank < lowRank {
			if n != NoNode {
				return fail("rank %d below the lowest rank %d is occupied", rank, lowRank)
			}
			continue
		}
		if n == NoNode || int(n) >= numNodes {
			return fail("rank %d is not occupied", rank)
		}
		if t.nodes[n].rank != rank {
			return fail("node at rank %d claims rank %d", rank, t.nodes[n].rank)
		}
		if rank > lowRank {
			below := t.order[rank-1]
			if t.nodes[below].weight > t.nodes[n].weight {
				return fail("rank %d weighs %d, more than rank %d weighing %d",
					rank-1, t.nodes[below].weight, rank, t.nodes[n].weight)
			}
		}
	}

	var numLeaves, numZero int
	var leafWeights uint64
	for i := range t.nodes {
		n := Node(i)
		nd := &t.nodes[i]
		if nd.child[0] == NoNode {
			if nd.child[1] != NoNode {
				return fail("node %d has only a 1-child", n)
			}
			numLeaves++
			leafWeights += nd.weight
			if nd.symbol == InvalidSymbol {
				if n != t.nyt {
					return fail("leaf %d without a symbol is not the NYT node", n)
				}
				if nd.weight != 0 {
					return fail("NYT node weighs %d", nd.weight)
				}
				numZero++
				continue
			}
			if !nd.symbol.Valid() {
				return fail("leaf %d holds invalid symbol %d", n, nd.symbol)
			}
			if t.leaves[nd.symbol] != n {
				return fail("leaf %d for symbol %d is not indexed", n, nd.symbol)
			}
			continue
		}

		if nd.symbol != InvalidSymbol {
			return fail("internal node %d holds symbol %d", n, nd.symbol)
		}
		c0, c1 := nd.child[0], nd.child[1]
		if c1 == NoNode {
			return fail("internal node %d has only a 0-child", n)
		}
		if t.nodes[c0].parent != n || t.nodes[c1].parent != n {
			return fail("children of node %d do not point back to it", n)
		}
		r0, r1 := t.nodes[c0].rank, t.nodes[c1].rank
		if r1 != r0+1 || (r0-lowRank)%2 != 0 {
			return fail("children of node %d hold ranks %d and %d, not a sibling pair", n, r0, r1)
		}
		if r1 >= nd.rank {
			return fail("node %d at rank %d does not outrank its child at rank %d", n, nd.rank, r1)
		}
		if sum := t.nodes[c0].weight + t.nodes[c1].weight; sum != nd.weight {
			return fail("node %d weighs %d, but its children sum to %d", n, nd.weight, sum)
		}
	}

	if numLeaves != (numNodes+1)/2 {
		return fail("%d leaves in a tree of %d nodes", numLeaves, numNodes)
	}
	if leafWeights != t.nodes[t.root].weight {
		return fail("root weighs %d, but the leaves sum to %d", t.nodes[t.root].weight, leafWeights)
	}
	if t.seen < NumSymbols {
		if t.nyt == NoNode || numZero != 1 {
			return fail("%d symbols seen but no unique NYT node", t.seen)
		}
		if t.nodes[t.nyt].rank != lowRank {
			return fail("NYT node holds rank %d, want the lowest rank %d", t.nodes[t.nyt].rank, lowRank)
		}
	} else if t.nyt != NoNode || numZero != 0 {
		return fail("NYT node present after every symbol was seen")
	}
	if numLeaves-numZero != t.seen {
		return fail("%d symbol leaves, but %d symbols seen", numLeaves-numZero, t.seen)
	}
	for s, n := range t.leaves {
		if n != NoNode && t.nodes[n].symbol != Symbol(s) {
			return fail("symbol %d indexes node %d holding %d", s, n, t.nodes[n].symbol)
		}
	}
	return nil
}

func (t *Tree) get(n Node) *nodeData {
	assert.Assertf(n >= 0 && int(n) < len(t.nodes), "node %d out of range [0, %d)", n, len(t.nodes))
	return &t.nodes[n]
}

func (t *Tree) newNode(parent Node, symbol Symbol, rank int) Node {
	n := Node(len(t.nodes))
	t.nodes = append(t.nodes, nodeData{
		parent: parent,
		child:  [2]Node{NoNode, NoNode},
		symbol: symbol,
		rank:   rank,
	})
	t.order[rank] = n
	return n
}

func (t *Tree) childIndex(n Node) uint {
	p := t.nodes[n].parent
	if t.nodes[p].child[1] == n {
		return 1
	}
	return 0
}
