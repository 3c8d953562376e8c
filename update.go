package huff

import (
	"github.com/chronos-tachyon/assert"
)

// Update records one more occurrence of symbol and restores the sibling
// property.  Encoder and Decoder both call it after each symbol, which keeps
// their independently built trees identical.
//
// The first time a symbol appears, the NYT node splits into an internal node
// whose 0-child is a new NYT node and whose 1-child is a new leaf for the
// symbol.  When the symbol is the last one not yet seen, the NYT node becomes
// that symbol's leaf instead, and no NYT node remains.
//
// Then, from the symbol's leaf up to the root, each node is first exchanged
// with the highest-ranked node of equal weight outside its own ancestry and
// only then incremented.
//
func (t *Tree) Update(symbol Symbol) {
	assert.Assertf(symbol.Valid(), "symbol %d out of range [0, %d]", symbol, MaxSymbol)

	q, found := t.FindLeaf(symbol)
	if !found {
		q = t.split(symbol)
	}

	for q != NoNode {
		if leader := t.blockLeader(q); leader != q {
			t.exchange(q, leader)
		}
		t.nodes[q].weight++
		q = t.nodes[q].parent
	}

	if t.verifyEachUpdate {
		err := t.Verify()
		assert.Assertf(err == nil, "after update with symbol %d: %v", symbol, err)
	}
}

// split turns the NYT node into the parent of a new NYT node and a new leaf
// for symbol, and returns the new leaf.
func (t *Tree) split(symbol Symbol) Node {
	nyt := t.nyt
	assert.Assertf(nyt != NoNode, "symbol %d is new, but the alphabet is exhausted", symbol)

	t.seen++
	if t.seen == NumSymbols {
		t.nodes[nyt].symbol = symbol
		t.leaves[symbol] = nyt
		t.nyt = NoNode
		log.Debugf("alphabet exhausted with symbol %d", symbol)
		return nyt
	}

	rank := t.nodes[nyt].rank
	zero := t.newNode(nyt, InvalidSymbol, rank-2)
	leaf := t.newNode(nyt, symbol, rank-1)
	t.nodes[nyt].child = [2]Node{zero, leaf}
	t.leaves[symbol] = leaf
	t.nyt = zero
	return leaf
}

// blockLeader returns the highest-ranked node weighing the same as q that is
// not an ancestor of q, or q itself if no such node outranks it.
//
// Ranks above q are in weight order at this point: the only node out of order
// is the child of q that was just incremented, and it ranks below q.
//
func (t *Tree) blockLeader(q Node) Node {
	weight := t.nodes[q].weight
	leader := q
	for rank := t.nodes[q].rank + 1; rank <= maxRank; rank++ {
		n := t.order[rank]
		if t.nodes[n].weight != weight {
			break
		}
		if !t.isEqualWeightAncestor(n, q) {
			leader = n
		}
	}
	return leader
}

// isEqualWeightAncestor returns true iff n is an ancestor of q with q's
// weight.  Weights never decrease going up, so only the unbroken run of
// equal-weight parents directly above q needs checking.
func (t *Tree) isEqualWeightAncestor(n Node, q Node) bool {
	weight := t.nodes[q].weight
	for p := t.nodes[q].parent; p != NoNode && t.nodes[p].weight == weight; p = t.nodes[p].parent {
		if p == n {
			return true
		}
	}
	return false
}

// exchange swaps the positions of a and b, carrying their subtrees along.
// Ranks belong to positions, so a and b also trade ranks.
func (t *Tree) exchange(a Node, b Node) {
	na, nb := &t.nodes[a], &t.nodes[b]
	assert.Assertf(na.parent != NoNode && nb.parent != NoNode, "cannot exchange the root")

	ia, ib := t.childIndex(a), t.childIndex(b)
	pa, pb := na.parent, nb.parent
	t.nodes[pa].child[ia] = b
	t.nodes[pb].child[ib] = a
	na.parent, nb.parent = pb, pa

	na.rank, nb.rank = nb.rank, na.rank
	t.order[na.rank] = a
	t.order[nb.rank] = b
}
