// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package adaptive implements the coding tree of an adaptive Huffman coder.
//
// The tree starts out as a single NYT (not-yet-transmitted) leaf of weight 0.
// Each previously unseen symbol splits the NYT leaf into an internal node whose
// left child is a fresh NYT leaf and whose right child is the new symbol.
// Every occurrence of a symbol then increments the weights on the path from
// its leaf to the root, swapping each node with the leader of its weight
// class beforehand so that heavier nodes migrate toward the root.
//
// An encoder and a decoder that apply the same sequence of operations always
// hold identically shaped trees, which is what allows the archive format to
// omit the frequency table altogether.
//
// The nodes live in an arena and are addressed by stable Node handles, so
// parent references are plain indices rather than pointers.
package adaptive

import "github.com/dsnet/ahuff/internal"

// NumSymbols is the size of the symbol alphabet.
const NumSymbols = 256

// Node is a handle to a node of a Tree. A handle stays valid, and keeps
// referring to the same leaf or internal node, for the lifetime of the tree.
type Node int32

// None is the handle of an absent node.
const None Node = -1

var (
	errNoLeader   = internal.Error("no leader for weight class")
	errSwapRoot   = internal.Error("cannot swap the root")
	errDuplicate  = internal.Error("symbol already present")
	errExhausted  = internal.Error("all symbols already present")
	errNotAParent = internal.Error("node is not a child of its parent")
)

type node struct {
	weight int
	parent Node
	left   Node // None for leaves
	right  Node // None for leaves
	sym    byte
	leaf   bool
}

// Tree is an adaptive Huffman coding tree over byte symbols.
// The zero value is not usable; call Init or use New.
type Tree struct {
	nodes   []node
	root    Node
	nyt     Node             // The NYT leaf, None once every symbol is present
	leaves  [NumSymbols]Node // Leaf of each symbol, None if unseen
	numSyms int
}

// New returns a tree consisting of a single NYT leaf.
func New() *Tree {
	t := new(Tree)
	t.Init()
	return t
}

// Init resets the tree to a single NYT leaf, retaining allocated memory.
func (t *Tree) Init() {
	t.nodes = append(t.nodes[:0], node{parent: None, left: None, right: None, leaf: true})
	t.root, t.nyt, t.numSyms = 0, 0, 0
	for i := range t.leaves {
		t.leaves[i] = None
	}
}

// Root returns the current root of the tree.
func (t *Tree) Root() Node { return t.root }

// Len reports the number of distinct symbols in the tree.
func (t *Tree) Len() int { return t.numSyms }

// Size reports the total number of nodes, including internal nodes and the
// NYT leaf.
func (t *Tree) Size() int { return len(t.nodes) }

// IsLeaf reports whether n is a leaf.
func (t *Tree) IsLeaf(n Node) bool { return t.nodes[n].leaf }

// IsNYT reports whether n is the NYT leaf.
func (t *Tree) IsNYT(n Node) bool { return n == t.nyt }

// Weight returns the weight of n.
func (t *Tree) Weight(n Node) int { return t.nodes[n].weight }

// Symbol returns the symbol held by the leaf n.
func (t *Tree) Symbol(n Node) byte { return t.nodes[n].sym }

// Parent returns the parent of n, or None for the root.
func (t *Tree) Parent(n Node) Node { return t.nodes[n].parent }

// Child returns the left child of the internal node n if bit is 0, and the
// right child otherwise.
func (t *Tree) Child(n Node, bit uint) Node {
	if bit == 0 {
		return t.nodes[n].left
	}
	return t.nodes[n].right
}

// Find returns the leaf holding sym. The NYT leaf never matches.
//
// Since every symbol has at most one leaf, this is the same leaf that a
// depth-first, left-before-right search would find first.
func (t *Tree) Find(sym byte) (Node, bool) {
	n := t.leaves[sym]
	return n, n != None
}

// NYT returns the NYT leaf. It reports false once all symbols are present.
func (t *Tree) NYT() (Node, bool) {
	return t.nyt, t.nyt != None
}

// Code appends the path from the root to n onto dst, using 0 for every
// descent to a left child and 1 for every descent to a right child.
// The root itself has an empty code.
func (t *Tree) Code(n Node, dst []byte) []byte {
	i := len(dst)
	for p := t.nodes[n].parent; p != None; n, p = p, t.nodes[p].parent {
		if t.nodes[p].right == n {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	for l, r := i, len(dst)-1; l < r; l, r = l+1, r-1 {
		dst[l], dst[r] = dst[r], dst[l]
	}
	return dst
}

// Leader returns the first node with the given weight, or None if there is
// no such node.
//
// The search visits the root, then the weights of its right and left
// children, and then recurses fully into the right subtree before the left
// subtree. This order is part of the archive format; the encoder and decoder
// only stay synchronized if both pick the same leader.
func (t *Tree) Leader(weight int) Node {
	return t.leader(t.root, weight)
}

func (t *Tree) leader(n Node, weight int) Node {
	nd := &t.nodes[n]
	if nd.weight == weight {
		return n
	}
	if nd.leaf {
		return None
	}
	if t.nodes[nd.right].weight == weight {
		return nd.right
	}
	if t.nodes[nd.left].weight == weight {
		return nd.left
	}
	if l := t.leader(nd.right, weight); l != None {
		return l
	}
	return t.leader(nd.left, weight)
}

// Insert adds a previously unseen symbol and performs the weight update for
// its first occurrence. It returns the root of the tree afterwards.
//
// The NYT leaf is replaced by an internal node whose left child is the NYT
// leaf and whose right child is the new symbol leaf. The last unseen symbol
// instead takes over the NYT leaf, leaving the tree without one.
func (t *Tree) Insert(sym byte) Node {
	if t.leaves[sym] != None {
		panic(errDuplicate)
	}
	if t.nyt == None {
		panic(errExhausted)
	}

	nyt := t.nyt
	var leaf Node
	if t.numSyms == NumSymbols-1 {
		t.nodes[nyt].sym = sym
		leaf, t.nyt = nyt, None
	} else {
		pp := t.nodes[nyt].parent
		p := t.alloc(node{parent: pp, left: nyt, right: None})
		leaf = t.alloc(node{parent: p, left: None, right: None, leaf: true, sym: sym})
		t.nodes[p].right = leaf
		t.nodes[nyt].parent = p
		if pp == None {
			t.root = p
		} else {
			t.replaceChild(pp, nyt, p)
		}
	}
	t.leaves[sym] = leaf
	t.numSyms++

	t.Increment(leaf)
	return t.root
}

// Increment adds one occurrence to n and propagates the update to the root.
//
// Before each node on the path is incremented, it is swapped with the leader
// of its current weight class unless that leader is the node itself or its
// parent. The propagation then continues with the parent the node has after
// the swap.
func (t *Tree) Increment(n Node) {
	for {
		p := t.nodes[n].parent
		if p == None {
			t.nodes[n].weight++
			break
		}
		l := t.Leader(t.nodes[n].weight)
		if l == None {
			panic(errNoLeader)
		}
		if l != p && l != n {
			t.swap(n, l)
			p = t.nodes[n].parent
		}
		t.nodes[n].weight++
		n = p
	}
	if internal.Debug {
		if err := t.Verify(); err != nil {
			panic(err)
		}
	}
}

func (t *Tree) alloc(nd node) Node {
	t.nodes = append(t.nodes, nd)
	return Node(len(t.nodes) - 1)
}

// swap exchanges the positions of a and b within the tree. Subtrees move
// along with their roots.
func (t *Tree) swap(a, b Node) {
	pa, pb := t.nodes[a].parent, t.nodes[b].parent
	if pa == None || pb == None {
		panic(errSwapRoot)
	}
	if pa == pb {
		nd := &t.nodes[pa]
		nd.left, nd.right = nd.right, nd.left
		return
	}
	t.replaceChild(pa, a, b)
	t.replaceChild(pb, b, a)
	t.nodes[a].parent, t.nodes[b].parent = pb, pa
}

func (t *Tree) replaceChild(p, old, repl Node) {
	switch nd := &t.nodes[p]; old {
	case nd.left:
		nd.left = repl
	case nd.right:
		nd.right = repl
	default:
		panic(errNotAParent)
	}
}
