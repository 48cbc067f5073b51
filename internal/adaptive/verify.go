// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package adaptive

import (
	"fmt"

	"github.com/dsnet/ahuff/internal"
)

// Verify checks the structural invariants of the tree:
//
//   - parent and child references agree, and every node is reachable;
//   - every internal node weighs the sum of its children;
//   - no node outweighs any of its ancestors;
//   - each symbol has at most one leaf, and the symbol index is accurate;
//   - exactly one leaf has weight 0 (the NYT leaf) until all symbols are
//     present, and none afterwards.
//
// It returns nil if the tree is well-formed.
func (t *Tree) Verify() error {
	if t.nodes[t.root].parent != None {
		return verifyError("root %d has parent %d", t.root, t.nodes[t.root].parent)
	}

	var seen [NumSymbols]bool
	var numLeaves, numZeros, numNodes int
	var walk func(n Node, limit int) error
	walk = func(n Node, limit int) error {
		nd := &t.nodes[n]
		numNodes++
		if nd.weight > limit {
			return verifyError("node %d outweighs its ancestor: %d > %d", n, nd.weight, limit)
		}
		if nd.leaf {
			if nd.weight == 0 {
				numZeros++
				if n != t.nyt {
					return verifyError("leaf %d has weight 0 but is not the NYT leaf", n)
				}
				return nil
			}
			if seen[nd.sym] {
				return verifyError("symbol %d has multiple leaves", nd.sym)
			}
			seen[nd.sym] = true
			numLeaves++
			if t.leaves[nd.sym] != n {
				return verifyError("symbol %d indexed at %d, found at %d", nd.sym, t.leaves[nd.sym], n)
			}
			return nil
		}
		for _, c := range []Node{nd.left, nd.right} {
			if c == None || int(c) >= len(t.nodes) {
				return verifyError("node %d has invalid child %d", n, c)
			}
			if t.nodes[c].parent != n {
				return verifyError("child %d of node %d has parent %d", c, n, t.nodes[c].parent)
			}
		}
		if sum := t.nodes[nd.left].weight + t.nodes[nd.right].weight; nd.weight != sum {
			return verifyError("node %d has weight %d, children sum to %d", n, nd.weight, sum)
		}
		if err := walk(nd.left, nd.weight); err != nil {
			return err
		}
		return walk(nd.right, nd.weight)
	}
	if err := walk(t.root, t.nodes[t.root].weight); err != nil {
		return err
	}

	if numNodes != len(t.nodes) {
		return verifyError("%d of %d nodes are reachable", numNodes, len(t.nodes))
	}
	if numLeaves != t.numSyms {
		return verifyError("found %d symbol leaves, want %d", numLeaves, t.numSyms)
	}
	wantZeros := 1
	if t.numSyms == NumSymbols {
		wantZeros = 0
	}
	if numZeros != wantZeros || (wantZeros == 0) != (t.nyt == None) {
		return verifyError("found %d NYT leaves with %d symbols present", numZeros, t.numSyms)
	}
	return nil
}

func verifyError(f string, args ...interface{}) error {
	return internal.Error("invalid tree: " + fmt.Sprintf(f, args...))
}
