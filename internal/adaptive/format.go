// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package adaptive

import (
	"fmt"
	"strings"
)

// String renders the tree in a nested form, for example:
//
//	Node(w=3, Node(w=1, NYT, Leaf('b', w=1)), Leaf('a', w=2))
func (t *Tree) String() string {
	var sb strings.Builder
	t.format(&sb, t.root)
	return sb.String()
}

func (t *Tree) format(sb *strings.Builder, n Node) {
	nd := &t.nodes[n]
	switch {
	case n == t.nyt:
		sb.WriteString("NYT")
	case nd.leaf:
		fmt.Fprintf(sb, "Leaf(%q, w=%d)", nd.sym, nd.weight)
	default:
		fmt.Fprintf(sb, "Node(w=%d, ", nd.weight)
		t.format(sb, nd.left)
		sb.WriteString(", ")
		t.format(sb, nd.right)
		sb.WriteString(")")
	}
}
