// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package fitch

// Reconstruct reconstructs the ancestral states
// of every trait.
// It can be called several times,
// each call starts from the terminal states.
func (t *Tree) Reconstruct() {
	t.init()

	root := t.nodes[t.t.Root()]
	root.downPass(t)
	root.upPass(t)

	for _, n := range t.nodes {
		n.resolve()
	}
	t.resolved = true
	t.countChanges()
}

func (t *Tree) init() {
	t.resolved = false
	for i := range t.changes {
		t.changes[i] = 0
	}

	for id, n := range t.nodes {
		n.visited = false
		if !t.t.IsTerm(id) {
			for i := range n.chars {
				n.chars[i] = Undetermined(0)
			}
			continue
		}

		e, _ := t.lk.Entry(t.t.Taxon(id))
		for i, s := range e.States {
			n.chars[i] = Undetermined(Single(s))
		}
	}
}

// downPass merges the candidate states
// of each descendant into its parent.
func (n *node) downPass(t *Tree) {
	for _, c := range t.t.Children(n.id) {
		nc := t.nodes[c]
		nc.downPass(t)
		n.merge(nc)
	}
}

func (n *node) merge(c *node) {
	if !n.visited {
		copy(n.chars, c.chars)
		n.visited = true
		return
	}

	for i, ch := range c.chars {
		cs := set(ch)
		ps := set(n.chars[i])
		if cs.SubsetOf(ps) || ps.SubsetOf(cs) {
			n.chars[i] = Undetermined(cs & ps)
			continue
		}
		n.chars[i] = Undetermined(cs | ps)
	}
}

// upPass restricts ambiguous internal nodes
// to the states shared with their parents.
func (n *node) upPass(t *Tree) {
	if !t.t.IsRoot(n.id) && !t.t.IsTerm(n.id) {
		p := t.nodes[t.t.Parent(n.id)]
		for i, ch := range n.chars {
			s := set(ch)
			if s.Len() < 2 {
				continue
			}
			if x := s & set(p.chars[i]); x != 0 {
				n.chars[i] = Undetermined(x)
			}
		}
	}

	for _, c := range t.t.Children(n.id) {
		t.nodes[c].upPass(t)
	}
}

func (n *node) resolve() {
	for i, ch := range n.chars {
		n.chars[i] = Resolved(set(ch).Min())
	}
}

func (t *Tree) countChanges() {
	for _, id := range t.t.Preorder() {
		if t.t.IsRoot(id) {
			continue
		}
		p := t.t.Parent(id)
		for i := range t.changes {
			if t.State(id, i) != t.State(p, i) {
				t.changes[i]++
			}
		}
	}
}
