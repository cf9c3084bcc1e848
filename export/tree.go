package export

import "github.com/tsawler/outliner/model"

// Node is one heading with the headings nested under it
type Node struct {
	Entry    model.HeadingEntry
	Children []Node

	// Depth is the nesting depth (0 = top level)
	Depth int
}

// Tree nests a flat outline: each heading becomes a child of the closest
// earlier heading with a shallower level
func Tree(entries []model.HeadingEntry) []Node {
	var roots []Node

	// path holds the indices leading to the current insertion point
	var path []int

	for _, e := range entries {
		for len(path) > 0 && nodeAt(roots, path).Entry.Level >= e.Level {
			path = path[:len(path)-1]
		}

		node := Node{Entry: e, Depth: len(path)}
		if len(path) == 0 {
			roots = append(roots, node)
			path = append(path, len(roots)-1)
			continue
		}

		parent := nodeAt(roots, path)
		parent.Children = append(parent.Children, node)
		path = append(path, len(parent.Children)-1)
	}

	return roots
}

// nodeAt follows path from roots
func nodeAt(roots []Node, path []int) *Node {
	n := &roots[path[0]]
	for _, i := range path[1:] {
		n = &n.Children[i]
	}
	return n
}
