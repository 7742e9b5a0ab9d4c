// File: pkg/combine/tree.go
package combine

import (
	"path"
	"sort"
	"strings"
)

// treeNode is one directory or file in the rendered tree.
type treeNode struct {
	name     string
	isDir    bool
	children map[string]*treeNode
}

func newTreeNode(name string, isDir bool) *treeNode {
	return &treeNode{name: name, isDir: isDir, children: map[string]*treeNode{}}
}

// GenerateTree renders the directory structure of the given records below a
// line naming the root. Only directories that contain included files appear.
func GenerateTree(rootName string, records []FileRecord) string {
	root := newTreeNode(rootName, true)
	for _, rec := range records {
		parts := strings.Split(rec.Task.RelPath, "/")
		node := root
		for i, part := range parts {
			isDir := i < len(parts)-1
			child, ok := node.children[part]
			if !ok {
				child = newTreeNode(part, isDir)
				node.children[part] = child
			}
			node = child
		}
	}

	var tree strings.Builder
	tree.WriteString(path.Base(rootName) + "/\n")
	generateTreeRecursively(&tree, root, "")
	return tree.String()
}

// generateTreeRecursively writes the children of node with the given prefix.
func generateTreeRecursively(out *strings.Builder, node *treeNode, prefix string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		entries = append(entries, child)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		li, lj := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
		if li != lj {
			return li < lj
		}
		return entries[i].name < entries[j].name
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		out.WriteString(prefix + connector + entry.name)
		if entry.isDir {
			out.WriteString("/\n")
			generateTreeRecursively(out, entry, prefix+extension)
			continue
		}
		out.WriteString("\n")
	}
}
