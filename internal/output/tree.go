// Package output renders restore results for the terminal.
package output

import (
	"path"

	"github.com/disiqueira/gotree/v3"
)

// Node prefixes marking how a file fared.
const (
	PrefixRestored = ""
	PrefixFailed   = "[failed] "
	PrefixPlanned  = "[dry-run] "
)

// RestoreTree draws '/'-separated relative paths as a directory tree.
type RestoreTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func NewRestoreTree(rootLabel string) RestoreTree {
	return RestoreTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t RestoreTree) getDir(dirPath string) (dir gotree.Tree) {
	if dirPath == "." || dirPath == "" {
		return t.tree
	}
	dir = t.dirs[dirPath]
	if dir == nil {
		parentDir := t.getDir(path.Dir(dirPath))
		dir = parentDir.Add(path.Base(dirPath))
		t.dirs[dirPath] = dir
	}
	return
}

// InsertPath adds relPath as a leaf labelled with nodePrefix and its base name.
func (t RestoreTree) InsertPath(relPath string, nodePrefix string) {
	dir := t.getDir(path.Dir(relPath))
	dir.Add(nodePrefix + path.Base(relPath))
}

func (t RestoreTree) Render() string {
	return t.tree.Print()
}
