package minecraft

import "os"

// dirGuard removes a freshly created folder unless Commit is called.
type dirGuard struct {
	path      string
	committed bool
}

func newDirGuard(path string) *dirGuard {
	return &dirGuard{path: path}
}

// Commit keeps the folder.
func (g *dirGuard) Commit() {
	g.committed = true
}

// Release removes the folder if it was not committed. Safe to call more
// than once.
func (g *dirGuard) Release() {
	if g.committed {
		return
	}
	_ = os.RemoveAll(g.path)
	g.committed = true
}
