package vfs

import (
	"os"
	"path"
	"sort"

	"github.com/moonfall/devserve/fs"
)

// IndexNames are the files served in place of a directory listing,
// in order of preference.
var IndexNames = []string{"index.html", "index.htm"}

// Dir represents a directory entry
type Dir struct {
	entry
}

func newDir(vfs *VFS, relative string, fi os.FileInfo) *Dir {
	return &Dir{entry: newEntry(vfs, relative, fi)}
}

// IsFile returns false for Dir - satisfies Node interface
func (d *Dir) IsFile() bool {
	return false
}

// IsDir returns true for Dir - satisfies os.FileInfo interface
func (d *Dir) IsDir() bool {
	return true
}

// Stat looks up a specific entry in the receiver.
//
// Stat should return a Node corresponding to the entry.  If the
// name does not exist in the directory, Stat should return ENOENT.
func (d *Dir) Stat(name string) (node Node, err error) {
	return d.vfs.Stat(path.Join(d.path, name))
}

// ReadDirAll reads the contents of the directory sorted by name
//
// Symlinks are followed. Entries which can't be read are logged and
// left out.
func (d *Dir) ReadDirAll() (items Nodes, err error) {
	entries, err := os.ReadDir(d.vfs.osPath(d.path))
	if err != nil {
		fs.Debugf(d, "Dir.ReadDirAll error: %v", err)
		return nil, err
	}
	items = make(Nodes, 0, len(entries))
	for _, de := range entries {
		relative := path.Join(d.path, de.Name())
		var fi os.FileInfo
		if de.Type()&os.ModeSymlink != 0 {
			fi, err = os.Stat(d.vfs.osPath(relative))
		} else {
			fi, err = de.Info()
		}
		if err != nil {
			fs.Debugf(relative, "Dir.ReadDirAll: ignoring entry: %v", err)
			continue
		}
		items = append(items, d.vfs.newNode(relative, fi))
	}
	sort.Sort(items)
	return items, nil
}

// Index returns the index file of the directory if there is one.
func (d *Dir) Index() (*File, bool) {
	for _, name := range IndexNames {
		node, err := d.Stat(name)
		if err != nil {
			continue
		}
		if file, ok := node.(*File); ok {
			return file, true
		}
	}
	return nil, false
}
