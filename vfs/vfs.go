// Package vfs provides a read only view of a directory tree on the
// local disk for serving.
//
// It attempts to behave in a similar way to Go's filing system
// manipulation code in the os package.  The same named function
// should behave in an identical fashion.
//
// Paths are slash separated and relative to the root of the VFS.  The
// root directory may be referred to as "" or "/".  Stat cleans paths
// the same way http.Dir does so ".." can never climb out of the root.
//
// The vfs package returns os Error values (e.g. os.ErrNotExist) to
// signal precisely which error conditions have occurred.
package vfs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/moonfall/devserve/fs"
)

// Node represents either a directory (*Dir) or a file (*File)
type Node interface {
	os.FileInfo
	fmt.Stringer
	IsFile() bool
	Path() string
	VFS() *VFS
}

// Check interfaces
var (
	_ Node = (*File)(nil)
	_ Node = (*Dir)(nil)
)

// Nodes is a slice of Node
type Nodes []Node

// Sort functions
func (ns Nodes) Len() int           { return len(ns) }
func (ns Nodes) Swap(i, j int)      { ns[i], ns[j] = ns[j], ns[i] }
func (ns Nodes) Less(i, j int) bool { return ns[i].Path() < ns[j].Path() }

// VFS represents the top level filing system
type VFS struct {
	root string
}

// New creates a new VFS rooted at the directory root.
func New(root string) (*VFS, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to find absolute path of %q: %w", root, err)
	}
	fi, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%q is not a directory: %w", absRoot, EINVAL)
	}
	return &VFS{root: absRoot}, nil
}

// String returns the root of the VFS
func (vfs *VFS) String() string {
	return vfs.root
}

// Root returns the absolute path of the root on the local disk
func (vfs *VFS) Root() string {
	return vfs.root
}

// Clean returns the canonical form of name relative to the root
// without leading or trailing slashes.
func Clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// osPath returns the local path of the cleaned relative path
func (vfs *VFS) osPath(relative string) string {
	return filepath.Join(vfs.root, filepath.FromSlash(relative))
}

// Stat finds the Node by path starting from the root
//
// It is the equivalent of os.Stat - Node contains the os.FileInfo
// interface.  Symlinks are followed.
func (vfs *VFS) Stat(name string) (node Node, err error) {
	relative := Clean(name)
	if strings.ContainsRune(relative, 0) {
		return nil, EINVAL
	}
	fi, err := os.Stat(vfs.osPath(relative))
	if err != nil {
		if isNotFound(err) {
			return nil, ENOENT
		}
		if os.IsPermission(err) {
			return nil, EPERM
		}
		fs.Debugf(relative, "VFS.Stat error: %v", err)
		return nil, err
	}
	return vfs.newNode(relative, fi), nil
}

// isNotFound reports whether err means there is nothing at the path,
// including a parent which is a file and a name too long to exist.
func isNotFound(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.ENAMETOOLONG)
}

// newNode makes a *File or *Dir from the info
func (vfs *VFS) newNode(relative string, fi os.FileInfo) Node {
	if fi.IsDir() {
		return newDir(vfs, relative, fi)
	}
	return newFile(vfs, relative, fi)
}

// entry is the part of a node common to files and directories
type entry struct {
	vfs     *VFS
	path    string
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	sys     interface{}
}

func newEntry(vfs *VFS, relative string, fi os.FileInfo) entry {
	name := path.Base(relative)
	if relative == "" {
		name = "/"
	}
	return entry{
		vfs:     vfs,
		path:    relative,
		name:    name,
		size:    fi.Size(),
		mode:    fi.Mode(),
		modTime: fi.ModTime(),
		sys:     fi.Sys(),
	}
}

// String converts it to printable
func (e *entry) String() string {
	if e == nil {
		return "<nil *entry>"
	}
	return e.path
}

// Name (base) of the node - satisfies os.FileInfo
func (e *entry) Name() string { return e.name }

// Path of the node relative to the root without leading slash
func (e *entry) Path() string { return e.path }

// Size of the node - satisfies os.FileInfo
func (e *entry) Size() int64 { return e.size }

// Mode bits of the node - satisfies os.FileInfo
func (e *entry) Mode() os.FileMode { return e.mode }

// ModTime of the node - satisfies os.FileInfo
func (e *entry) ModTime() time.Time { return e.modTime }

// Sys returns underlying data source - satisfies os.FileInfo
func (e *entry) Sys() interface{} { return e.sys }

// VFS returns the instance of the VFS
func (e *entry) VFS() *VFS { return e.vfs }
