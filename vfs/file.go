package vfs

import (
	"io"
	"os"
)

// Handle is an open file
type Handle interface {
	io.ReadSeekCloser
	io.ReaderAt
	Stat() (os.FileInfo, error)
}

// Check interfaces
var _ Handle = (*os.File)(nil)

// File represents a file
type File struct {
	entry
}

func newFile(vfs *VFS, relative string, fi os.FileInfo) *File {
	return &File{entry: newEntry(vfs, relative, fi)}
}

// IsFile returns true for File - satisfies Node interface
func (f *File) IsFile() bool {
	return true
}

// IsDir returns false for File - satisfies os.FileInfo interface
func (f *File) IsDir() bool {
	return false
}

// Open the file read only
func (f *File) Open() (Handle, error) {
	fd, err := os.Open(f.vfs.osPath(f.path))
	if err != nil {
		return nil, err
	}
	return fd, nil
}
