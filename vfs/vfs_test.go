package vfs

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestVFS makes a VFS over a fresh directory tree
//
//	root/
//	  a.txt       "hello"
//	  b/
//	    c.js      "console.log(1);"
//	  empty/
//	  site/
//	    index.htm "<html></html>"
func newTestVFS(t *testing.T) *VFS {
	root := t.TempDir()
	write := func(name, contents string) {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0777))
		require.NoError(t, os.WriteFile(p, []byte(contents), 0666))
	}
	write("a.txt", "hello")
	write("b/c.js", "console.log(1);")
	write("site/index.htm", "<html></html>")
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0777))
	vfs, err := New(root)
	require.NoError(t, err)
	return vfs
}

func TestNew(t *testing.T) {
	vfs := newTestVFS(t)
	assert.True(t, filepath.IsAbs(vfs.Root()))
	assert.Equal(t, vfs.Root(), vfs.String())

	_, err := New(filepath.Join(vfs.Root(), "notfound"))
	assert.ErrorIs(t, err, ENOENT)

	_, err = New(filepath.Join(vfs.Root(), "a.txt"))
	assert.ErrorIs(t, err, EINVAL)
}

func TestClean(t *testing.T) {
	for _, test := range []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"a.txt", "a.txt"},
		{"/b/c.js", "b/c.js"},
		{"b/", "b"},
		{"b/../a.txt", "a.txt"},
		{"../../../etc/passwd", "etc/passwd"},
		{"/./b//c.js", "b/c.js"},
	} {
		assert.Equal(t, test.want, Clean(test.in), test.in)
	}
}

func TestStat(t *testing.T) {
	vfs := newTestVFS(t)

	node, err := vfs.Stat("")
	require.NoError(t, err)
	assert.True(t, node.IsDir())
	assert.False(t, node.IsFile())
	assert.Equal(t, "", node.Path())
	assert.Equal(t, "/", node.Name())
	assert.Equal(t, vfs, node.VFS())

	node, err = vfs.Stat("/b/c.js")
	require.NoError(t, err)
	file, ok := node.(*File)
	require.True(t, ok)
	assert.True(t, file.IsFile())
	assert.False(t, file.IsDir())
	assert.Equal(t, "b/c.js", file.Path())
	assert.Equal(t, "b/c.js", file.String())
	assert.Equal(t, "c.js", file.Name())
	assert.Equal(t, int64(15), file.Size())
	assert.False(t, file.ModTime().IsZero())

	node, err = vfs.Stat("b/")
	require.NoError(t, err)
	assert.True(t, node.IsDir())
	assert.Equal(t, "b", node.Path())

	_, err = vfs.Stat("notfound")
	assert.ErrorIs(t, err, ENOENT)
	_, err = vfs.Stat("a.txt/x")
	assert.ErrorIs(t, err, ENOENT)
	_, err = vfs.Stat("b/c.js/index.html")
	assert.ErrorIs(t, err, ENOENT)
	if runtime.GOOS != "windows" {
		_, err = vfs.Stat(strings.Repeat("a", 300))
		assert.ErrorIs(t, err, ENOENT)
	}

	// Can't climb out of the root
	node, err = vfs.Stat("../../" + filepath.Base(vfs.Root()) + "/a.txt")
	assert.ErrorIs(t, err, ENOENT, "%v", node)
}

func TestFileOpen(t *testing.T) {
	vfs := newTestVFS(t)
	node, err := vfs.Stat("a.txt")
	require.NoError(t, err)
	fd, err := node.(*File).Open()
	require.NoError(t, err)
	defer func() { require.NoError(t, fd.Close()) }()
	data, err := io.ReadAll(fd)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDirReadDirAll(t *testing.T) {
	vfs := newTestVFS(t)
	node, err := vfs.Stat("")
	require.NoError(t, err)
	dir := node.(*Dir)

	items, err := dir.ReadDirAll()
	require.NoError(t, err)
	var names []string
	for _, item := range items {
		names = append(names, item.Path())
	}
	assert.Equal(t, []string{"a.txt", "b", "empty", "site"}, names)
	assert.True(t, items[1].IsDir())
	assert.True(t, items[0].IsFile())

	node, err = dir.Stat("empty")
	require.NoError(t, err)
	items, err = node.(*Dir).ReadDirAll()
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestDirReadDirAllSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	vfs := newTestVFS(t)
	require.NoError(t, os.Symlink(filepath.Join(vfs.Root(), "b"), filepath.Join(vfs.Root(), "link")))
	require.NoError(t, os.Symlink(filepath.Join(vfs.Root(), "dangling"), filepath.Join(vfs.Root(), "zz")))

	node, err := vfs.Stat("")
	require.NoError(t, err)
	items, err := node.(*Dir).ReadDirAll()
	require.NoError(t, err)
	var names []string
	for _, item := range items {
		names = append(names, item.Name())
	}
	assert.Equal(t, []string{"a.txt", "b", "empty", "link", "site"}, names)
	assert.True(t, items[3].IsDir())
}

func TestDirIndex(t *testing.T) {
	vfs := newTestVFS(t)

	node, err := vfs.Stat("site")
	require.NoError(t, err)
	index, ok := node.(*Dir).Index()
	require.True(t, ok)
	assert.Equal(t, "site/index.htm", index.Path())

	require.NoError(t, os.WriteFile(filepath.Join(vfs.Root(), "site", "index.html"), []byte("<p>"), 0666))
	index, ok = node.(*Dir).Index()
	require.True(t, ok)
	assert.Equal(t, "site/index.html", index.Path())

	node, err = vfs.Stat("b")
	require.NoError(t, err)
	_, ok = node.(*Dir).Index()
	assert.False(t, ok)
}
