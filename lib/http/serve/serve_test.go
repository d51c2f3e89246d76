package serve

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moonfall/devserve/lib/mimetable"
	"github.com/moonfall/devserve/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Check interface
var _ Content = (*vfs.File)(nil)

// newObject makes a file with contents and modTime and returns it
func newObject(t *testing.T, name string, contents string, modTime time.Time) *vfs.File {
	root := t.TempDir()
	p := filepath.Join(root, name)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0666))
	if !modTime.IsZero() {
		require.NoError(t, os.Chtimes(p, modTime, modTime))
	}
	v, err := vfs.New(root)
	require.NoError(t, err)
	node, err := v.Stat(name)
	require.NoError(t, err)
	return node.(*vfs.File)
}

func TestObjectBadMethod(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("BADMETHOD", "http://example.com/aFile", nil)
	o := newObject(t, "aFile", "hello", time.Time{})
	Object(w, r, o, nil)
	resp := w.Result()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, HEAD", resp.Header.Get("Allow"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Method Not Allowed\n", string(body))
}

func TestObjectHEAD(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("HEAD", "http://example.com/aFile", nil)
	o := newObject(t, "aFile", "hello", time.Date(2023, 9, 20, 12, 11, 15, 0, time.FixedZone("", 4*60*60))) // UTC+4
	Object(w, r, o, nil)
	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Content-Length"))
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "Wed, 20 Sep 2023 08:11:15 GMT", resp.Header.Get("Last-Modified"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "", string(body))
}

func TestObjectGET(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/aFile", nil)
	o := newObject(t, "aFile", "hello", time.Date(2023, 9, 20, 12, 11, 15, 0, time.FixedZone("", 2*60*60))) // UTC+2
	Object(w, r, o, nil)
	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Content-Length"))
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "Wed, 20 Sep 2023 10:11:15 GMT", resp.Header.Get("Last-Modified"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hello", string(body))
}

func TestObjectContentType(t *testing.T) {
	table := mimetable.Default()
	for _, test := range []struct {
		name     string
		contents string
		want     string
	}{
		{"app.js", "console.log(1);", "application/javascript"},
		{"APP.JS", "console.log(1);", "application/javascript"},
		{"image", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", "image/png"},
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/"+test.name, nil)
		o := newObject(t, test.name, test.contents, time.Time{})
		Object(w, r, o, table)
		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode, test.name)
		assert.Equal(t, test.want, resp.Header.Get("Content-Type"), test.name)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, test.contents, string(body), test.name)
	}
}

type errTyper struct{}

func (errTyper) Detect(string, io.ReadSeeker) (string, error) {
	return "", errors.New("sniff failed")
}

func TestObjectDetectError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/aFile", nil)
	o := newObject(t, "aFile", "hello", time.Time{})
	Object(w, r, o, errTyper{})
	resp := w.Result()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Failed to read file.\n", string(body))
}

func TestObjectOpenError(t *testing.T) {
	o := newObject(t, "aFile", "hello", time.Time{})
	require.NoError(t, os.Remove(filepath.Join(o.VFS().Root(), "aFile")))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/aFile", nil)
	Object(w, r, o, nil)
	resp := w.Result()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Failed to open file.\n", string(body))
}

func TestObjectRange(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/aFile", nil)
	r.Header.Add("Range", "bytes=3-5")
	o := newObject(t, "aFile", "0123456789", time.Time{})
	Object(w, r, o, nil)
	resp := w.Result()
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "3", resp.Header.Get("Content-Length"))
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "bytes 3-5/10", resp.Header.Get("Content-Range"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "345", string(body))
}

func TestObjectBadRange(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "http://example.com/aFile", nil)
	r.Header.Add("Range", "bytes=20-30")
	o := newObject(t, "aFile", "0123456789", time.Time{})
	Object(w, r, o, nil)
	resp := w.Result()
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode)
	assert.Equal(t, "bytes */10", resp.Header.Get("Content-Range"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "invalid range"), string(body))
}
