// Package mimetable maps file names to content types.
//
// A Table is the platform mime table with a set of overrides on top.
// It is built once and never modified so it can be shared between
// request handlers without locking.
package mimetable

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultOverrides are the overrides every Default table carries.
var DefaultOverrides = map[string]string{
	".js": "application/javascript",
}

// Override is a single extension to type mapping which replaces the
// platform default.
type Override struct {
	Ext      string
	MimeType string
}

// Table is an immutable content type table.
type Table struct {
	overrides map[string]string
}

// New makes a Table from the platform defaults and overrides.
//
// Extensions are lower cased and need a leading dot.
func New(overrides map[string]string) (*Table, error) {
	t := &Table{
		overrides: make(map[string]string, len(overrides)),
	}
	for ext, mimeType := range overrides {
		key, err := normaliseExt(ext)
		if err != nil {
			return nil, err
		}
		if _, _, err := mime.ParseMediaType(mimeType); err != nil {
			return nil, fmt.Errorf("invalid mime type %q for %q: %w", mimeType, ext, err)
		}
		t.overrides[key] = mimeType
	}
	return t, nil
}

// Default returns the platform table with DefaultOverrides applied.
func Default() *Table {
	t, err := New(DefaultOverrides)
	if err != nil {
		panic(err)
	}
	return t
}

// With returns a new Table which has the overrides of t with extra
// applied on top. t is unchanged.
func (t *Table) With(extra map[string]string) (*Table, error) {
	merged := make(map[string]string, len(t.overrides)+len(extra))
	for ext, mimeType := range t.overrides {
		merged[ext] = mimeType
	}
	for ext, mimeType := range extra {
		merged[ext] = mimeType
	}
	return New(merged)
}

func normaliseExt(ext string) (string, error) {
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return "", fmt.Errorf("extension %q must start with \".\"", ext)
	}
	if strings.ContainsAny(ext, "/\\") {
		return "", fmt.Errorf("extension %q must not contain a path separator", ext)
	}
	return strings.ToLower(ext), nil
}

// TypeByExtension returns the content type for ext which should
// include the leading dot. It returns "" if the type is unknown.
func (t *Table) TypeByExtension(ext string) string {
	if ext == "" {
		return ""
	}
	if mimeType, ok := t.overrides[strings.ToLower(ext)]; ok {
		return mimeType
	}
	return mime.TypeByExtension(ext)
}

// TypeByName returns the content type for the file name or path.
func (t *Table) TypeByName(name string) string {
	return t.TypeByExtension(path.Ext(name))
}

// Detect returns the content type of name, sniffing the content of
// r if the extension isn't known.
//
// r is rewound to the start before returning.
func (t *Table) Detect(name string, r io.ReadSeeker) (string, error) {
	if mimeType := t.TypeByName(name); mimeType != "" {
		return mimeType, nil
	}
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type of %q: %w", name, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind %q: %w", name, err)
	}
	return mtype.String(), nil
}

// Overrides returns the overrides sorted by extension.
func (t *Table) Overrides() []Override {
	out := make([]Override, 0, len(t.overrides))
	for ext, mimeType := range t.overrides {
		out = append(out, Override{Ext: ext, MimeType: mimeType})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ext < out[j].Ext
	})
	return out
}

// ErrBadOverride is returned by ParseOverride for badly formed input.
var ErrBadOverride = errors.New("mime type override must be in the form .ext=type")

// ParseOverride parses an override in the form ".ext=type".
func ParseOverride(s string) (ext, mimeType string, err error) {
	ext, mimeType, found := strings.Cut(s, "=")
	ext = strings.TrimSpace(ext)
	mimeType = strings.TrimSpace(mimeType)
	if !found || ext == "" || mimeType == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadOverride, s)
	}
	ext, err = normaliseExt(ext)
	if err != nil {
		return "", "", err
	}
	return ext, mimeType, nil
}
