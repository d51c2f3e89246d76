package serve

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/moonfall/devserve/fs"
)

// DirEntry is a directory entry
type DirEntry struct {
	remote  string
	URL     string
	Leaf    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Crumb is a link in the breadcrumb trail to the directory
type Crumb struct {
	Link string
	Text string
}

// Directory represents a directory
type Directory struct {
	DirRemote    string
	Title        string
	Name         string
	Breadcrumb   []Crumb
	Entries      []DirEntry
	Query        string
	HTMLTemplate *template.Template
	Sort         string
	Order        string
}

// Sort keys and orders accepted by ProcessQueryParams
const (
	sortByName         = "name"
	sortByNameDirFirst = "namedirfirst"
	sortBySize         = "size"
	sortByTime         = "time"

	orderAsc  = "asc"
	orderDesc = "desc"
)

// NewDirectory makes an empty Directory
func NewDirectory(dirRemote string, htmlTemplate *template.Template) *Directory {
	var breadcrumb []Crumb

	// skip trailing slash
	lpath := "/" + dirRemote
	if lpath[len(lpath)-1] == '/' {
		lpath = lpath[:len(lpath)-1]
	}

	parts := strings.Split(lpath, "/")
	for i := range parts {
		txt := parts[i]
		if i == 0 && parts[i] == "" {
			txt = "/"
		}
		lnk := strings.Repeat("../", len(parts)-i-1)
		breadcrumb = append(breadcrumb, Crumb{Link: lnk, Text: txt})
	}

	d := &Directory{
		DirRemote:    dirRemote,
		Title:        fmt.Sprintf("Directory listing of /%s", dirRemote),
		Name:         fmt.Sprintf("/%s", dirRemote),
		HTMLTemplate: htmlTemplate,
		Breadcrumb:   breadcrumb,
		Sort:         sortByNameDirFirst,
		Order:        orderAsc,
	}
	return d
}

// SetQuery sets the query parameters for each URL
func (d *Directory) SetQuery(queryParams url.Values) *Directory {
	d.Query = ""
	if len(queryParams) > 0 {
		d.Query = "?" + queryParams.Encode()
	}
	return d
}

// AddHTMLEntry adds an entry to that directory
func (d *Directory) AddHTMLEntry(remote string, isDir bool, size int64, modTime time.Time) {
	leaf := path.Base(remote)
	if leaf == "." {
		leaf = ""
	}
	urlRemote := leaf
	if isDir {
		leaf += "/"
		urlRemote += "/"
	}
	d.Entries = append(d.Entries, DirEntry{
		remote:  remote,
		URL:     urlPathEscape(urlRemote) + d.Query,
		Leaf:    leaf,
		IsDir:   isDir,
		Size:    size,
		ModTime: modTime,
	})
}

// sortKey is the name used to compare entries
func (e *DirEntry) sortKey() string {
	return strings.ToLower(strings.TrimSuffix(e.Leaf, "/"))
}

// lessNameDirFirst sorts directories before files then by name
func lessNameDirFirst(a, b *DirEntry) bool {
	if a.IsDir != b.IsDir {
		return a.IsDir
	}
	return a.sortKey() < b.sortKey()
}

// ProcessQueryParams sorts the entries by sortParam in orderParam
// order.  Unknown values fall back to sorting by name with
// directories first in ascending order.
func (d *Directory) ProcessQueryParams(sortParam string, orderParam string) *Directory {
	var less func(a, b *DirEntry) bool
	switch sortParam {
	case sortByName:
		less = func(a, b *DirEntry) bool {
			return a.sortKey() < b.sortKey()
		}
	case sortBySize:
		less = func(a, b *DirEntry) bool {
			if a.Size != b.Size {
				return a.Size < b.Size
			}
			return lessNameDirFirst(a, b)
		}
	case sortByTime:
		less = func(a, b *DirEntry) bool {
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.Before(b.ModTime)
			}
			return lessNameDirFirst(a, b)
		}
	default:
		sortParam = sortByNameDirFirst
		less = lessNameDirFirst
	}
	if orderParam != orderDesc {
		orderParam = orderAsc
	}
	d.Sort = sortParam
	d.Order = orderParam

	sort.SliceStable(d.Entries, func(i, j int) bool {
		return less(&d.Entries[i], &d.Entries[j])
	})
	if orderParam == orderDesc {
		for i, j := 0, len(d.Entries)-1; i < j; i, j = i+1, j-1 {
			d.Entries[i], d.Entries[j] = d.Entries[j], d.Entries[i]
		}
	}
	return d
}

// Serve serves a directory
func (d *Directory) Serve(w http.ResponseWriter, r *http.Request) {
	fs.Infof(d.DirRemote, "%s: Serving directory", r.RemoteAddr)

	var buf bytes.Buffer
	err := d.HTMLTemplate.Execute(&buf, d)
	if err != nil {
		Error(r.Context(), d.DirRemote, w, "Failed to render template", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method == "HEAD" {
		w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
		return
	}
	_, err = buf.WriteTo(w)
	if err != nil {
		fs.Debugf(d.DirRemote, "Failed to write directory listing: %v", err)
	}
}
