// Package serve provides utilities for serving files and directory
// listings over HTTP.
package serve

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/moonfall/devserve/fs"
	"github.com/moonfall/devserve/vfs"
)

// Content is a file which can be served
type Content interface {
	String() string
	Name() string
	ModTime() time.Time
	Open() (vfs.Handle, error)
}

// MimeTyper finds the content type of an object
type MimeTyper interface {
	Detect(name string, in io.ReadSeeker) (string, error)
}

// Allow is the value of the Allow header for files and directories
const Allow = "GET, HEAD"

// CheckMethod answers 405 Method Not Allowed and returns false if the
// request isn't a GET or HEAD.
func CheckMethod(w http.ResponseWriter, r *http.Request) bool {
	switch r.Method {
	case "GET", "HEAD":
		return true
	}
	w.Header().Set("Allow", Allow)
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

// Object serves an object as a file
//
// The Content-Type comes from types if set, otherwise net/http
// guesses it.  Range and conditional requests are handled by
// http.ServeContent.
func Object(w http.ResponseWriter, r *http.Request, o Content, types MimeTyper) {
	if !CheckMethod(w, r) {
		return
	}

	in, err := o.Open()
	if err != nil {
		Error(r.Context(), o, w, "Failed to open file", err)
		return
	}
	defer func() {
		if err := in.Close(); err != nil {
			fs.Debugf(o, "Failed to close file: %v", err)
		}
	}()

	if types != nil {
		mimeType, err := types.Detect(o.Name(), in)
		if err != nil {
			Error(r.Context(), o, w, "Failed to read file", err)
			return
		}
		if mimeType != "" {
			w.Header().Set("Content-Type", mimeType)
		}
	}
	w.Header().Set("Accept-Ranges", "bytes")

	fs.Debugf(o, "%s: serving file", r.RemoteAddr)
	http.ServeContent(w, r, o.Name(), o.ModTime(), in)
}

// Error returns an http.StatusInternalServerError and logs the error
//
// If the client has gone away the error is only logged at DEBUG.
func Error(ctx context.Context, what interface{}, w http.ResponseWriter, text string, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		fs.Debugf(what, "%s: %v (client went away)", text, err)
	} else {
		fs.Errorf(what, "%s: %v", text, err)
	}
	http.Error(w, text+".", http.StatusInternalServerError)
}

// urlPathEscape escapes URL path the in string using URL escaping rules
func urlPathEscape(in string) string {
	var u url.URL
	u.Path = in
	return u.String()
}
