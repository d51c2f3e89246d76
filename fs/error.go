// Errors and error handling

package fs

import (
	"errors"
	"net"
	"os"
)

// Globals
var (
	// ErrorDirNotFound is returned when the directory to serve doesn't exist
	ErrorDirNotFound = errors.New("directory not found")
	// ErrorIsFile is returned when a directory was expected but a file was found
	ErrorIsFile = errors.New("is a file not a directory")
	// ErrorListen is returned when a listening socket can't be opened
	ErrorListen = errors.New("failed to listen")
	// ErrorConfig is returned when the configuration can't be loaded
	ErrorConfig = errors.New("bad configuration")
)

// DirError classifies an error from opening the serving root so it
// can be tested with errors.Is against ErrorDirNotFound or ErrorIsFile.
//
// The original error is kept in the chain.
func DirError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrorDirNotFound), errors.Is(err, ErrorIsFile):
		return err
	case errors.Is(err, os.ErrNotExist):
		return errorJoin(ErrorDirNotFound, err)
	case errors.Is(err, os.ErrInvalid):
		return errorJoin(ErrorIsFile, err)
	}
	return err
}

// ListenError classifies an error from binding a listener so it can
// be tested with errors.Is against ErrorListen.
func ListenError(err error) error {
	if err == nil || errors.Is(err, ErrorListen) {
		return err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "listen" {
		return errorJoin(ErrorListen, err)
	}
	return err
}

// classifiedError is an error which has a sentinel kind but prints
// as the underlying error
type classifiedError struct {
	kind error
	err  error
}

func errorJoin(kind, err error) error {
	return classifiedError{kind: kind, err: err}
}

// Error returns the underlying error text
func (e classifiedError) Error() string {
	return e.err.Error()
}

// Unwrap returns both the kind and the underlying error
func (e classifiedError) Unwrap() []error {
	return []error{e.kind, e.err}
}
