// Cross platform errors

package vfs

import "os"

// Errors which have exact counterparts in os
var (
	ENOENT = os.ErrNotExist
	EPERM  = os.ErrPermission
	EINVAL = os.ErrInvalid
)
