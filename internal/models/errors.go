package models

import "errors"

// ErrNotFound is returned by repositories when no row matched the requested id.
var ErrNotFound = errors.New("not found")
