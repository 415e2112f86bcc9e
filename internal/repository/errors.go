package repository

import "errors"

// ErrNotFound is wrapped into every lookup error caused by a missing row
var ErrNotFound = errors.New("not found")
