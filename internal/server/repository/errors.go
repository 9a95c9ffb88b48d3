package repository

import "errors"

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoPortAvailable indicates every port at the station is taken for the
// requested window.
var ErrNoPortAvailable = errors.New("no ports available")

// ErrDuplicate indicates a uniqueness violation (e.g. email already registered).
var ErrDuplicate = errors.New("already exists")
