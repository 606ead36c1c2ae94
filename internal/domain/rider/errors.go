package rider

import "errors"

var (
	ErrNotFound   = errors.New("rider not found")
	ErrNoLocation = errors.New("no location recorded for rider")
)
