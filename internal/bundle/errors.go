package bundle

import "errors"

var (
	ErrCopy = errors.New("source copy failed")
)
