package archive

import "errors"

var (
	ErrWrite = errors.New("archive write failed")
)
