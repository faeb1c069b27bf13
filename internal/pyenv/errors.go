package pyenv

import "errors"

var (
	ErrCreate = errors.New("environment creation failed")
)
