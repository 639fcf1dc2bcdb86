package state

import "errors"

var (
	ErrCorruptRecord = errors.New("corrupt state record")
)
