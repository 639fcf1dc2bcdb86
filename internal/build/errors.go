package build

import "errors"

var (
	ErrBuild = errors.New("build failed")
	ErrStep  = errors.New("step failed")
	ErrCopy  = errors.New("copy failed")
)
