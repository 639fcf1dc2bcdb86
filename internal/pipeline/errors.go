package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
)

var (
	ErrSelfReference = errors.New("command can't reference itself")
	ErrIncludeCycle  = errors.New("include cycle")
)

// Describes a malformed or incomplete pipeline document.
//
// Section is the top-level key the problem was found in (e.g. "jobs") and
// Item the path below it (e.g. "build.steps[2]"). Every ConfigError is an
// invalid argument in the errdefs sense.
type ConfigError struct {
	Section string // Top-level document section.
	Item    string // Path of the offending item within the section, if any.
	Message string // Human readable description.
	Err     error  // Underlying cause, if any.
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString(": in ")
	b.WriteString(e.Section)
	if e.Item != "" {
		b.WriteString(".")
		b.WriteString(e.Item)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{errdefs.ErrInvalidArgument}
	}
	return []error{errdefs.ErrInvalidArgument, e.Err}
}

func configError(section, item, format string, args ...any) *ConfigError {
	return &ConfigError{
		Section: section,
		Item:    item,
		Message: fmt.Sprintf(format, args...),
	}
}
