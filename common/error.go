package common

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidOption     = errors.New("invalid option")
	ErrUnknownOption     = errors.New("unknown option")
	ErrFragmentNotFound  = errors.New("projection fragment not found")
	ErrDuplicateFragment = errors.New("duplicate projection fragment")
	ErrProjectionDrift   = errors.New("summary projection is not a subset of full projection")
	ErrParamMismatch     = errors.New("query placeholders and parameters differ")
	ErrInvalidFieldPath  = errors.New("invalid field path")
	ErrQueryNotFound     = errors.New("named query not found")
	ErrRunNotFound       = errors.New("export run not found")
)

// OptionError names the caller option that was rejected.
type OptionError struct {
	Option string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}

func (e *OptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

func InvalidOption(option string, format string, args ...any) error {
	return errors.WithStack(&OptionError{
		Option: option,
		Reason: fmt.Sprintf(format, args...),
	})
}

func UnknownOption(option string) error {
	return errors.Wrapf(ErrUnknownOption, "%s", option)
}
