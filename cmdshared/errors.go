package cmdshared

import (
	"errors"
	"io/fs"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/packit/packit/core"
)

// Classify attaches an errbuilder code to err, so the root command can choose an exit code.
// Errors that already carry a code are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) {
		return err
	}
	return errbuilder.New().
		WithCode(codeFor(err)).
		WithMsg(err.Error()).
		WithCause(err)
}

func codeFor(err error) errbuilder.ErrCode {
	var parseErr *core.ParseError
	switch {
	case errors.Is(err, core.ErrInvalidVersionSpecifier), errors.As(err, &parseErr):
		return errbuilder.CodeInvalidArgument
	case errors.Is(err, core.ErrUnknownIdentifier), errors.Is(err, fs.ErrNotExist):
		return errbuilder.CodeNotFound
	case errors.Is(err, core.ErrMissingHash), core.IsSoft(err):
		return errbuilder.CodeFailedPrecondition
	case errors.Is(err, fs.ErrPermission):
		return errbuilder.CodePermissionDenied
	default:
		return errbuilder.CodeInternal
	}
}
