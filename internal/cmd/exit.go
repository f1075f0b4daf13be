package cmd

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/climbe/ri-backend/internal/observability"
)

// codedError carries a process exit code alongside the error chain.
type codedError struct {
	code int
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *codedError) Unwrap() error {
	return e.err
}

// exitError logs the failure and wraps it with a foundry exit code.
func exitError(code int, msg string, err error) error {
	observability.CLILogger.Error(msg, zap.Error(err))
	return &codedError{code: code, msg: msg, err: err}
}

func asCodedError(err error, target **codedError) bool {
	return errors.As(err, target)
}
