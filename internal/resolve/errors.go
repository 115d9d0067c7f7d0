package resolve

import (
	"github.com/cockroachdb/errors"
)

// Structural violations reported inside a ConfigurationError.
var (
	ErrMethodsOnly   = errors.New("contract must contain methods only")
	ErrSingleSource  = errors.New("exactly one source type per mapping method")
	ErrSingleTarget  = errors.New("exactly one target type per mapping method")
	ErrConcreteTypes = errors.New("source/target must be concrete types, not contracts")
)

// ConfigurationError reports a malformed contract or method declaration.
type ConfigurationError struct {
	Contract string
	Method   string
	Err      error
}

func (e *ConfigurationError) Error() string {
	subject := e.Contract
	if e.Method != "" {
		subject += "#" + e.Method
	}

	return "configuration error in " + subject + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configError(contract, method string, err error) error {
	return &ConfigurationError{Contract: contract, Method: method, Err: err}
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
