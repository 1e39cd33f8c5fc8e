package cli

import "fmt"

// Exit codes returned by the csvlint command.
const (
	// ExitOK means the input was read fully and no defects were found.
	ExitOK = 0
	// ExitFatal means the input could not be processed to completion
	// (unreadable file, invalid encoding, bad flags).
	ExitFatal = 1
	// ExitDefects means the input was processed but validation defects
	// were found.
	ExitDefects = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution. It carries
// the process exit code the command should terminate with.
type CommandError struct {
	Command string
	Code    int
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for the error, defaulting to ExitFatal
// when none was set.
func (e *CommandError) ExitCode() int {
	if e.Code == 0 {
		return ExitFatal
	}
	return e.Code
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError with the default fatal exit code.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Code:    ExitFatal,
		Err:     err,
	}
}

// NewCommandErrorWithCode creates a new CommandError with an explicit exit code.
func NewCommandErrorWithCode(command string, code int, err error) *CommandError {
	return &CommandError{
		Command: command,
		Code:    code,
		Err:     err,
	}
}
