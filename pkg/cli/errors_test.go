package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("check.delimiter", "must be a single character")
	if !strings.Contains(err.Error(), "check.delimiter") {
		t.Errorf("ConfigError.Error() = %q, want field name included", err.Error())
	}
	if !strings.Contains(err.Error(), "must be a single character") {
		t.Errorf("ConfigError.Error() = %q, want message included", err.Error())
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("file not found")
	err := NewCommandError("check", cause)

	if !strings.Contains(err.Error(), "check") {
		t.Errorf("CommandError.Error() = %q, want command name included", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.ExitCode() != ExitFatal {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitFatal)
	}
}

func TestCommandErrorExitCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"fatal", ExitFatal, ExitFatal},
		{"defects", ExitDefects, ExitDefects},
		{"unset defaults to fatal", 0, ExitFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &CommandError{Command: "check", Code: tt.code, Err: errors.New("boom")}
			if got := err.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
