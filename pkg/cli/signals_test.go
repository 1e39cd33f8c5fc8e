package cli

import (
	"testing"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx := SetupSignalHandler()
	if ctx == nil {
		t.Fatal("SetupSignalHandler() = nil")
	}

	select {
	case <-ctx.Done():
		t.Error("context cancelled without a signal")
	default:
	}
}
