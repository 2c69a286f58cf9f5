package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	perrors "github.com/odvcencio/panel/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error codes to process exit statuses.
func exitCode(err error) int {
	switch perrors.GetCode(err) {
	case perrors.ErrCodeConfigLoad, perrors.ErrCodeConfigParse, perrors.ErrCodeConfigInvalid:
		return 2
	case perrors.ErrCodeDeviceOpen, perrors.ErrCodeBackendInit:
		return 3
	default:
		return 1
	}
}
