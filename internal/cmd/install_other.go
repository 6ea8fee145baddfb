//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

var errInstallUnsupported = errors.New("service installation is only supported on Linux (systemd)")

func install(logger *slog.Logger, serveArgs []string) error { return errInstallUnsupported }

func uninstall(logger *slog.Logger) error { return errInstallUnsupported }
