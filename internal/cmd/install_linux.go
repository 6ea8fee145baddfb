//go:build linux

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const serviceName = "micropad.service"

// servicePath is the systemd user unit; the serial device belongs to the
// logged-in user, so no system unit is installed.
func servicePath() string {
	return filepath.Join(xdg.ConfigHome, "systemd", "user", serviceName)
}

func install(logger *slog.Logger, serveArgs []string) error {
	exePath, err := currentExecutable()
	if err != nil {
		return err
	}

	path := servicePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(systemdUnitContent(exePath, serveArgs)), 0o644); err != nil {
		return err
	}

	steps := [][]string{
		{"daemon-reload"},
		{"enable", serviceName},
		{"restart", serviceName},
	}
	for _, args := range steps {
		if err := runSystemctl(args...); err != nil {
			return err
		}
	}

	logger.Info("micropad user service installed", "path", path, "exe", exePath)
	return nil
}

func uninstall(logger *slog.Logger) error {
	var errs []error

	if err := runSystemctl("stop", serviceName); err != nil {
		errs = append(errs, err)
	}
	if err := runSystemctl("disable", serviceName); err != nil {
		errs = append(errs, err)
	}
	path := servicePath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if err := runSystemctl("daemon-reload"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Info("micropad user service removed", "path", path)
	return nil
}

func systemdUnitContent(exePath string, serveArgs []string) string {
	quoted := make([]string, 0, len(serveArgs))
	for _, a := range serveArgs {
		quoted = append(quoted, fmt.Sprintf("%q", a))
	}
	return fmt.Sprintf(`[Unit]
Description=Micropad configurator API

[Service]
Type=simple
ExecStart=%q %s
Restart=on-failure

[Install]
WantedBy=default.target
`, exePath, strings.Join(quoted, " "))
}

func runSystemctl(args ...string) error {
	cmd := exec.Command("systemctl", append([]string{"--user"}, args...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl --user %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
