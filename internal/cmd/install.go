package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Install struct {
	Port string `help:"Serial port the service should attach (e.g. /dev/ttyACM0)" env:"MICROPAD_PORT"`
	Addr string `help:"API listen address for the service" default:"127.0.0.1:3243"`
}

// Run is called by Kong when the install command is executed.
func (i *Install) Run(logger *slog.Logger) error {
	return install(logger, i.serveArgs())
}

func (i *Install) serveArgs() []string {
	args := []string{"serve", "--api.addr=" + i.Addr}
	if i.Port != "" {
		args = append(args, "--port="+i.Port)
	}
	return args
}

type Uninstall struct{}

// Run is called by Kong when the uninstall command is executed.
func (u *Uninstall) Run(logger *slog.Logger) error {
	return uninstall(logger)
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
