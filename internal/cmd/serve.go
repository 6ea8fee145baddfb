package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/internal/server/api/handler"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/session"
)

// Version is reported by the ping route. Set with -ldflags at build time.
var Version = "dev"

type Serve struct {
	ApiServerConfig   api.ServerConfig `embed:"" prefix:"api."`
	link.SerialConfig `embed:""`
	Reconnect         time.Duration `help:"Retry interval for opening the serial port; 0 disables retries" default:"2s" env:"MICROPAD_RECONNECT"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, ws, logger, rawLogger)
}

// StartServer serves the control API until ctx is done.
func (s *Serve) StartServer(ctx context.Context, ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger) error {
	if s.ApiServerConfig.Addr == "" {
		return fmt.Errorf("API server address must be set (default 127.0.0.1:3243)")
	}

	sess, err := ws.Open(logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	apiSrv := api.New(sess, s.ApiServerConfig.Addr, s.ApiServerConfig, logger)
	handler.Register(apiSrv.Router(), sess, Version)
	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return err
	}
	defer apiSrv.Close()

	if s.Port != "" {
		go s.keepAttached(ctx, ws, sess, logger, rawLogger)
	} else {
		logger.Info("no serial port configured, edits are stored locally only")
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// keepAttached opens the serial port and reopens it after the device goes
// away, until ctx is done.
func (s *Serve) keepAttached(ctx context.Context, ws *Workspace, sess *session.Session, logger *slog.Logger, rawLogger log.RawLogger) {
	for {
		if !sess.Connected() {
			if err := ws.Attach(ctx, sess, s.SerialConfig, logger, rawLogger); err != nil {
				logger.Warn("device not available", "port", s.Port, "error", err)
			} else {
				logger.Info("device attached", "port", s.Port)
			}
		}
		if s.Reconnect <= 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Reconnect):
		}
	}
}
