package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/stockrecon/pkg/application/services/session"
	"github.com/vsinha/stockrecon/pkg/infrastructure/events"
	"github.com/vsinha/stockrecon/pkg/interfaces/httpapi"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	ConfigFile string
	Addr       string
	// Ready, when set, receives the bound address once the server is listening
	Ready chan<- string
}

// ServeCommand runs the session API until its context is cancelled
type ServeCommand struct {
	config ServeConfig
}

// NewServeCommand creates a new serve command with the given configuration
func NewServeCommand(config ServeConfig) *ServeCommand {
	return &ServeCommand{config: config}
}

// Execute serves HTTP and shuts down gracefully when ctx is done
func (c *ServeCommand) Execute(ctx context.Context) error {
	rt, err := loadRuntime(c.config.ConfigFile)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	addr := rt.cfg.Server.HTTPAddr
	if c.config.Addr != "" {
		addr = c.config.Addr
	}

	audit := events.NewInMemoryStore(rt.logger)
	auditLog := rt.logger.Named("audit")
	err = audit.Subscribe([]string{events.Wildcard}, events.HandlerFunc(func(e events.Event) error {
		auditLog.Debug(e.Type(), zap.String("session", e.StreamID()), zap.Int("version", e.Version()))
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to subscribe audit log: %w", err)
	}

	registry := session.NewRegistry(session.Options{
		Codes:  &rt.codes,
		Logger: rt.logger,
		Events: audit,
	})

	handler := httpapi.NewRouter(registry, rt.loader, rt.logger, httpapi.Options{
		AllowedOrigins: rt.cfg.CORS.AllowedOrigins,
		MaxBodyBytes:   rt.cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  rt.cfg.Server.ReadTimeout,
		WriteTimeout: rt.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if c.config.Ready != nil {
		c.config.Ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
