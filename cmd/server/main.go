package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KolpakovK/webrtc-rooms/internal/adapter/driven/gateway/ws"
	handler "github.com/KolpakovK/webrtc-rooms/internal/adapter/driving/http"
	"github.com/KolpakovK/webrtc-rooms/internal/config"
	"github.com/KolpakovK/webrtc-rooms/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	l, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	hub := ws.NewHub(l)
	go hub.Run()

	h := handler.NewHandler(hub, handler.Config{
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.Origins(),
		Conn: ws.Options{
			WriteWait:  cfg.WriteWait,
			PongWait:   cfg.PongWait,
			PingPeriod: cfg.PingPeriod,
			ReadLimit:  int64(cfg.ReadLimit),
			SendBuffer: cfg.SendBuffer,
		},
	}, l)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h.NewRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		l.Info().Str("addr", cfg.Addr).Str("static", cfg.StaticDir).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		l.Info().Msg("Shutting down server...")
	case err := <-errChan:
		hub.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Hijacked websockets are not tracked by Shutdown, so the hub closes them.
	hub.Stop()
	<-hub.Done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}

	l.Info().Msg("Server exited")
	return nil
}
