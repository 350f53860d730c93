package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"spinny_backend/internal/config"
	"spinny_backend/internal/lib/logger/sl"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

// Run поднимает HTTP сервер и ждет SIGINT/SIGTERM для плавной остановки
func (s *App) Run() error {
	err := config.Load(".env")
	s.initServiceProvider()

	log := s.ServiceProvider.Logger()
	if err != nil {
		log.Warn("error loading .env file", sl.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpCfg := s.ServiceProvider.HTTPCfg()
	srv := &http.Server{
		Addr:              httpCfg.Address(),
		Handler:           s.ServiceProvider.Router(ctx),
		ReadHeaderTimeout: httpCfg.ReadTimeout(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("address", httpCfg.Address()))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		s.ServiceProvider.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout())
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	s.ServiceProvider.Close()
	if err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
