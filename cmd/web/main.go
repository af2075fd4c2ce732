package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"

	"github.com/tomz197/gridsnake/internal/config"
	"github.com/tomz197/gridsnake/internal/logx"
	"github.com/tomz197/gridsnake/internal/score"
	"github.com/tomz197/gridsnake/internal/web"
)

const (
	defaultHost   = "0.0.0.0"
	defaultPort   = "8080"
	defaultDBPath = "/app/data/gridsnake.db"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	logger := logx.New("web")
	if err := run(logger); err != nil {
		logger.Fatal("web server stopped with errors", "err", err)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	dbPath := config.GetEnv("SNAKE_DB", defaultDBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lb *web.Leaderboard
	db, err := score.OpenSQLite(dbPath)
	if err != nil {
		logger.Warn("leaderboard disabled", "err", err)
	} else {
		lb = web.NewLeaderboard(db, logger)
		go func() {
			if err := lb.Watch(ctx, dbPath); err != nil {
				logger.Warn("leaderboard will not refresh on writes", "err", err)
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr: net.JoinHostPort(host, port),
		Handler: web.NewRouter(web.Options{
			Page:        htmlPage,
			SSHHost:     sshHost,
			Leaderboard: lb,
			Logger:      logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var result *multierror.Error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			result = multierror.Append(result, fmt.Errorf("serve: %w", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("http shutdown: %w", err))
	}
	if db != nil {
		if err := db.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close scores: %w", err))
		}
	}
	return result.ErrorOrNil()
}
