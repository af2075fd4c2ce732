package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/tomz197/gridsnake/internal/config"
	"github.com/tomz197/gridsnake/internal/draw"
	"github.com/tomz197/gridsnake/internal/logx"
	"github.com/tomz197/gridsnake/internal/loop/client"
	"github.com/tomz197/gridsnake/internal/loop/server"
	"github.com/tomz197/gridsnake/internal/render"
	"github.com/tomz197/gridsnake/internal/score"
	"github.com/tomz197/gridsnake/internal/sim"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDBPath      = "/app/data/gridsnake.db"
)

// app holds what every SSH session shares.
type app struct {
	server *server.Server
	scores *score.SQLiteStore // nil when the database could not be opened
	logger *log.Logger
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	logger := logx.New("ssh")
	if err := run(logger); err != nil {
		logger.Fatal("server stopped with errors", "err", err)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dbPath := config.GetEnv("SNAKE_DB", defaultDBPath)
	drain := config.GetEnvDuration("SHUTDOWN_DRAIN", 15*time.Second)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "db", dbPath)

	a := &app{server: server.NewServer(logger), logger: logger}
	if db, err := score.OpenSQLite(dbPath); err != nil {
		logger.Warn("high scores disabled", "err", err)
	} else {
		a.scores = db
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// TCP_NODELAY keeps key presses snappy.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting ssh server", "addr", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var result *multierror.Error
	select {
	case <-done:
	case err, ok := <-serveErr:
		if ok {
			result = multierror.Append(result, fmt.Errorf("serve: %w", err))
		}
	}

	logger.Info("shutting down, notifying players", "active", len(a.server.Active()))
	if remaining := a.server.Shutdown(drain); remaining > 0 {
		logger.Warn("players still connected at shutdown", "remaining", remaining)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("ssh shutdown: %w", err))
	}
	if a.scores != nil {
		if err := a.scores.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close scores: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// gameMiddleware runs one game per SSH session.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := a.logger.With("session", uuid.NewString())
		logger.Info("game session started", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		var store score.Store
		if a.scores != nil {
			store = a.scores.Profile(sess.User())
		}
		opts := sim.DefaultOptions()
		opts.Seed = time.Now().UnixNano()

		c := client.NewClient(a.server, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Profile:      render.ProfileFor(pty.Term, sess.Environ()),
			Store:        store,
			Logger:       logger,
			Sim:          opts,
		})
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("game session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
