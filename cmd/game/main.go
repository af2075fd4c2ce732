package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomz197/gridsnake/internal/config"
	"github.com/tomz197/gridsnake/internal/logx"
	"github.com/tomz197/gridsnake/internal/loop"
	"github.com/tomz197/gridsnake/internal/loop/client"
	"github.com/tomz197/gridsnake/internal/score"
	"github.com/tomz197/gridsnake/internal/sim"
)

const defaultDBPath = "gridsnake.db"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	// The terminal belongs to the game, so logs go to a file if anywhere.
	logger := logx.NewWithWriter(io.Discard, "game")
	if path := config.GetEnv("SNAKE_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logx.NewWithWriter(f, "game")
	}

	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	opts := sim.DefaultOptions()
	opts.Seed = config.GetEnvInt64("SNAKE_SEED", time.Now().UnixNano())

	username := config.GetEnv("USER", score.DefaultProfile)
	var store score.Store = &score.MemoryStore{}
	db, err := score.OpenSQLite(config.GetEnv("SNAKE_DB", defaultDBPath))
	if err != nil {
		logger.Warn("high scores will not be saved", "err", err)
	} else {
		defer db.Close()
		store = db.Profile(username)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("starting", "user", username, "seed", opts.Seed)
	return loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: username,
		Profile:  termenv.EnvColorProfile(),
		Store:    store,
		Logger:   logger,
		Sim:      opts,
	})
}
