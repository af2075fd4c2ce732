// Package web serves the companion site: a landing page with the SSH
// command, the leaderboard as JSON and rendered game previews.
package web

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/tomz197/gridsnake/internal/score"
)

// MaxLeaderboard is the most entries one request can ask for.
const MaxLeaderboard = 100

// Ranker lists the best high scores.
type Ranker interface {
	Top(ctx context.Context, n int) ([]score.Entry, error)
}

// Leaderboard caches the top entries until the backing database changes.
type Leaderboard struct {
	source Ranker
	logger *log.Logger

	mu         sync.RWMutex
	entries    []score.Entry
	valid      bool
	generation uint64 // Bumped by Invalidate; a refresh only lands if unchanged
}

// NewLeaderboard wraps source with a cache.
func NewLeaderboard(source Ranker, logger *log.Logger) *Leaderboard {
	return &Leaderboard{source: source, logger: logger}
}

// Top returns up to n entries, best first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]score.Entry, error) {
	n = max(min(n, MaxLeaderboard), 0)

	l.mu.RLock()
	entries, valid, gen := l.entries, l.valid, l.generation
	l.mu.RUnlock()

	if !valid {
		fresh, err := l.source.Top(ctx, MaxLeaderboard)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		if l.generation == gen {
			l.entries, l.valid = fresh, true
		}
		l.mu.Unlock()
		entries = fresh
	}
	return entries[:min(n, len(entries))], nil
}

// Invalidate drops the cache so the next Top reads the database. A refresh
// already in flight is not cached.
func (l *Leaderboard) Invalidate() {
	l.mu.Lock()
	l.valid = false
	l.generation++
	l.mu.Unlock()
}

// Watch invalidates the cache whenever the database file at path (or its
// journal and WAL siblings) changes. It blocks until ctx is done.
func (l *Leaderboard) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: SQLite replaces and truncates its side files.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				l.logger.Debug("leaderboard invalidated", "file", event.Name, "op", event.Op)
				l.Invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("watch database", "err", err)
		}
	}
}
