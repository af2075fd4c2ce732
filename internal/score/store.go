// Package score persists high scores. The game reads a player's high score
// once when a session starts and writes it whenever it rises; a failing
// store never affects the running game.
package score

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tomz197/gridsnake/internal/loop/config"
)

// ErrNegativeScore is returned when saving a score below zero.
var ErrNegativeScore = errors.New("score: negative high score")

// DefaultProfile is used for empty profile names.
const DefaultProfile = "anonymous"

// Store is a single persisted high score.
type Store interface {
	Load(ctx context.Context) (int, error)
	// Save records score if it exceeds the stored value.
	Save(ctx context.Context, score int) error
}

// Entry is one leaderboard row.
type Entry struct {
	Profile   string    `json:"profile"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeProfile trims and truncates a profile name.
func NormalizeProfile(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultProfile
	}
	if utf8.RuneCountInString(name) > config.MaxUsernameLength {
		name = string([]rune(name)[:config.MaxUsernameLength])
	}
	return name
}

// MemoryStore keeps the high score in memory. The zero value is ready to use.
type MemoryStore struct {
	mu    sync.Mutex
	score int
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Load(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

func (m *MemoryStore) Save(_ context.Context, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if score > m.score {
		m.score = score
	}
	return nil
}
