// Package server tracks the live game sessions of a host process and
// coordinates a graceful shutdown across them. Each session runs its own
// simulation; the server only sees who is connected and how they are doing.
package server

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// GameServer is the interface clients use to talk to the session registry.
// It decouples the Client from the concrete Server for testing.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID, score int)
}

// Server is the session registry.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	closing      atomic.Bool
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	Joined   time.Time
	EventsCh chan ClientEvent // Events sent to the client; closed on unregister

	score atomic.Int64
	best  atomic.Int64
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
	Text string
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNotice
)

// Session is a point-in-time view of one connected client.
type Session struct {
	ID       int
	Username string
	Joined   time.Time
	Score    int
	Best     int // Best score reached during this connection
}

// NewServer creates an empty registry.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		logger:       logger,
	}
}

// RegisterClient adds a client and returns its handle. A client joining
// during shutdown is told to leave straight away.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		Joined:   time.Now(),
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	active := len(s.clients)
	s.mu.Unlock()

	if s.closing.Load() {
		handle.EventsCh <- ClientEvent{Type: EventServerShutdown}
	}
	s.logger.Info("client registered", "id", handle.ID, "user", username, "active", active)
	return handle
}

// UnregisterClient removes a client and closes its event channel.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if ok {
		delete(s.clients, clientID)
		close(handle.EventsCh)
	}
	active := len(s.clients)
	s.mu.Unlock()

	if ok {
		s.logger.Info("client unregistered", "id", clientID, "user", handle.Username,
			"best", handle.best.Load(), "active", active)
	}
}

// ReportScore records a client's current score.
func (s *Server) ReportScore(clientID, score int) {
	s.mu.RLock()
	handle, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	handle.score.Store(int64(score))
	for {
		best := handle.best.Load()
		if int64(score) <= best || handle.best.CompareAndSwap(best, int64(score)) {
			return
		}
	}
}

// Broadcast sends a notice to every connected client. Clients with a full
// event queue miss it.
func (s *Server) Broadcast(text string) {
	s.send(ClientEvent{Type: EventNotice, Text: text})
}

func (s *Server) send(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// Active returns the connected sessions ordered by ID.
func (s *Server) Active() []Session {
	s.mu.RLock()
	sessions := make([]Session, 0, len(s.clients))
	for _, h := range s.clients {
		sessions = append(sessions, Session{
			ID:       h.ID,
			Username: h.Username,
			Joined:   h.Joined,
			Score:    int(h.score.Load()),
			Best:     int(h.best.Load()),
		})
	}
	s.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to timeout. It returns how many clients were still connected.
func (s *Server) Shutdown(timeout time.Duration) int {
	s.closing.Store(true)
	s.send(ClientEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		s.mu.RLock()
		remaining := len(s.clients)
		s.mu.RUnlock()
		if remaining == 0 {
			return 0
		}

		select {
		case <-deadline:
			return remaining
		case <-ticker.C:
		}
	}
}
