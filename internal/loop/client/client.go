// Package client runs one player's session: it reads keys, drives the
// player's own simulation on a fixed timestep, renders every frame and
// persists the high score.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/gridsnake/internal/draw"
	"github.com/tomz197/gridsnake/internal/driver"
	"github.com/tomz197/gridsnake/internal/input"
	"github.com/tomz197/gridsnake/internal/loop/config"
	"github.com/tomz197/gridsnake/internal/loop/server"
	"github.com/tomz197/gridsnake/internal/render"
	"github.com/tomz197/gridsnake/internal/score"
	"github.com/tomz197/gridsnake/internal/sim"
)

// storeTimeout bounds each high-score load or save.
const storeTimeout = 2 * time.Second

// Client handles input, simulation and rendering for a single connection.
type Client struct {
	server      server.GameServer
	handle      *server.ClientHandle
	state       *ClientState
	driver      *driver.Driver
	renderer    *render.Terminal
	store       score.Store
	logger      *log.Logger
	inputStream *input.Stream
	lastInput   time.Time
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Profile      termenv.Profile
	Store        score.Store // nil keeps the high score in memory
	Logger       *log.Logger
	Sim          sim.Options // Zero value uses sim.DefaultOptions
}

// NewClient creates a client registered with gs.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	store := opts.Store
	if store == nil {
		store = &score.MemoryStore{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	username := score.NormalizeProfile(opts.Username)
	if opts.Sim.GridCells <= 0 {
		opts.Sim = sim.DefaultOptions()
	}

	return &Client{
		server:      gs,
		handle:      gs.RegisterClient(username),
		state:       NewClientState(),
		driver:      driver.New(sim.New(opts.Sim), driver.DefaultOptions()),
		renderer:    render.NewTerminal(w, termSizeFunc, opts.Profile),
		store:       store,
		logger:      logger.With("user", username),
		inputStream: input.StartStream(r),
		lastInput:   time.Now(),
	}
}

// Run starts the client loop. It blocks until the player quits, the input
// closes, the player idles out, the server shuts down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	defer c.server.UnregisterClient(c.handle.ID)
	defer c.renderer.Close()

	c.loadHighScore(ctx)

	lastTime := time.Now()
	for c.state.Running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		if ctx.Err() != nil {
			c.state.Running = false
			break
		}

		c.processInput()
		c.processServerEvents()
		c.updateShutdown(delta)
		if !c.state.Running {
			break
		}

		frame := c.driver.Advance(delta)
		c.observe(ctx, frame)

		c.renderer.SetNotice(c.notice())
		if err := c.renderer.Render(frame); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// Simulation exposes the session's game, for tests and hosts.
func (c *Client) Simulation() *sim.Simulation {
	return c.driver.Simulation()
}

func (c *Client) loadHighScore(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	best, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("load high score", "err", err)
		return
	}
	c.driver.Simulation().SetHighScore(best)
}

func (c *Client) saveHighScore(ctx context.Context, n int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if err := c.store.Save(ctx, n); err != nil {
		c.logger.Warn("save high score", "score", n, "err", err)
	}
}

// processInput reads keys and feeds them to the simulation.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
		c.state.message = ""
	} else if idle := time.Since(c.lastInput).Seconds(); idle > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting idle client")
		c.state.Running = false
	} else if idle > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit || in.Closed {
		c.state.Running = false
		return
	}
	if c.state.shuttingDown {
		return
	}

	s := c.driver.Simulation()
	for _, intent := range in.Intents {
		s.Submit(intent)
		if intent == sim.IntentRestart {
			c.driver.Reset()
		}
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				if !c.state.shuttingDown {
					c.state.shuttingDown = true
					c.state.shutdownTimer = config.ShutdownDisplaySeconds
					if s := c.driver.Simulation(); s.State() == sim.StateRunning {
						s.TogglePause()
					}
				}
			case server.EventNotice:
				c.state.message = event.Text
			}
		default:
			return
		}
	}
}

// updateShutdown counts down the shutdown screen.
func (c *Client) updateShutdown(delta time.Duration) {
	if !c.state.shuttingDown {
		return
	}
	c.state.shutdownTimer -= delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// observe reacts to what the frame's ticks did.
func (c *Client) observe(ctx context.Context, frame driver.FrameSnapshot) {
	for _, o := range frame.Outcomes {
		switch o {
		case sim.OutcomeAte:
			c.server.ReportScore(c.handle.ID, frame.Score)
		case sim.OutcomeWallCollision, sim.OutcomeSelfCollision, sim.OutcomeBoardFilled:
			c.logger.Info("game finished", "outcome", o, "score", frame.Score, "ticks", frame.Tick)
		}
	}
	if frame.NewHighScore {
		c.saveHighScore(ctx, frame.HighScore)
	}
}

// notice picks the host message shown over the board, if any.
func (c *Client) notice() (title, detail string) {
	switch {
	case c.state.shuttingDown:
		return "SERVER SHUTTING DOWN", fmt.Sprintf("closing in %.0fs · thanks for playing", max(c.state.shutdownTimer, 0))
	case c.state.isInactive:
		left := config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds()
		return "STILL THERE?", fmt.Sprintf("press any key · disconnecting in %.0fs", max(left, 0))
	case c.state.message != "":
		return "NOTICE", c.state.message
	}
	return "", ""
}
