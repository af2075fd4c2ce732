package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/tomz197/gridsnake/internal/render"
)

// Options configures the router.
type Options struct {
	Page        string // Landing page HTML; {{.SSHHost}} is replaced
	SSHHost     string
	Leaderboard *Leaderboard // nil disables the leaderboard endpoint
	Logger      *log.Logger
}

// NewRouter builds the gin engine with all routes.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))

	page := strings.ReplaceAll(opts.Page, "{{.SSHHost}}", opts.SSHHost)
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	})
	router.GET("/api/highscores", HighScoresHandler(opts.Leaderboard))
	router.GET("/preview.png", PreviewHandler())
	return router
}

// HighScoresHandler serves the leaderboard as JSON.
func HighScoresHandler(lb *Leaderboard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if lb == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard unavailable"})
			return
		}
		limit, err := queryInt(c, "limit", 10, 1, MaxLeaderboard)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entries, err := lb.Top(c.Request.Context(), limit)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// PreviewHandler renders an autopiloted game as an isometric PNG.
func PreviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		seed, err := queryInt(c, "seed", 1, 0, 1<<31-1)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ticks, err := queryInt(c, "ticks", 200, 0, MaxPreviewTicks)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		width, err := queryInt(c, "size", 480, MinPreviewWidth, MaxPreviewWidth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		frame := Preview(int64(seed), ticks)
		c.Header("Content-Type", "image/png")
		c.Header("Cache-Control", "public, max-age=3600")
		c.Status(http.StatusOK)
		if err := render.NewPNG(render.PNGOptions{Width: width}).Encode(c.Writer, frame); err != nil {
			c.Error(err)
		}
	}
}

type rangeError struct {
	name     string
	min, max int
}

func (e rangeError) Error() string {
	return e.name + " must be an integer between " + strconv.Itoa(e.min) + " and " + strconv.Itoa(e.max)
}

// queryInt reads an optional integer query parameter within [lo, hi].
func queryInt(c *gin.Context, name string, fallback, lo, hi int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, rangeError{name: name, min: lo, max: hi}
	}
	return n, nil
}

// requestLogger logs each request with the structured logger.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if errs := c.Errors.String(); errs != "" {
			logger.Error("request failed", append(fields, "err", errs)...)
			return
		}
		logger.Info("request", fields...)
	}
}
