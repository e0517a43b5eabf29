package stream

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/challenge-blueprint/internal/logger"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/preferences"
	"github.com/yourusername/challenge-blueprint/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

// Config configures the websocket handler.
type Config struct {
	Simulations   *service.SimulationService
	Preferences   *preferences.Store
	DebounceDelay time.Duration
	DefaultTrials int
	// SubmitRate and SubmitBurst bound simulation requests per connection.
	SubmitRate  float64
	SubmitBurst int
	// AllowedOrigins lists the browser origins that may connect. Empty or
	// "*" allows any origin.
	AllowedOrigins []string
	Logger         *logrus.Logger
}

// Handler upgrades HTTP requests to blueprint websocket connections.
type Handler struct {
	cfg      Config
	upgrader websocket.Upgrader
	logger   *logrus.Entry
}

// NewHandler creates a handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.DefaultTrials == 0 {
		cfg.DefaultTrials = 1000
	}
	return &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		logger: cfg.Logger.WithField("component", "stream"),
	}
}

// originChecker matches the Origin header exactly against allowed. Requests
// without an Origin header are not from a browser and are accepted.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimSpace(o)
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			set[strings.ToLower(o)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// ServeHTTP handles one websocket connection until the client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	c := &conn{ws: ws, handler: h, done: make(chan struct{})}
	if err := c.open(r.Context()); err != nil {
		h.logger.WithError(err).Warn("Failed to open blueprint session")
		c.writeError(0, err)
		_ = ws.Close()
		return
	}
	defer c.close()

	go c.pingLoop()
	c.readLoop()
}

type conn struct {
	ws      *websocket.Conn
	handler *Handler
	session *service.Session
	runner  *service.SimulationRunner
	done    chan struct{}

	writeMu sync.Mutex
}

func (c *conn) open(ctx context.Context) error {
	cfg := c.handler.cfg
	var limiter *rate.Limiter
	if cfg.SubmitRate > 0 {
		burst := cfg.SubmitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.SubmitRate), burst)
	}
	c.runner = service.NewSimulationRunner(cfg.Simulations, limiter, c.deliver, cfg.Logger)

	session, err := service.NewSession(ctx, cfg.Simulations, cfg.Preferences, cfg.DebounceDelay, c.publish, cfg.Logger)
	if err != nil {
		c.runner.Close()
		return err
	}
	c.session = session
	return nil
}

func (c *conn) close() {
	close(c.done)
	c.runner.Close()
	c.session.Close()
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.writeMu.Unlock()
	_ = c.ws.Close()
}

func (c *conn) readLoop() {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.handler.logger.WithError(err).Debug("Websocket closed unexpectedly")
			}
			return
		}
		msg, err := decodeMessage(data)
		if err != nil {
			c.writeError(0, &models.ValidationError{Field: "message", Reason: "must be a JSON object"})
			continue
		}
		c.handle(msg)
	}
}

func (c *conn) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgSimulate:
		if msg.Request == nil {
			c.writeError(0, &models.ValidationError{Field: "request", Reason: "is required"})
			return
		}
		req := msg.Request.resolve(c.handler.cfg.DefaultTrials)
		if err := req.Validate(); err != nil {
			c.writeError(0, err)
			return
		}
		gen, err := c.runner.Submit(req)
		if err != nil {
			c.writeError(0, err)
			return
		}
		c.write(Frame{Type: FrameStarted, Generation: gen})

	case MsgCancel:
		c.runner.Cancel()
		c.write(Frame{Type: FrameCancelled, Generation: c.runner.Generation()})

	case MsgProfile:
		if msg.Profile == nil {
			c.writeError(0, &models.ValidationError{Field: "profile", Reason: "is required"})
			return
		}
		if err := c.session.UpdateProfile(*msg.Profile); err != nil {
			c.writeError(0, err)
		}

	case MsgStyle:
		style, err := models.ParseRiskStyle(msg.Style)
		if err == nil {
			err = c.session.SetRiskStyle(style)
		}
		if err != nil {
			c.writeError(0, err)
		}

	case MsgSubmit:
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		snap, err := c.session.Submit(ctx)
		if err != nil {
			c.writeError(0, err)
			return
		}
		c.write(Frame{Type: FrameSaved, Snapshot: &snap})

	default:
		c.writeError(0, &models.ValidationError{Field: "type", Reason: "unknown message type " + msg.Type})
	}
}

// deliver receives outcomes from the runner. Only current generations arrive here.
func (c *conn) deliver(o service.Outcome) {
	if o.Err != nil {
		c.writeError(o.Generation, o.Err)
		return
	}
	res := o.Result
	c.write(Frame{Type: FrameResult, Generation: o.Generation, Result: &res})
}

// publish receives every new session snapshot.
func (c *conn) publish(s service.Snapshot) {
	c.write(Frame{Type: FrameMetrics, Snapshot: &s})
}

func (c *conn) writeError(gen uint64, err error) {
	body := &ErrorBody{Error: "internal_error", Message: err.Error()}
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Error, body.Field = string(models.StatusInvalidInput), verr.Field
	case errors.Is(err, models.ErrInvalidTrials):
		body.Error, body.Field = string(models.StatusInvalidInput), "trials"
	case errors.Is(err, models.ErrUnreachableTarget):
		body.Error = string(models.StatusUnreachable)
	case errors.Is(err, service.ErrRateLimited):
		body.Error = "rate_limited"
	}
	c.write(Frame{Type: FrameError, Generation: gen, Error: body})
}

func (c *conn) write(f Frame) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(f); err != nil {
		c.handler.logger.WithError(err).Debug("Websocket write failed")
	}
}

func (c *conn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
