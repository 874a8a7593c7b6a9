// Package stream owns the single real-time connection to the server's push
// channel. It decodes inbound events into typed pipeline events and recovers
// from transient disconnects with a fixed retry delay and a bounded number of
// consecutive attempts.
package stream

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/metrics"
	"github.com/netsentry/netsentry/internal/models"
)

// Event kinds as named on the wire.
const (
	EventNewAlert     = "new_alert"
	EventAlertUpdated = "alert_updated"
	EventStatsUpdate  = "stats_update"
)

// ErrRetriesExhausted reports that the stream gave up reconnecting. It is a
// connectivity condition, not a fatal pipeline error.
var ErrRetriesExhausted = errors.New("stream: reconnect attempts exhausted")

// Event is one decoded push-channel event. Exactly one of Alert or Stats is
// set depending on Kind.
type Event struct {
	Kind  string
	Alert *models.Alert
	Stats *models.NetworkStats
}

// envelope is the wire shape: {"event": "...", "data": {...}}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Config tunes reconnection behavior.
type Config struct {
	ReconnectDelay    time.Duration
	ReconnectAttempts int
}

// Stream is the websocket client feeding the pipeline. Events are delivered
// on a channel in the exact order received; no reordering or coalescing.
type Stream struct {
	url       string
	dialer    *websocket.Dialer
	delay     time.Duration
	attempts  int
	events    chan Event
	closing   chan struct{}
	closeOnce sync.Once

	mu        sync.RWMutex
	connected bool
}

// New creates a stream for the given websocket endpoint. Zero config fields
// fall back to a 1 s delay and 5 attempts.
func New(url string, cfg Config) *Stream {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	if cfg.ReconnectAttempts <= 0 {
		cfg.ReconnectAttempts = 5
	}
	return &Stream{
		url:      url,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		delay:    cfg.ReconnectDelay,
		attempts: cfg.ReconnectAttempts,
		events:   make(chan Event, 64),
		closing:  make(chan struct{}),
	}
}

// Events returns the channel of decoded events. It is closed when the stream
// stops for good.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Connected reports the current connectivity flag.
func (s *Stream) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Close tears the connection down. Safe to call from any exit path and more
// than once.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.closing)
	})
}

// Run connects and pumps events until Close is called or the reconnect
// budget is spent. It always returns with the connection released and the
// events channel closed.
func (s *Stream) Run() error {
	defer close(s.events)
	defer s.setConnected(false)

	log := logger.WithComponent("stream")
	failures := 0

	for {
		select {
		case <-s.closing:
			return nil
		default:
		}

		conn, resp, err := s.dialer.Dial(s.url, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			s.setConnected(false)
			failures++
			metrics.IncStreamReconnect()
			if failures >= s.attempts {
				log.WithError(err).WithField("attempts", failures).Warn("giving up on push channel")
				return ErrRetriesExhausted
			}
			log.WithError(err).Debug("push channel dial failed, retrying")
			select {
			case <-time.After(s.delay):
				continue
			case <-s.closing:
				return nil
			}
		}

		failures = 0
		s.setConnected(true)
		log.Info("connected to push channel")

		err = s.readLoop(conn)
		conn.Close()
		s.setConnected(false)
		if err == nil {
			// Close was requested.
			return nil
		}
		log.WithError(err).Info("push channel dropped, reconnecting")
	}
}

// readLoop decodes frames until the connection drops or Close is requested.
// Malformed payloads are dropped and logged; they never stop the stream.
func (s *Stream) readLoop(conn *websocket.Conn) error {
	frames := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- data:
			case <-s.closing:
				return
			}
		}
	}()

	for {
		select {
		case <-s.closing:
			return nil
		case err := <-readErr:
			return err
		case data := <-frames:
			ev, ok := s.decode(data)
			if !ok {
				continue
			}
			metrics.IncStreamEvent(ev.Kind)
			select {
			case s.events <- ev:
			case <-s.closing:
				return nil
			}
		}
	}
}

func (s *Stream) decode(data []byte) (Event, bool) {
	log := logger.WithComponent("stream")

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.WithError(err).Warn("dropping malformed push payload")
		metrics.IncStreamDropped()
		return Event{}, false
	}

	switch env.Event {
	case EventNewAlert, EventAlertUpdated:
		var alert models.Alert
		if err := json.Unmarshal(env.Data, &alert); err != nil {
			log.WithError(err).WithField("event", env.Event).Warn("dropping malformed alert payload")
			metrics.IncStreamDropped()
			return Event{}, false
		}
		return Event{Kind: env.Event, Alert: &alert}, true
	case EventStatsUpdate:
		var stats models.NetworkStats
		if err := json.Unmarshal(env.Data, &stats); err != nil {
			log.WithError(err).Warn("dropping malformed stats payload")
			metrics.IncStreamDropped()
			return Event{}, false
		}
		return Event{Kind: env.Event, Stats: &stats}, true
	default:
		log.WithField("event", env.Event).Debug("ignoring unknown push event")
		metrics.IncStreamDropped()
		return Event{}, false
	}
}

func (s *Stream) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
