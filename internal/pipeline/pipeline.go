// Package pipeline is the top-level coordinator of the alert delivery path:
// it consumes push-channel events in order, maintains the bounded alert
// buffer it exclusively owns, and hands each new alert to the notification
// router.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/netsentry/netsentry/internal/buffer"
	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/models"
	"github.com/netsentry/netsentry/internal/notify"
	"github.com/netsentry/netsentry/internal/stream"
)

// EventSource is the push-channel contract the pipeline consumes. Satisfied
// by *stream.Stream.
type EventSource interface {
	Events() <-chan stream.Event
	Connected() bool
	Run() error
	Close()
}

// Pipeline owns the buffer and fans events to the router. All event handling
// runs on one goroutine, so alerts are processed in the exact order the
// stream delivers them.
type Pipeline struct {
	source EventSource
	buffer *buffer.AlertBuffer
	router *notify.Router
	server *ServerClient

	mu      sync.RWMutex
	stats   models.NetworkStats
	threats *models.ThreatData

	cron *cron.Cron
}

// New wires the coordinator. The buffer is created here; nothing else holds
// a long-lived reference to its contents.
func New(source EventSource, router *notify.Router, server *ServerClient) *Pipeline {
	return &Pipeline{
		source: source,
		buffer: buffer.New(buffer.DefaultCapacity),
		router: router,
		server: server,
		cron:   cron.New(),
	}
}

// Run starts the analytics refresh schedule and consumes events until the
// context is cancelled or the source gives up. Teardown closes the push
// channel but deliberately leaves in-flight relay sends running.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := p.cron.AddFunc("@every 30s", func() { p.refreshThreatData(ctx) }); err != nil {
		return fmt.Errorf("schedule threat refresh: %w", err)
	}
	p.cron.Start()
	defer p.cron.Stop()

	// Prime the analytics so the dashboard has data before the first tick.
	go p.refreshThreatData(ctx)

	streamErr := make(chan error, 1)
	go func() { streamErr <- p.source.Run() }()

	for {
		select {
		case <-ctx.Done():
			p.source.Close()
			<-streamErr
			return ctx.Err()
		case err := <-streamErr:
			// The source already logged why; drain nothing further.
			return err
		case ev, ok := <-p.source.Events():
			if !ok {
				return <-streamErr
			}
			p.handle(ev)
		}
	}
}

func (p *Pipeline) handle(ev stream.Event) {
	switch ev.Kind {
	case stream.EventNewAlert:
		p.buffer.InsertNew(*ev.Alert)
		p.router.HandleAlert(*ev.Alert)
	case stream.EventAlertUpdated:
		// Server updates are authoritative and overwrite any pending
		// optimistic status.
		p.buffer.ApplyUpdate(*ev.Alert)
	case stream.EventStatsUpdate:
		p.setStats(*ev.Stats)
	}
}

// BlockIP performs the manual block action: the server call first, then the
// optimistic local status flip. On failure nothing is applied and the error
// is surfaced to the caller.
func (p *Pipeline) BlockIP(ctx context.Context, ip string, alertID int64) error {
	if err := p.server.BlockIP(ctx, ip, alertID); err != nil {
		return err
	}
	p.buffer.MarkBlocked(alertID)
	return nil
}

// Alerts returns a snapshot of the buffered alerts, newest first.
func (p *Pipeline) Alerts() []models.Alert {
	return p.buffer.Snapshot()
}

// Stats returns the latest pushed counter snapshot.
func (p *Pipeline) Stats() models.NetworkStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// ThreatData returns the cached analytics snapshot, nil before the first
// successful refresh.
func (p *Pipeline) ThreatData() *models.ThreatData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.threats
}

// Connected reports push-channel connectivity for the UI indicator.
func (p *Pipeline) Connected() bool {
	return p.source.Connected()
}

func (p *Pipeline) setStats(stats models.NetworkStats) {
	p.mu.Lock()
	p.stats = stats
	p.mu.Unlock()
}

func (p *Pipeline) refreshThreatData(ctx context.Context) {
	data, err := p.server.FetchThreatData(ctx)
	if err != nil {
		logger.WithComponent("pipeline").WithError(err).Debug("threat analytics refresh failed")
		return
	}
	p.mu.Lock()
	p.threats = data
	p.mu.Unlock()
}
