// Package permission manages the platform-owned right to show visual
// notifications. The permission is a tri-state external resource: not yet
// asked, granted, or denied. Denial is a valid terminal state, not an error.
package permission

import (
	"context"
	"sync"

	"github.com/netsentry/netsentry/internal/logger"
)

// State is the current standing of the notification permission.
type State string

const (
	StateDefault State = "default" // not yet asked
	StateGranted State = "granted"
	StateDenied  State = "denied"
)

// Prompter issues the platform permission prompt. The call may suspend for
// an arbitrarily long time while the user decides.
type Prompter interface {
	Prompt(ctx context.Context) (bool, error)
}

// Gate tracks the permission state and serializes prompting: concurrent
// callers awaiting the same in-flight request all observe the same result,
// and the user is never prompted twice.
type Gate struct {
	mu       sync.Mutex
	state    State
	prompter Prompter

	pending chan struct{} // non-nil while a prompt is in flight
	result  bool
}

// NewGate returns a gate in the not-yet-asked state.
func NewGate(p Prompter) *Gate {
	return &Gate{state: StateDefault, prompter: p}
}

// CurrentState returns the tri-state without side effects.
func (g *Gate) CurrentState() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// RequestPermission resolves the permission, prompting the platform at most
// once. Already-decided states return immediately. A prompt failure leaves
// the state undecided and reports not granted.
func (g *Gate) RequestPermission(ctx context.Context) bool {
	g.mu.Lock()

	switch g.state {
	case StateGranted:
		g.mu.Unlock()
		return true
	case StateDenied:
		g.mu.Unlock()
		return false
	}

	if g.pending != nil {
		// Another caller already prompted; wait for its outcome.
		pending := g.pending
		g.mu.Unlock()
		select {
		case <-pending:
		case <-ctx.Done():
			return false
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.state == StateGranted
	}

	pending := make(chan struct{})
	g.pending = pending
	g.mu.Unlock()

	granted, err := g.prompter.Prompt(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		// The platform never answered; stay undecided so a later explicit
		// request may try again.
		logger.WithComponent("permission").WithError(err).Warn("permission prompt failed")
		g.result = false
	} else if granted {
		g.state = StateGranted
		g.result = true
	} else {
		g.state = StateDenied
		g.result = false
	}
	g.pending = nil
	close(pending)

	return g.result
}

// StaticPrompter answers every prompt with a fixed decision. The desktop
// platforms reachable through the visual sink do not gate notifications at
// runtime, so the production gate is constructed with StaticPrompter(true).
type StaticPrompter bool

// Prompt implements Prompter.
func (p StaticPrompter) Prompt(ctx context.Context) (bool, error) {
	return bool(p), nil
}
