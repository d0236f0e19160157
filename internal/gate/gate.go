// Package gate decides whether a user may see the application. It sequences session restore,
// account activation and subscription status, and keeps re-checking while the user waits.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
)

type State string

const (
	Unauthenticated      State = "unauthenticated"
	Authenticating       State = "authenticating"
	ActivationPending    State = "activation_pending"
	SubscriptionChecking State = "subscription_checking"
	PaymentRequired      State = "payment_required"
	Granted              State = "granted"
	Denied               State = "denied"
)

// Polling reports whether the gate re-checks in the background while in s.
func (s State) Polling() bool {
	switch s {
	case ActivationPending, SubscriptionChecking, PaymentRequired:
		return true
	}

	return false
}

// DefaultInterval is how often a waiting gate re-checks.
const DefaultInterval = 5 * time.Second

type SessionSource interface {
	Session(ctx context.Context) (*auth.Session, error)
}

type ActivationChecker interface {
	Activation(ctx context.Context, userID uuid.UUID) (profile.Activation, error)
}

type SubscriptionChecker interface {
	Active(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

type Option func(*Gate)

func WithInterval(d time.Duration) Option {
	return func(g *Gate) { g.interval = d }
}

// WithTicker replaces the clock driving the poller.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(g *Gate) { g.newTicker = newTicker }
}

type Gate struct {
	sessions     SessionSource
	activation   ActivationChecker
	subscription SubscriptionChecker
	interval     time.Duration
	newTicker    func(time.Duration) Ticker

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	session   *auth.Session
	gen       uint64
	stopPoll  context.CancelFunc
	listeners []func(State)
	closed    bool
}

func New(sessions SessionSource, activation ActivationChecker, subscription SubscriptionChecker, opts ...Option) *Gate {
	ctx, cancel := context.WithCancel(context.Background())

	g := &Gate{
		sessions:     sessions,
		activation:   activation,
		subscription: subscription,
		interval:     DefaultInterval,
		newTicker: func(d time.Duration) Ticker {
			return timeTicker{time.NewTicker(d)}
		},
		ctx:    ctx,
		cancel: cancel,
		state:  Unauthenticated,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Gate) Session() *auth.Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.session
}

// OnChange registers fn to be called after every state change.
func (g *Gate) OnChange(fn func(State)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.listeners = append(g.listeners, fn)
}

// Start restores the session and runs the checks until the gate settles or starts waiting.
func (g *Gate) Start(ctx context.Context) {
	gen, ok := g.transition(g.generation(), Authenticating)
	if !ok {
		return
	}

	s, err := g.sessions.Session(ctx)
	if err != nil && !errors.Is(err, auth.ErrNoSession) {
		slog.Warn("session restore failed", "error", err)
	}

	if err != nil || s == nil {
		g.transition(gen, Unauthenticated)
		return
	}

	g.signIn(ctx, gen, s)
}

// SignOut drops the session and any in-flight or scheduled check.
func (g *Gate) SignOut() {
	g.mu.Lock()

	g.gen++
	g.session = nil
	g.stopPolling()

	changed := g.state != Unauthenticated
	g.state = Unauthenticated
	listeners := slices.Clone(g.listeners)

	g.mu.Unlock()

	if changed {
		notify(listeners, Unauthenticated)
	}
}

// Refresh re-runs the check for the current stage. Coming back from payment goes through
// subscription_checking again.
func (g *Gate) Refresh(ctx context.Context) {
	g.mu.Lock()
	gen, state := g.gen, g.state
	g.mu.Unlock()

	switch state {
	case PaymentRequired, Granted:
		if next, ok := g.transition(gen, SubscriptionChecking); ok {
			g.checkSubscription(ctx, next)
		}
	case SubscriptionChecking:
		g.checkSubscription(ctx, gen)
	case ActivationPending, Denied:
		g.checkActivation(ctx, gen)
	}
}

// Follow applies session events until ctx ends or events is closed. A nil session is a
// sign-out; a session for the signed-in user only refreshes the token.
func (g *Gate) Follow(ctx context.Context, events <-chan *auth.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-events:
			if !ok {
				return
			}

			g.apply(ctx, s)
		}
	}
}

func (g *Gate) apply(ctx context.Context, s *auth.Session) {
	if s == nil {
		g.SignOut()
		return
	}

	g.mu.Lock()
	if g.session != nil && g.session.UserID == s.UserID {
		g.session = s
		g.mu.Unlock()

		return
	}
	g.mu.Unlock()

	g.SignOut()

	gen, ok := g.transition(g.generation(), Authenticating)
	if !ok {
		return
	}

	g.signIn(ctx, gen, s)
}

// Close stops background work. The gate ignores everything afterwards.
func (g *Gate) Close() {
	g.mu.Lock()
	g.gen++
	g.closed = true
	g.stopPolling()
	g.mu.Unlock()

	g.cancel()
}

func (g *Gate) signIn(ctx context.Context, gen uint64, s *auth.Session) {
	g.mu.Lock()
	if gen != g.gen {
		g.mu.Unlock()
		return
	}

	g.session = s
	g.mu.Unlock()

	g.checkActivation(ctx, gen)
}

func (g *Gate) checkActivation(ctx context.Context, gen uint64) {
	userID, ok := g.userID(gen)
	if !ok {
		return
	}

	act, err := g.activation.Activation(ctx, userID)
	if err != nil {
		slog.Warn("activation check failed", "user_id", userID, "error", err)

		act = profile.ActivationPending
	}

	switch act {
	case profile.ActivationDeactivated:
		g.transition(gen, Denied)
	case profile.ActivationActive:
		if next, ok := g.transition(gen, SubscriptionChecking); ok {
			g.checkSubscription(ctx, next)
		}
	default:
		g.transition(gen, ActivationPending)
	}
}

func (g *Gate) checkSubscription(ctx context.Context, gen uint64) {
	userID, ok := g.userID(gen)
	if !ok {
		return
	}

	active, err := g.subscription.Active(ctx, userID)
	if err != nil {
		slog.Warn("subscription check failed", "user_id", userID, "error", err)

		active = false
	}

	if active {
		g.transition(gen, Granted)
		return
	}

	g.transition(gen, PaymentRequired)
}

// transition moves to state to if gen is still current. It returns the generation the new
// state runs under; false means the caller's result is stale and was dropped.
func (g *Gate) transition(gen uint64, to State) (uint64, bool) {
	g.mu.Lock()

	if g.closed || gen != g.gen {
		g.mu.Unlock()
		return 0, false
	}

	if g.state == to {
		g.mu.Unlock()
		return gen, true
	}

	g.gen++
	g.state = to
	g.stopPolling()

	if to.Polling() {
		g.startPolling(g.gen, to)
	}

	next := g.gen
	listeners := slices.Clone(g.listeners)

	g.mu.Unlock()

	slog.Debug("gate transition", "state", to)
	notify(listeners, to)

	return next, true
}

func (g *Gate) generation() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.gen
}

func (g *Gate) userID(gen uint64) (uuid.UUID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.gen || g.session == nil {
		return uuid.Nil, false
	}

	return g.session.UserID, true
}

// startPolling and stopPolling must be called with mu held.
func (g *Gate) startPolling(gen uint64, state State) {
	ctx, cancel := context.WithCancel(g.ctx)
	g.stopPoll = cancel

	go g.poll(ctx, g.newTicker(g.interval), gen, state)
}

func (g *Gate) stopPolling() {
	if g.stopPoll != nil {
		g.stopPoll()
		g.stopPoll = nil
	}
}

func (g *Gate) poll(ctx context.Context, t Ticker, gen uint64, state State) {
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if state == ActivationPending {
				g.checkActivation(g.ctx, gen)
			} else {
				g.checkSubscription(g.ctx, gen)
			}
		}
	}
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}

// Resolve evaluates the gate once for an already authenticated request. Failed checks resolve
// to the waiting state of their stage.
func Resolve(ctx context.Context, userID uuid.UUID, activation ActivationChecker, subscription SubscriptionChecker) State {
	if userID == uuid.Nil {
		return Unauthenticated
	}

	act, err := activation.Activation(ctx, userID)
	if err != nil {
		slog.Warn("activation check failed", "user_id", userID, "error", err)
		return ActivationPending
	}

	switch act {
	case profile.ActivationDeactivated:
		return Denied
	case profile.ActivationPending:
		return ActivationPending
	}

	active, err := subscription.Active(ctx, userID)
	if err != nil {
		slog.Warn("subscription check failed", "user_id", userID, "error", err)
		return PaymentRequired
	}

	if !active {
		return PaymentRequired
	}

	return Granted
}
