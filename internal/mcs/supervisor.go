package mcs

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Dialer opens a fresh, TLS-ready connection to the MTalk endpoint.
type Dialer func(ctx context.Context) (net.Conn, error)

// SupervisorCallbacks extends the stream-level Callbacks with
// reconnect-lifecycle notifications.
type SupervisorCallbacks struct {
	Callbacks
	OnReconnecting func(attempt int, wait time.Duration)
	OnAuthExpired  func(err error)
}

// Supervisor keeps a StreamLoop alive across transient failures, retrying
// with exponential backoff and carrying the session's
// received_persistent_ids forward so the server doesn't need to redeliver
// messages this client already saw.
type Supervisor struct {
	dial     Dialer
	identity Identity
	keys     Keys
	logger   *slog.Logger
	cb       SupervisorCallbacks
	session  *Session
}

// NewSupervisor creates a supervisor. carriedPersistentIDs seeds the
// session's dedup state, e.g. from a previous process's saved credentials.
func NewSupervisor(dial Dialer, identity Identity, keys Keys, logger *slog.Logger, cb SupervisorCallbacks, carriedPersistentIDs []string) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		dial:     dial,
		identity: identity,
		keys:     keys,
		logger:   logger,
		cb:       cb,
		session:  NewSession(carriedPersistentIDs),
	}
}

// Session exposes the live session so callers can persist its
// PersistentIDs() alongside credentials.
func (s *Supervisor) Session() *Session { return s.session }

// newBackOff builds the 1s*2^n part of the min(60s, 1s*2^n + jitter[0,1s))
// policy with no overall deadline; wait adds the jitter and applies the
// 60s cap. The supervisor retries until ctx is canceled, the server rejects
// the login outright, or the server closes the stream.
func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0 // jitter is added in wait
	b.MaxInterval = 60 * time.Second
	b.MaxElapsedTime = 0 // never give up on its own; ctx cancellation stops it
	return b
}

// Run connects and re-connects until ctx is canceled, the server reports
// AuthExpired (via SupervisorCallbacks.OnAuthExpired, after which Run
// returns), the server closes the stream with a Close frame (Run returns
// ErrClosedByServer), or a reconnect attempt is abandoned because ctx was
// canceled mid-backoff.
func (s *Supervisor) Run(ctx context.Context) error {
	bo := backoff.WithContext(newBackOff(), ctx)
	attempt := 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := s.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			attempt++
			if waitErr := s.wait(ctx, bo, attempt); waitErr != nil {
				return waitErr
			}
			continue
		}

		loop := NewStreamLoop(conn, s.session, s.identity, s.keys, s.logger, s.cb.Callbacks)
		runErr := loop.Run(ctx)

		if runErr == nil || errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			return runErr
		}
		if errors.Is(runErr, ErrAuthFailed) {
			if s.cb.OnAuthExpired != nil {
				s.cb.OnAuthExpired(runErr)
			}
			return runErr
		}
		if errors.Is(runErr, ErrClosedByServer) {
			s.logger.Info("mcs connection closed by server, stopping")
			return runErr
		}

		s.logger.Warn("mcs connection failed, reconnecting", "error", runErr)
		bo.Reset()
		attempt++
		if waitErr := s.wait(ctx, bo, attempt); waitErr != nil {
			return waitErr
		}
	}
}

func (s *Supervisor) wait(ctx context.Context, bo backoff.BackOff, attempt int) error {
	d := bo.NextBackOff()
	if d == backoff.Stop {
		return errors.New("mcs: backoff exhausted")
	}
	d += time.Duration(rand.Int63n(int64(time.Second)))
	if d > 60*time.Second {
		d = 60 * time.Second
	}
	if s.cb.OnReconnecting != nil {
		s.cb.OnReconnecting(attempt, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
