// Package loader assembles the admin console's working set. The console needs
// every user and every organization in memory to drive its directory views;
// fetching them is guarded against re-entrant loads and bounded so the view
// can never hang on a dead backend.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"mentorhub/internal/models"

	"go.uber.org/zap"
)

// ErrLoadInProgress is returned when Load is called while a previous load has
// not settled. The caller should keep whatever data it already has.
var ErrLoadInProgress = errors.New("loader: load already in progress")

const (
	defaultFetchTimeout  = 15 * time.Second
	defaultSafetyTimeout = 10 * time.Second
)

// UserSource yields the full user collection.
type UserSource interface {
	ListAll(ctx context.Context) ([]*models.User, error)
}

// OrgSource yields the full organization collection.
type OrgSource interface {
	ListAll(ctx context.Context) ([]*models.Organization, error)
}

// Snapshot is the result of one load. Sources that failed or timed out
// contribute empty slices; Complete is true only when every source succeeded
// before the safety ceiling.
type Snapshot struct {
	Users         []*models.User
	Organizations []*models.Organization
	Complete      bool
	TimedOut      bool
	LoadedAt      time.Time
}

// Options tune the loader's timeouts. Zero values fall back to defaults.
type Options struct {
	FetchTimeout  time.Duration // per-source ceiling
	SafetyTimeout time.Duration // overall ceiling, forces degraded finalization
}

// AdminLoader fetches users and organizations concurrently with a
// single-flight guard. A load in progress causes Load to return
// ErrLoadInProgress; Refresh resets the guard first for intentional
// reload-after-mutation.
type AdminLoader struct {
	users  UserSource
	orgs   OrgSource
	logger *zap.Logger

	fetchTimeout  time.Duration
	safetyTimeout time.Duration

	mu         sync.Mutex
	loading    bool
	generation uint64
	cancel     context.CancelFunc
}

func NewAdminLoader(users UserSource, orgs OrgSource, logger *zap.Logger, opts Options) *AdminLoader {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.SafetyTimeout <= 0 {
		opts.SafetyTimeout = defaultSafetyTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminLoader{
		users:         users,
		orgs:          orgs,
		logger:        logger,
		fetchTimeout:  opts.FetchTimeout,
		safetyTimeout: opts.SafetyTimeout,
	}
}

// loadState is the per-load accumulator. Once finalized, late-settling
// sub-fetches are discarded rather than applied over the finalized snapshot.
type loadState struct {
	mu        sync.Mutex
	snap      Snapshot
	usersOK   bool
	orgsOK    bool
	settled   int
	finalized bool
	done      chan struct{}
}

func newLoadState() *loadState {
	return &loadState{
		snap: Snapshot{
			Users:         []*models.User{},
			Organizations: []*models.Organization{},
		},
		done: make(chan struct{}),
	}
}

// settle applies one sub-fetch result unless the load has been finalized.
func (st *loadState) settle(apply func(snap *Snapshot)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.finalized && apply != nil {
		apply(&st.snap)
	}
	st.settled++
	if st.settled == 2 {
		close(st.done)
	}
}

// finalize freezes the snapshot and returns a copy. Idempotent.
func (st *loadState) finalize(timedOut bool) Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.finalized {
		st.finalized = true
		st.snap.Complete = st.usersOK && st.orgsOK
		st.snap.TimedOut = timedOut
		st.snap.LoadedAt = time.Now()
	}
	return st.snap
}

// Load fetches both collections. A concurrent call while a load is in flight
// returns ErrLoadInProgress without touching the network. Fetch failures are
// contained per source and never propagate: the returned snapshot is always
// usable, possibly with empty collections.
func (l *AdminLoader) Load(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return nil, ErrLoadInProgress
	}
	l.loading = true
	l.generation++
	gen := l.generation
	loadCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	st := newLoadState()

	go func() {
		fetchCtx, fetchCancel := context.WithTimeout(loadCtx, l.fetchTimeout)
		defer fetchCancel()
		users, err := l.users.ListAll(fetchCtx)
		if err != nil {
			l.logger.Warn("user fetch failed, substituting empty collection", zap.Error(err))
			st.settle(nil)
			return
		}
		st.settle(func(snap *Snapshot) {
			snap.Users = users
			st.usersOK = true
		})
	}()

	go func() {
		fetchCtx, fetchCancel := context.WithTimeout(loadCtx, l.fetchTimeout)
		defer fetchCancel()
		orgs, err := l.orgs.ListAll(fetchCtx)
		if err != nil {
			l.logger.Warn("organization fetch failed, substituting empty collection", zap.Error(err))
			st.settle(nil)
			return
		}
		st.settle(func(snap *Snapshot) {
			snap.Organizations = orgs
			st.orgsOK = true
		})
	}()

	timedOut := false
	safety := time.NewTimer(l.safetyTimeout)
	defer safety.Stop()
	select {
	case <-st.done:
	case <-safety.C:
		timedOut = true
		l.logger.Warn("safety timeout reached, finalizing with degraded data",
			zap.Duration("safety_timeout", l.safetyTimeout))
	case <-loadCtx.Done():
	}

	snap := st.finalize(timedOut)

	l.mu.Lock()
	// Only clear the guard if no Refresh superseded this load in the meantime.
	if l.generation == gen {
		l.loading = false
	}
	l.mu.Unlock()

	return &snap, nil
}

// Refresh resets the single-flight guard and loads again. It exists for the
// reload that follows a mutation: the guard prevents accidental concurrent
// loads, not intentional ones.
func (l *AdminLoader) Refresh(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	l.loading = false
	l.generation++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
	return l.Load(ctx)
}

// Loading reports whether a load is currently in flight.
func (l *AdminLoader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Close cancels any in-flight load and resets the guard so a fresh caller can
// load again.
func (l *AdminLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	l.generation++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
