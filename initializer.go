package session

import (
	"context"
	"sync"
)

// InitState is the initializer's lifecycle phase.
type InitState string

const (
	// InitIdle means no determination has started for the current epoch.
	InitIdle InitState = "idle"
	// InitPending means the shared determination is in flight.
	InitPending InitState = "pending"
	// InitResolved means the epoch resolved and awaiters return immediately.
	InitResolved InitState = "resolved"
)

// initEpoch is one shared determination. Every caller of EnsureInitialized
// during its lifetime awaits the same done channel; resolve is a pure
// completion signal, idempotent so an out-of-band MarkInitialized cannot
// race the in-flight fetch. The user itself always comes from State, never
// from the epoch, so a login after resolution is visible immediately.
type initEpoch struct {
	done chan struct{}
	once sync.Once
}

func newInitEpoch() *initEpoch {
	return &initEpoch{done: make(chan struct{})}
}

func (e *initEpoch) resolve() {
	e.once.Do(func() {
		close(e.done)
	})
}

func (e *initEpoch) resolved() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Initializer guarantees exactly one in-flight "determine current user"
// operation per epoch, no matter how many call sites request it
// concurrently. It owns its coordination state explicitly; there are no
// package-level promises.
type Initializer struct {
	mu    sync.Mutex
	epoch *initEpoch

	store    *CredentialStore
	state    *State
	endpoint Endpoint
	hooks    *HookRegistry
	logger   Logger
}

// NewInitializer wires the single-flight coordinator.
func NewInitializer(store *CredentialStore, state *State, endpoint Endpoint, hooks *HookRegistry, logger Logger) *Initializer {
	if logger == nil {
		logger = defLogger{}
	}
	return &Initializer{
		store:    store,
		state:    state,
		endpoint: endpoint,
		hooks:    hooks,
		logger:   logger,
	}
}

// State reports the current lifecycle phase.
func (i *Initializer) State() InitState {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.epoch == nil {
		return InitIdle
	}
	if i.epoch.resolved() {
		return InitResolved
	}
	return InitPending
}

// EnsureInitialized returns the current session user, triggering the
// determination exactly once per epoch. Every concurrent and subsequent
// caller awaits the same shared operation; after resolution callers return
// immediately until an explicit re-arm. The result is the live State user,
// not a snapshot frozen at resolve time, so a login or update between calls
// is always observed. Callbacks run with that user after the shared
// operation completes.
//
// Network and endpoint failures never surface here; they log and resolve
// the epoch leaving the session anonymous. The only returned error is
// context cancellation.
func (i *Initializer) EnsureInitialized(ctx context.Context, callbacks ...func(*User)) (*User, error) {
	i.mu.Lock()
	epoch := i.epoch
	first := false
	if epoch == nil {
		epoch = newInitEpoch()
		i.epoch = epoch
		first = true
	}
	i.mu.Unlock()

	if first {
		go i.determine(context.WithoutCancel(ctx), epoch)
	}

	select {
	case <-epoch.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	user := i.currentUser()
	for _, cb := range callbacks {
		if cb != nil {
			cb(user)
		}
	}

	return user, nil
}

// MarkInitialized resolves the shared operation immediately without a
// fetch, for callers that already know the result out-of-band, such as a
// server-rendered page. Awaiters proceed with whatever State holds.
func (i *Initializer) MarkInitialized() {
	i.mu.Lock()
	epoch := i.epoch
	if epoch == nil {
		epoch = newInitEpoch()
		i.epoch = epoch
	}
	i.mu.Unlock()

	epoch.resolve()
}

// Rearm transitions back to idle so the next EnsureInitialized starts a
// fresh determination. An in-flight epoch still resolves for its awaiters;
// new callers get a new one.
func (i *Initializer) Rearm() {
	i.mu.Lock()
	i.epoch = nil
	i.mu.Unlock()
}

// determine performs the credential-backed fetch for one epoch: read the
// stored credential, exchange it with the user endpoint, force logout on a
// TOKEN_ERROR result, populate session state and cache on success, then run
// the requestCurrentUser hooks before any awaiter proceeds.
func (i *Initializer) determine(ctx context.Context, epoch *initEpoch) {
	var user *User

	token := ""
	if i.store != nil {
		token = i.store.Get()
	}

	if token != "" && i.endpoint != nil {
		resp, err := i.endpoint.Request(ctx, map[string]any{"token": token})
		switch {
		case err != nil:
			// recovered locally: resolve empty, never crash awaiters
			i.logger.Error("current user fetch failed: %v", err)
		case resp == nil:
			i.logger.Error("current user fetch returned no response")
		default:
			if resp.Status == "error" && resp.Code == TextCodeTokenError {
				if err := i.state.Logout(ctx); err != nil {
					i.logger.Error("forced logout failed: %v", err)
				}
			}

			user = resp.Data
			if user != nil {
				i.state.SetCurrent(user)
			}
		}
	}

	if i.hooks != nil {
		if err := i.hooks.Run(ctx, HookRequestCurrentUser, HookEvent{User: user}); err != nil {
			i.logger.Error("requestCurrentUser hooks failed: %v", err)
		}
	}

	i.logger.Debug("current user loaded: %v", user)

	epoch.resolve()
}

func (i *Initializer) currentUser() *User {
	if i.state == nil {
		return nil
	}
	return i.state.Current()
}
