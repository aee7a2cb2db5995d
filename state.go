package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-print"
)

// UpdateFunc transforms the active user. Returning nil means "no change",
// which is distinct from clearing the session.
type UpdateFunc func(ctx context.Context, current *User) (*User, error)

// State is the single source of truth for the current user. The active slot
// is mutated only through SetCurrent, ClearCurrent, UpdateCurrent, and
// Logout; no other component assigns it directly.
type State struct {
	mu     sync.RWMutex
	active *User

	store  *CredentialStore
	cache  *RecordCache
	hooks  *HookRegistry
	events *Emitter
	logger Logger
}

// NewState wires the session state with its storage, cache, hook, and event
// collaborators.
func NewState(store *CredentialStore, cache *RecordCache, hooks *HookRegistry, events *Emitter, logger Logger) *State {
	if logger == nil {
		logger = defLogger{}
	}
	return &State{
		store:  store,
		cache:  cache,
		hooks:  hooks,
		events: events,
		logger: logger,
	}
}

// Current returns the active user, or nil when logged out.
func (s *State) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetCurrent atomically replaces the active user. A nil user clears the
// session instead. When a credential is given it is persisted; the record is
// always written through to the cache.
func (s *State) SetCurrent(user *User, credential ...string) {
	if user == nil {
		s.ClearCurrent()
		return
	}

	s.logger.Debug("set current user: %s %s", user.Email, print.MaybePrettyJSON(user))

	token := ""
	if len(credential) > 0 {
		token = credential[0]
	}
	if token != "" && s.store != nil {
		s.store.Set(token)
	}

	s.mu.Lock()
	s.active = user
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.Put(user)
	}
}

// ClearCurrent destroys the stored credential and nulls the active user.
// This is the state-clearing half of logout; it fires no notifications.
func (s *State) ClearCurrent() {
	s.logger.Info("deleted current user")

	if s.store != nil {
		s.store.Destroy()
	}

	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

// Logout clears the session, emits the logout and resetUi notifications,
// then awaits every onLogout hook sequentially in registration order.
func (s *State) Logout(ctx context.Context) error {
	s.ClearCurrent()

	if s.events != nil {
		s.events.Emit(EventLogout)
		s.events.Emit(EventResetUI)
	}

	if s.hooks != nil {
		return s.hooks.Run(ctx, HookLogout, HookEvent{})
	}

	return nil
}

// UpdateCurrent applies the transform to the active user and commits the
// result only when the transform yields one. A nil result performs no
// mutation.
func (s *State) UpdateCurrent(ctx context.Context, transform UpdateFunc) error {
	if transform == nil {
		return nil
	}

	next, err := transform(ctx, s.Current())
	if err != nil {
		return err
	}

	if next != nil {
		s.SetCurrent(next)
	}

	return nil
}
