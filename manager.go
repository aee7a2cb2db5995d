package session

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Manager is the session coordinator. It owns the credential codec, the
// client store, the record cache, the session state, the single-flight
// initializer, and the route auth pipeline, and exposes the lifecycle
// surface external collaborators hook into.
//
// Configure with the With* methods before first use; they swap the affected
// collaborator in place, so hooks, listeners, cached records, and session
// state registered earlier survive reconfiguration.
type Manager struct {
	cfg     *Config
	logger  Logger
	runtime RuntimeContext
	jar     CookieJar

	endpoint Endpoint
	router   Router

	codec  *Codec
	store  *CredentialStore
	cache  *RecordCache
	hooks  *HookRegistry
	events *Emitter
	state  *State
	init   *Initializer
	routes *RouteTable
	guard  *Pipeline
}

// New returns a Manager for the validated config, wired with a server
// runtime and no endpoint. Use the With* methods to attach collaborators.
func New(cfg *Config) *Manager {
	m := &Manager{
		cfg:     cfg.withDefaults(),
		logger:  defLogger{},
		runtime: ServerRuntime{},
		routes:  NewRouteTable(),
	}

	m.codec = NewCodec([]byte(m.cfg.TokenSecret), m.logger)
	m.cache = NewRecordCache()
	m.hooks = NewHookRegistry(m.logger)
	m.events = NewEmitter()
	m.store = NewCredentialStore(nil, m.runtime, m.cfg, m.logger)
	m.state = NewState(m.store, m.cache, m.hooks, m.events, m.logger)
	m.init = NewInitializer(m.store, m.state, nil, m.hooks, m.logger)
	m.guard = NewPipeline(m.init, nil, m.runtime, m.logger)

	return m
}

// WithLogger sets the logger used by every component. Registered hooks,
// listeners, cached records, and session state are untouched.
func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger != nil {
		m.logger = logger
		m.codec.logger = logger
		m.hooks.logger = logger
		m.store.logger = logger
		m.state.logger = logger
		m.init.logger = logger
		m.guard.logger = logger
	}
	return m
}

// WithRuntime injects the execution context capability.
func (m *Manager) WithRuntime(runtime RuntimeContext) *Manager {
	if runtime != nil {
		m.runtime = runtime
		m.store.runtime = runtime
		m.guard.runtime = runtime
	}
	return m
}

// WithCookieJar attaches the cookie capability backing credential storage.
func (m *Manager) WithCookieJar(jar CookieJar) *Manager {
	m.jar = jar
	m.store.jar = jar
	return m
}

// WithCurrentUserEndpoint attaches the user-fetch collaborator.
func (m *Manager) WithCurrentUserEndpoint(endpoint Endpoint) *Manager {
	m.endpoint = endpoint
	m.init.endpoint = endpoint
	return m
}

// WithRouter attaches the navigation collaborator whose readiness gates
// route auth evaluation.
func (m *Manager) WithRouter(router Router) *Manager {
	m.router = router
	m.guard.router = router
	return m
}

// Codec returns the credential codec.
func (m *Manager) Codec() *Codec {
	return m.codec
}

// Store returns the client credential store.
func (m *Manager) Store() *CredentialStore {
	return m.store
}

// Cache returns the user record cache.
func (m *Manager) Cache() *RecordCache {
	return m.cache
}

// Hooks returns the lifecycle hook registry.
func (m *Manager) Hooks() *HookRegistry {
	return m.hooks
}

// Events returns the broadcast notification bus.
func (m *Manager) Events() *Emitter {
	return m.events
}

// Routes returns the static route auth table.
func (m *Manager) Routes() *RouteTable {
	return m.routes
}

// Initializer returns the single-flight coordinator.
func (m *Manager) Initializer() *Initializer {
	return m.init
}

// Pipeline returns the route auth pipeline.
func (m *Manager) Pipeline() *Pipeline {
	return m.guard
}

// GoogleClientID is public-exposable; the secret never leaves the config.
func (m *Manager) GoogleClientID() string {
	return m.cfg.GoogleClientID
}

// Current returns the active user, or nil when logged out.
func (m *Manager) Current() *User {
	return m.state.Current()
}

// CachedUser returns the last observed snapshot for a user id, for
// optimistic display while a fresh fetch is in flight.
func (m *Manager) CachedUser(userID string) (*User, bool) {
	return m.cache.Get(userID)
}

// SetCurrentUser replaces the active user, optionally persisting a freshly
// issued credential.
func (m *Manager) SetCurrentUser(user *User, credential ...string) {
	m.state.SetCurrent(user, credential...)
}

// UpdateCurrentUser applies a transform to the active user, committing only
// a non-nil result.
func (m *Manager) UpdateCurrentUser(ctx context.Context, transform UpdateFunc) error {
	return m.state.UpdateCurrent(ctx, transform)
}

// Login issues a credential for a freshly authenticated user record and
// installs both. It is a convenience over SetCurrentUser for endpoint
// responses that do not carry their own token.
func (m *Manager) Login(user *User) (string, error) {
	token, err := m.codec.Issue(user)
	if err != nil {
		return "", err
	}

	m.state.SetCurrent(user, token)

	return token, nil
}

// ProcessUser records an updated user snapshot and runs the processUser
// hooks. When the update concerns the active user the session state is
// replaced as well.
func (m *Manager) ProcessUser(ctx context.Context, user *User, params map[string]any) error {
	if user == nil {
		return nil
	}

	if active := m.state.Current(); active != nil && active.UserID == user.UserID {
		m.state.SetCurrent(user)
	} else {
		m.cache.Put(user)
	}

	return m.hooks.Run(ctx, HookProcessUser, HookEvent{User: user, Params: params})
}

// CreateUser records a newly created user snapshot and runs the createUser
// hooks.
func (m *Manager) CreateUser(ctx context.Context, user *User, params map[string]any) error {
	if user == nil {
		return nil
	}

	m.cache.Put(user)

	return m.hooks.Run(ctx, HookCreateUser, HookEvent{User: user, Params: params})
}

// Logout clears the session, notifies listeners, runs the onLogout hooks,
// and re-arms the initializer so the next protected navigation triggers a
// fresh determination.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.state.Logout(ctx)
	m.init.Rearm()
	return err
}

// EnsureInitialized resolves the current user through the shared
// single-flight operation.
func (m *Manager) EnsureInitialized(ctx context.Context, callbacks ...func(*User)) (*User, error) {
	return m.init.EnsureInitialized(ctx, callbacks...)
}

// MarkInitialized resolves the shared operation out-of-band, skipping the
// fetch when the result is already known.
func (m *Manager) MarkInitialized() {
	m.init.MarkInitialized()
}

// PageInitialized waits until both the user resolution and the router are
// ready.
func (m *Manager) PageInitialized(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := m.init.EnsureInitialized(gctx)
		return err
	})

	if m.router != nil {
		g.Go(func() error {
			return m.router.IsReady(gctx)
		})
	}

	return g.Wait()
}

// VerifyRouteAuth evaluates route authorization for a target path using
// the registered route table.
func (m *Manager) VerifyRouteAuth(ctx context.Context, path string) (Verdict, error) {
	return m.guard.Evaluate(ctx, m.routes.Resolve(path))
}

// VerifyUser marks the active user's email as verified and runs the
// onUserVerified hooks with the updated record.
func (m *Manager) VerifyUser(ctx context.Context) error {
	if err := m.state.UpdateCurrent(ctx, func(_ context.Context, current *User) (*User, error) {
		if current == nil {
			return nil, nil
		}
		next := current.Clone()
		next.EmailVerified = true
		return next, nil
	}); err != nil {
		return err
	}

	user := m.state.Current()
	if user == nil || !user.EmailVerified {
		return nil
	}

	return m.hooks.Run(ctx, HookUserVerified, HookEvent{User: user})
}
