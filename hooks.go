package session

import (
	"context"
	"fmt"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// HookName identifies a lifecycle extension point. The set is closed;
// registering anything else is a caller error.
type HookName string

const (
	// HookLogout runs after the session state clears on logout.
	HookLogout HookName = "onLogout"
	// HookUserVerified runs when a user's email is verified.
	HookUserVerified HookName = "onUserVerified"
	// HookRequestCurrentUser runs once the initializer resolves the current
	// user, before any awaiter observes the result.
	HookRequestCurrentUser HookName = "requestCurrentUser"
	// HookProcessUser runs when a user record is processed on update.
	HookProcessUser HookName = "processUser"
	// HookCreateUser runs when a new user record is created.
	HookCreateUser HookName = "createUser"
)

var knownHooks = map[HookName]struct{}{
	HookLogout:             {},
	HookUserVerified:       {},
	HookRequestCurrentUser: {},
	HookProcessUser:        {},
	HookCreateUser:         {},
}

// HookEvent is the payload delivered to hook callbacks. User is nil for
// onLogout and for requestCurrentUser when no user resolved; Params carries
// the manage-user parameters for processUser and createUser.
type HookEvent struct {
	Name   HookName
	User   *User
	Params map[string]any
}

// HookCallback is a lifecycle callback. Later callbacks may depend on the
// side effects of earlier ones, so execution is strictly sequential.
type HookCallback func(ctx context.Context, event HookEvent) error

// HookEntry pairs a callback with the hook it subscribes to. ID labels the
// entry for logs; it defaults to a positional label when empty.
type HookEntry struct {
	Name     HookName
	ID       string
	Callback HookCallback
}

// HookRegistry is an ordered dispatcher over the closed hook set. External
// collaborators subscribe without the coordinator knowing about them.
type HookRegistry struct {
	mu     sync.RWMutex
	hooks  map[HookName][]HookEntry
	logger Logger
}

// NewHookRegistry returns an empty registry.
func NewHookRegistry(logger Logger) *HookRegistry {
	if logger == nil {
		logger = defLogger{}
	}
	return &HookRegistry{
		hooks:  make(map[HookName][]HookEntry),
		logger: logger,
	}
}

// Register appends an entry to its hook's invocation list. Registration
// order is invocation order.
func (r *HookRegistry) Register(entry HookEntry) error {
	if _, ok := knownHooks[entry.Name]; !ok {
		return goerrors.Wrap(ErrUnknownHook, goerrors.CategoryBadInput, fmt.Sprintf("unknown hook name: %q", entry.Name))
	}
	if entry.Callback == nil {
		return goerrors.New("hook callback is required", goerrors.CategoryBadInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = fmt.Sprintf("%s:%d", entry.Name, len(r.hooks[entry.Name]))
	}
	r.hooks[entry.Name] = append(r.hooks[entry.Name], entry)

	return nil
}

// Run awaits every callback registered for the hook, sequentially in
// registration order. The first callback error stops the run and is
// returned to the caller.
func (r *HookRegistry) Run(ctx context.Context, name HookName, event HookEvent) error {
	if _, ok := knownHooks[name]; !ok {
		return goerrors.Wrap(ErrUnknownHook, goerrors.CategoryBadInput, fmt.Sprintf("unknown hook name: %q", name))
	}

	r.mu.RLock()
	entries := make([]HookEntry, len(r.hooks[name]))
	copy(entries, r.hooks[name])
	r.mu.RUnlock()

	event.Name = name

	for _, entry := range entries {
		if err := entry.Callback(ctx, event); err != nil {
			r.logger.Error("hook %s callback %s failed: %v", name, entry.ID, err)
			return err
		}
	}

	return nil
}

// Count reports how many entries are registered for the hook.
func (r *HookRegistry) Count(name HookName) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[name])
}
