// Package session coordinates "who is the current user" for a client
// runtime: single-flight initialization of the shared user state, route
// level authorization with deterministic tie-breaking, and the signed
// credential contract that proves identity to a backend.
//
// Initialization:
//   - Initializer guarantees exactly one in-flight "determine current user"
//     operation per epoch. Every caller awaits the same shared operation and
//     observes the same resolved user; logout re-arms it for a fresh
//     determination. MarkInitialized resolves out-of-band when a server
//     render already knows the answer.
//
// Route authorization:
//   - Pipeline awaits the resolved user, merges each matched segment's
//     static RouteAuthRequirement, runs the declared AuthChecks, and picks
//     the deepest opinion: allow, block, or redirect. Checks that error
//     propagate; authorization never fails open.
//
// Credentials:
//   - Codec issues and verifies the stateless HS256 credential carrying
//     role, userId, and email. CredentialStore keeps it in a cross-subdomain
//     cookie and degrades to a warned no-op outside a client runtime.
//
// Lifecycle extension:
//   - HookRegistry dispatches the closed set of lifecycle hooks (onLogout,
//     onUserVerified, requestCurrentUser, processUser, createUser)
//     sequentially in registration order, so later hooks can rely on the
//     side effects of earlier ones. Emitter broadcasts the logout and
//     resetUi notifications to passive listeners.
package session
