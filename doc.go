// Package authclient manages the client-side authentication session for a
// scheduling API: it restores a persisted credential at startup, drives the
// login/logout lifecycle, and exposes the current bearer token to every
// outgoing request.
//
// Session lifecycle:
//   - A Controller owns exactly one Session, created Idle. Bootstrap moves it
//     through Loading into Authenticated or Unauthenticated; Login, Logout,
//     CheckExpiry, and Refresh drive it from there. The transition graph is
//     enforced by a state machine, so no consumer can produce an illegal
//     status change.
//   - Every status change updates the credential Store and the BearerSource
//     inside the same controller call. Requests in flight keep the header
//     they started with; the next request picks up the change.
//
// Event sinks:
//   - EventSink is a best-effort emitter the controller uses to announce
//     notification and navigation side effects (signed in, signed out,
//     session expired, navigate to login). Sink errors are logged, never
//     propagated into the transition that emitted them.
//
// Route gating:
//   - Decide maps a session status to what the UI may render. It is pure;
//     consumers re-evaluate it on every status change and must not sample
//     session state before bootstrap has resolved.
package authclient
