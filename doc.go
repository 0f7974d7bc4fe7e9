// Package sessiongate implements the authentication and session lifecycle
// subsystem of a multi-user portfolio web application: credential
// validation, cookie-backed sessions with identifier regeneration, signup
// field validation with account provisioning, and an append-only audit
// trail of login attempts suitable for fail2ban-style log watchers.
//
// Sessions:
//   - Session identity lives server side, keyed by an opaque identifier the
//     client presents in a cookie. SessionManager owns the anonymous ->
//     authenticated -> destroyed transitions and regenerates the identifier
//     the moment a session gains an account binding, closing the
//     session-fixation window between identifier issuance and privilege
//     elevation.
//
// Audit trail:
//   - AuditRecorder is a light-weight sink every login-attempt path reports
//     to. FileAuditLog appends one human-readable line per event to a handle
//     opened once at process start, mirroring each line to a diagnostic
//     stream. Recording runs best-effort (errors are logged) so a sink
//     failure can never veto an authentication decision already made.
//
// Access control:
//   - Gate exposes the request-level guards. RequireAuthenticated consults
//     stored session state only; RequireAdministrator re-reads the account
//     on every request so a role revocation takes effect immediately.
package sessiongate
