package sessiongate

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// AuditEvent captures a single login attempt for the append-only trail.
type AuditEvent struct {
	OccurredAt time.Time
	Username   string
	Outcome    OutcomeKind
	SourceAddr string
}

// Line renders the event as one newline-terminated record in the format
// external log watchers match on:
//
//	<ISO-8601> - <Failed|Successful> login[: <reason>] for user '<name>' from IP <addr>
func (e AuditEvent) Line() string {
	status := "Successful"
	reason := ""
	if e.Outcome != OutcomeSuccess {
		status = "Failed"
		reason = ": " + e.Outcome.Reason()
	}

	return fmt.Sprintf(
		"%s - %s login%s for user '%s' from IP %s\n",
		e.OccurredAt.UTC().Format(time.RFC3339),
		status,
		reason,
		e.Username,
		e.SourceAddr,
	)
}

// AuditRecorder consumes login-attempt events for the security audit trail.
// Recorders run best-effort from the caller's point of view: an authentication
// decision already made must be honored even when the sink write fails.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditRecorderFunc adapts a function to the AuditRecorder interface.
type AuditRecorderFunc func(ctx context.Context, event AuditEvent) error

// Record implements AuditRecorder.
func (f AuditRecorderFunc) Record(ctx context.Context, event AuditEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEvent) error {
	return nil
}

func normalizeAuditRecorder(r AuditRecorder) AuditRecorder {
	if r == nil {
		return noopAuditRecorder{}
	}
	return r
}

// FileAuditLog appends one line per event to a durable destination and mirrors
// the same line to a diagnostic stream for operational visibility. The
// destination handle is owned exclusively by this value for the lifetime of
// the process; it is never rotated or reopened mid-request.
type FileAuditLog struct {
	mu     sync.Mutex
	dst    io.Writer
	mirror io.Writer
	closer io.Closer
}

var _ AuditRecorder = (*FileAuditLog)(nil)

// OpenFileAuditLog opens path in append mode and mirrors lines to stderr.
// Call Close on process shutdown.
func OpenFileAuditLog(path string) (*FileAuditLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to open audit log")
	}

	return &FileAuditLog{dst: f, mirror: os.Stderr, closer: f}, nil
}

// NewAuditLog writes events to the given destination with no mirror. Use it
// to direct the trail at an in-memory sink.
func NewAuditLog(dst io.Writer) *FileAuditLog {
	return &FileAuditLog{dst: dst}
}

// WithMirror sets the diagnostic stream that echoes every line.
func (l *FileAuditLog) WithMirror(w io.Writer) *FileAuditLog {
	l.mirror = w
	return l
}

// Record appends the event line. The whole line goes out under one lock so
// concurrent requests never interleave partial lines; records land in the
// order Record is invoked.
func (l *FileAuditLog) Record(_ context.Context, event AuditEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	line := event.Line()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mirror != nil {
		fmt.Fprint(l.mirror, line)
	}

	if _, err := io.WriteString(l.dst, line); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "audit log append failed")
	}

	return nil
}

// Close releases the destination handle if this log owns one.
func (l *FileAuditLog) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
