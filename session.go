package sessiongate

import (
	"context"
	"errors"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Session is the server-side authentication state bound to a client. A zero
// AccountID means the session is anonymous.
type Session struct {
	ID        string
	AccountID uuid.UUID
	IssuedAt  time.Time
}

// Authenticated reports whether the session carries an account binding.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccountID != uuid.Nil
}

// SessionStore holds session state keyed by the opaque client-presented
// identifier. Stores own their synchronization and expiry policy; the core
// only issues point operations and signals unknown identifiers with
// ErrSessionNotFound.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Create(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	// Regenerate issues a fresh identifier carrying the session's state and
	// invalidates the previous one.
	Regenerate(ctx context.Context, session *Session) (*Session, error)
	Destroy(ctx context.Context, id string) error
}

// SessionManager owns the anonymous -> authenticated -> destroyed transitions.
type SessionManager struct {
	store  SessionStore
	logger Logger
}

// NewSessionManager returns a manager over the given store.
func NewSessionManager(store SessionStore) *SessionManager {
	return &SessionManager{store: store, logger: defLogger{}}
}

func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	m.logger = logger
	return m
}

// Peek resolves a presented identifier without creating state. Unknown,
// expired, or destroyed identifiers come back as nil: they are anonymous,
// never authenticated.
func (m *SessionManager) Peek(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}

	session, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "session lookup failed")
	}

	return session, nil
}

// Establish promotes a session to authenticated. The identifier is
// regenerated before the account is bound, so the identifier issued while the
// session was anonymous can never name an authenticated session. A nil
// session (no prior state) gets a fresh one first.
func (m *SessionManager) Establish(ctx context.Context, session *Session, accountID uuid.UUID) (*Session, error) {
	if accountID == uuid.Nil {
		return nil, goerrors.New("cannot establish a session without an account", goerrors.CategoryAuth)
	}

	if session == nil {
		var err error
		if session, err = m.store.Create(ctx); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to create session")
		}
	}

	rotated, err := m.store.Regenerate(ctx, session)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "session regeneration failed")
	}

	rotated.AccountID = accountID
	if err := m.store.Save(ctx, rotated); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to persist session")
	}

	return rotated, nil
}

// Destroy ends the session. The old identifier resolves to anonymous on every
// subsequent request; there is no path back to authenticated without a new
// login.
func (m *SessionManager) Destroy(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return nil
	}

	if err := m.store.Destroy(ctx, session.ID); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "session destroy failed")
	}

	return nil
}

// MemorySessionStore is the in-process reference store. Deployments with
// session infrastructure of their own implement SessionStore against it; this
// one backs tests and single-node setups.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]*Session{}}
}

// Load implements SessionStore.
func (s *MemorySessionStore) Load(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	out := *session
	return &out, nil
}

// Create implements SessionStore.
func (s *MemorySessionStore) Create(_ context.Context) (*Session, error) {
	session := &Session{ID: uuid.NewString(), IssuedAt: time.Now()}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	out := *session
	return &out, nil
}

// Save implements SessionStore.
func (s *MemorySessionStore) Save(_ context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}

	out := *session
	s.sessions[session.ID] = &out
	return nil
}

// Regenerate implements SessionStore: the old identifier is removed in the
// same critical section that installs the new one.
func (s *MemorySessionStore) Regenerate(_ context.Context, session *Session) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rotated := &Session{ID: uuid.NewString(), IssuedAt: time.Now()}
	if session != nil {
		delete(s.sessions, session.ID)
		rotated.AccountID = session.AccountID
	}
	s.sessions[rotated.ID] = rotated

	out := *rotated
	return &out, nil
}

// Destroy implements SessionStore.
func (s *MemorySessionStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
