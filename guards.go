package sessiongate

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// SessionContextKey is the Locals key under which guards stash the session.
const SessionContextKey = "sessiongate:session"

// SessionCookieName is the cookie carrying the opaque session identifier.
const SessionCookieName = "session_id"

// Gate exposes the request-level access control guards. Guards are read-only
// consumers of session state: they never create, mutate, or destroy sessions.
type Gate struct {
	sessions  *SessionManager
	accounts  AccountStore
	logger    Logger
	loginPath string
}

// NewGate builds a gate over the session manager and account store.
func NewGate(sessions *SessionManager, accounts AccountStore) *Gate {
	return &Gate{
		sessions:  sessions,
		accounts:  accounts,
		logger:    defLogger{},
		loginPath: "/login",
	}
}

func (g *Gate) WithLogger(logger Logger) *Gate {
	g.logger = logger
	return g
}

// WithLoginPath overrides the redirect target for rejected requests.
func (g *Gate) WithLoginPath(path string) *Gate {
	g.loginPath = path
	return g
}

// RequireAuthenticated passes the request through only when the presented
// identifier resolves to an authenticated session.
func (g *Gate) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := g.sessions.Peek(c.UserContext(), c.Cookies(SessionCookieName))
		if err != nil {
			return err
		}

		if !session.Authenticated() {
			g.logger.Info("redirecting to login", "path", c.Path())
			return c.Redirect(g.loginPath, fiber.StatusFound)
		}

		c.Locals(SessionContextKey, session)
		return c.Next()
	}
}

// RequireAdministrator passes the request through only for authenticated
// sessions whose account carries the administrator role. The account is
// re-read on every invocation, never cached, so a role revocation takes
// effect on the next request.
func (g *Gate) RequireAdministrator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := g.sessions.Peek(c.UserContext(), c.Cookies(SessionCookieName))
		if err != nil {
			return err
		}

		if !session.Authenticated() {
			g.logger.Info("redirecting to login", "path", c.Path())
			return c.Redirect(g.loginPath, fiber.StatusFound)
		}

		account, err := g.accounts.FindByID(c.UserContext(), session.AccountID)
		if err != nil && !errors.Is(err, ErrAccountNotFound) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup failed in admin guard")
		}

		if !account.IsAdmin() {
			g.logger.Info("redirecting to login", "path", c.Path(), "account_id", session.AccountID)
			return c.Redirect(g.loginPath, fiber.StatusFound)
		}

		c.Locals(SessionContextKey, session)
		c.SetUserContext(WithAccount(c.UserContext(), account))
		return c.Next()
	}
}

// SessionFromContext returns the session a guard stored on the request.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	session, ok := c.Locals(SessionContextKey).(*Session)
	return session, ok && session != nil
}
