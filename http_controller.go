package sessiongate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// SessionControllerRoutes holds the paths the controller mounts and
// redirects between.
type SessionControllerRoutes struct {
	Login     string
	Logout    string
	Signup    string
	Dashboard string
	Benefits  string
	Home      string
}

// SessionControllerViews holds the template names the controller renders.
type SessionControllerViews struct {
	Login     string
	Signup    string
	Dashboard string
}

// SessionController drives the login, logout, and signup flows over the auth
// core. Field validation runs first (signup only), then the credential
// validator consults the account store, the outcome lands in the audit trail
// before the response goes out, and on success the session manager
// regenerates the identifier and binds the account.
type SessionController struct {
	Debug       bool
	Logger      Logger
	Routes      *SessionControllerRoutes
	Views       *SessionControllerViews
	Accounts    AccountStore
	Validator   *CredentialValidator
	Sessions    *SessionManager
	Audit       AuditRecorder
	Signup      *SignupHandler
	Provisioner *AllocationProvisioner
}

// SessionControllerOption mutates the controller during construction.
type SessionControllerOption func(*SessionController) *SessionController

// NewSessionController builds the controller, panicking on missing
// collaborators the flows cannot run without.
func NewSessionController(opts ...SessionControllerOption) *SessionController {
	c := &SessionController{
		Logger: defLogger{},
		Routes: &SessionControllerRoutes{
			Login:     "/login",
			Logout:    "/logout",
			Signup:    "/signup",
			Dashboard: "/dashboard",
			Benefits:  "/benefits",
			Home:      "/",
		},
		Views: &SessionControllerViews{
			Login:     "login",
			Signup:    "signup",
			Dashboard: "dashboard",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Accounts == nil {
		panic("Missing AccountStore in session controller...")
	}

	if c.Validator == nil {
		c.Validator = NewCredentialValidator(c.Accounts).WithLogger(c.Logger)
	}

	if c.Sessions == nil {
		panic("Missing SessionManager in session controller...")
	}

	if c.Signup == nil {
		panic("Missing SignupHandler in session controller...")
	}

	return c
}

// RegisterSessionRoutes mounts the session flows plus the guarded dashboard.
func RegisterSessionRoutes(app *fiber.App, controller *SessionController, gate *Gate) {
	app.Get(controller.Routes.Login, controller.LoginShow)
	app.Post(controller.Routes.Login, controller.LoginPost)

	app.Get(controller.Routes.Logout, controller.LogOut)

	app.Get(controller.Routes.Signup, controller.SignupShow)
	app.Post(controller.Routes.Signup, controller.SignupPost)

	app.Get(controller.Routes.Dashboard, gate.RequireAuthenticated(), controller.DashboardShow)
}

// LoginShow renders the login entry point.
func (a *SessionController) LoginShow(c *fiber.Ctx) error {
	return c.Render(a.Views.Login, fiber.Map{
		"userName":   "",
		"password":   "",
		"loginError": "",
	})
}

// LoginRequest payload. Login accepts arbitrary strings: rejection happens
// against the store, never against field policy, so nothing about the rules
// leaks before authentication.
type LoginRequest struct {
	Username string `form:"userName" json:"userName"`
	Password string `form:"password" json:"password"`
}

// LoginPost validates the presented credential, records the attempt, and on
// success rotates the session identifier before binding the account.
func (a *SessionController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse login form")
	}

	addr := clientAddr(c)

	outcome, err := a.Validator.Validate(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("login credential lookup error", "error", err)
		return err
	}

	// the attempt is committed to the trail before any response is finalized
	a.record(c, AuditEvent{
		Username:   payload.Username,
		Outcome:    outcome.Kind,
		SourceAddr: addr,
	})

	switch outcome.Kind {
	case OutcomeNoSuchUser:
		return c.Render(a.Views.Login, fiber.Map{
			"userName":   payload.Username,
			"password":   "",
			"loginError": "Invalid username",
		})
	case OutcomeInvalidPassword:
		return c.Render(a.Views.Login, fiber.Map{
			"userName":   payload.Username,
			"password":   "",
			"loginError": "Invalid password",
		})
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(fiber.Map{
			"login":   payload.Username,
			"outcome": outcome.Kind,
		}))
	}

	session, err := a.establish(c, outcome.Account.ID)
	if err != nil {
		return err
	}
	a.setSessionCookie(c, session)

	if outcome.Account.IsAdmin() {
		return c.Redirect(a.Routes.Benefits, fiber.StatusSeeOther)
	}
	return c.Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
}

// LogOut destroys the session; the old identifier resolves to anonymous on
// every subsequent request.
func (a *SessionController) LogOut(c *fiber.Ctx) error {
	session, err := a.Sessions.Peek(c.UserContext(), c.Cookies(SessionCookieName))
	if err != nil {
		return err
	}

	if err := a.Sessions.Destroy(c.UserContext(), session); err != nil {
		a.Logger.Error("session destroy error", "error", err)
	}

	a.clearSessionCookie(c)
	return c.Redirect(a.Routes.Home, fiber.StatusSeeOther)
}

// SignupShow renders the signup form.
func (a *SessionController) SignupShow(c *fiber.Ctx) error {
	return c.Render(a.Views.Signup, fiber.Map{
		"userName": "",
		"email":    "",
		"errors":   map[string]string{},
	})
}

// SignupPost runs field validation, provisions the account, and establishes
// the session only after creation is confirmed. The allocation split is
// seeded out of band and never gates the authenticated response.
func (a *SessionController) SignupPost(c *fiber.Ctx) error {
	payload := new(SignupPayload)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse signup form")
	}

	ok, fieldErrors := payload.Validate()
	if !ok {
		a.Logger.Info("signup payload did not validate", "errors", fieldErrors)
		return a.renderSignup(c, payload, fieldErrors)
	}

	account, err := a.Signup.Execute(c.UserContext(), SignupMessage{
		Username:  payload.Username,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Password:  payload.Password,
		Email:     payload.Email,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			fieldErrors["userName"] = msgDuplicateUser
			return a.renderSignup(c, payload, fieldErrors)
		}
		a.Logger.Error("signup account creation error", "error", err)
		return err
	}

	if a.Provisioner != nil {
		a.Provisioner.ProvisionAsync(c.UserContext(), account.ID)
	}

	session, err := a.establish(c, account.ID)
	if err != nil {
		return err
	}
	a.setSessionCookie(c, session)

	return c.Redirect(a.Routes.Dashboard, fiber.StatusSeeOther)
}

// DashboardShow renders the landing page for an authenticated session.
func (a *SessionController) DashboardShow(c *fiber.Ctx) error {
	session, ok := SessionFromContext(c)
	if !ok || !session.Authenticated() {
		return c.Redirect(a.Routes.Login, fiber.StatusFound)
	}

	account, err := a.Accounts.FindByID(c.UserContext(), session.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return c.Redirect(a.Routes.Login, fiber.StatusFound)
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup failed for dashboard")
	}

	return c.Render(a.Views.Dashboard, fiber.Map{
		"userId":    account.ID.String(),
		"userName":  account.Username,
		"firstName": account.FirstName,
		"lastName":  account.LastName,
		"isAdmin":   account.IsAdmin(),
	})
}

func (a *SessionController) renderSignup(c *fiber.Ctx, payload *SignupPayload, fieldErrors map[string]string) error {
	return c.Render(a.Views.Signup, fiber.Map{
		"userName": payload.Username,
		"email":    payload.Email,
		"errors":   fieldErrors,
	})
}

// establish rotates the presented session (or mints one when the client has
// none) and binds the account to the fresh identifier.
func (a *SessionController) establish(c *fiber.Ctx, accountID uuid.UUID) (*Session, error) {
	current, err := a.Sessions.Peek(c.UserContext(), c.Cookies(SessionCookieName))
	if err != nil {
		return nil, err
	}

	return a.Sessions.Establish(c.UserContext(), current, accountID)
}

// record commits the event to the audit trail. Audit intent is independent of
// response delivery: the write runs on an uncancellable context so a client
// disconnect cannot drop an already-issued record. Sink failures reach
// diagnostics only, never the user.
func (a *SessionController) record(c *fiber.Ctx, event AuditEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	recorder := normalizeAuditRecorder(a.Audit)
	if err := recorder.Record(context.WithoutCancel(c.UserContext()), event); err != nil {
		a.Logger.Error("audit record error", "error", err)
	}
}

func (a *SessionController) setSessionCookie(c *fiber.Ctx, session *Session) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *SessionController) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func clientAddr(c *fiber.Ctx) string {
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "UNKNOWN_IP"
}
