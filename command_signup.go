package sessiongate

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SignupMessage carries field-validated signup input into account creation.
type SignupMessage struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	UseHashid bool
}

func (e SignupMessage) Type() string { return "account.signup" }

// SignupHandler provisions accounts for validated signup requests. The
// duplicate-username check and the insert run in one transaction; session
// establishment is the caller's move once Execute returns the created
// account, never before.
type SignupHandler struct {
	repo   RepositoryManager
	hasher PasswordAuthenticator
}

// NewSignupHandler returns a handler over the repository manager.
func NewSignupHandler(repo RepositoryManager) *SignupHandler {
	return &SignupHandler{repo: repo, hasher: BcryptAuthenticator{}}
}

// WithPasswordAuthenticator swaps the hashing capability.
func (h *SignupHandler) WithPasswordAuthenticator(hasher PasswordAuthenticator) *SignupHandler {
	h.hasher = hasher
	return h
}

// Execute creates the account. ErrDuplicateUsername reports a taken username
// and is an expected, user-facing condition; everything else is a system
// failure for the generic error path.
func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) (*Account, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
	}

	account := &Account{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := h.repo.Accounts().FindByUsernameTx(ctx, tx, event.Username)
		if err != nil && !errors.Is(err, ErrAccountNotFound) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "username lookup failed during signup")
		}
		if existing != nil {
			return ErrDuplicateUsername
		}

		hash, err := h.hasher.HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.Username = event.Username
		account.FirstName = event.FirstName
		account.LastName = event.LastName
		account.Email = event.Email
		account.PasswordHash = hash
		account.Role = RoleStandard

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Username); err == nil {
				account.ID = id
			}
		}
		if account.ID == uuid.Nil {
			account.ID = uuid.New()
		}

		if account, err = h.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	return account, nil
}
