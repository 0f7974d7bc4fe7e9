package sessiongate

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// CredentialValidator classifies login attempts against the account store.
// It owns no state and produces no side effects; callers are responsible for
// reporting the outcome to an AuditRecorder.
type CredentialValidator struct {
	store  AccountStore
	hasher PasswordAuthenticator
	logger Logger
}

// NewCredentialValidator returns a validator backed by the given store.
func NewCredentialValidator(store AccountStore) *CredentialValidator {
	return &CredentialValidator{
		store:  store,
		hasher: BcryptAuthenticator{},
		logger: defLogger{},
	}
}

func (v *CredentialValidator) WithLogger(logger Logger) *CredentialValidator {
	v.logger = logger
	return v
}

// WithPasswordAuthenticator swaps the credential verification capability.
func (v *CredentialValidator) WithPasswordAuthenticator(hasher PasswordAuthenticator) *CredentialValidator {
	v.hasher = hasher
	return v
}

// Validate looks up the account by username and checks the presented
// credential. Username and password are accepted as-is; login must reject
// before revealing field policy, so no input rules apply here.
//
// A store I/O failure is not an outcome: it comes back as a wrapped error and
// the request fails through the generic error path, unretried.
func (v *CredentialValidator) Validate(ctx context.Context, username, password string) (Outcome, error) {
	account, err := v.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Outcome{Kind: OutcomeNoSuchUser}, nil
		}
		return Outcome{}, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup failed during login")
	}

	if account == nil {
		return Outcome{Kind: OutcomeNoSuchUser}, nil
	}

	if err := v.hasher.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return Outcome{Kind: OutcomeInvalidPassword}, nil
		}
		return Outcome{}, goerrors.Wrap(err, goerrors.CategoryInternal, "credential check failed")
	}

	return Outcome{Kind: OutcomeSuccess, Account: account}, nil
}
