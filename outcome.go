package sessiongate

// OutcomeKind enumerates the closed set of results a credential check may
// produce. Collaborator I/O failures are not outcomes; they surface as errors.
type OutcomeKind string

const (
	// OutcomeSuccess means the account exists and the credential matched
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeNoSuchUser means no account matched the presented username
	OutcomeNoSuchUser OutcomeKind = "no-such-user"
	// OutcomeInvalidPassword means the account exists but the credential check failed
	OutcomeInvalidPassword OutcomeKind = "invalid-password"
)

// Reason is the human-readable fragment audit lines carry for failures.
func (k OutcomeKind) Reason() string {
	switch k {
	case OutcomeNoSuchUser:
		return "no such user"
	case OutcomeInvalidPassword:
		return "invalid password"
	default:
		return ""
	}
}

// Outcome is the classified result of a credential check. Account is set only
// when Kind is OutcomeSuccess. The no-such-user vs invalid-password
// distinction is preserved end to end so downstream logging and UI can report
// the precise reason.
type Outcome struct {
	Kind    OutcomeKind
	Account *Account
}

// Success reports whether the credential check passed.
func (o Outcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

// Reason delegates to the outcome kind.
func (o Outcome) Reason() string {
	return o.Kind.Reason()
}
