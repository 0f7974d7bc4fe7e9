package sessiongate_test

import (
	"context"
	"database/sql"
	"io"
	"sync"

	"github.com/gofiber/fiber/v2"
	sessiongate "github.com/goliatone/go-sessiongate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// memAccounts is an in-memory Accounts implementation. failWith, when set,
// makes every lookup fail so tests can drive the LookupFailed path.
type memAccounts struct {
	mu       sync.Mutex
	records  map[string]*sessiongate.Account
	failWith error
}

var _ sessiongate.Accounts = (*memAccounts)(nil)

func newMemAccounts(seed ...*sessiongate.Account) *memAccounts {
	s := &memAccounts{records: map[string]*sessiongate.Account{}}
	for _, account := range seed {
		s.records[account.Username] = account
	}
	return s
}

func (s *memAccounts) FindByUsername(_ context.Context, username string) (*sessiongate.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	account, ok := s.records[username]
	if !ok {
		return nil, sessiongate.ErrAccountNotFound
	}
	out := *account
	return &out, nil
}

func (s *memAccounts) FindByID(_ context.Context, id uuid.UUID) (*sessiongate.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	for _, account := range s.records {
		if account.ID == id {
			out := *account
			return &out, nil
		}
	}
	return nil, sessiongate.ErrAccountNotFound
}

func (s *memAccounts) Create(_ context.Context, account *sessiongate.Account) (*sessiongate.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	out := *account
	s.records[account.Username] = &out
	return account, nil
}

func (s *memAccounts) FindByUsernameTx(ctx context.Context, _ bun.IDB, username string) (*sessiongate.Account, error) {
	return s.FindByUsername(ctx, username)
}

func (s *memAccounts) FindByIDTx(ctx context.Context, _ bun.IDB, id uuid.UUID) (*sessiongate.Account, error) {
	return s.FindByID(ctx, id)
}

func (s *memAccounts) CreateTx(ctx context.Context, _ bun.IDB, account *sessiongate.Account) (*sessiongate.Account, error) {
	return s.Create(ctx, account)
}

func (s *memAccounts) setRole(username string, role sessiongate.AccountRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.records[username]; ok {
		account.Role = role
	}
}

// memAllocations records SetAllocations calls.
type memAllocations struct {
	mu       sync.Mutex
	calls    []allocationCall
	failWith error
}

type allocationCall struct {
	accountID            uuid.UUID
	stocks, funds, bonds int
}

var _ sessiongate.Allocations = (*memAllocations)(nil)

func (s *memAllocations) SetAllocations(_ context.Context, accountID uuid.UUID, stocks, funds, bonds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}

	s.calls = append(s.calls, allocationCall{accountID, stocks, funds, bonds})
	return nil
}

func (s *memAllocations) SetAllocationsTx(ctx context.Context, _ bun.IDB, accountID uuid.UUID, stocks, funds, bonds int) error {
	return s.SetAllocations(ctx, accountID, stocks, funds, bonds)
}

func (s *memAllocations) GetByAccount(context.Context, uuid.UUID) (*sessiongate.Allocation, error) {
	return nil, sessiongate.ErrAccountNotFound
}

func (s *memAllocations) recorded() []allocationCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]allocationCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// stubRepoManager satisfies RepositoryManager without a database: RunInTx
// invokes the function directly and the repositories ignore the tx handle.
type stubRepoManager struct {
	accounts    *memAccounts
	allocations *memAllocations
}

var _ sessiongate.RepositoryManager = (*stubRepoManager)(nil)

func newStubRepoManager() *stubRepoManager {
	return &stubRepoManager{
		accounts:    newMemAccounts(),
		allocations: &memAllocations{},
	}
}

func (m *stubRepoManager) Validate() error { return nil }

func (m *stubRepoManager) MustValidate() {}

func (m *stubRepoManager) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return f(ctx, bun.Tx{})
	}
}

func (m *stubRepoManager) Accounts() sessiongate.Accounts { return m.accounts }

func (m *stubRepoManager) Allocations() sessiongate.Allocations { return m.allocations }

// MockAllocationStore implements sessiongate.AllocationStore
type MockAllocationStore struct {
	mock.Mock
}

func (m *MockAllocationStore) SetAllocations(ctx context.Context, accountID uuid.UUID, stocks, funds, bonds int) error {
	args := m.Called(ctx, accountID, stocks, funds, bonds)
	return args.Error(0)
}

// plainPasswords verifies credentials by string equality; it keeps flows that
// do not exercise bcrypt itself out of the hashing cost.
type plainPasswords struct{}

var _ sessiongate.PasswordAuthenticator = plainPasswords{}

func (plainPasswords) HashPassword(password string) (string, error) {
	if password == "" {
		return "", sessiongate.ErrNoEmptyString
	}
	return "plain:" + password, nil
}

func (plainPasswords) ComparePasswordAndHash(password, hash string) error {
	if hash != "plain:"+password {
		return sessiongate.ErrMismatchedHashAndPassword
	}
	return nil
}

// stubViews is a fiber.Views engine that records what was rendered.
type stubViews struct {
	mu    sync.Mutex
	name  string
	binds []map[string]any
}

func (v *stubViews) Load() error { return nil }

func (v *stubViews) Render(w io.Writer, name string, bind any, _ ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.name = name
	switch m := bind.(type) {
	case fiber.Map:
		v.binds = append(v.binds, map[string]any(m))
	case map[string]any:
		v.binds = append(v.binds, m)
	}
	_, err := io.WriteString(w, name)
	return err
}

func (v *stubViews) lastRender() (string, map[string]any) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.binds) == 0 {
		return v.name, nil
	}
	return v.name, v.binds[len(v.binds)-1]
}
